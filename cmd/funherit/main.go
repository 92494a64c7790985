package main

import (
	"os"

	"github.com/funvibe/funherit/cmd/funherit/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
