// Package commands implements the funherit CLI. The resolution pass itself
// has no command surface; these commands are read-only tooling over a
// finalized registry store.
package commands

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/funvibe/funherit/internal/config"
)

var (
	configPath string
	storePath  string
)

var rootCmd = &cobra.Command{
	Use:   "funherit",
	Short: "Inspect finalized declaration registries",
	Long: `funherit is the tooling surface of the declaration inheritance system.

It reads the registry store a build has published and renders unit
registries: routines with their origin (native, copied, delegated),
override permissions, withheld keys, field defaults and dependencies.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to funherit.yaml")
	rootCmd.PersistentFlags().StringVarP(&storePath, "store", "s", "", "Registry store path (overrides the manifest)")
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the CLI.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// loadConfig resolves the effective configuration from flags and manifest.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if storePath != "" {
		cfg.Store = storePath
	}
	return cfg, nil
}

// Color helpers. Disabled when stdout is not a terminal.

var colorEnabled = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

func green(s string) string  { return colorize("32", s) }
func yellow(s string) string { return colorize("33", s) }
func cyan(s string) string   { return colorize("36", s) }
func dim(s string) string    { return colorize("2", s) }

func colorize(code, s string) string {
	if !colorEnabled {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}
