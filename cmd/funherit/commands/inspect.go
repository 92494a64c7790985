package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/funvibe/funherit/internal/prettyprinter"
	"github.com/funvibe/funherit/internal/registry"
	"github.com/funvibe/funherit/internal/store"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <unit>",
	Short: "Render a unit's finalized registry",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := store.OpenSQL(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	unitID := args[0]
	reg, ok, err := st.Get(unitID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("unit %s is not in the store %s", unitID, cfg.Store)
	}
	printRegistry(reg)
	return nil
}

func printRegistry(reg *registry.Registry) {
	fmt.Printf("unit %s\n", cyan(reg.ID()))
	if reg.Base() != "" {
		fmt.Printf("  base: %s\n", cyan(reg.Base()))
	}

	if names := reg.FieldNames(); len(names) > 0 {
		fmt.Println("  fields:")
		for _, name := range names {
			def, _ := reg.FieldDefault(name)
			fmt.Printf("    %s: %s\n", green(name), prettyprinter.Print(def))
		}
	}

	keys := reg.Keys()
	if len(keys) > 0 {
		fmt.Println("  routines:")
		for _, key := range keys {
			rec, _ := reg.Lookup(key)
			marker := ""
			if rec.OverridePermitted {
				marker = " " + yellow("[overridable]")
			}
			if reg.IsPrivate(key) {
				marker += " " + dim("[private]")
			}
			fmt.Printf("    %s %s%s\n", green(key.String()), dim(rec.Origin.String()), marker)
			fmt.Printf("      %s\n", prettyprinter.PrintRoutine(key, rec))
		}
	}

	if withheld := sortedKeys(reg.WithheldKeys()); len(withheld) > 0 {
		fmt.Println("  withheld:")
		for _, key := range withheld {
			fmt.Printf("    %s\n", dim(key.String()))
		}
	}

	if deps := reg.Dependencies(); len(deps) > 0 {
		names := make([]string, 0, len(deps))
		for dep := range deps {
			names = append(names, dep)
		}
		sort.Strings(names)
		fmt.Println("  dependencies:")
		for _, dep := range names {
			fmt.Printf("    %s\n", cyan(dep))
		}
	}

	pre, post := reg.Hooks()
	if pre != nil {
		fmt.Printf("  pre-hook: %s\n", prettyprinter.Print(pre))
	}
	if post != nil {
		fmt.Printf("  post-hook: %s\n", prettyprinter.Print(post))
	}
}

func sortedKeys(set map[registry.Key]bool) []registry.Key {
	out := make([]registry.Key, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Arity < out[j].Arity
	})
	return out
}
