package cmd

import (
	"flag"
	"fmt"
	"strings"

	"github.com/yassine-ta/credentialforge/internal/config"
	"github.com/yassine-ta/credentialforge/internal/credential"
	"github.com/yassine-ta/credentialforge/internal/synth"
)

func cmdTypes(args []string) error {
	fs := flag.NewFlagSet("types", flag.ExitOnError)
	patterns := fs.String("patterns", "", "Credential pattern database file (default: built-in)")
	fs.Parse(args)

	patternsPath := *patterns
	if patternsPath == "" {
		if settings, err := config.Load(); err == nil {
			patternsPath = settings.PatternsPath
		}
	}

	db := credential.DefaultDatabase()
	if patternsPath != "" {
		loaded, err := credential.LoadDatabase(patternsPath)
		if err != nil {
			return fmt.Errorf("loading pattern database: %w", err)
		}
		db = loaded
	}

	fmt.Println("Registered credential types:")
	for _, name := range db.Types() {
		entry, err := db.Describe(name)
		if err != nil {
			return err
		}
		fmt.Printf("  %-18s %s\n", name, entry.Description)
	}
	return nil
}

func cmdFormats(args []string) error {
	fs := flag.NewFlagSet("formats", flag.ExitOnError)
	fs.Parse(args)

	registry := synth.DefaultRegistry()
	fmt.Println("Supported formats:")
	for _, name := range synth.FormatNames() {
		s := registry[name]
		modes := make([]string, 0, len(s.Modes()))
		for _, m := range s.Modes() {
			modes = append(modes, string(m))
		}
		fmt.Printf("  %-6s %s\n", name, strings.Join(modes, ", "))
	}
	return nil
}
