package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var mapsCmd = &cobra.Command{
	Use:   "maps",
	Short: "List all available maps",
	Long: `Shows the built-in maps followed by custom maps found in
~/.zombies/maps (YAML or TMX files).`,
	Args: cobra.NoArgs,
	RunE: runMaps,
}

func runMaps(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger(cmd.ErrOrStderr(), "zombies")
	if err != nil {
		return err
	}
	catalog, err := loadCatalog(logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	maps := catalog.List()
	if len(maps) == 0 {
		fmt.Fprintln(out, "No maps available.")
		return nil
	}

	fmt.Fprintln(out, "Available maps:")
	fmt.Fprintln(out)

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, m := range maps {
		maxIDLen = max(maxIDLen, len(m.ID))
	}

	printRow := func(w io.Writer, key, id, title, zombies, source string) {
		fmt.Fprintf(w, "  %-3s  %-*s  %-20s  %7s  %s\n", key, maxIDLen, id, title, zombies, source)
	}
	printRow(out, "#", "ID", "Title", "Zombies", "Source")
	printRow(out, "-", "--", "-----", "-------", "------")

	for i, m := range maps {
		key := ""
		if i < catalog.Selectable() {
			key = fmt.Sprintf("%d", i+1)
		}
		source := "built-in"
		if !m.Builtin {
			source = "custom"
		}
		printRow(out, key, m.ID, m.Title, fmt.Sprintf("%d", m.Zombies), source)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Run 'zombies play <id>' to start on a map.")
	return nil
}
