package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-bobble/internal/games/bobble/levels"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List campaign levels",
	Long: `Shows the campaign levels in play order: the bundled levels plus any
found in --levels-dir (or ~/.bobble/levels). A user level with the same
ID as a bundled one replaces it.`,
	Args: cobra.NoArgs,
	RunE: runLevels,
}

func init() {
	levelsCmd.Flags().StringVar(&flagLevelsDir, "levels-dir", "", "Extra level directory (default ~/.bobble/levels)")
}

func runLevels(cmd *cobra.Command, args []string) error {
	lvls, err := levels.NewLoader(flagLevelsDir, log.Default()).LoadAll()
	if err != nil {
		return fmt.Errorf("loading levels: %w", err)
	}
	if len(lvls) == 0 {
		fmt.Println("No levels available.")
		return nil
	}

	// Calculate column widths
	maxIDLen, maxNameLen := 2, 4
	for _, l := range lvls {
		maxIDLen = max(maxIDLen, len(l.ID))
		maxNameLen = max(maxNameLen, len(l.Name))
	}

	fmt.Printf("  %-*s  %-*s  %4s  %6s  %s\n", maxIDLen, "ID", maxNameLen, "Name", "Rows", "Pieces", "Source")
	fmt.Printf("  %-*s  %-*s  %4s  %6s  %s\n", maxIDLen, "--", maxNameLen, "----", "----", "------", "------")
	for _, l := range lvls {
		rows, _ := l.Size()
		source := "bundled"
		if !l.Bundled {
			source = l.FilePath
		}
		fmt.Printf("  %-*s  %-*s  %4d  %6d  %s\n", maxIDLen, l.ID, maxNameLen, l.Name, rows, l.Pieces(), source)
	}

	fmt.Println()
	fmt.Println("Run 'bobble play --level <id>' to start at a level.")
	return nil
}
