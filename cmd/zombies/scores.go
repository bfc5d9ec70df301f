package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-zombies/internal/platform/tui"
	"github.com/vovakirdan/tui-zombies/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [map]",
	Short: "Show the best runs",
	Long: `Display the best runs, wins first, then by kills and time. With a map
ID only that map is listed, followed by its totals.

Examples:
  zombies scores
  zombies scores level1
  zombies scores level1 --limit 20
  zombies scores level1 --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the recorded runs instead of showing them")
}

func runScores(cmd *cobra.Command, args []string) error {
	mapID := ""
	if len(args) == 1 {
		mapID = args[0]
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening results database: %w", err)
	}
	defer store.Close()

	out := cmd.OutOrStdout()

	if flagScoresClear {
		if err := store.ClearResults(mapID); err != nil {
			return fmt.Errorf("clearing results: %w", err)
		}
		fmt.Fprintln(out, "Results cleared.")
		return nil
	}

	results, err := store.TopResults(mapID, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieving results: %w", err)
	}

	if mapID == "" {
		fmt.Fprintln(out, "Best runs - all maps")
	} else {
		fmt.Fprintf(out, "Best runs - %s\n", mapID)
	}
	fmt.Fprintln(out)

	if len(results) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Play 'zombies play' to set the first one!")
		return nil
	}

	// Print header
	format := "  %-4s  %-12s  %-6s  %5s  %6s  %-10s  %s\n"
	fmt.Fprintf(out, format, "Rank", "Map", "Result", "Kills", "Time", "Player", "Date")
	fmt.Fprintf(out, format, "----", "---", "------", "-----", "----", "------", "----")

	for _, row := range tui.ResultRows(results) {
		fmt.Fprintf(out, format, row[0], row[1], row[2], row[3], row[4], row[5], row[6])
	}

	if mapID == "" {
		return nil
	}

	stats, err := store.GetMapStats(mapID)
	if err != nil {
		return fmt.Errorf("retrieving map stats: %w", err)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Games: %d  Wins: %d  Kills: %d  Best: %d", stats.Games, stats.Wins, stats.TotalKills, stats.BestKills)
	if stats.Wins > 0 {
		fmt.Fprintf(out, "  Fastest win: %s", stats.FastestWin.Round(time.Second))
	}
	fmt.Fprintln(out)
	return nil
}
