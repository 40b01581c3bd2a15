package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogovalentte/mangadex-talker/src/sources/models"
)

func newSearchCmd() *cobra.Command {
	var refreshCache bool
	var literal bool
	var matchThreshold int

	cmd := &cobra.Command{
		Use:   "search [series name]",
		Short: "Search for series by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTalker(func(talker models.Talker) error {
				progress := func(itemsSoFar, totalCapped int) {
					cmd.Printf("fetched %d of %d results\n", itemsSoFar, totalCapped)
				}

				results, err := talker.SearchForSeries(args[0], progress, refreshCache, literal, matchThreshold)
				if err != nil {
					return fmt.Errorf("failed to search series: %w", err)
				}

				if len(results) == 0 {
					cmd.Println("No series found.")
					return nil
				}

				cmd.Printf("Series (%d):\n", len(results))
				for _, series := range results {
					cmd.Printf("  %s: %s (issues: %s, volumes: %s)\n", series.ID, series.Name, formatCount(series.CountOfIssues), formatCount(series.CountOfVolumes))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&refreshCache, "refresh-cache", false, "Bypass the cache and fetch fresh results")
	cmd.Flags().BoolVar(&literal, "literal", false, "Search for the exact name, without sanitizing or early exit")
	cmd.Flags().IntVar(&matchThreshold, "match-threshold", 90, "Title similarity threshold (0-100) for the pagination early exit")

	return cmd
}
