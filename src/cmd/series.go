package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogovalentte/mangadex-talker/src/sources/models"
)

func newSeriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "series [series id]",
		Short: "Show a single series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTalker(func(talker models.Talker) error {
				series, err := talker.FetchSeries(args[0])
				if err != nil {
					return fmt.Errorf("failed to fetch series: %w", err)
				}

				cmd.Printf("Name: %s\n", series.Name)
				if len(series.Aliases) > 0 {
					cmd.Printf("Aliases: %s\n", strings.Join(series.Aliases, ", "))
				}
				cmd.Printf("Issues: %s\n", formatCount(series.CountOfIssues))
				cmd.Printf("Volumes: %s\n", formatCount(series.CountOfVolumes))
				cmd.Printf("Start year: %s\n", formatCount(series.StartYear))
				if series.Format != "" {
					cmd.Printf("Format: %s\n", series.Format)
				}
				if series.ImageURL != "" {
					cmd.Printf("Cover: %s\n", series.ImageURL)
				}
				if series.Description != "" {
					cmd.Printf("Description: %s\n", series.Description)
				}
				return nil
			})
		},
	}
}
