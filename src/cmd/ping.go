package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogovalentte/mangadex-talker/src/sources/models"
)

func newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the API is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTalker(func(talker models.Talker) error {
				if err := talker.Ping(); err != nil {
					return fmt.Errorf("API access test failed: %w", err)
				}

				cmd.Println("The API access test was successful.")
				return nil
			})
		},
	}
}
