// Package cmd implements the command line interface of the talker.
// It exposes the talker operations (search, series, issues, issue,
// ping) for use from a terminal.
package cmd

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/diogovalentte/mangadex-talker/src/config"
	"github.com/diogovalentte/mangadex-talker/src/util"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "mangadex-talker",
		Short: "Query series and issue metadata from the MangaDex catalog",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.SetConfigs(envFile); err != nil {
				return err
			}

			util.GetLogger(zerolog.Level(config.GlobalConfigs.LogLevelInt))

			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Path of a .env file with the configurations")

	cmd.AddCommand(
		newSearchCmd(),
		newSeriesCmd(),
		newIssuesCmd(),
		newIssueCmd(),
		newPingCmd(),
	)

	return cmd
}
