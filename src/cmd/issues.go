package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogovalentte/mangadex-talker/src/metadata"
	"github.com/diogovalentte/mangadex-talker/src/sources/models"
)

func newIssuesCmd() *cobra.Command {
	var issueNumber string

	cmd := &cobra.Command{
		Use:   "issues [series id]...",
		Short: "List the issues of one or more series",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTalker(func(talker models.Talker) error {
				var issues []metadata.GenericMetadata
				var err error

				if issueNumber != "" {
					issues, err = talker.FetchIssuesBySeriesIssueNumberAndYear(args, issueNumber, "")
				} else {
					if len(args) > 1 {
						return fmt.Errorf("multiple series ids require --number")
					}
					issues, err = talker.FetchIssuesInSeries(args[0])
				}
				if err != nil {
					return fmt.Errorf("failed to fetch issues: %w", err)
				}

				if len(issues) == 0 {
					cmd.Println("No issues found.")
					return nil
				}

				cmd.Printf("Issues (%d):\n", len(issues))
				for _, issue := range issues {
					printIssueLine(cmd, issue)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&issueNumber, "number", "", "Only issues with this issue number")

	return cmd
}

func newIssueCmd() *cobra.Command {
	var seriesID string
	var issueNumber string

	cmd := &cobra.Command{
		Use:   "issue [issue id]",
		Short: "Show a single issue, by issue id or by --series plus --number",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTalker(func(talker models.Talker) error {
				var issueID string
				if len(args) > 0 {
					issueID = args[0]
				}

				issue, err := talker.FetchComicData(issueID, seriesID, issueNumber)
				if err != nil {
					return fmt.Errorf("failed to fetch issue: %w", err)
				}

				if issue.IsEmpty {
					cmd.Println("No issue found.")
					return nil
				}

				printIssueLine(cmd, issue)
				if issue.Publisher != "" {
					cmd.Printf("  publisher: %s\n", issue.Publisher)
				}
				for _, credit := range issue.Credits {
					cmd.Printf("  %s: %s\n", credit.Role, credit.Person)
				}
				cmd.Printf("  link: %s\n", issue.WebLink)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&seriesID, "series", "", "Series id, used together with --number")
	cmd.Flags().StringVar(&issueNumber, "number", "", "Issue number, used together with --series")

	return cmd
}

func printIssueLine(cmd *cobra.Command, issue metadata.GenericMetadata) {
	title := issue.Title
	if title == "" && issue.Issue != "" {
		title = fmt.Sprintf("Ch. %s", issue.Issue)
	}
	cmd.Printf("  %s: #%s %s (%s)\n", issue.IssueID, issue.Issue, title, issue.Language)
}
