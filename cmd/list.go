package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listLimit int

var listCmd = &cobra.Command{
	Use:   "list <filter-id>",
	Short: "Fetch and print the issues matched by a JIRA filter",
	Long:  `Test mode: runs the filter and prints its issues without publishing anything.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}

		wf := newWorkflow()
		filter, issues, err := wf.Collect(args[0])
		if err != nil {
			return err
		}

		total := len(issues)
		if listLimit > 0 && listLimit < len(issues) {
			issues = issues[:listLimit]
			fmt.Printf("Filter %s (%s) returned %d issues; showing first %d:\n", filter.ID, filter.Name, total, len(issues))
		} else {
			fmt.Printf("Filter %s (%s) returned %d issues:\n", filter.ID, filter.Name, total)
		}

		for i := range issues {
			summary := issues[i].Fields.Summary
			if summary == "" {
				summary = "<no summary>"
			}
			fmt.Printf("- %s: %s\n", issues[i].Key, summary)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum number of issues to print (0 = all)")
	rootCmd.AddCommand(listCmd)
}
