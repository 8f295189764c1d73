package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dt-pm-tools/jira-report/internal/confluence"
	"github.com/dt-pm-tools/jira-report/internal/jira"
	"github.com/dt-pm-tools/jira-report/internal/llm"
	"github.com/dt-pm-tools/jira-report/internal/mailer"
	"github.com/dt-pm-tools/jira-report/internal/workflow"
)

var (
	runLimit       int
	runPlaceholder bool
	runEmailOut    string
	runSendEmail   bool
)

var runCmd = &cobra.Command{
	Use:   "run <filter-id>",
	Short: "Generate and publish a report for a JIRA filter",
	Long: `Fetches the issues matched by a saved JIRA filter, builds a summarized
report page, and publishes it to the Confluence location declared in the
filter's description YAML.

Use --placeholder to skip completion requests and publish with fixed stand-in
text, and --email-out / --send-email for an email-safe copy of the page.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		if runLimit < 0 {
			return fmt.Errorf("--limit must not be negative")
		}

		wf := newWorkflow()
		page, err := wf.Run(args[0], workflow.RunOptions{
			Limit:       runLimit,
			Placeholder: runPlaceholder,
			EmailOut:    runEmailOut,
			SendEmail:   runSendEmail,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Published page %s", page.ID)
		if url := page.URL(); url != "" {
			fmt.Printf(" at %s", url)
		}
		fmt.Println()
		return nil
	},
}

func newWorkflow() *workflow.Workflow {
	timeout := appConfig.Timeout()
	jiraClient := jira.NewClient(appConfig.Jira.URL, appConfig.Jira.Email, appConfig.Jira.Token, timeout, logger)
	llmClient := llm.NewClient(appConfig.LLM.BaseURL, appConfig.LLM.APIKey, llm.Options{
		Model:            appConfig.LLM.Model,
		Temperature:      appConfig.LLM.Temperature,
		TopP:             appConfig.LLM.TopP,
		FrequencyPenalty: appConfig.LLM.FrequencyPenalty,
		PresencePenalty:  appConfig.LLM.PresencePenalty,
	}, timeout, logger)
	confluenceClient := confluence.NewClient(appConfig.Confluence.URL, appConfig.Confluence.Email, appConfig.Confluence.Token, timeout, logger)

	return workflow.New(appConfig, jiraClient, llmClient, confluenceClient, mailer.New(appConfig.SMTP), logger)
}

func init() {
	runCmd.Flags().IntVar(&runLimit, "limit", 0, "maximum number of issues to process (0 = all)")
	runCmd.Flags().BoolVar(&runPlaceholder, "placeholder", false, "publish with placeholder text instead of completion output")
	runCmd.Flags().StringVar(&runEmailOut, "email-out", "", "write the email-safe HTML copy to this file")
	runCmd.Flags().BoolVar(&runSendEmail, "send-email", false, "send the email-safe copy through the configured SMTP relay")
	rootCmd.AddCommand(runCmd)
}
