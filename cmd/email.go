package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dt-pm-tools/jira-report/internal/mailer"
	"github.com/dt-pm-tools/jira-report/internal/render"
)

var (
	emailPageURL string
	emailOutput  string
	emailSend    bool
	emailSubject string
)

var emailCmd = &cobra.Command{
	Use:   "email <file>",
	Short: "Convert a storage or exported HTML file into email-safe HTML",
	Long: `Runs the email adapter over a saved Confluence storage-format body or an
exported HTML document: macros become plain styled tags, colors and borders
are inlined, and navigation elements are removed. Writes to stdout by
default, or to a file with --output.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading input file: %w", err)
		}

		emailHTML, err := render.AdaptEmail(string(input), emailPageURL)
		if err != nil {
			return fmt.Errorf("adapting HTML: %w", err)
		}

		if emailOutput != "" {
			if err := os.WriteFile(emailOutput, []byte(emailHTML), 0644); err != nil {
				return fmt.Errorf("writing output file: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Written to %s\n", emailOutput)
		} else if !emailSend {
			fmt.Print(emailHTML)
		}

		if emailSend {
			if err := loadConfig(); err != nil {
				return err
			}
			if err := mailer.New(appConfig.SMTP).Send(emailSubject, emailHTML); err != nil {
				return err
			}
			fmt.Fprintln(os.Stderr, "Email sent")
		}
		return nil
	},
}

func init() {
	emailCmd.Flags().StringVar(&emailPageURL, "page-url", "", "published page URL for the leading link")
	emailCmd.Flags().StringVarP(&emailOutput, "output", "o", "", "write email HTML to this file instead of stdout")
	emailCmd.Flags().BoolVar(&emailSend, "send", false, "send the result through the configured SMTP relay")
	emailCmd.Flags().StringVar(&emailSubject, "subject", "JIRA filter report", "email subject when sending")
	rootCmd.AddCommand(emailCmd)
}
