package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dt-pm-tools/jira-report/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure JIRA and LLM connection settings",
	Long:  `Interactively set up the JIRA site, credentials, and completion endpoint. Settings are saved to ~/.jira-report.yaml; report tuning (lookback window, label colors, custom field IDs) is edited there directly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(os.Stdin)

		// Load existing config for defaults
		existing, _ := config.Load(cfgFile)

		existing.Jira.URL = promptLine(reader, "JIRA URL (e.g., https://your-org.atlassian.net)", existing.Jira.URL)
		existing.Jira.Email = promptLine(reader, "Email", existing.Jira.Email)

		token, err := promptSecret("JIRA API token")
		if err != nil {
			return err
		}
		if token != "" {
			existing.Jira.Token = token
		}

		existing.LLM.BaseURL = promptLine(reader, "LLM base URL", existing.LLM.BaseURL)
		apiKey, err := promptSecret("LLM API key")
		if err != nil {
			return err
		}
		if apiKey != "" {
			existing.LLM.APIKey = apiKey
		}
		existing.LLM.Model = promptLine(reader, "LLM model", existing.LLM.Model)

		if err := existing.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		path := cfgFile
		if path == "" {
			path = config.DefaultPath()
		}

		if err := config.Save(existing, path); err != nil {
			return err
		}

		fmt.Printf("Configuration saved to %s\n", path)
		return nil
	},
}

func promptLine(reader *bufio.Reader, label, fallback string) string {
	if fallback != "" {
		fmt.Printf("%s [%s]: ", label, fallback)
	} else {
		fmt.Printf("%s: ", label)
	}
	value, _ := reader.ReadString('\n')
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}

func promptSecret(label string) (string, error) {
	fmt.Printf("%s (input hidden): ", label)
	secret, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // newline after hidden input
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(string(secret)), nil
}

func init() {
	rootCmd.AddCommand(configCmd)
}
