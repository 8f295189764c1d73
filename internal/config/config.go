package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// JiraConfig holds JIRA connection settings.
type JiraConfig struct {
	URL   string `yaml:"url"   mapstructure:"url"`
	Email string `yaml:"email" mapstructure:"email"`
	Token string `yaml:"token" mapstructure:"token"`
}

// ConfluenceConfig holds Confluence connection settings. Empty fields fall
// back to the JIRA values (most instances share a site and credentials).
type ConfluenceConfig struct {
	URL   string `yaml:"url"   mapstructure:"url"`
	Email string `yaml:"email" mapstructure:"email"`
	Token string `yaml:"token" mapstructure:"token"`
}

// LLMConfig holds completion-endpoint settings.
type LLMConfig struct {
	BaseURL          string  `yaml:"base_url"          mapstructure:"base_url"`
	APIKey           string  `yaml:"api_key"           mapstructure:"api_key"`
	Model            string  `yaml:"model"             mapstructure:"model"`
	Temperature      float64 `yaml:"temperature"       mapstructure:"temperature"`
	TopP             float64 `yaml:"top_p"             mapstructure:"top_p"`
	FrequencyPenalty float64 `yaml:"frequency_penalty" mapstructure:"frequency_penalty"`
	PresencePenalty  float64 `yaml:"presence_penalty"  mapstructure:"presence_penalty"`
	RequestDelaySec  int     `yaml:"request_delay_seconds" mapstructure:"request_delay_seconds"`
}

// ReportConfig holds report-generation knobs.
type ReportConfig struct {
	LookbackHours int               `yaml:"lookback_hours" mapstructure:"lookback_hours"`
	IgnoreAuthors []string          `yaml:"ignore_authors" mapstructure:"ignore_authors"`
	LabelColors   map[string]string `yaml:"label_colors"   mapstructure:"label_colors"`
	Timezone      string            `yaml:"timezone"       mapstructure:"timezone"`
	FlagField     string            `yaml:"flag_field"     mapstructure:"flag_field"`
	ProductField  string            `yaml:"product_field"  mapstructure:"product_field"`
	CustomerField string            `yaml:"customer_field" mapstructure:"customer_field"`
	OutputDir     string            `yaml:"output_dir"     mapstructure:"output_dir"`
	ValidateHTML  bool              `yaml:"validate_html"  mapstructure:"validate_html"`
}

// SMTPConfig holds outbound email settings. Optional; the email command only
// needs it with --send.
type SMTPConfig struct {
	Host     string   `yaml:"host"     mapstructure:"host"`
	Port     int      `yaml:"port"     mapstructure:"port"`
	From     string   `yaml:"from"     mapstructure:"from"`
	To       []string `yaml:"to"       mapstructure:"to"`
	Username string   `yaml:"username" mapstructure:"username"`
	Password string   `yaml:"password" mapstructure:"password"`
}

// Config is the full application configuration.
type Config struct {
	Jira       JiraConfig       `yaml:"jira"       mapstructure:"jira"`
	Confluence ConfluenceConfig `yaml:"confluence" mapstructure:"confluence"`
	LLM        LLMConfig        `yaml:"llm"        mapstructure:"llm"`
	Report     ReportConfig     `yaml:"report"     mapstructure:"report"`
	SMTP       SMTPConfig       `yaml:"smtp"       mapstructure:"smtp"`

	TimeoutSec int `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// DefaultPath returns the default config file path (~/.jira-report.yaml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".jira-report.yaml"
	}
	return filepath.Join(home, ".jira-report.yaml")
}

// Load reads config from the YAML file and applies env var overrides.
// configPath may be empty to use the default path.
func Load(configPath string) (Config, error) {
	v := viper.New()

	if configPath == "" {
		configPath = DefaultPath()
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Env var overrides
	v.BindEnv("jira.url", "JIRA_URL")
	v.BindEnv("jira.email", "JIRA_EMAIL")
	v.BindEnv("jira.token", "JIRA_TOKEN")
	v.BindEnv("confluence.url", "CONFLUENCE_URL")
	v.BindEnv("confluence.email", "CONFLUENCE_EMAIL")
	v.BindEnv("confluence.token", "CONFLUENCE_TOKEN")
	v.BindEnv("llm.base_url", "LLM_BASE_URL")
	v.BindEnv("llm.api_key", "LLM_API_KEY")
	v.BindEnv("llm.model", "LLM_MODEL")

	v.SetDefault("llm.model", "gpt-3.5-turbo")
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.top_p", 0.9)
	v.SetDefault("llm.frequency_penalty", 0.0)
	v.SetDefault("llm.presence_penalty", 0.1)
	v.SetDefault("llm.request_delay_seconds", 0)
	v.SetDefault("report.lookback_hours", 24)
	v.SetDefault("report.timezone", "America/Los_Angeles")
	v.SetDefault("report.flag_field", "customfield_10021")
	v.SetDefault("report.output_dir", "output")
	v.SetDefault("report.validate_html", true)
	v.SetDefault("smtp.port", 587)
	v.SetDefault("timeout_seconds", 30)

	// Read the config file (ignore "not found" errors so env vars still work)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Confluence defaults to the JIRA site and credentials
	if cfg.Confluence.URL == "" {
		cfg.Confluence.URL = cfg.Jira.URL
	}
	if cfg.Confluence.Email == "" {
		cfg.Confluence.Email = cfg.Jira.Email
	}
	if cfg.Confluence.Token == "" {
		cfg.Confluence.Token = cfg.Jira.Token
	}

	return cfg, nil
}

// Validate checks that required fields are present.
func (c Config) Validate() error {
	if c.Jira.URL == "" {
		return fmt.Errorf("JIRA URL is required (set in config file or JIRA_URL env var)")
	}
	if c.Jira.Email == "" {
		return fmt.Errorf("JIRA email is required (set in config file or JIRA_EMAIL env var)")
	}
	if c.Jira.Token == "" {
		return fmt.Errorf("JIRA token is required (set in config file or JIRA_TOKEN env var)")
	}
	if c.LLM.BaseURL == "" {
		return fmt.Errorf("LLM base URL is required (set in config file or LLM_BASE_URL env var)")
	}
	return nil
}

// Timeout returns the HTTP request timeout as a duration.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSec) * time.Second
}

// Location resolves the configured report timezone, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Report.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Save writes the config to the given path (or default path if empty).
func Save(cfg Config, configPath string) error {
	if configPath == "" {
		configPath = DefaultPath()
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
