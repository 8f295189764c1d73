package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// FilterConfluence is the publish destination declared by a filter.
type FilterConfluence struct {
	SpaceKey     string `yaml:"space_key"`
	ParentPageID int    `yaml:"parent_page_id"`
	PageName     string `yaml:"page_name"`
}

// FilterLLM is the per-filter prompt configuration.
type FilterLLM struct {
	Prompt string `yaml:"prompt"`
	Model  string `yaml:"model"`
}

// FilterConfig is parsed out of a JIRA filter's description field, which by
// convention holds a YAML document describing where the report goes and what
// the completion prompt is.
type FilterConfig struct {
	Confluence FilterConfluence `yaml:"confluence"`
	LLM        FilterLLM        `yaml:"llm"`
}

// ParseFilterDescription parses the filter description YAML. defaultModel is
// used when the filter does not pin a model.
func ParseFilterDescription(description, defaultModel string) (FilterConfig, error) {
	var cfg FilterConfig

	if strings.TrimSpace(description) == "" {
		return cfg, fmt.Errorf("filter description is empty; expected YAML configuration")
	}

	if err := yaml.Unmarshal([]byte(description), &cfg); err != nil {
		return cfg, fmt.Errorf("parsing filter description as YAML: %w", err)
	}

	if cfg.Confluence.SpaceKey == "" {
		return cfg, fmt.Errorf("filter YAML must set confluence.space_key")
	}
	if cfg.Confluence.ParentPageID == 0 {
		return cfg, fmt.Errorf("filter YAML must set confluence.parent_page_id")
	}
	if cfg.Confluence.PageName == "" {
		return cfg, fmt.Errorf("filter YAML must set confluence.page_name")
	}
	if strings.TrimSpace(cfg.LLM.Prompt) == "" {
		return cfg, fmt.Errorf("filter YAML must set llm.prompt")
	}

	cfg.LLM.Prompt = strings.TrimSpace(cfg.LLM.Prompt)
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = defaultModel
	}

	return cfg, nil
}
