package classify

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed rules/default.yaml
var defaultRules []byte

// RuleSpec maps raw strings matching Regex onto the canonical Name.
// Cruise marks rules allowed to claim strings that mention a cruise ship.
type RuleSpec struct {
	Name   string `yaml:"name" json:"name"`
	Regex  string `yaml:"regex" json:"regex"`
	Cruise bool   `yaml:"cruise,omitempty" json:"cruise,omitempty"`
}

// TableSpec is the YAML form of one classifier table.
type TableSpec struct {
	Ignore []string   `yaml:"ignore" json:"ignore"`
	Rules  []RuleSpec `yaml:"rules" json:"rules"`
}

// Config holds the country and state tables.
type Config struct {
	Countries TableSpec `yaml:"countries" json:"countries"`
	States    TableSpec `yaml:"states" json:"states"`
}

// Default returns the built-in rule tables.
func Default() (*Config, error) {
	return parseConfig(defaultRules, "default rules")
}

// LoadConfig reads rule tables from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}
	return parseConfig(data, path)
}

func parseConfig(data []byte, name string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	if len(cfg.Countries.Rules) == 0 && len(cfg.States.Rules) == 0 {
		return nil, fmt.Errorf("%s: no rules defined", name)
	}
	return &cfg, nil
}
