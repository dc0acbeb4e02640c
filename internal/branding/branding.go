// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into the
// binary with //go:embed, so a fork only has to edit the YAML.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName      string `yaml:"cli_name"`
	DisplayName  string `yaml:"display_name"`
	Description  string `yaml:"description"`
	HomeDir      string `yaml:"home_dir"`
	EnvPrefix    string `yaml:"env_prefix"`
	DefaultModel string `yaml:"default_model"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:      "toolsmith",
			DisplayName:  "Toolsmith",
			Description:  "Proposes, scaffolds and publishes new client-side developer tools",
			HomeDir:      ".toolsmith",
			EnvPrefix:    "TOOLSMITH",
			DefaultModel: "gpt-4o-mini",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "toolsmith").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".toolsmith").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "TOOLSMITH").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// DefaultModel returns the model used when OPENAI_MODEL is not set.
func DefaultModel() string { load(); return defaults.DefaultModel }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("HOME") → "TOOLSMITH_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
