// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into the
// binary with //go:embed. Hard defaults cover a missing or partial file.
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
	CLIName       string `yaml:"cli_name"`
	DisplayName   string `yaml:"display_name"`
	Description   string `yaml:"description"`
	HomeDir       string `yaml:"home_dir"`
	EnvPrefix     string `yaml:"env_prefix"`
	ExtensionsDir string `yaml:"extensions_dir"`
}

func load() {
	once.Do(func() {
		defaults = brand{
			CLIName:       "nepeta",
			DisplayName:   "Nepeta",
			Description:   "Extension and theme loader",
			HomeDir:       ".nepeta",
			EnvPrefix:     "NEPETA",
			ExtensionsDir: "nepeta_test",
		}
		// Overlay with embedded YAML values.
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "nepeta").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name (e.g., "Nepeta").
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".nepeta").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "NEPETA").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// ExtensionsDir returns the default folder name, relative to the document
// root, in which packages are stored.
func ExtensionsDir() string { load(); return defaults.ExtensionsDir }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("LOG_LEVEL") → "NEPETA_LOG_LEVEL".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
