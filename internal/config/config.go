package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/nepeta-labs/nepeta/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Configuration keys.
const (
	KeyEnabled        = "experiments.enable_nepeta"
	KeyDocumentRoot   = "extensions.document_root"
	KeyExtensionsDir  = "extensions.dir"
	KeyLoadPolicy     = "extensions.load_policy"
	KeyThemeSelection = "theme.selection"
	KeyLogLevel       = "log.level"
)

// Settings is the typed view over the keys above.
type Settings struct {
	Enabled        bool
	DocumentRoot   string
	ExtensionsDir  string
	LoadPolicy     string
	ThemeSelection string
	LogLevel       string
}

// ExtensionsRoot returns the directory whose immediate subdirectories are
// candidate packages. A relative ExtensionsDir is joined onto DocumentRoot.
func (s Settings) ExtensionsRoot() string {
	if filepath.IsAbs(s.ExtensionsDir) {
		return filepath.Clean(s.ExtensionsDir)
	}
	return filepath.Join(s.DocumentRoot, s.ExtensionsDir)
}

// Dir returns the path to the config directory (~/.nepeta/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file. NEPETA_CONFIG
// overrides the default ~/.nepeta/config.yaml.
func FilePath() string {
	if v := os.Getenv(branding.EnvVar("CONFIG")); v != "" {
		return v
	}
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the directory holding the config file if it does not exist.
func EnsureDir() error {
	dir := filepath.Dir(FilePath())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// setDefaults registers the default for every known key.
func setDefaults() {
	viper.SetDefault(KeyEnabled, false)
	viper.SetDefault(KeyDocumentRoot, ".")
	viper.SetDefault(KeyExtensionsDir, branding.ExtensionsDir())
	viper.SetDefault(KeyLoadPolicy, "stop-on-first-error")
	viper.SetDefault(KeyThemeSelection, "last-wins")
	viper.SetDefault(KeyLogLevel, "warn")
}

// Load initializes Viper to read from the config file and environment.
// A missing config file is not an error; a malformed one is.
func Load() error {
	setDefaults()
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", FilePath(), err)
	}
	return nil
}

// Current returns the settings as currently resolved by Viper.
func Current() Settings {
	return Settings{
		Enabled:        viper.GetBool(KeyEnabled),
		DocumentRoot:   viper.GetString(KeyDocumentRoot),
		ExtensionsDir:  viper.GetString(KeyExtensionsDir),
		LoadPolicy:     viper.GetString(KeyLoadPolicy),
		ThemeSelection: viper.GetString(KeyThemeSelection),
		LogLevel:       viper.GetString(KeyLogLevel),
	}
}

// IsEnabled reports whether extension loading is switched on.
func IsEnabled() bool {
	return viper.GetBool(KeyEnabled)
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
