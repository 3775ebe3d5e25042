package cli

import (
	"fmt"

	"github.com/nepeta-labs/nepeta/internal/branding"
	"github.com/nepeta-labs/nepeta/internal/config"
	"github.com/nepeta-labs/nepeta/internal/registry"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// appFs is the filesystem commands read packages from and scaffold into.
var appFs afero.Fs = afero.NewOsFs()

// checkEnabled reports whether the feature gate is on, telling the user how
// to switch it on when it is not.
func checkEnabled(cmd *cobra.Command) bool {
	if config.IsEnabled() {
		return true
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is disabled. Enable it with '%s config set %s true'.\n",
		branding.DisplayName(), branding.CLIName(), config.KeyEnabled)
	return false
}

// registryOptions builds registry options from the resolved config.
func registryOptions(s config.Settings) (registry.Options, error) {
	loadPolicy, err := registry.ParseLoadPolicy(s.LoadPolicy)
	if err != nil {
		return registry.Options{}, err
	}
	themePolicy, err := registry.ParseThemePolicy(s.ThemeSelection)
	if err != nil {
		return registry.Options{}, err
	}
	return registry.Options{
		LoadPolicy:  loadPolicy,
		ThemePolicy: themePolicy,
		Logger:      &logger,
	}, nil
}

// openRegistry creates a registry over the configured extensions root and
// runs startup discovery. The registry and report are returned even when
// discovery failed; the error is the discovery failure.
func openRegistry() (*registry.Registry, *registry.Report, error) {
	s := config.Current()
	opts, err := registryOptions(s)
	if err != nil {
		return nil, nil, err
	}

	reg := registry.New(appFs, s.ExtensionsRoot(), opts)
	report, err := reg.Init()
	return reg, report, err
}
