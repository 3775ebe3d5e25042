package cli

import (
	"fmt"
	"os"

	"github.com/nepeta-labs/nepeta/internal/branding"
	"github.com/nepeta-labs/nepeta/internal/config"
	"github.com/nepeta-labs/nepeta/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

// logger is configured in PersistentPreRunE once flags and config are known.
var logger = zerolog.Nop()

// persistentFlagKeys maps root persistent flags onto config keys.
var persistentFlagKeys = map[string]string{
	"root":            config.KeyExtensionsDir,
	"document-root":   config.KeyDocumentRoot,
	"load-policy":     config.KeyLoadPolicy,
	"theme-selection": config.KeyThemeSelection,
	"log-level":       config.KeyLogLevel,
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` discovers theme and extension packages under an extensions directory,
reads their manifest.json files and reports which theme is active.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		for name, key := range persistentFlagKeys {
			if err := viper.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(name)); err != nil {
				return fmt.Errorf("binding --%s: %w", name, err)
			}
		}
		if err := config.Load(); err != nil {
			return err
		}
		logger = logging.FromEnv(cmd.ErrOrStderr(), config.Current().LogLevel)
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("root", "", "Extensions directory, absolute or relative to the document root (default \""+branding.ExtensionsDir()+"\")")
	flags.String("document-root", "", "Document root the extensions directory is resolved against (default \".\")")
	flags.String("load-policy", "", "What to do when a package fails: stop-on-first-error or best-effort")
	flags.String("theme-selection", "", "Which theme wins: last-wins, first-wins or exclusive")
	flags.String("log-level", "", "Log level: trace, debug, info, warn, error or off")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
