package cli

import (
	"fmt"
	"strings"

	"github.com/nepeta-labs/nepeta/internal/branding"
	"github.com/nepeta-labs/nepeta/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user settings",
	Long: `Read and write ` + branding.DisplayName() + ` configuration stored at ~/` + branding.HomeDir() + `/config.yaml.

Keys:
` + configKeysHelp(),
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), config.Get(args[0]))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), config.FilePath())
		return nil
	},
}

var configKeys = []struct{ key, help string }{
	{config.KeyEnabled, "enable package discovery (true/false)"},
	{config.KeyDocumentRoot, "directory the extensions directory is resolved against"},
	{config.KeyExtensionsDir, "extensions directory name or absolute path"},
	{config.KeyLoadPolicy, "stop-on-first-error or best-effort"},
	{config.KeyThemeSelection, "last-wins, first-wins or exclusive"},
	{config.KeyLogLevel, "trace, debug, info, warn, error or off"},
}

func configKeysHelp() string {
	var b strings.Builder
	for _, k := range configKeys {
		fmt.Fprintf(&b, "  %-28s %s\n", k.key, k.help)
	}
	return strings.TrimRight(b.String(), "\n")
}
