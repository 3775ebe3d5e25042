package cli

import (
	"encoding/json"
	"fmt"

	"github.com/nepeta-labs/nepeta/internal/manifest"
	"github.com/spf13/cobra"
)

var themeJSON bool

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show the active theme",
	Long: `Run discovery and show the theme whose templates are active, with its
template slots. The selection follows the theme.selection setting.`,
	Args: cobra.NoArgs,
	RunE: runTheme,
}

func init() {
	themeCmd.Flags().BoolVar(&themeJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(themeCmd)
}

type themeOutput struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Path      string             `json:"path"`
	Templates manifest.Templates `json:"templates"`
}

func runTheme(cmd *cobra.Command, args []string) error {
	if !checkEnabled(cmd) {
		return nil
	}

	reg, _, discoverErr := openRegistry()
	if reg == nil {
		return discoverErr
	}
	defer reg.Close()

	theme, ok := reg.ActiveTheme()
	switch {
	case !ok && themeJSON:
		fmt.Fprintln(cmd.OutOrStdout(), "null")
	case !ok:
		fmt.Fprintln(cmd.OutOrStdout(), "No active theme.")
	case themeJSON:
		data, err := json.MarshalIndent(themeOutput{
			ID:        theme.ID(),
			Name:      theme.Descriptor.Name,
			Path:      theme.Descriptor.PathOnDisk,
			Templates: theme.Templates,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling theme: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "Active theme: %s (%s)\n", theme.ID(), theme.Descriptor.Name)
		fmt.Fprintf(cmd.OutOrStdout(), "Path: %s\n", theme.Descriptor.PathOnDisk)
		fmt.Fprintln(cmd.OutOrStdout(), "Templates:")
		printTemplates(cmd, theme.Templates)
	}

	if discoverErr != nil {
		return fmt.Errorf("discovery failed: %w", discoverErr)
	}
	return nil
}
