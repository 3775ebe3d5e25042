package cli

import (
	"encoding/json"
	"fmt"
	"path"
	"runtime"

	"github.com/nepeta-labs/nepeta/internal/branding"
	"github.com/nepeta-labs/nepeta/internal/manifest"
	"github.com/spf13/cobra"
)

var (
	versionShort bool
	versionJSON  bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info as JSON")
	rootCmd.AddCommand(versionCmd)
}

// versionInfo is the build and package-layout information printed by
// "nepeta version".
type versionInfo struct {
	Version  string `json:"version"`
	Commit   string `json:"commit"`
	Date     string `json:"date"`
	Go       string `json:"go"`
	Platform string `json:"platform"`
	Layout   string `json:"package_layout"` // where discovery looks for manifests by default
}

func currentVersionInfo() versionInfo {
	return versionInfo{
		Version:  buildVersion,
		Commit:   buildCommit,
		Date:     buildDate,
		Go:       runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
		Layout:   path.Join(branding.ExtensionsDir(), "<package>", manifest.FileName),
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := currentVersionInfo()
		w := cmd.OutOrStdout()

		switch {
		case versionShort:
			fmt.Fprintln(w, info.Version)
		case versionJSON:
			out, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling version info: %w", err)
			}
			fmt.Fprintln(w, string(out))
		default:
			fmt.Fprintf(w, "%s %s (commit %s, built %s, %s %s)\n",
				branding.CLIName(), info.Version, info.Commit, info.Date, info.Go, info.Platform)
			fmt.Fprintf(w, "Packages: <document root>/%s\n", info.Layout)
		}
		return nil
	},
}
