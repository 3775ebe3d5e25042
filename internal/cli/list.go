package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/nepeta-labs/nepeta/internal/registry"
	"github.com/spf13/cobra"
)

const (
	statusLoaded   = "loaded"
	statusShadowed = "shadowed"
	statusFailed   = "failed"
	statusSkipped  = "skipped"
)

var (
	listTypeFilter string
	listJSON       bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Discover and list packages",
	Long: `Discover every package under the extensions directory, load its manifest,
and list the outcome per package.

A package is "shadowed" when a later package registered the same id, and
"skipped" when discovery stopped before reaching it. --type filters loaded
packages only; failed and skipped packages have no known type and are always
listed.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listTypeFilter, "type", "", "Filter loaded packages by extension type (theme, extension); failed and skipped packages are always listed")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

// listEntry represents one discovered package for display.
type listEntry struct {
	Package string `json:"package"`
	Status  string `json:"status"`
	ID      string `json:"id,omitempty"`
	Type    string `json:"type,omitempty"`
	Version string `json:"version,omitempty"`
	Active  bool   `json:"active,omitempty"`
	Error   string `json:"error,omitempty"`
}

type listOutput struct {
	Root        string      `json:"root"`
	Outcome     string      `json:"outcome"`
	ActiveTheme string      `json:"active_theme,omitempty"`
	Packages    []listEntry `json:"packages"`
}

func runList(cmd *cobra.Command, args []string) error {
	if !checkEnabled(cmd) {
		return nil
	}

	reg, report, discoverErr := openRegistry()
	if reg == nil {
		return discoverErr
	}
	defer reg.Close()

	out := listOutput{
		Root:     reg.Root(),
		Outcome:  report.Outcome.String(),
		Packages: buildListEntries(reg, report),
	}
	if theme, ok := reg.ActiveTheme(); ok {
		out.ActiveTheme = theme.ID()
	}

	var err error
	switch {
	case listJSON:
		err = printListJSON(cmd, out)
	case len(out.Packages) == 0:
		err = printListEmpty(cmd, out)
	default:
		err = printListTable(cmd, out)
	}
	if err != nil {
		return err
	}

	if discoverErr != nil {
		return fmt.Errorf("discovery failed: %w", discoverErr)
	}
	return nil
}

func buildListEntries(reg *registry.Registry, report *registry.Report) []listEntry {
	active := ""
	if theme, ok := reg.ActiveTheme(); ok {
		active = theme.Descriptor.PathOnDisk
	}

	var entries []listEntry
	for _, res := range report.Results {
		entry := listEntry{Package: res.Name}
		if res.Outcome == registry.Failed {
			entry.Status = statusFailed
			if res.Err != nil {
				entry.Error = res.Err.Error()
			}
			entries = append(entries, entry)
			continue
		}

		d := res.Descriptor
		entry.ID = d.ID
		entry.Type = d.Type.String()
		if !d.Type.Known() {
			entry.Type = fmt.Sprintf("unknown (%q)", d.RawType)
		}
		entry.Version = d.Version
		entry.Active = active != "" && d.PathOnDisk == active
		entry.Status = statusLoaded
		if current, ok := reg.Package(d.ID); ok && current.PathOnDisk != d.PathOnDisk {
			entry.Status = statusShadowed
		}

		// Failed and skipped rows bypass the filter: their type is unknown.
		if listTypeFilter != "" && d.Type.String() != listTypeFilter {
			continue
		}
		entries = append(entries, entry)
	}

	for _, name := range report.Skipped {
		entries = append(entries, listEntry{Package: name, Status: statusSkipped})
	}
	return entries
}

func printListEmpty(cmd *cobra.Command, out listOutput) error {
	if listTypeFilter != "" {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "No packages matching --type=%s in %s\n", listTypeFilter, out.Root)
		return err
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "No packages found in %s\n", out.Root)
	return err
}

func printListTable(cmd *cobra.Command, out listOutput) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "PACKAGE\tSTATUS\tID\tTYPE\tVERSION")
	for _, e := range out.Packages {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.Package, e.Status, dash(e.ID), dash(e.Type), dash(e.Version))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	failed := false
	for _, e := range out.Packages {
		if e.Error == "" {
			continue
		}
		if !failed {
			fmt.Fprintln(cmd.OutOrStdout())
			failed = true
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", e.Package, e.Error)
	}
	if out.ActiveTheme != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "\nActive theme: %s\n", out.ActiveTheme)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "\nNo active theme.")
	}
	return nil
}

func printListJSON(cmd *cobra.Command, out listOutput) error {
	if out.Packages == nil {
		out.Packages = []listEntry{}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

// dash renders an empty table cell.
func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
