package cli

import (
	"encoding/json"
	"fmt"

	"github.com/nepeta-labs/nepeta/internal/manifest"
	"github.com/spf13/cobra"
)

var infoJSON bool

var infoCmd = &cobra.Command{
	Use:   "info <package>",
	Short: "Show one package's manifest",
	Long: `Read the manifest of a package directory under the extensions directory and
show its fields, whether discovery registered it, and whether it is the active theme.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(infoCmd)
}

type infoOutput struct {
	*manifest.Descriptor
	Package string `json:"package"`
	Loaded  bool   `json:"loaded"`
	Active  bool   `json:"active"`
}

func runInfo(cmd *cobra.Command, args []string) error {
	if !checkEnabled(cmd) {
		return nil
	}

	name := args[0]
	reg, _, discoverErr := openRegistry()
	if reg == nil {
		return discoverErr
	}
	defer reg.Close()
	if discoverErr != nil {
		logger.Warn().Err(discoverErr).Msg("discovery did not complete")
	}

	d, err := reg.PackageInfo(name)
	if err != nil {
		return err
	}

	out := infoOutput{Descriptor: d, Package: name}
	if current, ok := reg.Package(d.ID); ok && current.PathOnDisk == d.PathOnDisk {
		out.Loaded = true
	}
	if theme, ok := reg.ActiveTheme(); ok && theme.Descriptor.PathOnDisk == d.PathOnDisk {
		out.Active = true
	}

	if infoJSON {
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling package info: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Package:          %s\n", name)
	fmt.Fprintf(w, "ID:               %s\n", d.ID)
	fmt.Fprintf(w, "Name:             %s\n", d.Name)
	fmt.Fprintf(w, "Author:           %s\n", d.Author)
	fmt.Fprintf(w, "Insertion point:  %s\n", d.InsertionPoint)
	if d.Type.Known() {
		fmt.Fprintf(w, "Type:             %s\n", d.Type)
	} else {
		fmt.Fprintf(w, "Type:             unknown (%q)\n", d.RawType)
	}
	fmt.Fprintf(w, "Version:          %s\n", dash(d.Version))
	fmt.Fprintf(w, "Path:             %s\n", d.PathOnDisk)
	fmt.Fprintf(w, "Loaded:           %s\n", yesNo(out.Loaded))
	fmt.Fprintf(w, "Active theme:     %s\n", yesNo(out.Active))
	if d.HasTemplates() {
		fmt.Fprintln(w, "Templates:")
		printTemplates(cmd, d.Templates)
	}
	return nil
}

func printTemplates(cmd *cobra.Command, t manifest.Templates) {
	for _, slot := range t.Slots() {
		src, ok := t.Source(slot)
		if !ok {
			raw, _ := json.Marshal(t[slot])
			src = string(raw)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  %-14s %s\n", slot, src)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
