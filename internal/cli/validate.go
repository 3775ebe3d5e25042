package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/nepeta-labs/nepeta/internal/config"
	"github.com/nepeta-labs/nepeta/internal/manifest"
	"github.com/nepeta-labs/nepeta/internal/registry"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [package...]",
	Short: "Check package manifests against the manifest schema",
	Long: `Validate the manifest.json of the named packages, or of every package under
the extensions directory when none are named. The schema is stricter than
discovery: it also rejects unknown extension_type values.

Validation does not require the feature gate to be enabled.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	s := config.Current()
	reg := registry.New(appFs, s.ExtensionsRoot(), registry.Options{Logger: &logger})
	defer reg.Close()

	names := args
	if len(names) == 0 {
		var err error
		names, err = reg.Enumerate()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No packages found in %s\n", reg.Root())
			return nil
		}
	}

	invalid := 0
	for _, name := range names {
		ok, err := validatePackage(cmd, reg, name)
		if err != nil {
			return err
		}
		if !ok {
			invalid++
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d package(s) failed validation", invalid, len(names))
	}
	return nil
}

// validatePackage prints the validation result for one package. A package
// without a manifest counts as invalid, since discovery fails to load it.
func validatePackage(cmd *cobra.Command, reg *registry.Registry, name string) (bool, error) {
	w := cmd.OutOrStdout()

	dir, err := reg.PackagePath(name)
	if err != nil {
		return false, err
	}

	result, err := manifest.ValidateFile(appFs, filepath.Join(dir, manifest.FileName))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		fmt.Fprintf(w, "✗ %s: no %s; discovery fails to load this directory\n", name, manifest.FileName)
		return false, nil
	case err != nil:
		fmt.Fprintf(w, "✗ %s: %v\n", name, err)
		return false, nil
	case result.Valid:
		fmt.Fprintf(w, "✓ %s\n", name)
		return true, nil
	}

	fmt.Fprintf(w, "✗ %s\n", name)
	for _, issue := range result.Issues {
		fmt.Fprintf(w, "    %s\n", issue)
	}
	return false, nil
}
