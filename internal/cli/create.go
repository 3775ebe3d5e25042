package cli

import (
	"fmt"

	"github.com/nepeta-labs/nepeta/internal/branding"
	"github.com/nepeta-labs/nepeta/internal/config"
	"github.com/nepeta-labs/nepeta/internal/manifest"
	"github.com/nepeta-labs/nepeta/internal/scaffold"
	"github.com/spf13/cobra"
)

var (
	createType           string
	createID             string
	createAuthor         string
	createInsertionPoint string
	createVersion        string
	createSlots          []string
	createOutputDir      string
)

func init() {
	createCmd.Flags().StringVar(&createType, "type", string(manifest.TypeTheme), "Package type: theme or extension")
	createCmd.Flags().StringVar(&createID, "id", "", "Manifest id (default: <name>)")
	createCmd.Flags().StringVar(&createAuthor, "author", "", "Manifest author")
	createCmd.Flags().StringVar(&createInsertionPoint, "insertion-point", "", "Manifest insertion_point")
	createCmd.Flags().StringVar(&createVersion, "version", "", "Manifest version (default: 0.1.0)")
	createCmd.Flags().StringSliceVar(&createSlots, "slots", nil, "Theme template slots to generate (default: home,watch)")
	createCmd.Flags().StringVar(&createOutputDir, "output-dir", "", "Directory to create the package in (default: the extensions directory)")
	rootCmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Scaffold a new theme or extension package",
	Long: `Create a new package directory with a manifest.json and, for themes, starter
templates. The generated manifest is checked against the manifest schema.

Examples:
  nepeta create hitchhiker-dark --author "Ford Prefect"
  nepeta create related-videos --type extension --insertion-point watch.sidebar`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, args []string) error {
	typ := manifest.ParsePackageType(createType)
	if !typ.Known() {
		return fmt.Errorf("--type must be %q or %q, got %q", manifest.TypeTheme, manifest.TypeExtension, createType)
	}
	if typ != manifest.TypeTheme && len(createSlots) > 0 {
		return fmt.Errorf("--slots only applies to themes")
	}

	data := scaffold.NewScaffoldData(args[0], typ)
	if createID != "" {
		data.ID = createID
	}
	if createAuthor != "" {
		data.Author = createAuthor
	}
	if createInsertionPoint != "" {
		data.InsertionPoint = createInsertionPoint
	}
	if createVersion != "" {
		data.Version = createVersion
	}
	if len(createSlots) > 0 {
		data.Slots = createSlots
	}

	root := createOutputDir
	if root == "" {
		root = config.Current().ExtensionsRoot()
	}

	result, err := scaffold.Generate(appFs, root, data)
	if err != nil {
		return err
	}

	printResult(cmd, typ, result)

	fmt.Fprintln(cmd.OutOrStdout(), "\nNext steps:")
	fmt.Fprintf(cmd.OutOrStdout(), "  1. Edit %s/%s to fill in the manifest fields\n", result.OutputDir, manifest.FileName)
	if typ == manifest.TypeTheme {
		fmt.Fprintln(cmd.OutOrStdout(), "  2. Edit the files under templates/")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "  2. Add the extension's assets")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  3. Run '%s validate %s' and '%s list'\n", branding.CLIName(), data.Name, branding.CLIName())
	return nil
}

func printResult(cmd *cobra.Command, typ manifest.PackageType, result *scaffold.Result) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Created %s at %s/\n", typ, result.OutputDir)
	for _, f := range result.Files {
		fmt.Fprintf(w, "  %s\n", f)
	}
	if len(result.Warnings) > 0 {
		fmt.Fprintln(w, "\nWarnings:")
		for _, warn := range result.Warnings {
			fmt.Fprintf(w, "  - %s\n", warn)
		}
	}
}
