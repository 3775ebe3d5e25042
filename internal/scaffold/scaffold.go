package scaffold

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"
	"time"

	"github.com/nepeta-labs/nepeta/internal/manifest"
	"github.com/spf13/afero"
)

//go:embed scaffolds
var scaffoldFS embed.FS

// DefaultSlots are the template slots a new theme starts with. Each must
// have a matching <slot>.twig file in the embedded theme set.
var DefaultSlots = []string{"home", "watch"}

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ScaffoldData holds all template variables available to scaffold templates.
type ScaffoldData struct {
	Name           string               // package directory name, e.g. "hitchhiker-dark"
	ID             string               // manifest id; defaults to Name
	DisplayName    string               // e.g. "Hitchhiker Dark"
	Author         string
	InsertionPoint string
	Type           manifest.PackageType // theme or extension
	Version        string               // Semver, e.g. "0.1.0"
	Slots          []string             // theme template slots
	Year           int
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	OutputDir string
	Files     []string // slash-separated, relative to OutputDir
	Warnings  []string
}

// NewScaffoldData creates a ScaffoldData with derived fields populated.
func NewScaffoldData(name string, typ manifest.PackageType) *ScaffoldData {
	d := &ScaffoldData{
		Name:           name,
		ID:             name,
		DisplayName:    displayName(name),
		Author:         "unknown",
		InsertionPoint: "page.body",
		Type:           typ,
		Version:        "0.1.0",
		Year:           time.Now().Year(),
	}
	if typ == manifest.TypeTheme {
		d.Slots = append([]string(nil), DefaultSlots...)
	}
	return d
}

// displayName turns "hitchhiker-dark" into "Hitchhiker Dark".
func displayName(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == '.'
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Generate writes a new package named data.Name into root on fsys.
func Generate(fsys afero.Fs, root string, data *ScaffoldData) (*Result, error) {
	if !validName.MatchString(data.Name) {
		return nil, fmt.Errorf("invalid package name %q: use letters, digits, '.', '_' and '-'", data.Name)
	}
	if !data.Type.Known() {
		return nil, fmt.Errorf("cannot scaffold package type %q", data.Type)
	}

	setDir := path.Join("scaffolds", string(data.Type))
	for _, slot := range data.Slots {
		if _, err := fs.Stat(scaffoldFS, path.Join(setDir, "templates", slot+".twig")); err != nil {
			return nil, fmt.Errorf("no starter template for slot %q (available: %s)", slot, strings.Join(DefaultSlots, ", "))
		}
	}
	outputDir := filepath.Join(root, data.Name)

	// Refuse to overwrite an existing package.
	if entries, err := afero.ReadDir(fsys, outputDir); err == nil && len(entries) > 0 {
		return nil, fmt.Errorf("output directory %s is not empty; remove existing files first", outputDir)
	}
	if err := fsys.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	result := &Result{OutputDir: outputDir}

	err := fs.WalkDir(scaffoldFS, setDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel := strings.TrimPrefix(p, setDir+"/")
		if isTemplateFile(rel) && !data.hasSlot(strings.TrimSuffix(path.Base(rel), ".twig")) {
			return nil
		}

		content, err := render(p, data)
		if err != nil {
			return err
		}

		outRel := strings.TrimSuffix(rel, ".tmpl")
		outPath := filepath.Join(outputDir, filepath.FromSlash(outRel))
		if err := fsys.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(outPath), err)
		}
		if err := afero.WriteFile(fsys, outPath, content, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
		result.Files = append(result.Files, outRel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Validate the generated manifest against the JSON Schema.
	valResult, valErr := manifest.ValidateFile(fsys, filepath.Join(outputDir, manifest.FileName))
	if valErr != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Could not validate manifest: %v", valErr))
	} else if !valResult.Valid {
		for _, issue := range valResult.Issues {
			result.Warnings = append(result.Warnings, issue.String())
		}
	}

	return result, nil
}

// isTemplateFile reports whether rel is one of a theme's slot templates.
func isTemplateFile(rel string) bool {
	return strings.HasPrefix(rel, "templates/") && strings.HasSuffix(rel, ".twig")
}

func (d *ScaffoldData) hasSlot(slot string) bool {
	for _, s := range d.Slots {
		if s == slot {
			return true
		}
	}
	return false
}

// render executes a .tmpl file; anything else is copied verbatim, since Twig
// uses the same {{ }} delimiters as text/template.
func render(p string, data *ScaffoldData) ([]byte, error) {
	raw, err := fs.ReadFile(scaffoldFS, p)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", p, err)
	}
	if !strings.HasSuffix(p, ".tmpl") {
		return raw, nil
	}

	tmpl, err := template.New(path.Base(p)).Funcs(template.FuncMap{"json": jsonString}).Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", p, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", p, err)
	}
	return buf.Bytes(), nil
}

// jsonString quotes s as a JSON string literal.
func jsonString(s string) (string, error) {
	b, err := json.Marshal(s)
	return string(b), err
}
