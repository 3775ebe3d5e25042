//go:build integration

package integration_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/nepeta-labs/nepeta/internal/config"
	"github.com/nepeta-labs/nepeta/internal/manifest"
	"github.com/nepeta-labs/nepeta/internal/registry"
	"github.com/nepeta-labs/nepeta/internal/scaffold"
	"github.com/spf13/afero"
)

// openFromConfig loads the config file and builds a registry the way the
// CLI does.
func openFromConfig(t *testing.T) *registry.Registry {
	t.Helper()

	if err := config.Load(); err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	s := config.Current()
	loadPolicy, err := registry.ParseLoadPolicy(s.LoadPolicy)
	if err != nil {
		t.Fatalf("ParseLoadPolicy: %v", err)
	}
	themePolicy, err := registry.ParseThemePolicy(s.ThemeSelection)
	if err != nil {
		t.Fatalf("ParseThemePolicy: %v", err)
	}
	return registry.New(afero.NewOsFs(), s.ExtensionsRoot(), registry.Options{
		LoadPolicy:  loadPolicy,
		ThemePolicy: themePolicy,
	})
}

// TestFullStartupFromConfig covers config -> discovery -> freeze -> queries.
func TestFullStartupFromConfig(t *testing.T) {
	env := setupTestEnv(t)
	writeConfig(t, "experiments:\n  enable_nepeta: true\nextensions:\n  document_root: "+env.DocumentRoot+"\n")
	writePackage(t, env.ExtDir, "hitchhiker-dark", themeManifest("hitchhiker-dark"))
	writePackage(t, env.ExtDir, "related-videos", extensionManifest("related-videos"))

	reg := openFromConfig(t)
	if !config.IsEnabled() {
		t.Fatal("feature gate should be enabled by the config file")
	}
	if reg.Root() != env.ExtDir {
		t.Fatalf("Root() = %q, want %q", reg.Root(), env.ExtDir)
	}

	report, err := reg.Init()
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if report.Outcome != registry.Success {
		t.Fatalf("outcome = %v, want success", report.Outcome)
	}

	if got := reg.AvailablePackages(); len(got) != 2 {
		t.Errorf("AvailablePackages() = %v, want 2 entries", got)
	}
	theme, ok := reg.ActiveTheme()
	if !ok || theme.ID() != "hitchhiker-dark" {
		t.Fatalf("ActiveTheme() = %v, %v; want hitchhiker-dark", theme, ok)
	}
	if src, _ := theme.Templates.Source("watch"); src != "templates/watch.twig" {
		t.Errorf("watch template = %q", src)
	}
	if d, ok := reg.Package("related-videos"); !ok || d.InsertionPoint != "watch.sidebar" {
		t.Errorf("Package(related-videos) = %+v, %v", d, ok)
	}

	if _, err := reg.LoadPackage("related-videos"); !errors.Is(err, registry.ErrFrozen) {
		t.Errorf("LoadPackage after Init: err = %v, want ErrFrozen", err)
	}
}

// TestStopOnFirstFailureOnDisk mirrors the [A, B(bad), C] startup scenario.
func TestStopOnFirstFailureOnDisk(t *testing.T) {
	env := setupTestEnv(t)
	writeConfig(t, "extensions:\n  dir: "+env.ExtDir+"\n")
	writePackage(t, env.ExtDir, "a", extensionManifest("a"))
	writePackage(t, env.ExtDir, "b", `{"id": "b", "name": `)
	writePackage(t, env.ExtDir, "c", extensionManifest("c"))

	reg := openFromConfig(t)
	report, err := reg.Init()
	if err == nil {
		t.Fatal("expected discovery to fail")
	}

	var pe *manifest.ParseError
	if !errors.As(err, &pe) {
		t.Errorf("error %v is not a *manifest.ParseError", err)
	}
	if len(report.Skipped) != 1 || report.Skipped[0] != "c" {
		t.Errorf("Skipped = %v, want [c]", report.Skipped)
	}
	if _, ok := reg.Package("a"); !ok {
		t.Error("a should stay registered")
	}
	if _, ok := reg.Package("c"); ok {
		t.Error("c should never have been loaded")
	}
	if !reg.Frozen() {
		t.Error("registry should be frozen after a failed Init")
	}
}

// TestBestEffortAndThemeSelectionFromEnv checks that environment variables
// override the config file.
func TestBestEffortAndThemeSelectionFromEnv(t *testing.T) {
	env := setupTestEnv(t)
	writeConfig(t, "extensions:\n  dir: "+env.ExtDir+"\n  load_policy: stop-on-first-error\n")
	t.Setenv("NEPETA_EXTENSIONS_LOAD_POLICY", "best-effort")
	t.Setenv("NEPETA_THEME_SELECTION", "first-wins")

	writePackage(t, env.ExtDir, "a-theme", themeManifest("a-theme"))
	writePackage(t, env.ExtDir, "b-broken", `not json`)
	writePackage(t, env.ExtDir, "c-theme", themeManifest("c-theme"))

	reg := openFromConfig(t)
	report, err := reg.Init()
	if err == nil {
		t.Fatal("expected a reported failure")
	}
	if len(report.Failures()) != 1 || report.Failures()[0].Name != "b-broken" {
		t.Errorf("Failures() = %+v, want b-broken only", report.Failures())
	}
	if _, ok := reg.Package("c-theme"); !ok {
		t.Error("best-effort should load c-theme")
	}
	if theme, ok := reg.ActiveTheme(); !ok || theme.ID() != "a-theme" {
		t.Errorf("active theme = %v, want a-theme under first-wins", theme)
	}
}

// TestIgnoresStrayFilesAndHiddenDirs checks enumeration on a real directory.
func TestIgnoresStrayFilesAndHiddenDirs(t *testing.T) {
	env := setupTestEnv(t)
	writeConfig(t, "extensions:\n  dir: "+env.ExtDir+"\n")
	writeFile(t, filepath.Join(env.ExtDir, "README.txt"), "not a package")
	writeFile(t, filepath.Join(env.ExtDir, ".git", "HEAD"), "ref: refs/heads/main")
	writePackage(t, env.ExtDir, "only", extensionManifest("only"))

	reg := openFromConfig(t)
	if _, err := reg.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	got := reg.AvailablePackages()
	if len(got) != 1 || got[0] != "only" {
		t.Errorf("AvailablePackages() = %v, want [only]", got)
	}
}

// TestScaffoldThenDiscover creates a theme on disk and loads it back.
func TestScaffoldThenDiscover(t *testing.T) {
	env := setupTestEnv(t)
	writeConfig(t, "extensions:\n  dir: "+env.ExtDir+"\n")
	fsys := afero.NewOsFs()

	data := scaffold.NewScaffoldData("hitchhiker-dark", manifest.TypeTheme)
	data.Author = "Ford Prefect"
	result, err := scaffold.Generate(fsys, env.ExtDir, data)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(result.Warnings) > 0 {
		t.Fatalf("unexpected warnings: %v", result.Warnings)
	}

	pkgDir := filepath.Join(env.ExtDir, "hitchhiker-dark")
	assertFileExists(t, filepath.Join(pkgDir, "templates", "home.twig"))
	assertFileContains(t, filepath.Join(pkgDir, "manifest.json"), `"author": "Ford Prefect"`)

	val, err := manifest.ValidateFile(fsys, filepath.Join(pkgDir, manifest.FileName))
	if err != nil || !val.Valid {
		t.Fatalf("ValidateFile: %+v, %v", val, err)
	}

	reg := openFromConfig(t)
	if _, err := reg.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	theme, ok := reg.ActiveTheme()
	if !ok || theme.ID() != "hitchhiker-dark" {
		t.Fatalf("ActiveTheme() = %v, %v", theme, ok)
	}
	if theme.Descriptor.Version != "0.1.0" {
		t.Errorf("version = %q, want 0.1.0", theme.Descriptor.Version)
	}
}
