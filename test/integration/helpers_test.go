//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir      string // HOME; holds .nepeta/config.yaml
	DocumentRoot string // document root the extensions directory lives under
	ExtDir       string // DocumentRoot/nepeta_test
}

// setupTestEnv creates isolated temp directories and points HOME and the
// config file at them. Viper state is reset before and after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:      t.TempDir(),
		DocumentRoot: t.TempDir(),
	}
	env.ExtDir = filepath.Join(env.DocumentRoot, "nepeta_test")

	t.Setenv("HOME", env.HomeDir)
	t.Setenv("NEPETA_CONFIG", filepath.Join(env.HomeDir, ".nepeta", "config.yaml"))
	viper.Reset()
	t.Cleanup(viper.Reset)

	if err := os.MkdirAll(env.ExtDir, 0755); err != nil {
		t.Fatalf("creating extensions dir: %v", err)
	}
	return env
}

// writeConfig writes the YAML config file read by config.Load.
func writeConfig(t *testing.T, content string) {
	t.Helper()
	writeFile(t, os.Getenv("NEPETA_CONFIG"), content)
}

// writePackage writes a manifest.json for the package dir under extDir.
func writePackage(t *testing.T, extDir, dir, content string) {
	t.Helper()
	writeFile(t, filepath.Join(extDir, dir, "manifest.json"), content)
}

func themeManifest(id string) string {
	return `{
  "id": "` + id + `",
  "name": "Theme ` + id + `",
  "author": "Trillian",
  "insertion_point": "page.body",
  "extension_type": "theme",
  "templates": {"home": "templates/home.twig", "watch": "templates/watch.twig"}
}`
}

func extensionManifest(id string) string {
	return `{
  "id": "` + id + `",
  "name": "Extension ` + id + `",
  "author": "Marvin",
  "insertion_point": "watch.sidebar",
  "extension_type": "extension"
}`
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s", path)
	}
}

func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q", path, substr)
	}
}
