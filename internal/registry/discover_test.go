package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/nepeta-labs/nepeta/internal/manifest"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDiscover_StopsOnFirstFailure(t *testing.T) {
	fsys := writePackages(t,
		themePkg("a", "theme-a"),
		brokenPkg("b"),
		extensionPkg("c", "ext-c"),
	)
	r := New(fsys, testRoot, Options{})

	report, err := r.DiscoverAndLoadAll()

	require.Error(t, err)
	assert.Equal(t, Failed, report.Outcome)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "b", le.Package)

	assert.Equal(t, []string{"a"}, report.Loaded())
	assert.Equal(t, []string{"c"}, report.Skipped)
	require.Len(t, r.Packages(), 1)
	assert.Equal(t, "theme-a", r.Packages()[0].ID)
	_, ok := r.Package("ext-c")
	assert.False(t, ok, "packages after the failure must not be loaded")

	th, ok := r.ActiveTheme()
	require.True(t, ok)
	assert.Equal(t, "theme-a", th.ID())
}

func TestDiscover_ThemeWithoutTemplatesIsNotActivated(t *testing.T) {
	fsys := writePackages(t,
		extensionPkg("x", "ext-x"),
		pkgDef{dir: "y", id: "theme-y", typ: "theme"},
	)
	r := New(fsys, testRoot, Options{})

	report, err := r.DiscoverAndLoadAll()

	require.NoError(t, err)
	assert.Equal(t, Success, report.Outcome)
	assert.Len(t, r.Packages(), 2)
	_, ok := r.ActiveTheme()
	assert.False(t, ok)
}

func TestDiscover_BestEffortLoadsPastFailures(t *testing.T) {
	fsys := writePackages(t,
		themePkg("a", "theme-a"),
		brokenPkg("b"),
		extensionPkg("c", "ext-c"),
		pkgDef{dir: "d", noFile: true},
	)
	r := New(fsys, testRoot, Options{LoadPolicy: BestEffort})

	report, err := r.DiscoverAndLoadAll()

	require.Error(t, err)
	assert.Equal(t, Failed, report.Outcome)
	assert.Empty(t, report.Skipped)
	assert.Equal(t, []string{"a", "c"}, report.Loaded())

	failures := report.Failures()
	require.Len(t, failures, 2)
	assert.Equal(t, "b", failures[0].Name)
	assert.Equal(t, "d", failures[1].Name)
	var pe *manifest.ParseError
	assert.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, manifest.ErrNotFound)

	_, ok := r.Package("ext-c")
	assert.True(t, ok)
}

func TestDiscover_IgnoresFilesAndHiddenDirectories(t *testing.T) {
	fsys := writePackages(t,
		extensionPkg("real", "real"),
		brokenPkg(".git"),
	)
	require.NoError(t, afero.WriteFile(fsys, filepath.Join(testRoot, "README.md"), []byte("notes"), 0o644))

	r := New(fsys, testRoot, Options{})
	report, err := r.Init()

	require.NoError(t, err)
	assert.Equal(t, Success, report.Outcome)
	assert.Equal(t, []string{"real"}, r.AvailablePackages())
}

func TestDiscover_FollowsSymlinkedPackageDirectories(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()

	target := filepath.Join(outside, "dark")
	require.NoError(t, os.MkdirAll(target, 0o755))
	data := manifestJSON(t, themePkg("linked-theme", "dark"))
	require.NoError(t, os.WriteFile(filepath.Join(target, manifest.FileName), data, 0o644))
	require.NoError(t, os.Symlink(target, filepath.Join(root, "linked-theme")))

	file := filepath.Join(outside, "notes.txt")
	require.NoError(t, os.WriteFile(file, []byte("notes"), 0o644))
	require.NoError(t, os.Symlink(file, filepath.Join(root, "linked-file")))
	require.NoError(t, os.Symlink(filepath.Join(outside, "gone"), filepath.Join(root, "dangling")))

	r := New(afero.NewOsFs(), root, Options{})
	report, err := r.Init()

	require.NoError(t, err)
	assert.Equal(t, Success, report.Outcome)
	assert.Equal(t, []string{"linked-theme"}, r.AvailablePackages())
	theme, ok := r.ActiveTheme()
	require.True(t, ok)
	assert.Equal(t, "dark", theme.ID())
}

func TestDiscover_MissingRoot(t *testing.T) {
	r := New(afero.NewMemMapFs(), testRoot, Options{})

	report, err := r.Init()

	require.NoError(t, err)
	assert.Equal(t, Success, report.Outcome)
	assert.Empty(t, r.AvailablePackages())
	assert.Empty(t, r.Packages())
}

func TestDiscover_RootIsAFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, testRoot, []byte("not a dir"), 0o644))
	r := New(fsys, testRoot, Options{})

	report, err := r.DiscoverAndLoadAll()

	require.Error(t, err)
	assert.Equal(t, Failed, report.Outcome)
}

func TestInit_FreezesAndRecordsAvailable(t *testing.T) {
	fsys := writePackages(t,
		extensionPkg("b-ext", "b"),
		themePkg("a-theme", "a"),
	)
	r := New(fsys, testRoot, Options{})

	report, err := r.Init()

	require.NoError(t, err)
	assert.Equal(t, Success, report.Outcome)
	assert.True(t, r.Frozen())
	assert.Equal(t, []string{"a-theme", "b-ext"}, r.AvailablePackages())

	_, err = r.LoadPackage("b-ext")
	assert.ErrorIs(t, err, ErrFrozen)
}

func TestInit_FreezesOnFailure(t *testing.T) {
	fsys := writePackages(t, brokenPkg("bad"), extensionPkg("good", "good"))
	r := New(fsys, testRoot, Options{})

	report, err := r.Init()

	require.Error(t, err)
	assert.Equal(t, []string{"good"}, report.Skipped)
	assert.Equal(t, []string{"bad", "good"}, r.AvailablePackages())
	assert.True(t, r.Frozen())
}

func TestReportErr(t *testing.T) {
	assert.NoError(t, (&Report{Outcome: Success}).Err())
	assert.Error(t, (&Report{Outcome: Failed}).Err())
}

// For any sequence of packages, each id resolves to the last package that
// declared it, and the active theme is the last theme that has templates.
func TestProperty_LastWriteWinsAndLastThemeActive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(t, "n")

		var pkgs []pkgDef
		lastDirForID := map[string]string{}
		lastTheme := ""
		for i := 0; i < n; i++ {
			dir := fmt.Sprintf("pkg%02d", i)
			id := rapid.SampledFrom([]string{"p0", "p1", "p2", "p3"}).Draw(t, "id")
			isTheme := rapid.Bool().Draw(t, "theme")
			withTemplates := rapid.Bool().Draw(t, "templates")

			p := extensionPkg(dir, id)
			if isTheme {
				p.typ = "theme"
			}
			if withTemplates {
				p.templates = map[string]any{"watch": dir + ".twig"}
			}
			pkgs = append(pkgs, p)

			lastDirForID[id] = dir
			if isTheme && withTemplates {
				lastTheme = dir
			}
		}

		r := New(writePackages(t, pkgs...), testRoot, Options{})
		report, err := r.DiscoverAndLoadAll()
		if err != nil {
			t.Fatalf("DiscoverAndLoadAll() error: %v", err)
		}
		if report.Outcome != Success {
			t.Fatalf("Outcome = %v, want success", report.Outcome)
		}

		if got := len(r.Packages()); got != len(lastDirForID) {
			t.Fatalf("loaded %d packages, want %d", got, len(lastDirForID))
		}
		for id, dir := range lastDirForID {
			d, ok := r.Package(id)
			if !ok {
				t.Fatalf("id %q not registered", id)
			}
			if want := filepath.Join(testRoot, dir); d.PathOnDisk != want {
				t.Fatalf("id %q from %s, want %s", id, d.PathOnDisk, want)
			}
		}

		th, ok := r.ActiveTheme()
		if lastTheme == "" {
			if ok {
				t.Fatalf("active theme %q, want none", th.ID())
			}
			return
		}
		if !ok {
			t.Fatalf("no active theme, want the one from %s", lastTheme)
		}
		if want := filepath.Join(testRoot, lastTheme); th.Descriptor.PathOnDisk != want {
			t.Fatalf("active theme from %s, want %s", th.Descriptor.PathOnDisk, want)
		}
	})
}
