package registry

import (
	"encoding/json"
	"path/filepath"

	"github.com/nepeta-labs/nepeta/internal/manifest"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const testRoot = "/srv/www/nepeta_test"

// testingT is satisfied by both *testing.T and *rapid.T.
type testingT interface {
	require.TestingT
	Helper()
}

// pkgDef describes one package directory written by writePackages.
type pkgDef struct {
	dir       string
	id        string
	typ       string
	templates map[string]any
	raw       string // written verbatim when set
	noFile    bool   // directory without a manifest
}

func themePkg(dir, id string) pkgDef {
	return pkgDef{dir: dir, id: id, typ: "theme", templates: map[string]any{"watch": dir + "/watch.twig"}}
}

func extensionPkg(dir, id string) pkgDef {
	return pkgDef{dir: dir, id: id, typ: "extension"}
}

func brokenPkg(dir string) pkgDef {
	return pkgDef{dir: dir, raw: `{"id": "broken", `}
}

func manifestJSON(t testingT, p pkgDef) []byte {
	t.Helper()
	m := map[string]any{
		"id":              p.id,
		"name":            "Package " + p.id,
		"author":          "Author of " + p.id,
		"insertion_point": "page.body",
		"extension_type":  p.typ,
	}
	if p.templates != nil {
		m["templates"] = p.templates
	}
	data, err := json.Marshal(m)
	require.NoError(t, err)
	return data
}

// writePackages creates an in-memory extensions root holding the packages.
func writePackages(t testingT, pkgs ...pkgDef) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll(testRoot, 0o755))

	for _, p := range pkgs {
		dir := filepath.Join(testRoot, p.dir)
		require.NoError(t, fsys.MkdirAll(dir, 0o755))
		if p.noFile {
			continue
		}
		data := []byte(p.raw)
		if p.raw == "" {
			data = manifestJSON(t, p)
		}
		require.NoError(t, afero.WriteFile(fsys, filepath.Join(dir, manifest.FileName), data, 0o644))
	}
	return fsys
}
