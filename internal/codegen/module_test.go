package codegen

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/mod/modfile"
	"golang.org/x/tools/go/packages"
)

// moduleRoot returns the directory of the enclosing go.mod and its module
// path.
func moduleRoot(t *testing.T) (string, string) {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	for {
		data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
		if err == nil {
			return dir, modfile.ModulePath(data)
		}
		parent := filepath.Dir(dir)
		require.NotEqual(t, dir, parent, "no go.mod above the test directory")
		dir = parent
	}
}

// TestGeneratedCodeBuildsAgainstRuntime generates entries for packages
// written inside this module and type-checks the output against the real
// runtime package.
func TestGeneratedCodeBuildsAgainstRuntime(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the go command")
	}
	root, modPath := moduleRoot(t)
	tmp, err := os.MkdirTemp(root, "nibelgen-fixture-")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmp) })

	navImport := modPath + "/" + filepath.Base(tmp) + "/nav"
	write := func(dir, name, src string) {
		require.NoError(t, os.MkdirAll(filepath.Join(tmp, dir), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(tmp, dir, name), []byte(src), 0o644))
	}
	write("nav", "nav.go", navSource)
	write("feature", "feature.go", strings.ReplaceAll(featureSource, `"`+navPath+`"`, `"`+navImport+`"`))

	ctx := context.Background()
	pkgs, diags, err := Load(ctx, LoadConfig{Dir: tmp}, "./...")
	require.NoError(t, err)
	require.Empty(t, diags)

	res, err := New(Options{}).Generate(pkgs)
	require.NoError(t, err)
	require.Empty(t, res.Diagnostics)
	assert.Len(t, res.Providers, 4)

	_, err = (&Writer{}).Write(res.Files, res.Dirs)
	require.NoError(t, err)

	loaded, err := packages.Load(&packages.Config{
		Context: ctx,
		Mode:    packages.NeedName | packages.NeedFiles | packages.NeedTypes | packages.NeedSyntax | packages.NeedTypesInfo,
		Dir:     tmp,
	}, "./...")
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	for _, p := range loaded {
		for _, e := range p.Errors {
			t.Errorf("%s: %v", p.PkgPath, e)
		}
		if p.Name != "feature" {
			continue
		}
		for _, name := range []string{"ProfileScreenEntryFactory", "SettingsScreenEntryFactory", "LegacySettingsEntryFactory", "SingletonScreenEntryFactory"} {
			assert.NotNil(t, p.Types.Scope().Lookup(name), name)
		}
	}
}
