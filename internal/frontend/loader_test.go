package frontend_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapext/internal/extract"
	"mapext/internal/frontend"
	"mapext/internal/gen"
)

func writeModule(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	files["go.mod"] = "module example.com/app\n\ngo 1.24\n"

	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	return dir
}

func sameDir(t *testing.T, want, got string) {
	t.Helper()

	w, err := filepath.EvalSymlinks(want)
	require.NoError(t, err)

	g, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)

	assert.Equal(t, w, g)
}

func TestLoader_Load(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"model/person.go": "package model\n\ntype Person struct{ Name string }\n",
		"dto/dto.go":      "package dto\n\nimport \"example.com/app/model\"\n\ntype PersonDto struct{ P model.Person }\n",
	})

	loader := &frontend.Loader{Dir: dir}
	comp, err := loader.Load(context.Background(), "./...")
	require.NoError(t, err)
	require.Len(t, comp.Packages, 2)

	assert.Equal(t, "example.com/app/dto", comp.Packages[0].Path)
	assert.Equal(t, "example.com/app/model", comp.Packages[1].Path)

	model, ok := comp.Package("example.com/app/model")
	require.True(t, ok)
	assert.Equal(t, "model", model.Name)
	assert.False(t, model.Digest.IsZero())
	require.Len(t, model.Filenames, 1)
	assert.Equal(t, "person.go", filepath.Base(model.Filenames[0]))
	sameDir(t, filepath.Join(dir, "model"), model.Dir)

	out, ok := comp.DirFor("example.com/app/dto")
	require.True(t, ok)
	sameDir(t, filepath.Join(dir, "dto"), out)

	_, ok = comp.DirFor("example.com/app/missing")
	assert.False(t, ok)

	decls, err := comp.Declarations(frontend.DefaultDirective, extract.DefaultRules())
	require.NoError(t, err)
	assert.Empty(t, decls)
}

func TestLoader_DigestFollowsContent(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"model/person.go": "package model\n\ntype Person struct{ Name string }\n",
	})

	loader := &frontend.Loader{Dir: dir}

	first, err := loader.Load(context.Background(), "./...")
	require.NoError(t, err)

	again, err := loader.Load(context.Background(), "./...")
	require.NoError(t, err)
	assert.Equal(t, first.Fingerprint(), again.Fingerprint())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "model", "person.go"),
		[]byte("package model\n\ntype Person struct{ Name, Email string }\n"), 0o644))

	changed, err := loader.Load(context.Background(), "./...")
	require.NoError(t, err)
	assert.NotEqual(t, first.Fingerprint(), changed.Fingerprint())
	assert.NotEqual(t, first.Packages[0].Digest, changed.Packages[0].Digest)
}

func TestLoader_PackageErrors(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"bad/bad.go": "package bad\n\nvar X int = \"text\"\n",
	})

	loader := &frontend.Loader{Dir: dir}
	_, err := loader.Load(context.Background(), "./...")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "package errors")
}

func TestLoader_IgnoresErrorsInGeneratedFiles(t *testing.T) {
	stale := gen.Header(gen.DefaultTool) + "\n\npackage model\n\nvar _ = missing.Thing\n"

	dir := writeModule(t, map[string]string{
		"model/person.go":                   "package model\n\ntype Person struct{ Name string }\n",
		"model/example.com_app.Person.g.go": stale,
	})

	strict := &frontend.Loader{Dir: dir}
	_, err := strict.Load(context.Background(), "./...")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "example.com_app.Person.g.go")

	marker := gen.Marker{Tool: gen.DefaultTool, Suffix: ".g.go"}
	tolerant := &frontend.Loader{Dir: dir, Generated: marker.IsGenerated}

	comp, err := tolerant.Load(context.Background(), "./...")
	require.NoError(t, err)

	model, ok := comp.Package("example.com/app/model")
	require.True(t, ok)
	assert.NotNil(t, model.Types.Scope().Lookup("Person"))
}

func TestLoader_HandWrittenErrorsStayFatal(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"model/person.go":   "package model\n\ntype Person struct{ Name string }\n",
		"model/broken.g.go": "package model\n\nvar _ = missing.Thing\n",
	})

	marker := gen.Marker{Tool: gen.DefaultTool, Suffix: ".g.go"}
	loader := &frontend.Loader{Dir: dir, Generated: marker.IsGenerated}

	_, err := loader.Load(context.Background(), "./...")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.g.go")
}
