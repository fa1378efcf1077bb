package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapext/internal/frontend/frontendtest"
	"mapext/internal/gen"
)

const personSource = "package model\n\ntype Person struct{ Name string }\n"

func registrySource(module string, pairs ...string) string {
	src := `package reg

import (
	"` + module + `/dto"
	"` + module + `/dto2"
	"` + module + `/mapster"
	"` + module + `/model"
)

var (
	_ dto.PersonDto
	_ dto2.PersonDto
	_ model.Person
)

type Registry struct{}

//mapext:generate
func (Registry) Register(config *mapster.TypeAdapterConfig) {
`
	for _, p := range pairs {
		src += "\tmapster.NewConfig[" + p + "](config)\n"
	}

	return src + "}\n"
}

// newModule writes a module with the stub runtime, a config pointing at it
// and the given files, then changes into it.
func newModule(t *testing.T, module string, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()

	files["go.mod"] = "module " + module + "\n\ngo 1.24\n"
	files["mapext.yaml"] = "runtime:\n  package: " + module + "/mapster\n"
	files["mapster/mapster.go"] = frontendtest.RuntimeSource

	writeFiles(t, dir, files)
	t.Chdir(dir)

	return dir
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// appModule is a module with one source type, two same-named destinations
// in different packages and a registration of the given pairs.
func appModule(t *testing.T, pairs ...string) string {
	t.Helper()

	return newModule(t, "example.com/app", map[string]string{
		"model/person.go": personSource,
		"dto/dto.go":      "package dto\n\ntype PersonDto struct{ Name string }\n",
		"dto2/dto.go":     "package dto2\n\ntype PersonDto struct{ Name string }\n",
		"reg/reg.go":      registrySource("example.com/app", pairs...),
	})
}

func goBuild(t *testing.T, dir string) {
	t.Helper()

	cmd := exec.CommandContext(t.Context(), "go", "build", "./...")
	cmd.Dir = dir

	b, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("compile failed: %v\n%s", err, string(b))
	}
}

const personFile = "example.com_app_model.Person.g.go"

func TestGenerate_WritesNextToPackage(t *testing.T) {
	dir := appModule(t, "model.Person, dto.PersonDto")

	out, err := execute(t, "generate", "--color", "off")
	require.NoError(t, err, out)
	assert.Contains(t, out, "generated 1 file(s)")

	content, err := os.ReadFile(filepath.Join(dir, "model", personFile))
	require.NoError(t, err)
	assert.Contains(t, string(content), gen.Header(gen.DefaultTool))
	assert.Contains(t, string(content), "func (PersonExtensions) ToPersonDto(source Person) dto.PersonDto {")

	goBuild(t, dir)
}

func TestGenerate_OutDir(t *testing.T) {
	dir := appModule(t, "model.Person, dto.PersonDto")

	out, err := execute(t, "generate", "--color", "off", "--out", "generated")
	require.NoError(t, err, out)
	assert.Contains(t, out, "generated 1 file(s)")

	_, err = os.Stat(filepath.Join(dir, "generated", personFile))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "model", personFile))
	assert.True(t, os.IsNotExist(err), "nothing is written next to the package")
}

func TestGenerate_CollisionRemovesEarlierOutput(t *testing.T) {
	dir := appModule(t, "model.Person, dto.PersonDto")

	out, err := execute(t, "generate", "--color", "off")
	require.NoError(t, err, out)
	require.FileExists(t, filepath.Join(dir, "model", personFile))

	writeFiles(t, dir, map[string]string{
		"reg/reg.go": registrySource("example.com/app", "model.Person, dto.PersonDto", "model.Person, dto2.PersonDto"),
	})

	out, err = execute(t, "generate", "--color", "off")
	require.ErrorIs(t, err, errDiagnostics)
	assert.Contains(t, out, "ME0004")
	assert.Contains(t, out, "generated 0 file(s)")

	_, err = os.Stat(filepath.Join(dir, "model", personFile))
	assert.True(t, os.IsNotExist(err), "collided source keeps no generated file")
}

func TestGenerate_RecoversFromStaleOutput(t *testing.T) {
	dir := appModule(t, "model.Person, dto.PersonDto")

	out, err := execute(t, "generate", "--color", "off")
	require.NoError(t, err, out)

	// The earlier output now references a type that no longer exists.
	writeFiles(t, dir, map[string]string{
		"dto/dto.go": "package dto\n\ntype PersonDTO struct{ Name string }\n",
		"reg/reg.go": `package reg

import (
	"example.com/app/dto"
	"example.com/app/mapster"
	"example.com/app/model"
)

type Registry struct{}

//mapext:generate
func (Registry) Register(config *mapster.TypeAdapterConfig) {
	mapster.NewConfig[model.Person, dto.PersonDTO](config)
}
`,
	})

	out, err = execute(t, "generate", "--color", "off")
	require.NoError(t, err, out)
	assert.Contains(t, out, "generated 1 file(s)")

	content, err := os.ReadFile(filepath.Join(dir, "model", personFile))
	require.NoError(t, err)
	assert.Contains(t, string(content), "ToPersonDTO(source Person) dto.PersonDTO")
	assert.NotContains(t, string(content), "dto.PersonDto")

	goBuild(t, dir)
}

func TestGenerate_KeepsHandWrittenFiles(t *testing.T) {
	dir := appModule(t, "model.Person, dto.PersonDto")

	handWritten := filepath.Join(dir, "model", "helpers.g.go")
	writeFiles(t, dir, map[string]string{"model/helpers.g.go": "package model\n\nfunc helper() {}\n"})

	out, err := execute(t, "generate", "--color", "off")
	require.NoError(t, err, out)
	assert.FileExists(t, handWritten)
}

func TestGenerate_RejectsConstrainedFileName(t *testing.T) {
	dir := newModule(t, "myapp", map[string]string{
		"js/person.go": "package js\n\ntype Person struct{ Name string }\n",
		"dto/dto.go":   "package dto\n\ntype PersonDto struct{ Name string }\n",
		"reg/reg.go": `package reg

import (
	"myapp/dto"
	"myapp/js"
	"myapp/mapster"
)

type Registry struct{}

//mapext:generate
func (Registry) Register(config *mapster.TypeAdapterConfig) {
	mapster.NewConfig[js.Person, dto.PersonDto](config)
}
`,
	})

	out, err := execute(t, "generate", "--color", "off")
	require.Error(t, err, out)
	assert.Contains(t, err.Error(), "myapp_js.Person.g.go carries a build constraint")

	_, err = os.Stat(filepath.Join(dir, "js", "myapp_js.Person.g.go"))
	assert.True(t, os.IsNotExist(err))
}

func TestGenerate_CountsOnlyWrittenFiles(t *testing.T) {
	dir := appModule(t, "model.Person, dto.PersonDto")

	// The source package is not loaded, so its directory is unknown.
	out, err := execute(t, "generate", "--color", "off", "./reg")
	require.NoError(t, err, out)
	assert.Contains(t, out, "generated 0 file(s)")

	_, err = os.Stat(filepath.Join(dir, "model", personFile))
	assert.True(t, os.IsNotExist(err))
}

func TestCheck_List(t *testing.T) {
	dir := appModule(t, "model.Person, dto.PersonDto")

	out, err := execute(t, "check", "--color", "off", "--list")
	require.NoError(t, err, out)
	assert.Contains(t, out, personFile+"\texample.com/app/model.Person\t1 destination(s)")

	_, err = os.Stat(filepath.Join(dir, "model", personFile))
	assert.True(t, os.IsNotExist(err), "check writes nothing")
}

func TestCheck_ReportsErrors(t *testing.T) {
	appModule(t, "model.Person, dto.PersonDto", "model.Person, dto2.PersonDto")

	out, err := execute(t, "check", "--color", "off")
	require.ErrorIs(t, err, errDiagnostics)
	assert.Contains(t, out, "error ME0004")
}
