package frontend_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapext/internal/extract"
	"mapext/internal/frontend"
	"mapext/internal/frontend/frontendtest"
)

const appSource = `package app

import "github.com/mapext/mapster"

type Person struct{ Name string }

type PersonDto struct{ Name string }

type Registry struct{}

//mapext:generate
func (Registry) Register(config *mapster.TypeAdapterConfig) {
	mapster.NewConfig[Person, PersonDto](config)
}

type Other struct{}

// Register has a doc comment but no directive.
func (Other) Register(config *mapster.TypeAdapterConfig) {}

//mapext:generate
func Plain(config *mapster.TypeAdapterConfig) {}

type Twice struct{}

// Twice carries the directive twice.
//
//mapext:generate
//mapext:generate extra
func (*Twice) Register(config *mapster.TypeAdapterConfig) {}

type Near struct{}

//mapext:generated
func (Near) Register(config *mapster.TypeAdapterConfig) {}
`

func TestCompilation_Declarations(t *testing.T) {
	c := frontendtest.Check(t, frontendtest.Package("example.com/app", appSource))

	decls, err := c.Declarations(frontend.DefaultDirective, extract.DefaultRules())
	require.NoError(t, err)
	require.Len(t, decls, 2)

	assert.Equal(t, "Register", decls[0].Func.Name.Name)
	assert.Equal(t, "Registry", receiverText(decls[0]))
	assert.Equal(t, "*Twice", receiverText(decls[1]))

	for _, d := range decls {
		assert.False(t, d.Key.IsZero())
		assert.Same(t, c.Fset, d.Fset)
	}

	assert.NotEqual(t, decls[0].Key, decls[1].Key)
}

func receiverText(d extract.Declaration) string {
	switch e := d.Func.Recv.List[0].Type.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.StarExpr:
		return "*" + e.X.(*ast.Ident).Name
	}

	return ""
}

func TestCompilation_KeysFollowContent(t *testing.T) {
	first := frontendtest.Check(t, frontendtest.Package("example.com/app", appSource))
	second := frontendtest.Check(t, frontendtest.Package("example.com/app", appSource))
	changed := frontendtest.Check(t, frontendtest.Package("example.com/app", appSource+"\ntype Extra struct{}\n"))

	assert.Equal(t, first.Fingerprint(), second.Fingerprint())
	assert.NotEqual(t, first.Fingerprint(), changed.Fingerprint())

	d1, err := first.Declarations("", extract.DefaultRules())
	require.NoError(t, err)

	d2, err := second.Declarations("", extract.DefaultRules())
	require.NoError(t, err)

	require.Len(t, d2, len(d1))

	for i := range d1 {
		assert.Equal(t, d1[i].Key, d2[i].Key)
	}

	rules := extract.DefaultRules()
	rules.Marker = "Other"

	d3, err := first.Declarations("", rules)
	require.NoError(t, err)
	assert.NotEqual(t, d1[0].Key, d3[0].Key, "rules are part of the key")
}

func TestCompilation_PackageLookup(t *testing.T) {
	c := frontendtest.Check(t, frontendtest.Package("example.com/app", appSource))

	p, ok := c.Package("example.com/app")
	require.True(t, ok)
	assert.Equal(t, "app", p.Name)
	assert.Equal(t, []string{"example.com/app/file0.go"}, p.Filenames)

	_, ok = c.Package("example.com/missing")
	assert.False(t, ok)

	_, ok = c.DirFor("example.com/app")
	assert.False(t, ok, "in-memory packages have no directory")

	assert.Contains(t, c.Filenames(), "example.com/app/file0.go")
}

func TestCheckSources_ReportsTypeErrors(t *testing.T) {
	_, err := frontend.CheckSources(frontend.SourcePackage{
		Path:  "example.com/bad",
		Files: map[string]string{"bad.go": "package bad\n\nvar x int = \"no\"\n"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type-checking example.com/bad")
}

func TestCheckSources_ImportsInAnyOrder(t *testing.T) {
	user := frontendtest.Package("example.com/user", `package user

import "example.com/lib"

type User struct{ L lib.Lib }
`)
	lib := frontendtest.Package("example.com/lib", "package lib\n\ntype Lib struct{}\n")

	c, err := frontend.CheckSources(user, lib)
	require.NoError(t, err)
	require.Len(t, c.Packages, 2)
	assert.Equal(t, "example.com/lib", c.Packages[0].Path)
}

func TestHasDirective(t *testing.T) {
	src := `package p

// Doc line.
//mapext:generate
func A() {}

//mapext:generate arg
func B() {}

// mapext:generate
func C() {}

func D() {}
`
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "p.go", src, parser.ParseComments)
	require.NoError(t, err)

	want := map[string]bool{"A": true, "B": true, "C": false, "D": false}

	for _, d := range file.Decls {
		fn := d.(*ast.FuncDecl)
		assert.Equal(t, want[fn.Name.Name], frontend.HasDirective(fn.Doc, frontend.DefaultDirective), fn.Name.Name)
	}
}
