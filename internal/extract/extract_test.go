package extract

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapext/internal/diagnostic"
	"mapext/internal/model"
)

const appPkg = "example.com/app"

// fakeResolver resolves type expressions by their source text.
type fakeResolver struct {
	types      map[string]model.TypeRef
	known      map[string]model.TypeIdentity
	implements map[string]bool // receiver FQN -> implements marker
}

func newFakeResolver() *fakeResolver {
	rules := DefaultRules()
	cfg := model.NewTypeIdentity(rules.RuntimePackage, rules.RuntimeName, rules.ConfigType)
	marker := model.NewTypeIdentity(rules.RuntimePackage, rules.RuntimeName, rules.Marker)
	registry := model.NewTypeIdentity(appPkg, "app", "Registry")

	r := &fakeResolver{
		types: map[string]model.TypeRef{
			"*Registry":                  {Identity: registry, Pointer: true},
			"Registry":                   {Identity: registry},
			"*mapster.TypeAdapterConfig": {Identity: cfg, Pointer: true},
			"mapster.TypeAdapterConfig":  {Identity: cfg},
		},
		known:      map[string]model.TypeIdentity{marker.FQN: marker, cfg.FQN: cfg},
		implements: map[string]bool{registry.FQN: true},
	}

	for _, name := range []string{"Person", "PersonDto", "Order", "OrderDto"} {
		r.types[name] = model.TypeRef{Identity: model.NewTypeIdentity(appPkg, "app", name)}
		r.types["*"+name] = model.TypeRef{Identity: model.NewTypeIdentity(appPkg, "app", name), Pointer: true}
	}

	return r
}

func (r *fakeResolver) LookupType(pkgPath, name string) (model.TypeIdentity, bool) {
	id, ok := r.known[pkgPath+"."+name]
	return id, ok
}

func (r *fakeResolver) Implements(t, _ model.TypeIdentity) bool {
	return r.implements[t.FQN]
}

func (r *fakeResolver) TypeOf(expr ast.Expr) (model.TypeRef, bool) {
	ref, ok := r.types[types.ExprString(expr)]
	return ref, ok
}

func parseDecl(t *testing.T, src string, resolver Resolver) Declaration {
	t.Helper()

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "registry.go", src, parser.ParseComments)
	require.NoError(t, err)

	for _, d := range file.Decls {
		if fn, ok := d.(*ast.FuncDecl); ok {
			return Declaration{Func: fn, Fset: fset, Resolver: resolver}
		}
	}

	t.Fatal("no function declaration in source")

	return Declaration{}
}

const validSrc = `package app

//mapext:generate
func (r *Registry) Register(config *mapster.TypeAdapterConfig) {
	mapster.NewConfig[Person, PersonDto](config)
	NewConfig[Order, OrderDto](config)
	mapster.NewConfig[Person, PersonDto](config).Ignore("ID")
	(mapster.NewConfig[Order, OrderDto])(config)
	mapster.NewConfig[Unknown, PersonDto](config)
	mapster.NewConfig[*Person, PersonDto](config)
	mapster.NewConfig[Person](config)
	mapster.Other[Person, OrderDto](config)
}
`

func TestExtract_Bundle(t *testing.T) {
	decl := parseDecl(t, validSrc, newFakeResolver())

	res, err := Extract(context.Background(), decl, DefaultRules())
	require.NoError(t, err)
	require.NotNil(t, res.Bundle)
	assert.Nil(t, res.Diagnostic)
	assert.Equal(t, StateBundled, res.State())

	var pairs []string
	for p := range res.Bundle.Pairs.Values() {
		pairs = append(pairs, p.String())
	}

	assert.Equal(t, []string{
		"example.com/app.Order->example.com/app.OrderDto",
		"example.com/app.Person->example.com/app.PersonDto",
	}, pairs)

	assert.Equal(t, []string{"example.com/app", DefaultRuntimePackage}, res.Bundle.RequiredImports.Slice())
	assert.Equal(t, "registry.go", res.Bundle.Origin.Path)
	assert.Equal(t, 4, res.Bundle.Origin.Lines.Start.Line, "origin is the whole method, doc comment excluded")
}

func TestExtract_MarkerNotResolvable(t *testing.T) {
	resolver := newFakeResolver()
	resolver.known = nil

	res, err := Extract(context.Background(), parseDecl(t, validSrc, resolver), DefaultRules())
	require.NoError(t, err)
	require.NotNil(t, res.Diagnostic)
	assert.Nil(t, res.Bundle)

	assert.Equal(t, diagnostic.MissingMarkerInterface, res.Diagnostic.ID)
	assert.Equal(t, []string{DefaultRuntimeName}, res.Diagnostic.Args)
	assert.Equal(t, StateMissingInterface, res.State())
	assert.Equal(t, 4, res.Diagnostic.Location.Lines.Start.Line)
	assert.Equal(t, 20, res.Diagnostic.Location.Lines.Start.Column, "anchored on the method name")
}

func TestExtract_ReceiverDoesNotImplementMarker(t *testing.T) {
	resolver := newFakeResolver()
	resolver.implements = nil

	res, err := Extract(context.Background(), parseDecl(t, validSrc, resolver), DefaultRules())
	require.NoError(t, err)
	require.NotNil(t, res.Diagnostic)

	assert.Equal(t, diagnostic.MissingMarkerInterface, res.Diagnostic.ID)
	assert.Equal(t, []string{"Registry"}, res.Diagnostic.Args)
}

func TestExtract_UnresolvedReceiverIsNamedFromSource(t *testing.T) {
	src := `package app

func (r *Unknown) Register(config *mapster.TypeAdapterConfig) {}
`

	res, err := Extract(context.Background(), parseDecl(t, src, newFakeResolver()), DefaultRules())
	require.NoError(t, err)
	require.NotNil(t, res.Diagnostic)

	assert.Equal(t, diagnostic.MissingMarkerInterface, res.Diagnostic.ID)
	assert.Equal(t, []string{"Unknown"}, res.Diagnostic.Args)
}

func TestExtract_InvalidSignature(t *testing.T) {
	tests := []struct {
		name string
		sig  string
	}{
		{name: "returns a value", sig: "Register(config *mapster.TypeAdapterConfig) error"},
		{name: "wrong name", sig: "Configure(config *mapster.TypeAdapterConfig)"},
		{name: "unexported", sig: "register(config *mapster.TypeAdapterConfig)"},
		{name: "no parameters", sig: "Register()"},
		{name: "two parameters", sig: "Register(config *mapster.TypeAdapterConfig, other *mapster.TypeAdapterConfig)"},
		{name: "two names one field", sig: "Register(a, b *mapster.TypeAdapterConfig)"},
		{name: "config by value", sig: "Register(config mapster.TypeAdapterConfig)"},
		{name: "wrong parameter type", sig: "Register(config *Person)"},
		{name: "variadic", sig: "Register(config ...*mapster.TypeAdapterConfig)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "package app\n\nfunc (r *Registry) " + tt.sig + " {\n\tmapster.NewConfig[Person, PersonDto](nil)\n}\n"

			res, err := Extract(context.Background(), parseDecl(t, src, newFakeResolver()), DefaultRules())
			require.NoError(t, err)
			require.NotNil(t, res.Diagnostic)

			assert.Equal(t, diagnostic.InvalidSignature, res.Diagnostic.ID)
			assert.Empty(t, res.Diagnostic.Args)
			assert.Equal(t, StateInvalidSignature, res.State())
		})
	}
}

func TestExtract_EmptyConfiguration(t *testing.T) {
	src := `package app

func (r Registry) Register(config *mapster.TypeAdapterConfig) {
	mapster.NewConfig[Unknown, PersonDto](config)
}
`

	res, err := Extract(context.Background(), parseDecl(t, src, newFakeResolver()), DefaultRules())
	require.NoError(t, err)
	require.NotNil(t, res.Diagnostic)

	assert.Equal(t, diagnostic.EmptyConfiguration, res.Diagnostic.ID)
	assert.Equal(t, diagnostic.DiagnosticWarning, res.Diagnostic.Severity)
	assert.Equal(t, []string{"Registry.Register"}, res.Diagnostic.Args)
	assert.True(t, res.State().Terminal())
}

func TestExtract_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Extract(ctx, parseDecl(t, validSrc, newFakeResolver()), DefaultRules())
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res.Bundle)
	assert.Nil(t, res.Diagnostic)

	pairs, err := ExtractPairs(ctx, parseDecl(t, validSrc, newFakeResolver()), DefaultRules())
	require.ErrorIs(t, err, context.Canceled)
	assert.True(t, pairs.IsEmpty())
}

func TestExtract_DeterministicAcrossRuns(t *testing.T) {
	decl := parseDecl(t, validSrc, newFakeResolver())

	first, err := Extract(context.Background(), decl, DefaultRules())
	require.NoError(t, err)

	second, err := Extract(context.Background(), decl, DefaultRules())
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
	assert.False(t, first.Equal(Result{}))
}

func TestImplementsMarker_ZeroIdentities(t *testing.T) {
	r := newFakeResolver()
	registry := r.types["Registry"].Identity

	assert.False(t, ImplementsMarker(r, model.TypeIdentity{}, registry))
	assert.False(t, ImplementsMarker(r, registry, model.TypeIdentity{}))
	assert.True(t, ImplementsMarker(r, registry, model.NewTypeIdentity(DefaultRuntimePackage, "mapster", DefaultMarker)))
}

func TestCollectImports(t *testing.T) {
	pairs := model.NewArray(
		model.TypePair{
			Source:      model.NewTypeIdentity("b.example/model", "model", "Person"),
			Destination: model.NewTypeIdentity("a.example/dto", "dto", "PersonDto"),
		},
		model.TypePair{
			Source:      model.NewTypeIdentity("b.example/model", "model", "Order"),
			Destination: model.TypeIdentity{FQN: "Local", Name: "Local"},
		},
	)

	imports := CollectImports(pairs, "z.example/runtime")

	assert.Equal(t, []string{"a.example/dto", "b.example/model", "z.example/runtime"}, imports.Slice())
	assert.Equal(t, []string{"z.example/runtime"}, CollectImports(model.Array[model.TypePair]{}, "z.example/runtime").Slice())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "bundled", StateBundled.String())
	assert.Equal(t, "unknown", State(42).String())
	assert.False(t, StateBundled.Terminal())
	assert.Equal(t, StateUnvalidated, Result{}.State())
}
