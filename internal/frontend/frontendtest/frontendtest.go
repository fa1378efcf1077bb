// Package frontendtest provides an in-memory mapping runtime and helpers for
// type-checking test sources.
package frontendtest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"mapext/internal/extract"
	"mapext/internal/frontend"
)

// RuntimePath is the import path of the stub runtime.
const RuntimePath = extract.DefaultRuntimePackage

// RuntimeSource is a minimal runtime exposing the well-known declarations.
const RuntimeSource = `package mapster

// TypeAdapterConfig collects mapping configuration.
type TypeAdapterConfig struct{}

// Registerer is implemented by mapping registrations.
type Registerer interface {
	Register(config *TypeAdapterConfig)
}

// Setter configures one mapping.
type Setter[S, D any] struct{}

// Ignore excludes a destination member.
func (s *Setter[S, D]) Ignore(name string) *Setter[S, D] { return s }

// NewConfig declares a mapping from S to D.
func NewConfig[S, D any](config *TypeAdapterConfig) *Setter[S, D] { return &Setter[S, D]{} }

// Adapt converts source into a new D.
func Adapt[D any](source any) D {
	var d D
	return d
}
`

// Runtime returns the stub runtime package.
func Runtime() frontend.SourcePackage {
	return frontend.SourcePackage{
		Path:  RuntimePath,
		Files: map[string]string{"mapster.go": RuntimeSource},
	}
}

// Package builds a source package whose files are named file0.go, file1.go, ...
func Package(path string, files ...string) frontend.SourcePackage {
	p := frontend.SourcePackage{Path: path, Files: make(map[string]string, len(files))}
	for i, f := range files {
		p.Files[fmt.Sprintf("file%d.go", i)] = f
	}

	return p
}

// Check type-checks pkgs together with the stub runtime.
func Check(t testing.TB, pkgs ...frontend.SourcePackage) *frontend.Compilation {
	t.Helper()

	c, err := frontend.CheckSources(append([]frontend.SourcePackage{Runtime()}, pkgs...)...)
	require.NoError(t, err)

	return c
}
