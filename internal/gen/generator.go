package gen

import (
	"bytes"
	"fmt"
	"go/format"

	"mapext/internal/diagnostic"
	"mapext/internal/extract"
	"mapext/internal/model"
)

// DefaultAdaptFunc is the runtime's generic conversion function.
const DefaultAdaptFunc = "Adapt"

// DefaultTool names the generator in the file header.
const DefaultTool = "mapext"

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// RuntimePackage is the import path of the mapping runtime.
	RuntimePackage string
	// RuntimeName is the declared package name of the runtime.
	RuntimeName string
	// AdaptFunc is called as <runtime>.<AdaptFunc>[Dst](source).
	AdaptFunc string
	// Tool is written into the "Code generated by" header.
	Tool string
	// DebugDir receives unformatted sidecars when formatting fails.
	// Empty disables them.
	DebugDir string
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		RuntimePackage: extract.DefaultRuntimePackage,
		RuntimeName:    extract.DefaultRuntimeName,
		AdaptFunc:      DefaultAdaptFunc,
		Tool:           DefaultTool,
	}
}

// Generator renders per-source groups into Go source files.
// It holds no per-run state and is safe for concurrent use.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
// Zero fields fall back to DefaultGeneratorConfig.
func NewGenerator(config GeneratorConfig) *Generator {
	def := DefaultGeneratorConfig()

	if config.RuntimePackage == "" {
		config.RuntimePackage = def.RuntimePackage
	}

	if config.RuntimeName == "" {
		config.RuntimeName = def.RuntimeName
	}

	if config.AdaptFunc == "" {
		config.AdaptFunc = def.AdaptFunc
	}

	if config.Tool == "" {
		config.Tool = def.Tool
	}

	return &Generator{config: config}
}

// Config returns the effective configuration.
func (g *Generator) Config() GeneratorConfig {
	return g.config
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the artifact name (e.g., "example.com_app.Person.g.go").
	Filename string
	// Namespace is the import path of the package the file belongs to.
	Namespace string
	// Content is the formatted Go source code.
	Content []byte
}

// Equal compares files by name, namespace and content.
func (f GeneratedFile) Equal(other GeneratedFile) bool {
	return f.Filename == other.Filename &&
		f.Namespace == other.Namespace &&
		bytes.Equal(f.Content, other.Content)
}

// Result holds exactly one of File or Diagnostic.
type Result struct {
	File       *GeneratedFile
	Diagnostic *diagnostic.Diagnostic
}

// State derives the codegen state from the result.
func (r Result) State() State {
	switch {
	case r.File != nil:
		return StateGenerated
	case r.Diagnostic != nil:
		return StateNameCollision
	default:
		return StateGrouped
	}
}

// Equal compares results by content.
func (r Result) Equal(other Result) bool {
	switch {
	case (r.File == nil) != (other.File == nil):
		return false
	case (r.Diagnostic == nil) != (other.Diagnostic == nil):
		return false
	case r.File != nil && !r.File.Equal(*other.File):
		return false
	case r.Diagnostic != nil && !r.Diagnostic.Equal(*other.Diagnostic):
		return false
	}

	return true
}

// Generate checks the group for destination name collisions and renders it.
// A collision yields an ME0004 diagnostic at the group's origin and no file.
func (g *Generator) Generate(group model.PerSourceGroup) (Result, error) {
	if name, ok := FindNameCollision(group); ok {
		d := diagnostic.New(diagnostic.NameCollision, group.Origin, group.Source.FQN, name)

		return Result{Diagnostic: &d}, nil
	}

	file, err := g.Render(group)
	if err != nil {
		return Result{}, fmt.Errorf("generating %s: %w", group.Source, err)
	}

	return Result{File: &file}, nil
}

// Render produces the source file of a group without checking collisions.
// On a formatting failure the unformatted text is returned along with the error.
func (g *Generator) Render(group model.PerSourceGroup) (GeneratedFile, error) {
	data := g.buildTemplateData(group)

	file := GeneratedFile{
		Filename:  group.OutputName,
		Namespace: group.Namespace,
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return file, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		// Best-effort: the sidecar only aids debugging.
		_ = writeDebugUnformatted(g.config.DebugDir, file.Filename, buf.Bytes())

		file.Content = buf.Bytes()

		return file, fmt.Errorf("formatting code: %w (unformatted code returned)", err)
	}

	file.Content = formatted

	return file, nil
}
