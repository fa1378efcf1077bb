package config

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"mapext/internal/common"
	"mapext/internal/extract"
	"mapext/internal/frontend"
	"mapext/internal/gen"
	"mapext/internal/group"
	"mapext/internal/pipeline"
)

// Config is the root of a configuration file.
type Config struct {
	// Runtime names the mapping runtime and its well-known declarations.
	Runtime RuntimeConfig `yaml:"runtime" toml:"runtime"`
	// Directive marks registration methods, without the leading "//".
	Directive string `yaml:"directive" toml:"directive"`
	// Output controls generated file naming and placement.
	Output OutputConfig `yaml:"output" toml:"output"`
	// Jobs bounds parallel extraction and codegen. Zero means GOMAXPROCS.
	Jobs int `yaml:"jobs" toml:"jobs"`
}

// RuntimeConfig names the runtime declarations.
type RuntimeConfig struct {
	Package        string `yaml:"package" toml:"package"`
	Name           string `yaml:"name" toml:"name"`
	Marker         string `yaml:"marker" toml:"marker"`
	ConfigType     string `yaml:"config_type" toml:"config_type"`
	RegisterMethod string `yaml:"register_method" toml:"register_method"`
	RegisterCall   string `yaml:"register_call" toml:"register_call"`
	AdaptFunc      string `yaml:"adapt_func" toml:"adapt_func"`
}

// OutputConfig controls generated files.
type OutputConfig struct {
	// Suffix is appended to every artifact name.
	Suffix string `yaml:"suffix" toml:"suffix"`
	// Dir writes every file into one directory instead of next to its package.
	Dir string `yaml:"dir" toml:"dir"`
	// DefaultNamespace replaces an empty source namespace.
	DefaultNamespace string `yaml:"default_namespace" toml:"default_namespace"`
	// DebugDir receives unformatted sidecars when formatting fails.
	DebugDir string `yaml:"debug_dir" toml:"debug_dir"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	var c Config
	applyDefaults(&c)

	return &c
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(c *Config) {
	r := &c.Runtime

	if r.Package == "" {
		r.Package = extract.DefaultRuntimePackage
		if r.Name == "" {
			r.Name = extract.DefaultRuntimeName
		}
	}

	if r.Name == "" {
		r.Name = common.PkgAlias(r.Package)
	}

	r.Marker = orDefault(r.Marker, extract.DefaultMarker)
	r.ConfigType = orDefault(r.ConfigType, extract.DefaultConfigType)
	r.RegisterMethod = orDefault(r.RegisterMethod, extract.DefaultRegisterMethod)
	r.RegisterCall = orDefault(r.RegisterCall, extract.DefaultRegisterCall)
	r.AdaptFunc = orDefault(r.AdaptFunc, gen.DefaultAdaptFunc)

	c.Directive = orDefault(c.Directive, frontend.DefaultDirective)
	c.Output.Suffix = orDefault(c.Output.Suffix, group.DefaultSuffix)
	c.Output.DefaultNamespace = orDefault(c.Output.DefaultNamespace, group.DefaultNamespace)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}

	return v
}

// Validate checks that every configured name can appear in Go source.
func (c *Config) Validate() error {
	var errs *multierror.Error

	if c.Runtime.Package == "" {
		errs = multierror.Append(errs, fmt.Errorf("runtime.package must not be empty"))
	}

	idents := []struct {
		key, value string
	}{
		{"runtime.name", c.Runtime.Name},
		{"runtime.marker", c.Runtime.Marker},
		{"runtime.config_type", c.Runtime.ConfigType},
		{"runtime.register_method", c.Runtime.RegisterMethod},
		{"runtime.register_call", c.Runtime.RegisterCall},
		{"runtime.adapt_func", c.Runtime.AdaptFunc},
	}

	for _, id := range idents {
		if !token.IsIdentifier(id.value) {
			errs = multierror.Append(errs, fmt.Errorf("%s: %q is not a Go identifier", id.key, id.value))
		}
	}

	if strings.ContainsAny(c.Directive, " \t\n") {
		errs = multierror.Append(errs, fmt.Errorf("directive: %q must not contain whitespace", c.Directive))
	}

	if strings.ContainsAny(c.Output.Suffix, `/\`) {
		errs = multierror.Append(errs, fmt.Errorf("output.suffix: %q must not contain path separators", c.Output.Suffix))
	}

	if c.Jobs < 0 {
		errs = multierror.Append(errs, fmt.Errorf("jobs: must not be negative, got %d", c.Jobs))
	}

	return errs.ErrorOrNil()
}

// Rules returns the extraction rules.
func (c *Config) Rules() extract.Rules {
	return extract.Rules{
		RuntimePackage: c.Runtime.Package,
		RuntimeName:    c.Runtime.Name,
		Marker:         c.Runtime.Marker,
		ConfigType:     c.Runtime.ConfigType,
		RegisterMethod: c.Runtime.RegisterMethod,
		RegisterCall:   c.Runtime.RegisterCall,
	}
}

// GroupOptions returns the grouping options.
func (c *Config) GroupOptions() group.Options {
	return group.Options{
		RuntimePackage:   c.Runtime.Package,
		DefaultNamespace: c.Output.DefaultNamespace,
		Suffix:           c.Output.Suffix,
	}
}

// GeneratorConfig returns the code generator configuration.
func (c *Config) GeneratorConfig() gen.GeneratorConfig {
	return gen.GeneratorConfig{
		RuntimePackage: c.Runtime.Package,
		RuntimeName:    c.Runtime.Name,
		AdaptFunc:      c.Runtime.AdaptFunc,
		Tool:           gen.DefaultTool,
		DebugDir:       c.Output.DebugDir,
	}
}

// PipelineOptions returns the runner options.
func (c *Config) PipelineOptions(logger hclog.Logger) pipeline.Options {
	return pipeline.Options{
		Rules:     c.Rules(),
		Group:     c.GroupOptions(),
		Generator: c.GeneratorConfig(),
		Jobs:      c.Jobs,
		Logger:    logger,
	}
}
