package frontend

import (
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"maps"
	"path"
	"slices"

	"github.com/hashicorp/go-multierror"
)

// SourcePackage is an in-memory package: import path plus file name to content.
type SourcePackage struct {
	Path  string
	Files map[string]string
}

// CheckSources parses and type-checks in-memory packages. Packages may import
// each other in any order; other imports fall back to the default importer.
// Any parse or type error fails the check.
func CheckSources(pkgs ...SourcePackage) (*Compilation, error) {
	c := &sourceChecker{
		fset:     token.NewFileSet(),
		sources:  make(map[string]SourcePackage, len(pkgs)),
		checked:  make(map[string]*Package, len(pkgs)),
		active:   make(map[string]bool),
		fallback: importer.Default(),
	}

	for _, p := range pkgs {
		c.sources[p.Path] = p
	}

	for _, p := range pkgs {
		if _, err := c.check(p.Path); err != nil {
			return nil, err
		}
	}

	return newCompilation(c.fset, slices.Collect(maps.Values(c.checked))), nil
}

type sourceChecker struct {
	fset     *token.FileSet
	sources  map[string]SourcePackage
	checked  map[string]*Package
	active   map[string]bool
	fallback types.Importer
}

// Import implements types.Importer.
func (c *sourceChecker) Import(pkgPath string) (*types.Package, error) {
	if _, ok := c.sources[pkgPath]; !ok {
		return c.fallback.Import(pkgPath)
	}

	p, err := c.check(pkgPath)
	if err != nil {
		return nil, err
	}

	return p.Types, nil
}

func (c *sourceChecker) check(pkgPath string) (*Package, error) {
	if p, ok := c.checked[pkgPath]; ok {
		return p, nil
	}

	if c.active[pkgPath] {
		return nil, fmt.Errorf("import cycle through %s", pkgPath)
	}

	c.active[pkgPath] = true
	defer delete(c.active, pkgPath)

	src := c.sources[pkgPath]
	names := slices.Sorted(maps.Keys(src.Files))

	p := &Package{
		Path: pkgPath,
	}

	contents := make([][]byte, 0, len(names))

	for _, name := range names {
		filename := path.Join(pkgPath, name)

		file, err := parser.ParseFile(c.fset, filename, src.Files[name], parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", filename, err)
		}

		p.Files = append(p.Files, file)
		p.Filenames = append(p.Filenames, filename)
		contents = append(contents, []byte(src.Files[name]))
	}

	var errs *multierror.Error

	conf := types.Config{
		Importer: c,
		Error: func(err error) {
			errs = multierror.Append(errs, err)
		},
	}

	p.Info = newInfo()

	pkg, _ := conf.Check(pkgPath, c.fset, p.Files, p.Info)
	if err := errs.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("type-checking %s: %w", pkgPath, err)
	}

	p.Types = pkg
	p.Name = pkg.Name()
	p.Digest = packageDigest(p.Path, p.Filenames, contents)
	c.checked[pkgPath] = p

	return p, nil
}

func newInfo() *types.Info {
	return &types.Info{
		Types:      make(map[ast.Expr]types.TypeAndValue),
		Defs:       make(map[*ast.Ident]types.Object),
		Uses:       make(map[*ast.Ident]types.Object),
		Implicits:  make(map[ast.Node]types.Object),
		Selections: make(map[*ast.SelectorExpr]*types.Selection),
		Scopes:     make(map[ast.Node]*types.Scope),
		Instances:  make(map[*ast.Ident]types.Instance),
	}
}
