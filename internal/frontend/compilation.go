package frontend

import (
	"cmp"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"mapext/internal/extract"
	"mapext/internal/model"
)

// DefaultDirective marks registration methods.
const DefaultDirective = "mapext:generate"

// Package is one type-checked package of the compilation.
type Package struct {
	Path      string
	Name      string
	Dir       string
	Files     []*ast.File
	Filenames []string // parallel to Files
	Types     *types.Package
	Info      *types.Info
	// Digest covers the path and the content of every file.
	Digest model.Digest
}

// Compilation is a set of type-checked packages sharing one file set.
type Compilation struct {
	Fset     *token.FileSet
	Packages []*Package // sorted by Path
}

func newCompilation(fset *token.FileSet, pkgs []*Package) *Compilation {
	slices.SortFunc(pkgs, func(a, b *Package) int {
		return cmp.Compare(a.Path, b.Path)
	})

	return &Compilation{Fset: fset, Packages: pkgs}
}

// Fingerprint digests every package. Equal fingerprints mean identical
// sources, hence identical type information.
func (c *Compilation) Fingerprint() model.Digest {
	digests := make([]model.Digest, 0, len(c.Packages))
	for _, p := range c.Packages {
		digests = append(digests, p.Digest)
	}

	if len(digests) == 0 {
		return model.DigestBytes()
	}

	return model.Combine(digests[0], digests[1:]...)
}

// Package returns the package with the given import path.
func (c *Compilation) Package(path string) (*Package, bool) {
	i, ok := slices.BinarySearchFunc(c.Packages, path, func(p *Package, path string) int {
		return cmp.Compare(p.Path, path)
	})
	if !ok {
		return nil, false
	}

	return c.Packages[i], true
}

// DirFor returns the source directory of the package with import path ns.
func (c *Compilation) DirFor(ns string) (string, bool) {
	p, ok := c.Package(ns)
	if !ok || p.Dir == "" {
		return "", false
	}

	return p.Dir, true
}

// Filenames returns every source file of the compilation, sorted.
func (c *Compilation) Filenames() []string {
	var out []string
	for _, p := range c.Packages {
		out = append(out, p.Filenames...)
	}

	slices.Sort(out)

	return out
}

// Declarations returns every method whose doc comment carries directive, in
// package, file and source order. Plain functions are ignored.
func (c *Compilation) Declarations(directive string, rules extract.Rules) ([]extract.Declaration, error) {
	if directive == "" {
		directive = DefaultDirective
	}

	rulesDigest, err := model.DigestOf(rules)
	if err != nil {
		return nil, err
	}

	fingerprint := c.Fingerprint()

	var decls []extract.Declaration

	for _, pkg := range c.Packages {
		resolver := NewTypesResolver(pkg.Types, pkg.Info)

		for i, file := range pkg.Files {
			for _, d := range file.Decls {
				fn, ok := d.(*ast.FuncDecl)
				if !ok || fn.Recv == nil || !HasDirective(fn.Doc, directive) {
					continue
				}

				offset := c.Fset.Position(fn.Pos()).Offset

				decls = append(decls, extract.Declaration{
					Func:     fn,
					Fset:     c.Fset,
					Resolver: resolver,
					Key: model.Combine(fingerprint, rulesDigest, model.DigestBytes(
						[]byte(filepath.ToSlash(pkg.Filenames[i])),
						[]byte(strconv.Itoa(offset)),
					)),
				})
			}
		}
	}

	return decls, nil
}

// HasDirective reports whether doc contains the line //directive, optionally
// followed by arguments. Directives are matched on the raw comment list since
// CommentGroup.Text drops them.
func HasDirective(doc *ast.CommentGroup, directive string) bool {
	if doc == nil {
		return false
	}

	marker := "//" + directive

	for _, c := range doc.List {
		if c.Text == marker || strings.HasPrefix(c.Text, marker+" ") {
			return true
		}
	}

	return false
}
