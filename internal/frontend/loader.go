package frontend

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"os"
	"path/filepath"
	"regexp"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/tools/go/packages"

	"mapext/internal/model"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Loader loads Go packages into a Compilation.
type Loader struct {
	// Dir is the working directory for pattern resolution. Empty means the
	// current directory.
	Dir string
	// Tests includes test packages.
	Tests bool
	// Logger receives load progress; nil disables logging.
	Logger hclog.Logger
	// Generated reports whether a file was written by an earlier run.
	// Errors located in such files are logged and ignored, so a stale
	// output can always be regenerated.
	Generated func(filename string) bool
}

// Load loads the packages matching patterns (e.g., "./...", "example.com/app/model").
// Any package error fails the load.
func (l *Loader) Load(ctx context.Context, patterns ...string) (*Compilation, error) {
	logger := l.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	fset := token.NewFileSet()
	cfg := &packages.Config{
		Mode:    LoadMode,
		Context: ctx,
		Dir:     l.Dir,
		Tests:   l.Tests,
		Fset:    fset,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs *multierror.Error

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			if l.inGeneratedFile(e) {
				logger.Debug("ignoring error in generated file", "package", pkg.PkgPath, "error", e.Msg, "pos", e.Pos)

				continue
			}

			errs = multierror.Append(errs, e)
		}
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("package errors: %w", err)
	}

	result := make([]*Package, 0, len(pkgs))
	seen := make(map[string]bool, len(pkgs))

	for _, pkg := range pkgs {
		// With Tests, a package may appear twice; keep the first variant.
		if seen[pkg.PkgPath] {
			continue
		}

		seen[pkg.PkgPath] = true

		p, err := fromPackages(fset, pkg)
		if err != nil {
			return nil, fmt.Errorf("failed to process package %s: %w", pkg.PkgPath, err)
		}

		logger.Debug("loaded package", "path", p.Path, "files", len(p.Files), "digest", p.Digest.Short())

		result = append(result, p)
	}

	return newCompilation(fset, result), nil
}

func fromPackages(fset *token.FileSet, pkg *packages.Package) (*Package, error) {
	p := &Package{
		Path:  pkg.PkgPath,
		Name:  pkg.Name,
		Files: pkg.Syntax,
		Types: pkg.Types,
		Info:  pkg.TypesInfo,
	}

	contents := make([][]byte, 0, len(pkg.Syntax))

	for _, file := range pkg.Syntax {
		name := filename(fset, file)

		content, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}

		p.Filenames = append(p.Filenames, name)
		contents = append(contents, content)
	}

	if len(p.Filenames) > 0 {
		p.Dir = filepath.Dir(p.Filenames[0])
	}

	p.Digest = packageDigest(p.Path, p.Filenames, contents)

	return p, nil
}

var (
	posSuffix = regexp.MustCompile(`(:[0-9]+){1,2}$`)
	msgPos    = regexp.MustCompile(`(?m)^(\S+\.go):[0-9]+(:[0-9]+)?:`)
)

// inGeneratedFile reports whether every position e mentions lies in a
// generated file. Positions come from e.Pos or, for build output, from the
// "file:line:col:" prefixes of the message lines.
func (l *Loader) inGeneratedFile(e packages.Error) bool {
	if l.Generated == nil {
		return false
	}

	var files []string

	if e.Pos != "" && e.Pos != "-" {
		files = append(files, posSuffix.ReplaceAllString(e.Pos, ""))
	} else {
		for _, m := range msgPos.FindAllStringSubmatch(e.Msg, -1) {
			files = append(files, m[1])
		}
	}

	if len(files) == 0 {
		return false
	}

	for _, file := range files {
		if !filepath.IsAbs(file) {
			file = filepath.Join(l.Dir, file)
		}

		if !l.Generated(file) {
			return false
		}
	}

	return true
}

func filename(fset *token.FileSet, file *ast.File) string {
	return fset.File(file.Pos()).Name()
}

func packageDigest(path string, filenames []string, contents [][]byte) model.Digest {
	parts := [][]byte{[]byte(path)}

	for i := range filenames {
		parts = append(parts, []byte(filepath.Base(filenames[i])), contents[i])
	}

	return model.DigestBytes(parts...)
}
