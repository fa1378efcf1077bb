package extract

import (
	"go/ast"
	"go/token"

	"mapext/internal/common"
	"mapext/internal/model"
)

// Resolver is the host compilation's type resolution capability.
type Resolver interface {
	// LookupType resolves the type pkgPath.name if it is visible to the compilation.
	LookupType(pkgPath, name string) (model.TypeIdentity, bool)
	// Implements reports whether t, or a pointer to t, implements the interface iface.
	Implements(t, iface model.TypeIdentity) bool
	// TypeOf resolves a type expression to a defined type, optionally behind a pointer.
	TypeOf(expr ast.Expr) (model.TypeRef, bool)
}

// Declaration is one method carrying the marker directive.
type Declaration struct {
	Func     *ast.FuncDecl
	Fset     *token.FileSet
	Resolver Resolver
	// Key digests everything the extraction result depends on. Declarations
	// with equal non-zero keys extract to equal results.
	Key model.Digest
}

// Location returns the location of the method name.
func (d Declaration) Location() model.LocationInfo {
	return model.LocationOf(d.Fset, d.Func.Name)
}

// receiverExpr returns the receiver's type expression, or nil for plain functions.
func (d Declaration) receiverExpr() ast.Expr {
	if d.Func.Recv == nil {
		return nil
	}

	if field, ok := common.First(d.Func.Recv.List); ok {
		return field.Type
	}

	return nil
}
