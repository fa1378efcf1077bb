package frontend

import (
	"go/ast"
	"go/types"

	"mapext/internal/extract"
	"mapext/internal/model"
)

var _ extract.Resolver = (*TypesResolver)(nil)

// TypesResolver answers type queries for one package and everything it
// imports, directly or transitively.
type TypesResolver struct {
	pkg  *types.Package
	info *types.Info
}

// NewTypesResolver creates a resolver scoped to pkg.
func NewTypesResolver(pkg *types.Package, info *types.Info) *TypesResolver {
	return &TypesResolver{pkg: pkg, info: info}
}

// LookupType implements extract.Resolver.
func (r *TypesResolver) LookupType(pkgPath, name string) (model.TypeIdentity, bool) {
	obj, ok := r.lookup(pkgPath, name)
	if !ok {
		return model.TypeIdentity{}, false
	}

	return identityOf(obj), true
}

// Implements implements extract.Resolver. It accepts t or *t as the
// implementing type.
func (r *TypesResolver) Implements(t, iface model.TypeIdentity) bool {
	tObj, ok := r.lookup(t.Namespace, t.Name)
	if !ok {
		return false
	}

	iObj, ok := r.lookup(iface.Namespace, iface.Name)
	if !ok {
		return false
	}

	it, ok := iObj.Type().Underlying().(*types.Interface)
	if !ok {
		return false
	}

	typ := tObj.Type()

	return types.Implements(typ, it) || types.Implements(types.NewPointer(typ), it)
}

// TypeOf implements extract.Resolver. Only non-generic defined types that
// belong to a package resolve, optionally behind one pointer.
func (r *TypesResolver) TypeOf(expr ast.Expr) (model.TypeRef, bool) {
	if r.info == nil {
		return model.TypeRef{}, false
	}

	typ := r.info.TypeOf(expr)
	if typ == nil {
		return model.TypeRef{}, false
	}

	var ref model.TypeRef

	typ = types.Unalias(typ)
	if ptr, ok := typ.(*types.Pointer); ok {
		ref.Pointer = true
		typ = types.Unalias(ptr.Elem())
	}

	named, ok := typ.(*types.Named)
	if !ok || named.TypeArgs().Len() > 0 || named.TypeParams().Len() > 0 {
		return model.TypeRef{}, false
	}

	obj := named.Obj()
	if obj.Pkg() == nil {
		return model.TypeRef{}, false
	}

	ref.Identity = identityOf(obj)

	return ref, true
}

func (r *TypesResolver) lookup(pkgPath, name string) (*types.TypeName, bool) {
	pkg := r.findPackage(pkgPath)
	if pkg == nil {
		return nil, false
	}

	obj, ok := pkg.Scope().Lookup(name).(*types.TypeName)
	if !ok || obj.IsAlias() {
		return nil, false
	}

	return obj, true
}

// findPackage searches pkg and its transitive imports.
func (r *TypesResolver) findPackage(path string) *types.Package {
	if r.pkg == nil {
		return nil
	}

	seen := map[*types.Package]bool{}
	queue := []*types.Package{r.pkg}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		if seen[p] {
			continue
		}

		seen[p] = true

		if p.Path() == path {
			return p
		}

		queue = append(queue, p.Imports()...)
	}

	return nil
}

func identityOf(obj *types.TypeName) model.TypeIdentity {
	return model.NewTypeIdentity(obj.Pkg().Path(), obj.Pkg().Name(), obj.Name())
}
