package extract

import (
	"context"
	"go/ast"
	"go/types"
	"maps"
	"slices"
	"strings"

	"mapext/internal/common"
	"mapext/internal/diagnostic"
	"mapext/internal/model"
)

// State is the validation state of a declaration.
type State int

const (
	StateUnvalidated State = iota
	StateMissingInterface
	StateInvalidSignature
	StateEmptyConfiguration
	StateBundled
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateUnvalidated:
		return "unvalidated"
	case StateMissingInterface:
		return "missing-interface"
	case StateInvalidSignature:
		return "invalid-signature"
	case StateEmptyConfiguration:
		return "empty-configuration"
	case StateBundled:
		return "bundled"
	default:
		return common.UnknownStr
	}
}

// Terminal reports whether the state ends the declaration's contribution.
func (s State) Terminal() bool {
	return s != StateUnvalidated && s != StateBundled
}

// Result holds exactly one of Bundle or Diagnostic.
type Result struct {
	Bundle     *model.MethodBundle
	Diagnostic *diagnostic.Diagnostic
}

func bundled(b model.MethodBundle) Result {
	return Result{Bundle: &b}
}

func diagnosed(d diagnostic.Diagnostic) Result {
	return Result{Diagnostic: &d}
}

// State derives the validation state from the result.
func (r Result) State() State {
	switch {
	case r.Bundle != nil:
		return StateBundled
	case r.Diagnostic == nil:
		return StateUnvalidated
	}

	switch r.Diagnostic.ID {
	case diagnostic.MissingMarkerInterface:
		return StateMissingInterface
	case diagnostic.InvalidSignature:
		return StateInvalidSignature
	default:
		return StateEmptyConfiguration
	}
}

// Equal compares results by content.
func (r Result) Equal(other Result) bool {
	switch {
	case (r.Bundle == nil) != (other.Bundle == nil):
		return false
	case (r.Diagnostic == nil) != (other.Diagnostic == nil):
		return false
	case r.Bundle != nil && !r.Bundle.Equal(*other.Bundle):
		return false
	case r.Diagnostic != nil && !r.Diagnostic.Equal(*other.Diagnostic):
		return false
	}

	return true
}

// Extract validates one registration declaration.
// The only error it returns is ctx's, when extraction was cancelled; no
// partial result is produced in that case.
func Extract(ctx context.Context, decl Declaration, rules Rules) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	at := decl.Location()

	marker, ok := decl.Resolver.LookupType(rules.RuntimePackage, rules.Marker)
	if !ok {
		return diagnosed(diagnostic.New(diagnostic.MissingMarkerInterface, at, rules.RuntimeName)), nil
	}

	recv, ok := receiverType(decl)
	if !ok || !ImplementsMarker(decl.Resolver, recv.Identity, marker) {
		return diagnosed(diagnostic.New(diagnostic.MissingMarkerInterface, at, receiverName(decl, recv))), nil
	}

	if !IsValidSignature(decl, rules) {
		return diagnosed(diagnostic.New(diagnostic.InvalidSignature, at)), nil
	}

	pairs, err := ExtractPairs(ctx, decl, rules)
	if err != nil {
		return Result{}, err
	}

	if pairs.IsEmpty() {
		name := recv.Identity.Name + "." + decl.Func.Name.Name
		return diagnosed(diagnostic.New(diagnostic.EmptyConfiguration, at, name)), nil
	}

	return bundled(model.MethodBundle{
		Pairs:           pairs,
		RequiredImports: CollectImports(pairs, rules.RuntimePackage),
		Origin:          model.LocationOf(decl.Fset, decl.Func),
	}), nil
}

// ImplementsMarker reports whether t satisfies the marker interface.
func ImplementsMarker(r Resolver, t, marker model.TypeIdentity) bool {
	if t.IsZero() || marker.IsZero() {
		return false
	}

	return r.Implements(t, marker)
}

// IsValidSignature reports whether decl is
//
//	func (T) Register(config *TypeAdapterConfig)
//
// with the names taken from rules.
func IsValidSignature(decl Declaration, rules Rules) bool {
	fn := decl.Func
	if fn.Name.Name != rules.RegisterMethod || !fn.Name.IsExported() {
		return false
	}

	if fn.Type.TypeParams != nil && fn.Type.TypeParams.NumFields() > 0 {
		return false
	}

	if fn.Type.Results != nil && fn.Type.Results.NumFields() > 0 {
		return false
	}

	if fn.Type.Params == nil || !common.IsSingle(fn.Type.Params.List) || fn.Type.Params.NumFields() != 1 {
		return false
	}

	param, ok := decl.Resolver.TypeOf(fn.Type.Params.List[0].Type)
	if !ok || !param.Pointer {
		return false
	}

	return param.Identity.Namespace == rules.RuntimePackage && param.Identity.Name == rules.ConfigType
}

// ExtractPairs collects the distinct source/destination pairs declared by
// registration calls in the method body, sorted with model.ComparePairs.
// Calls whose type arguments do not resolve to defined types are skipped.
func ExtractPairs(ctx context.Context, decl Declaration, rules Rules) (model.Array[model.TypePair], error) {
	if decl.Func.Body == nil {
		return model.Array[model.TypePair]{}, nil
	}

	seen := make(map[model.PairKey]model.TypePair)

	var err error
	ast.Inspect(decl.Func.Body, func(n ast.Node) bool {
		if err != nil {
			return false
		}

		if err = ctx.Err(); err != nil {
			return false
		}

		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}

		srcExpr, dstExpr, ok := RegistrationTypeArgs(call, rules.RegisterCall)
		if !ok {
			return true
		}

		src, ok := resolveDefined(decl.Resolver, srcExpr)
		if !ok {
			return true
		}

		dst, ok := resolveDefined(decl.Resolver, dstExpr)
		if !ok {
			return true
		}

		pair := model.TypePair{Source: src, Destination: dst}
		if _, dup := seen[pair.Key()]; !dup {
			seen[pair.Key()] = pair
		}

		return true
	})

	if err != nil {
		return model.Array[model.TypePair]{}, err
	}

	pairs := slices.SortedFunc(maps.Values(seen), model.ComparePairs)

	return model.NewArray(pairs...), nil
}

// RegistrationTypeArgs matches name[A, B](...) and x.name[A, B](...) and
// returns the two type argument expressions.
func RegistrationTypeArgs(call *ast.CallExpr, name string) (ast.Expr, ast.Expr, bool) {
	inst, ok := ast.Unparen(call.Fun).(*ast.IndexListExpr)
	if !ok || len(inst.Indices) != 2 {
		return nil, nil, false
	}

	switch callee := inst.X.(type) {
	case *ast.Ident:
		if callee.Name != name {
			return nil, nil, false
		}
	case *ast.SelectorExpr:
		if callee.Sel.Name != name {
			return nil, nil, false
		}
	default:
		return nil, nil, false
	}

	return inst.Indices[0], inst.Indices[1], true
}

// CollectImports returns the sorted namespaces of every type in pairs, plus
// the runtime package.
func CollectImports(pairs model.Array[model.TypePair], runtimePkg string) model.Array[string] {
	set := map[string]struct{}{runtimePkg: {}}

	for p := range pairs.Values() {
		if p.Source.Namespace != "" {
			set[p.Source.Namespace] = struct{}{}
		}

		if p.Destination.Namespace != "" {
			set[p.Destination.Namespace] = struct{}{}
		}
	}

	return model.NewArray(slices.Sorted(maps.Keys(set))...)
}

func resolveDefined(r Resolver, expr ast.Expr) (model.TypeIdentity, bool) {
	ref, ok := r.TypeOf(expr)
	if !ok || ref.Pointer || ref.Identity.IsZero() {
		return model.TypeIdentity{}, false
	}

	return ref.Identity, true
}

func receiverType(decl Declaration) (model.TypeRef, bool) {
	expr := decl.receiverExpr()
	if expr == nil {
		return model.TypeRef{}, false
	}

	return decl.Resolver.TypeOf(expr)
}

// receiverName names the receiver for diagnostics, falling back to its
// source text when it does not resolve.
func receiverName(decl Declaration, recv model.TypeRef) string {
	if !recv.Identity.IsZero() {
		return recv.Identity.Name
	}

	if expr := decl.receiverExpr(); expr != nil {
		return strings.TrimPrefix(types.ExprString(expr), "*")
	}

	return decl.Func.Name.Name
}
