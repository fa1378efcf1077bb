package model

import "cmp"

// MethodBundle is the validated output of one registration method.
type MethodBundle struct {
	Pairs           Array[TypePair] // sorted by ComparePairs, deduplicated
	RequiredImports Array[string]   // sorted, always contains the runtime package
	Origin          LocationInfo    // the registration method declaration
}

// Equal compares bundles by content.
func (b MethodBundle) Equal(other MethodBundle) bool {
	return b.Pairs.Equal(other.Pairs) &&
		b.RequiredImports.Equal(other.RequiredImports) &&
		b.Origin.Equal(other.Origin)
}

// CompareBundles orders bundles by origin.
func CompareBundles(a, b MethodBundle) int {
	return CompareLocations(a.Origin, b.Origin)
}

// PerSourceGroup holds every destination declared for one source type across
// the whole compilation. It is the unit of code generation.
type PerSourceGroup struct {
	Source          TypeIdentity
	Namespace       string
	Destinations    Array[TypeIdentity] // deduplicated, sorted by CompareByName
	RequiredImports Array[string]       // sorted, always contains the runtime package
	OutputName      string
	Origin          LocationInfo // origin of the first contributing bundle
}

// Equal compares groups by content.
func (g PerSourceGroup) Equal(other PerSourceGroup) bool {
	return g.Source.Equal(other.Source) &&
		g.Namespace == other.Namespace &&
		g.Destinations.Equal(other.Destinations) &&
		g.RequiredImports.Equal(other.RequiredImports) &&
		g.OutputName == other.OutputName &&
		g.Origin.Equal(other.Origin)
}

// CompareGroups orders groups by namespace, then source short name.
func CompareGroups(a, b PerSourceGroup) int {
	if c := cmp.Compare(a.Namespace, b.Namespace); c != 0 {
		return c
	}

	return cmp.Compare(a.Source.Name, b.Source.Name)
}
