package group

import (
	"maps"
	"slices"

	"mapext/internal/model"
)

// DefaultNamespace is used for sources that carry no namespace.
const DefaultNamespace = "generated"

// DefaultSuffix is appended to every output name.
const DefaultSuffix = ".g.go"

// Options configures grouping.
type Options struct {
	// RuntimePackage is always part of a group's required imports.
	RuntimePackage string
	// DefaultNamespace replaces an empty source namespace.
	DefaultNamespace string
	// Suffix is appended to output names.
	Suffix string
}

type builder struct {
	source       model.TypeIdentity
	origin       model.LocationInfo
	destinations map[string]model.TypeIdentity
	imports      map[string]struct{}
}

func newBuilder(source model.TypeIdentity, origin model.LocationInfo) *builder {
	return &builder{
		source:       source,
		origin:       origin,
		destinations: make(map[string]model.TypeIdentity),
		imports:      make(map[string]struct{}),
	}
}

func (b *builder) addDestination(dest model.TypeIdentity) {
	if _, ok := b.destinations[dest.FQN]; !ok {
		b.destinations[dest.FQN] = dest
	}
}

func (b *builder) addImports(imports model.Array[string]) {
	for imp := range imports.Values() {
		b.imports[imp] = struct{}{}
	}
}

// BySource merges bundles into groups keyed by source type.
//
// Bundles are ordered by origin first, so the group's origin (the first
// contributing bundle) does not depend on discovery order. Destinations are
// deduplicated and sorted with model.CompareByName; groups are sorted with
// model.CompareGroups. No bundles yield no groups.
func BySource(bundles model.Array[model.MethodBundle], opts Options) model.Array[model.PerSourceGroup] {
	if bundles.IsEmpty() {
		return model.Array[model.PerSourceGroup]{}
	}

	ordered := bundles.Slice()
	slices.SortStableFunc(ordered, model.CompareBundles)

	builders := make(map[string]*builder)

	for _, bundle := range ordered {
		for pair := range bundle.Pairs.Values() {
			b, ok := builders[pair.Source.FQN]
			if !ok {
				b = newBuilder(pair.Source, bundle.Origin)
				builders[pair.Source.FQN] = b
			}

			b.addDestination(pair.Destination)
			b.addImports(bundle.RequiredImports)
		}
	}

	groups := make([]model.PerSourceGroup, 0, len(builders))
	for _, b := range builders {
		groups = append(groups, b.finalize(opts))
	}

	slices.SortFunc(groups, model.CompareGroups)

	return model.NewArray(groups...)
}

func (b *builder) finalize(opts Options) model.PerSourceGroup {
	ns := b.source.Namespace
	if ns == "" {
		ns = opts.DefaultNamespace
		if ns == "" {
			ns = DefaultNamespace
		}
	}

	dests := slices.SortedFunc(maps.Values(b.destinations), model.CompareByName)

	return model.PerSourceGroup{
		Source:          b.source,
		Namespace:       ns,
		Destinations:    model.NewArray(dests...),
		RequiredImports: b.referencedImports(dests, opts.RuntimePackage),
		OutputName:      OutputName(ns, b.source.Name, opts.Suffix),
		Origin:          b.origin,
	}
}

// referencedImports keeps the accumulated imports the generated file refers
// to: the runtime, the source package and every destination package.
// Go rejects unused imports, so namespaces contributed only by other sources
// of the same bundle are dropped.
func (b *builder) referencedImports(dests []model.TypeIdentity, runtimePkg string) model.Array[string] {
	referenced := map[string]struct{}{}
	if b.source.Namespace != "" {
		referenced[b.source.Namespace] = struct{}{}
	}

	for _, d := range dests {
		if d.Namespace != "" {
			referenced[d.Namespace] = struct{}{}
		}
	}

	out := map[string]struct{}{}
	if runtimePkg != "" {
		out[runtimePkg] = struct{}{}
	}

	for imp := range b.imports {
		if _, ok := referenced[imp]; ok {
			out[imp] = struct{}{}
		}
	}

	return model.NewArray(slices.Sorted(maps.Keys(out))...)
}
