package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"sync"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"mapext/internal/diagnostic"
	"mapext/internal/extract"
	"mapext/internal/gen"
	"mapext/internal/group"
	"mapext/internal/model"
)

// Options configures a Runner.
type Options struct {
	Rules     extract.Rules
	Group     group.Options
	Generator gen.GeneratorConfig
	// Jobs bounds parallel work. Zero or less means GOMAXPROCS.
	Jobs int
	// Logger receives cache decisions; nil disables logging.
	Logger hclog.Logger
}

// DefaultOptions returns options for the default runtime.
func DefaultOptions() Options {
	rules := extract.DefaultRules()

	return Options{
		Rules: rules,
		Group: group.Options{
			RuntimePackage:   rules.RuntimePackage,
			DefaultNamespace: group.DefaultNamespace,
			Suffix:           group.DefaultSuffix,
		},
		Generator: gen.DefaultGeneratorConfig(),
	}
}

// Result is the outcome of one run.
type Result struct {
	// Files holds one file per generated group, in group order.
	Files []gen.GeneratedFile
	// Groups is the output of the grouping stage.
	Groups model.Array[model.PerSourceGroup]
	// Diagnostics holds every extraction and codegen diagnostic, sorted.
	Diagnostics diagnostic.Diagnostics
	// Steps records why each tracked output has its value.
	Steps []StepRun
}

// Reasons returns the reasons recorded for step, in index order.
func (r *Result) Reasons(step string) []Reason {
	var out []Reason

	for _, s := range r.Steps {
		if s.Step == step {
			out = append(out, s.Reason)
		}
	}

	return out
}

// Runner runs the pipeline and keeps per-stage caches between runs.
// Run calls are serialized.
type Runner struct {
	mu     sync.Mutex
	opts   Options
	gen    *gen.Generator
	logger hclog.Logger

	extracted map[model.Digest]extract.Result
	prevTrans []extract.Result

	hasGroups   bool
	prevBundles model.Array[model.MethodBundle]
	prevGroups  model.Array[model.PerSourceGroup]

	rendered    map[model.Digest]gen.Result
	prevRenders []gen.Result

	hasDiags  bool
	prevDiags diagnostic.Diagnostics
}

// NewRunner creates a runner with empty caches.
func NewRunner(opts Options) *Runner {
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}

	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &Runner{
		opts:      opts,
		gen:       gen.NewGenerator(opts.Generator),
		logger:    logger.Named("pipeline"),
		extracted: make(map[model.Digest]extract.Result),
		rendered:  make(map[model.Digest]gen.Result),
	}
}

// Run executes the pipeline over decls. Caches are only updated when the
// run completes; a cancelled or failed run leaves them untouched.
func (r *Runner) Run(ctx context.Context, decls []extract.Declaration) (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := &Result{}

	transformed, err := r.transform(ctx, decls, res)
	if err != nil {
		return nil, err
	}

	bundles := joinBundles(transformed, &res.Diagnostics)

	groups, groupsReason := r.groups(bundles)
	res.Groups = groups
	res.Steps = append(res.Steps, StepRun{Step: StepGroups, Reason: groupsReason})

	renders, renderCache, err := r.render(ctx, groups, res)
	if err != nil {
		return nil, err
	}

	for _, rr := range renders {
		switch {
		case rr.File != nil:
			res.Files = append(res.Files, *rr.File)
		case rr.Diagnostic != nil:
			res.Diagnostics.Add(*rr.Diagnostic)
		}
	}

	res.Diagnostics.Sort()
	res.Steps = append(res.Steps, StepRun{Step: StepDiagnostics, Reason: r.diagnosticsReason(res.Diagnostics)})

	r.commit(decls, transformed, bundles, groups, renders, renderCache, res.Diagnostics)

	r.logger.Debug("run complete",
		"declarations", len(decls),
		"groups", groups.Len(),
		"files", len(res.Files),
		"diagnostics", res.Diagnostics.Len())

	return res, nil
}

// transform extracts every declaration, reusing cached results by key.
func (r *Runner) transform(ctx context.Context, decls []extract.Declaration, res *Result) ([]extract.Result, error) {
	results := make([]extract.Result, len(decls))
	reasons := make([]Reason, len(decls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(r.opts.Jobs, len(decls))))

	for i, decl := range decls {
		if cached, ok := r.extracted[decl.Key]; ok && !decl.Key.IsZero() {
			results[i] = cached
			reasons[i] = ReasonCached

			continue
		}

		g.Go(func() error {
			out, err := extract.Extract(gctx, decl, r.opts.Rules)
			if err != nil {
				return err
			}

			results[i] = out
			reasons[i] = recomputed(r.prevTrans, i, out)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, reason := range reasons {
		res.Steps = append(res.Steps, StepRun{Step: StepTransform, Index: i, Reason: reason})
		r.logger.Trace("transform", "index", i, "key", decls[i].Key.Short(), "reason", reason.String())
	}

	res.Steps = append(res.Steps, removed(StepTransform, len(r.prevTrans), len(decls))...)

	return results, nil
}

// joinBundles splits extraction results into bundles, ordered by origin, and
// diagnostics.
func joinBundles(results []extract.Result, diags *diagnostic.Diagnostics) model.Array[model.MethodBundle] {
	var bundles []model.MethodBundle

	for _, res := range results {
		switch {
		case res.Bundle != nil:
			bundles = append(bundles, *res.Bundle)
		case res.Diagnostic != nil:
			diags.Add(*res.Diagnostic)
		}
	}

	slices.SortStableFunc(bundles, model.CompareBundles)

	return model.NewArray(bundles...)
}

func (r *Runner) groups(bundles model.Array[model.MethodBundle]) (model.Array[model.PerSourceGroup], Reason) {
	if r.hasGroups && bundles.Equal(r.prevBundles) && slices.Equal(bundlePkgNames(bundles), bundlePkgNames(r.prevBundles)) {
		r.logger.Trace("groups reused", "bundles", bundles.Len())
		return r.prevGroups, ReasonCached
	}

	groups := group.BySource(bundles, r.opts.Group)

	switch {
	case !r.hasGroups:
		return groups, ReasonNew
	// Equal ignores package names; a package renamed in place is Modified.
	case groups.Equal(r.prevGroups) && slices.Equal(groupPkgNames(groups), groupPkgNames(r.prevGroups)):
		return groups, ReasonUnchanged
	default:
		return groups, ReasonModified
	}
}

// render generates every group, reusing cached results by group digest. The
// returned cache holds exactly the current groups.
func (r *Runner) render(ctx context.Context, groups model.Array[model.PerSourceGroup], res *Result) ([]gen.Result, map[model.Digest]gen.Result, error) {
	n := groups.Len()
	results := make([]gen.Result, n)
	reasons := make([]Reason, n)
	keys := make([]model.Digest, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(r.opts.Jobs, n)))

	for i, grp := range groups.All() {
		key, err := renderKey(grp)
		if err != nil {
			return nil, nil, fmt.Errorf("digesting group %s: %w", grp.Source, err)
		}

		keys[i] = key

		if cached, ok := r.rendered[key]; ok {
			results[i] = cached
			reasons[i] = ReasonCached

			continue
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			out, err := r.gen.Generate(grp)
			if err != nil {
				return err
			}

			results[i] = out
			reasons[i] = recomputed(r.prevRenders, i, out)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	cache := make(map[model.Digest]gen.Result, n)
	for i := range results {
		cache[keys[i]] = results[i]
		res.Steps = append(res.Steps, StepRun{Step: StepRender, Index: i, Reason: reasons[i]})
		r.logger.Trace("render", "index", i, "group", groups.At(i).OutputName, "reason", reasons[i].String())
	}

	res.Steps = append(res.Steps, removed(StepRender, len(r.prevRenders), n)...)

	return results, cache, nil
}

// bundlePkgNames lists the declared package names of every pair in order.
// Identities compare by FQN only, while generated files use these names.
func bundlePkgNames(bundles model.Array[model.MethodBundle]) []string {
	var names []string

	for b := range bundles.Values() {
		for p := range b.Pairs.Values() {
			names = append(names, p.Source.PkgName, p.Destination.PkgName)
		}
	}

	return names
}

// groupPkgNames lists the source and destination package names of every group.
func groupPkgNames(groups model.Array[model.PerSourceGroup]) []string {
	var names []string

	for g := range groups.Values() {
		names = append(names, g.Source.PkgName)
		for d := range g.Destinations.Values() {
			names = append(names, d.PkgName)
		}
	}

	return names
}

// renderKey digests a group together with the package names its file uses.
// Identities compare by FQN only, so a package renamed in place would
// otherwise reuse a stale file.
func renderKey(grp model.PerSourceGroup) (model.Digest, error) {
	content, err := model.DigestOf(grp)
	if err != nil {
		return model.Digest{}, err
	}

	names := [][]byte{[]byte(grp.Source.PkgName)}
	for dest := range grp.Destinations.Values() {
		names = append(names, []byte(dest.PkgName))
	}

	return model.Combine(content, model.DigestBytes(names...)), nil
}

func (r *Runner) diagnosticsReason(current diagnostic.Diagnostics) Reason {
	switch {
	case !r.hasDiags:
		return ReasonNew
	case slices.EqualFunc(current.All(), r.prevDiags.All(), diagnostic.Diagnostic.Equal):
		return ReasonUnchanged
	default:
		return ReasonModified
	}
}

// commit replaces the caches with the outputs of a completed run, dropping
// entries for declarations and groups that no longer exist.
func (r *Runner) commit(
	decls []extract.Declaration,
	transformed []extract.Result,
	bundles model.Array[model.MethodBundle],
	groups model.Array[model.PerSourceGroup],
	renders []gen.Result,
	renderCache map[model.Digest]gen.Result,
	diags diagnostic.Diagnostics,
) {
	extracted := make(map[model.Digest]extract.Result, len(decls))
	for i, d := range decls {
		if !d.Key.IsZero() {
			extracted[d.Key] = transformed[i]
		}
	}

	r.extracted = extracted
	r.prevTrans = transformed
	r.hasGroups = true
	r.prevBundles = bundles
	r.prevGroups = groups
	r.rendered = renderCache
	r.prevRenders = renders
	r.hasDiags = true
	r.prevDiags = diags
}
