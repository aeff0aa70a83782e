package plan

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/porg-project/porg-deps/pkg/errors"
	"github.com/porg-project/porg-deps/pkg/meta"
	"github.com/porg-project/porg-deps/pkg/observability"
)

// Default option values.
const (
	DefaultWorkers  = 8
	DefaultMaxNodes = 50000
)

// Options configures a Planner.
type Options struct {
	// Workers is the metafile prefetch parallelism. 1 disables the pool
	// and resolves everything serially.
	Workers int

	// MaxNodes caps graph size as a safety valve against runaway trees.
	MaxNodes int

	// Warn receives human-readable diagnostics. Planning never fails
	// because of anything reported here. nil disables warnings.
	Warn func(format string, args ...any)

	validated bool
}

// ValidateAndSetDefaults normalizes the options. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Workers < 1 {
		o.Workers = DefaultWorkers
	}
	if o.MaxNodes < 1 {
		o.MaxNodes = DefaultMaxNodes
	}
	if o.Warn == nil {
		o.Warn = func(string, ...any) {}
	}
	o.validated = true
	return nil
}

// OrderCache is the resolution cache surface the planner consumes: a
// durable map from root package name to a previously computed order.
// Implementations degrade failures to misses; the planner never sees
// cache errors.
type OrderCache interface {
	Get(ctx context.Context, root string) (order []string, ok bool)
	Put(ctx context.Context, root string, order []string)
}

// Planner wires the resolution pipeline together. One Planner serves
// one metadata view (its Lookup's run cache); create a new one per run
// to observe metadata edits.
type Planner struct {
	lookup meta.Lookup
	inst   InstallState
	cache  OrderCache // nil disables caching
	opts   Options
}

// New creates a Planner. cache may be nil to disable resolution caching.
func New(lookup meta.Lookup, inst InstallState, cache OrderCache, opts Options) (*Planner, error) {
	if lookup == nil {
		return nil, errors.New(errors.ErrCodeInternal, "planner needs a metadata lookup")
	}
	if inst == nil {
		return nil, errors.New(errors.ErrCodeInternal, "planner needs an install state")
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &Planner{lookup: lookup, inst: inst, cache: cache, opts: opts}, nil
}

// Resolution is the outcome of a plain single-root resolution.
type Resolution struct {
	Package string   `json:"package"`
	Order   []string `json:"order"`
	Cycles  []Cycle  `json:"cycles"`
	Cached  bool     `json:"cached"`
}

// Resolve computes the buildable order for one root: dependencies
// strictly before dependents, cyclic remainder last. Results come from
// the resolution cache when available (keyed by the root name, before
// any group expansion); cached answers skip graph construction entirely,
// including the cycle scan.
func (p *Planner) Resolve(ctx context.Context, root string) (*Resolution, error) {
	name := meta.Normalize(root)
	if err := errors.ValidatePackageName(name); err != nil {
		return nil, err
	}

	observability.Planner().OnResolveStart(ctx, name)
	start := time.Now()

	if p.cache != nil {
		if order, ok := p.cache.Get(ctx, name); ok {
			observability.Planner().OnResolveComplete(ctx, name, len(order), time.Since(start), nil)
			return &Resolution{Package: name, Order: order, Cycles: []Cycle{}, Cached: true}, nil
		}
	}

	g, err := buildGraph(ctx, p.lookup, []string{name}, p.opts)
	if err != nil {
		observability.Planner().OnResolveComplete(ctx, name, 0, time.Since(start), err)
		return nil, err
	}
	res := &Resolution{
		Package: name,
		Order:   TopoSort(g),
		Cycles:  DetectCycles(g),
	}
	if res.Cycles == nil {
		res.Cycles = []Cycle{}
	}
	if p.cache != nil {
		p.cache.Put(ctx, name, res.Order)
	}
	observability.Planner().OnResolveComplete(ctx, name, len(res.Order), time.Since(start), nil)
	return res, nil
}

// Missing resolves root and returns the packages from its order that are
// not installed, in order.
func (p *Planner) Missing(ctx context.Context, root string) ([]string, error) {
	res, err := p.Resolve(ctx, root)
	if err != nil {
		return nil, err
	}
	missing := []string{}
	for _, name := range res.Order {
		if _, ok := p.inst.Installed(name); !ok {
			missing = append(missing, name)
		}
	}
	return missing, nil
}

// Check reports whether every package in root's resolution is installed.
func (p *Planner) Check(ctx context.Context, root string) (bool, error) {
	missing, err := p.Missing(ctx, root)
	if err != nil {
		return false, err
	}
	return len(missing) == 0, nil
}

// BuildGraph exposes the raw resolution graph for the given roots, for
// rendering and inspection. It never consults the resolution cache.
func (p *Planner) BuildGraph(ctx context.Context, roots []string) (*Graph, error) {
	if err := validateRoots(roots); err != nil {
		return nil, err
	}
	return buildGraph(ctx, p.lookup, roots, p.opts)
}

// PackageInfo is the per-package metadata subset carried by a Result.
type PackageInfo struct {
	Version          string    `json:"version,omitempty"`
	Tier             meta.Tier `json:"tier"`
	Installed        bool      `json:"installed"`
	InstalledVersion string    `json:"installed_version,omitempty"`
	NeedsRebuild     bool      `json:"needs_rebuild"`
	Reason           string    `json:"reason,omitempty"`
}

// Stats summarizes one planning run.
type Stats struct {
	Nodes   int           `json:"nodes"`
	Edges   int           `json:"edges"`
	Cycles  int           `json:"cycles"`
	Elapsed time.Duration `json:"elapsed_ns"`
}

// Result is a full upgrade plan.
type Result struct {
	RunID        string                 `json:"run_id"`
	Roots        []string               `json:"roots"`
	Order        []string               `json:"order"` // tier-classified build order
	Tiers        map[string]meta.Tier   `json:"tiers"`
	NeedsRebuild []string               `json:"needs_rebuild"`
	Cycles       []Cycle                `json:"cycles"`
	Packages     map[string]PackageInfo `json:"packages"`
	Stats        Stats                  `json:"stats"`
}

// Plan runs the full pipeline for the given roots: graph construction,
// cycle detection, topological sort, tier classification and rebuild
// analysis. Plans are never cached; they depend on registry state that
// changes outside this process.
func (p *Planner) Plan(ctx context.Context, roots []string) (*Result, error) {
	start := time.Now()

	normalized := meta.NormalizeAll(roots)
	if len(normalized) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no packages selected")
	}
	if err := validateRoots(normalized); err != nil {
		return nil, err
	}

	observability.Planner().OnPlanStart(ctx, len(normalized))

	g, err := buildGraph(ctx, p.lookup, normalized, p.opts)
	if err != nil {
		observability.Planner().OnPlanComplete(ctx, 0, 0, time.Since(start), err)
		return nil, err
	}

	cycles := DetectCycles(g)
	if cycles == nil {
		cycles = []Cycle{}
	}
	base := TopoSort(g)
	needs, reasons := AnalyzeRebuilds(g, base, p.inst)

	res := &Result{
		RunID:        uuid.NewString(),
		Roots:        normalized,
		Order:        TierOrder(base, g),
		Tiers:        Tiers(base, g),
		NeedsRebuild: []string{},
		Cycles:       cycles,
		Packages:     make(map[string]PackageInfo, len(base)),
		Stats: Stats{
			Nodes:  g.NodeCount(),
			Edges:  g.EdgeCount(),
			Cycles: len(cycles),
		},
	}

	for _, name := range base {
		info := PackageInfo{
			Tier:         tierOf(g, name),
			NeedsRebuild: needs[name],
			Reason:       reasons[name],
		}
		if rec, ok := g.Record(name); ok && rec != nil {
			info.Version = rec.Version
		}
		if v, ok := p.inst.Installed(name); ok {
			info.Installed = true
			info.InstalledVersion = v
		}
		res.Packages[name] = info
		if needs[name] {
			res.NeedsRebuild = append(res.NeedsRebuild, name)
		}
	}
	sort.Strings(res.NeedsRebuild)

	res.Stats.Elapsed = time.Since(start)
	observability.Planner().OnPlanComplete(ctx, res.Stats.Nodes, len(res.NeedsRebuild), res.Stats.Elapsed, nil)
	return res, nil
}

func validateRoots(roots []string) error {
	for _, r := range roots {
		if err := errors.ValidatePackageName(meta.Normalize(r)); err != nil {
			return err
		}
	}
	return nil
}
