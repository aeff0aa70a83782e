// Package pkg provides the core libraries for porg-deps dependency planning.
//
// # Overview
//
// porg-deps reads package metafiles from a ports tree, resolves their
// transitive dependencies into a buildable order, and plans rebuilds
// against the installed-package registry. The pkg directory is organized
// into three main areas:
//
//  1. Domain logic ([meta], [plan]) - metafile parsing and graph planning
//  2. State ([registry], [cache]) - installed packages and cached orders
//  3. Surfaces ([export], [server], [config]) - output formats, HTTP API,
//     configuration
//
// # Architecture
//
// The typical data flow through porg-deps:
//
//	Ports Tree (YAML metafiles)
//	         ↓
//	    [meta] package (parse, normalize, group expansion)
//	         ↓
//	    [plan] package (graph, cycles, topo sort, tiers, rebuilds)
//	         ↓
//	    [export] / [server] / CLI output (JSON, text, DOT, SVG, PNG)
//
// # Quick Start
//
// Resolve a package's build order:
//
//	import (
//	    "context"
//	    "github.com/porg-project/porg-deps/pkg/meta"
//	    "github.com/porg-project/porg-deps/pkg/plan"
//	    "github.com/porg-project/porg-deps/pkg/registry"
//	)
//
//	// 1. Open the metadata source and registry
//	source := meta.NewSource("/usr/ports", nil)
//	reg := registry.New("/var/db/porg")
//
//	// 2. Build a planner (nil cache disables resolution caching)
//	planner, _ := plan.New(source, reg, nil, plan.Options{})
//
//	// 3. Resolve
//	res, _ := planner.Resolve(context.Background(), "gcc")
//	fmt.Println(res.Order) // deps strictly before dependents
//
// # Main Packages
//
// [meta] - Metafile reading: locating <category>/<pkg>/<pkg>*.yml in the
// ports tree, YAML parsing with degraded-parse tolerance, name
// normalization (version constraints stripped), tiers, and group
// metafiles that expand to their members at edge time.
//
// [plan] - The planning core. Builds the dependency graph with a
// bounded worker pool, detects cycles, topologically sorts with
// deterministic ties, classifies tiers, and decides per-package rebuild
// verdicts (not installed, version drift, cycle membership, stale
// dependency).
//
// [registry] - Installed-package registry persisted as a single JSON
// file. Registration splits pkgids like "gcc-13.2.0" into name and
// version; lookups accept bare names, versioned keys and record-name
// matches.
//
// [cache] - Resolution cache backends behind the Store interface:
// FileCache (sha256-sharded files), RedisCache, and NullCache.
// ResolutionCache layers the planner's typed view on top and degrades
// every backend failure to a miss.
//
// [export] - Graph serialization: deterministic JSON, "a -> b" text
// lines, Graphviz DOT, and SVG/PNG rendering.
//
// [server] - Read-only HTTP API exposing resolution, planning, registry
// and metadata lookups.
//
// [config] - porg.toml loading with environment overrides.
//
// [errors] - Structured error codes shared by the CLI and the API.
//
// [observability] - Optional hooks for planner and cache events.
//
// # Common Workflows
//
// Plan rebuilds for a group:
//
//	res, _ := planner.Plan(ctx, []string{"base"})
//	for _, name := range res.NeedsRebuild {
//	    fmt.Println(name, res.Packages[name].Reason)
//	}
//
// Export a graph as DOT:
//
//	g, _ := planner.BuildGraph(ctx, []string{"gcc", "vim"})
//	fmt.Print(export.ToDOT(g))
//
// Cache resolutions across runs:
//
//	store, _ := cache.NewFileCache("/var/cache/porg")
//	orders := cache.NewResolutionCache(store, nil)
//	planner, _ := plan.New(source, reg, orders, plan.Options{})
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/plan/...      # Specific package
//
// [meta]: https://pkg.go.dev/github.com/porg-project/porg-deps/pkg/meta
// [plan]: https://pkg.go.dev/github.com/porg-project/porg-deps/pkg/plan
// [registry]: https://pkg.go.dev/github.com/porg-project/porg-deps/pkg/registry
// [cache]: https://pkg.go.dev/github.com/porg-project/porg-deps/pkg/cache
// [export]: https://pkg.go.dev/github.com/porg-project/porg-deps/pkg/export
// [server]: https://pkg.go.dev/github.com/porg-project/porg-deps/pkg/server
// [config]: https://pkg.go.dev/github.com/porg-project/porg-deps/pkg/config
// [errors]: https://pkg.go.dev/github.com/porg-project/porg-deps/pkg/errors
// [observability]: https://pkg.go.dev/github.com/porg-project/porg-deps/pkg/observability
package pkg
