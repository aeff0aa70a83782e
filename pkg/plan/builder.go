package plan

import (
	"context"
	"sync"

	"github.com/porg-project/porg-deps/pkg/meta"
)

// buildGraph resolves the full dependency closure of roots into a Graph.
// opts must have been validated.
//
// Construction has two phases. When opts.Workers > 1, a worker pool
// prefetches every reachable record so the Source's run cache is warm;
// discovery order there is nondeterministic but only warms the cache.
// The graph itself is then assembled in a single serial pass, so node
// and edge order is reproducible regardless of worker interleaving.
//
// Roots and dependencies naming a group are expanded to the group's
// member packages; group names never become nodes. Installed state is
// deliberately not consulted: the graph always covers the full closure,
// and later stages decide what actually needs building.
func buildGraph(ctx context.Context, lookup meta.Lookup, roots []string, opts Options) (*Graph, error) {
	roots = meta.NormalizeAll(roots)
	if opts.Workers > 1 {
		prefetch(ctx, lookup, roots, opts.Workers, opts.MaxNodes)
	}

	b := &builder{
		lookup: lookup,
		opts:   opts,
		g:      NewGraph(),
		seen:   make(map[string]bool),
		warned: make(map[string]bool),
	}
	if err := b.assemble(ctx, roots); err != nil {
		return nil, err
	}
	return b.g, nil
}

type builder struct {
	lookup    meta.Lookup
	opts      Options
	g         *Graph
	seen      map[string]bool // names whose record has been processed (incl. groups)
	warned    map[string]bool // groups already reported for stray dependency keys
	truncated bool
}

func (b *builder) assemble(ctx context.Context, roots []string) error {
	work := make([]string, 0, len(roots))
	for _, r := range roots {
		if !b.seen[r] {
			work = append(work, r)
		}
	}

	for len(work) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := work[0]
		work = work[1:]
		if b.seen[name] {
			continue
		}
		b.seen[name] = true

		rec, _ := b.lookup.Lookup(name)
		if rec.IsGroup {
			b.noteGroupDeps(name, rec)
			work = append(work, rec.Members...)
			continue
		}

		if !b.addNode(name, rec) {
			continue
		}
		for _, dep := range rec.Depends {
			for _, tgt := range b.expand(dep) {
				tgtRec, _ := b.lookup.Lookup(tgt)
				if !b.g.HasNode(tgt) && !b.addNode(tgt, tgtRec) {
					continue
				}
				b.g.AddEdge(name, tgt)
				if !b.seen[tgt] {
					work = append(work, tgt)
				}
			}
		}
	}
	return nil
}

func (b *builder) addNode(name string, rec *meta.Record) bool {
	if b.g.HasNode(name) {
		return true
	}
	if b.g.NodeCount() >= b.opts.MaxNodes {
		if !b.truncated {
			b.truncated = true
			b.opts.Warn("dependency graph truncated at %d nodes", b.opts.MaxNodes)
		}
		return false
	}
	b.g.AddNode(name, rec)
	return true
}

// expand substitutes a dependency name with its package targets: the
// name itself when it is a plain package, or the flattened member list
// when it names a group. Nested groups flatten in place; the guard makes
// group self-reference terminate (such members simply vanish, which is
// consistent with group names never being buildable).
func (b *builder) expand(dep string) []string {
	rec, _ := b.lookup.Lookup(dep)
	if !rec.IsGroup {
		return []string{dep}
	}
	b.noteGroupDeps(dep, rec)

	guard := map[string]bool{dep: true}
	stack := make([]string, len(rec.Members))
	for i, m := range rec.Members {
		stack[len(rec.Members)-1-i] = m
	}

	var out []string
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		r, _ := b.lookup.Lookup(n)
		if !r.IsGroup {
			out = append(out, n)
			continue
		}
		if guard[n] {
			continue
		}
		guard[n] = true
		b.noteGroupDeps(n, r)
		for i := len(r.Members) - 1; i >= 0; i-- {
			stack = append(stack, r.Members[i])
		}
	}
	return out
}

// noteGroupDeps warns once per group whose metafile carries dependency
// keys. Groups are pure member lists; their own deps are ignored.
func (b *builder) noteGroupDeps(name string, rec *meta.Record) {
	if len(rec.Depends) == 0 || b.warned[name] {
		return
	}
	b.warned[name] = true
	b.opts.Warn("group %s: ignoring dependency keys", name)
}

// prefetch walks the record closure with a bounded worker pool, purely
// to warm the lookup's run cache. A single collector goroutine owns the
// visited set and the local queue; workers only fetch. Shutdown is
// coordinated by the pending counter: when it reaches zero with an empty
// queue, no work remains anywhere.
func prefetch(ctx context.Context, lookup meta.Lookup, roots []string, workers, maxNames int) {
	jobs := make(chan string)
	results := make(chan *meta.Record)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range jobs {
				rec, _ := lookup.Lookup(name)
				select {
				case results <- rec:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	visited := make(map[string]bool, len(roots))
	queue := make([]string, 0, len(roots))
	for _, r := range roots {
		if !visited[r] {
			visited[r] = true
			queue = append(queue, r)
		}
	}

	pending := 0
collect:
	for pending > 0 || len(queue) > 0 {
		var send chan string
		var next string
		if len(queue) > 0 {
			send = jobs
			next = queue[0]
		}
		select {
		case send <- next:
			queue = queue[1:]
			pending++
		case rec := <-results:
			pending--
			follow := rec.Depends
			if rec.IsGroup {
				follow = rec.Members
			}
			for _, n := range follow {
				if !visited[n] && len(visited) < maxNames {
					visited[n] = true
					queue = append(queue, n)
				}
			}
		case <-ctx.Done():
			break collect
		}
	}
	close(jobs)
	wg.Wait()
}
