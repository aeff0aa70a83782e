package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// debugHooks forwards planner and cache events to the CLI logger at
// debug level, so -v shows where time goes and whether the resolution
// cache is pulling its weight.
type debugHooks struct {
	logger *log.Logger
}

func (h debugHooks) OnResolveStart(_ context.Context, root string) {
	h.logger.Debugf("resolve %s: start", root)
}

func (h debugHooks) OnResolveComplete(_ context.Context, root string, nodeCount int, duration time.Duration, err error) {
	if err != nil {
		h.logger.Debugf("resolve %s: failed after %s: %v", root, duration.Round(time.Millisecond), err)
		return
	}
	h.logger.Debugf("resolve %s: %d packages (%s)", root, nodeCount, duration.Round(time.Millisecond))
}

func (h debugHooks) OnPlanStart(_ context.Context, rootCount int) {
	h.logger.Debugf("plan: %d roots", rootCount)
}

func (h debugHooks) OnPlanComplete(_ context.Context, nodeCount, rebuildCount int, duration time.Duration, err error) {
	if err != nil {
		h.logger.Debugf("plan: failed after %s: %v", duration.Round(time.Millisecond), err)
		return
	}
	h.logger.Debugf("plan: %d packages, %d rebuilds (%s)", nodeCount, rebuildCount, duration.Round(time.Millisecond))
}

func (h debugHooks) OnCacheHit(_ context.Context, root string) {
	h.logger.Debugf("cache hit: %s", root)
}

func (h debugHooks) OnCacheMiss(_ context.Context, root string) {
	h.logger.Debugf("cache miss: %s", root)
}

func (h debugHooks) OnCacheSet(_ context.Context, root string, size int) {
	h.logger.Debugf("cache store: %s (%d bytes)", root, size)
}
