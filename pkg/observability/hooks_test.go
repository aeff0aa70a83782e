package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Planner hooks
	p := NoopPlannerHooks{}
	p.OnResolveStart(ctx, "gcc")
	p.OnResolveComplete(ctx, "gcc", 100, time.Second, nil)
	p.OnPlanStart(ctx, 3)
	p.OnPlanComplete(ctx, 100, 12, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "gcc")
	c.OnCacheMiss(ctx, "binutils")
	c.OnCacheSet(ctx, "gcc", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Planner().(NoopPlannerHooks); !ok {
		t.Error("Planner() should return NoopPlannerHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	// Set custom hooks
	customPlanner := &testPlannerHooks{}
	SetPlannerHooks(customPlanner)
	if Planner() != customPlanner {
		t.Error("SetPlannerHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Planner().(NoopPlannerHooks); !ok {
		t.Error("Reset() should restore NoopPlannerHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testPlannerHooks{}
	SetPlannerHooks(custom)

	// Setting nil should be ignored
	SetPlannerHooks(nil)

	if Planner() != custom {
		t.Error("SetPlannerHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testPlannerHooks struct{ NoopPlannerHooks }
type testCacheHooks struct{ NoopCacheHooks }
