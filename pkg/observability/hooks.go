// Package observability provides hooks for instrumenting tree mutations and
// cache traffic.
//
// The package uses a simple hooks pattern: hook interfaces with no-op
// defaults, plus a global registry that main populates at startup. Libraries
// emit events without depending on any metrics backend; consumers bind the
// events to whatever they run (OpenTelemetry, Prometheus, plain counters).
//
// Register hooks once at application startup:
//
//	func main() {
//	    observability.SetTreeHooks(&myTreeHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Emitting sites call through the registry:
//
//	observability.Tree().OnLink(ctx, treeID, int(h))
package observability

import (
	"context"
	"sync"
)

// =============================================================================
// Tree Hooks
// =============================================================================

// TreeHooks receives events for tree mutations. The handle is the arena
// index of the node the mutation touched.
type TreeHooks interface {
	// OnLink records a node linked into a tree.
	OnLink(ctx context.Context, treeID string, handle int)

	// OnUnlink records a branch severed from its parent.
	OnUnlink(ctx context.Context, treeID string, handle int)

	// OnUpdate records a content update on an existing node.
	OnUpdate(ctx context.Context, treeID string, handle int)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations. The keyType names the
// cache family, such as "artifact" or "response".
type CacheHooks interface {
	// OnHit records a cache hit.
	OnHit(ctx context.Context, keyType string)

	// OnMiss records a cache miss.
	OnMiss(ctx context.Context, keyType string)

	// OnSet records a cache write.
	OnSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopTreeHooks is a no-op implementation of TreeHooks.
type NoopTreeHooks struct{}

func (NoopTreeHooks) OnLink(context.Context, string, int)   {}
func (NoopTreeHooks) OnUnlink(context.Context, string, int) {}
func (NoopTreeHooks) OnUpdate(context.Context, string, int) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnHit(context.Context, string)      {}
func (NoopCacheHooks) OnMiss(context.Context, string)     {}
func (NoopCacheHooks) OnSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	treeHooks  TreeHooks  = NoopTreeHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	hooksMu    sync.RWMutex
)

// SetTreeHooks registers custom tree hooks.
// This should be called once at application startup before any tree operations.
func SetTreeHooks(h TreeHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		treeHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Tree returns the registered tree hooks.
func Tree() TreeHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return treeHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	treeHooks = NoopTreeHooks{}
	cacheHooks = NoopCacheHooks{}
}
