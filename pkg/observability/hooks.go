// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers can register
// hooks at startup to receive events about editor mutations, viewer cache
// behavior, and store operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach avoids import cycles (hooks are registered by main, not by
// libraries) and keeps the core library free of observability frameworks.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEditorHooks(&myEditorHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Editor().OnAddNode("ClassDiagram", "Class")
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Editor Hooks
// =============================================================================

// EditorHooks receives events from diagram builders. All editor operations
// are synchronous and in-memory, so the hooks carry no context.
type EditorHooks interface {
	// OnAddNode records a node addition.
	OnAddNode(diagramType, nodeKind string)

	// OnAddEdge records an edge addition.
	OnAddEdge(diagramType, edgeKind string)

	// OnRemove records an element removal (including cascades).
	OnRemove(diagramType, elementKind string)
}

// =============================================================================
// Viewer Hooks
// =============================================================================

// ViewerHooks receives events from viewer layout caches.
type ViewerHooks interface {
	// OnLayoutCacheHit records a derived-layout cache hit.
	OnLayoutCacheHit(diagramType string)

	// OnLayoutCacheMiss records a cache miss followed by recomputation.
	OnLayoutCacheMiss(diagramType string)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from diagram store backends.
type StoreHooks interface {
	// OnSave records a diagram write.
	OnSave(ctx context.Context, backend, name string, size int, duration time.Duration, err error)

	// OnLoad records a diagram read.
	OnLoad(ctx context.Context, backend, name string, duration time.Duration, err error)

	// OnDelete records a diagram deletion.
	OnDelete(ctx context.Context, backend, name string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEditorHooks is a no-op implementation of EditorHooks.
type NoopEditorHooks struct{}

func (NoopEditorHooks) OnAddNode(string, string) {}
func (NoopEditorHooks) OnAddEdge(string, string) {}
func (NoopEditorHooks) OnRemove(string, string)  {}

// NoopViewerHooks is a no-op implementation of ViewerHooks.
type NoopViewerHooks struct{}

func (NoopViewerHooks) OnLayoutCacheHit(string)  {}
func (NoopViewerHooks) OnLayoutCacheMiss(string) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnSave(context.Context, string, string, int, time.Duration, error) {}
func (NoopStoreHooks) OnLoad(context.Context, string, string, time.Duration, error)      {}
func (NoopStoreHooks) OnDelete(context.Context, string, string, error)                   {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	editorHooks EditorHooks = NoopEditorHooks{}
	viewerHooks ViewerHooks = NoopViewerHooks{}
	storeHooks  StoreHooks  = NoopStoreHooks{}
	hooksMu     sync.RWMutex
)

// SetEditorHooks registers custom editor hooks.
// This should be called once at application startup before any mutations.
func SetEditorHooks(h EditorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		editorHooks = h
	}
}

// SetViewerHooks registers custom viewer hooks.
// This should be called once at application startup before any viewer queries.
func SetViewerHooks(h ViewerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		viewerHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Editor returns the registered editor hooks.
func Editor() EditorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return editorHooks
}

// Viewer returns the registered viewer hooks.
func Viewer() ViewerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return viewerHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	editorHooks = NoopEditorHooks{}
	viewerHooks = NoopViewerHooks{}
	storeHooks = NoopStoreHooks{}
}
