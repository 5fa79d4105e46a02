// Package observability provides hooks for metrics and tracing.
//
// Library packages emit events through the hooks registered here and never
// import a metrics backend themselves. The CLI and the HTTP server register a
// backend (see [github.com/matzehuels/modgraph/pkg/observability/metrics])
// at startup; everything else sees the no-op defaults.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    m := metrics.New(prometheus.NewRegistry())
//	    observability.SetDecomposeHooks(m)
//	    observability.SetCacheHooks(m)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Decompose().OnRunStart(ctx, g.NodeCount())
//	// ... decompose ...
//	observability.Decompose().OnRunComplete(ctx, res.Iterations, res.Merges, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Decompose Hooks
// =============================================================================

// DecomposeHooks receives events from the decomposition pipeline.
type DecomposeHooks interface {
	// Run events
	OnRunStart(ctx context.Context, nodes int)
	OnRunComplete(ctx context.Context, iterations, merges int, duration time.Duration, err error)

	// OnPass is called once per pass with the number of nodes it tagged or
	// merged.
	OnPass(ctx context.Context, pass string, matched int)

	// Render events
	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnRequest records a served request. route is the matched route
	// pattern, not the raw path.
	OnRequest(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopDecomposeHooks is a no-op implementation of DecomposeHooks.
type NoopDecomposeHooks struct{}

func (NoopDecomposeHooks) OnRunStart(context.Context, int)                                {}
func (NoopDecomposeHooks) OnRunComplete(context.Context, int, int, time.Duration, error)  {}
func (NoopDecomposeHooks) OnPass(context.Context, string, int)                            {}
func (NoopDecomposeHooks) OnRenderStart(context.Context, string)                          {}
func (NoopDecomposeHooks) OnRenderComplete(context.Context, string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	decomposeHooks DecomposeHooks = NoopDecomposeHooks{}
	cacheHooks     CacheHooks     = NoopCacheHooks{}
	httpHooks      HTTPHooks      = NoopHTTPHooks{}
	hooksMu        sync.RWMutex
)

// SetDecomposeHooks registers custom decomposition hooks.
// This should be called once at application startup before any runs.
func SetDecomposeHooks(h DecomposeHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		decomposeHooks = h
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

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Decompose returns the registered decomposition hooks.
func Decompose() DecomposeHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return decomposeHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	decomposeHooks = NoopDecomposeHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
