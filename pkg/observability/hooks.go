// Package observability provides hooks for metrics, tracing, and logging.
//
// The trapezoidal map, the caches and the HTTP server emit events through the
// hooks registered here. Nothing is recorded by default; applications register
// implementations at startup:
//
//	func main() {
//	    observability.SetInsertHooks(&myInsertHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call the registered hooks:
//
//	observability.Insert().OnInsertStart(ctx, len(segments))
//	// ... insert ...
//	observability.Insert().OnInsertComplete(ctx, n, true, elapsed, nil)
package observability

import (
	"context"
	"sync"
	"time"
)

// InsertHooks receives events from segment insertion.
type InsertHooks interface {
	// OnInsertStart is called once per batch before validation.
	OnInsertStart(ctx context.Context, segments int)

	// OnSegment is called after each segment with the map's size.
	OnSegment(ctx context.Context, index, leaves, nodes int, duration time.Duration)

	// OnInsertComplete is called once per batch. completed is false when the
	// batch was rejected, timed out or was cancelled.
	OnInsertComplete(ctx context.Context, inserted int, completed bool, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response to a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// NoopInsertHooks is a no-op implementation of InsertHooks.
type NoopInsertHooks struct{}

func (NoopInsertHooks) OnInsertStart(context.Context, int)                                {}
func (NoopInsertHooks) OnSegment(context.Context, int, int, int, time.Duration)           {}
func (NoopInsertHooks) OnInsertComplete(context.Context, int, bool, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                       {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

var (
	insertHooks InsertHooks = NoopInsertHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetInsertHooks registers custom insertion hooks. A nil argument is ignored.
func SetInsertHooks(h InsertHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		insertHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. A nil argument is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks. A nil argument is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Insert returns the registered insertion hooks.
func Insert() InsertHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return insertHooks
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
	insertHooks = NoopInsertHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
