package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// logInsertHooks reports insertion events at debug level.
type logInsertHooks struct {
	logger *log.Logger
}

func (h *logInsertHooks) OnInsertStart(_ context.Context, segments int) {
	h.logger.Debug("insert batch", "segments", segments)
}

func (h *logInsertHooks) OnSegment(_ context.Context, index, leaves, nodes int, d time.Duration) {
	h.logger.Debug("segment done", "index", index, "regions", leaves, "nodes", nodes, "took", d)
}

func (h *logInsertHooks) OnInsertComplete(_ context.Context, inserted int, completed bool, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("insert failed", "inserted", inserted, "took", d, "error", err)
		return
	}
	h.logger.Debug("insert finished", "inserted", inserted, "completed", completed, "took", d)
}

// logCacheHooks reports cache traffic at debug level.
type logCacheHooks struct {
	logger *log.Logger
}

func (h *logCacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logCacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logCacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}
