package transport

import (
	"context"
	"sync"
)

type contextKey string

const ctxKeySaveReport contextKey = "save_report"

// SaveReport collects what happened to the documents persisted under one
// context, so each caller sees only its own outcome.
type SaveReport struct {
	mu       sync.Mutex
	fallback string
}

// FallbackPath returns the local copy written instead of an upload, or "".
func (r *SaveReport) FallbackPath() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fallback
}

func (r *SaveReport) setFallback(path string) {
	r.mu.Lock()
	r.fallback = path
	r.mu.Unlock()
}

// ContextWithSaveReport attaches a fresh SaveReport to ctx.
func ContextWithSaveReport(ctx context.Context) (context.Context, *SaveReport) {
	rep := &SaveReport{}
	return context.WithValue(ctx, ctxKeySaveReport, rep), rep
}

// SaveReportFromContext returns the report attached to ctx, or nil.
func SaveReportFromContext(ctx context.Context) *SaveReport {
	if v, ok := ctx.Value(ctxKeySaveReport).(*SaveReport); ok {
		return v
	}
	return nil
}
