package services

import "context"

type contextKey string

const (
	runIDKey    contextKey = "run_id"
	rowIndexKey contextKey = "row_index"
	queryKey    contextKey = "query"
)

// WithRunID annotates context with the enrichment run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRowIndex annotates context with the zero-based table row being processed.
func WithRowIndex(ctx context.Context, row int) context.Context {
	return context.WithValue(ctx, rowIndexKey, row)
}

// RowIndexFromContext extracts the row index if present.
func RowIndexFromContext(ctx context.Context) (int, bool) {
	switch val := ctx.Value(rowIndexKey).(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	default:
		return 0, false
	}
}

// WithQuery annotates context with the lookup query text.
func WithQuery(ctx context.Context, query string) context.Context {
	if query == "" {
		return ctx
	}
	return context.WithValue(ctx, queryKey, query)
}

// QueryFromContext returns the lookup query if present.
func QueryFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(queryKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
