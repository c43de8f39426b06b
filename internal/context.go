package internal

import "context"

type ctxKey string

const traceIDKey ctxKey = "trace_id"

// TraceIDFromContext returns the request's trace id, or "" outside a request.
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(traceIDKey).(string)
	return id
}

func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}
