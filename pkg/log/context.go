package log

import "context"

type contextKey int

const (
	requestIDKey contextKey = iota
	fieldsKey
)

// WithRequestID attaches a request id to the context. Every entry logged
// through the Ctx variants with this context carries it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the request id, or "" when absent.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithFields attaches structured fields to the context, merged over any
// fields already present.
func WithFields(ctx context.Context, keysAndValues ...any) context.Context {
	merged := make(map[string]any)
	for k, v := range FieldsFromContext(ctx) {
		merged[k] = v
	}
	mergePairs(merged, keysAndValues)
	return context.WithValue(ctx, fieldsKey, merged)
}

// FieldsFromContext extracts attached fields, or nil when absent.
func FieldsFromContext(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(fieldsKey).(map[string]any)
	return fields
}
