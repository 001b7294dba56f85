package logging

import "context"

type requestIDKey struct{}

// WithRequestID returns a copy of ctx carrying id. SlogLogger adds it as
// request_id to every record logged with that context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}

func withContextAttrs(ctx context.Context, args []any) []any {
	if id, ok := RequestIDFromContext(ctx); ok {
		return append(args, "request_id", id)
	}
	return args
}
