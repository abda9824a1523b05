package usecase

import "context"

// requestIDKey is the context key for the request identifier.
type requestIDKey struct{}

// WithRequestID attaches a request identifier to the context so audit entries
// can correlate with HTTP access logs.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the request identifier attached to the context,
// or an empty string.
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDKey{}).(string)
	return requestID
}
