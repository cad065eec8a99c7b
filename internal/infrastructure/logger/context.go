package logger

import "context"

type contextKey string

// RequestIDKey carries the request id on the request context so layers below
// the HTTP surface (the gorm logger in particular) can tag their lines with it.
const RequestIDKey contextKey = "request_id"

// ContextWithRequestID attaches the request id to the context.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID returns the request id from the context, or "".
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}
