package observability

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

// RequestIDKey stores the request id in a context. The id is also sent to
// the area API so both sides' logs can be joined.
const RequestIDKey contextKey = "request_id"

func NewRequestID() string {
	return uuid.New().String()
}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestIDFromContext returns "" when ctx carries no request id.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}
