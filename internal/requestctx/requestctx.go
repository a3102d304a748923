package requestctx

import (
	"context"
	"sync"
)

type ctxKey string

const requestInfoKey ctxKey = "request_info"

// info is shared by every derived context of one request, so values set
// deeper in the chain are visible to outer middleware.
type info struct {
	mu        sync.Mutex
	requestID string
	viewerID  string
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestInfoKey, &info{requestID: requestID})
}

func GetRequestID(ctx context.Context) string {
	if value, ok := ctx.Value(requestInfoKey).(*info); ok {
		value.mu.Lock()
		defer value.mu.Unlock()
		return value.requestID
	}
	return ""
}

// SetViewerID records the signed-in employee for request logging. It is a
// no-op outside a request.
func SetViewerID(ctx context.Context, viewerID string) {
	if value, ok := ctx.Value(requestInfoKey).(*info); ok {
		value.mu.Lock()
		value.viewerID = viewerID
		value.mu.Unlock()
	}
}

func GetViewerID(ctx context.Context) string {
	if value, ok := ctx.Value(requestInfoKey).(*info); ok {
		value.mu.Lock()
		defer value.mu.Unlock()
		return value.viewerID
	}
	return ""
}
