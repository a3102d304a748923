package middleware

import (
	"context"
	"net/http"

	"kra360/internal/domain/auth"
	"kra360/internal/view"
)

// ViewFactory builds the view service of one viewer.
type ViewFactory func(viewer auth.Identity) *view.Service

// Views attaches the viewer's view service to signed-in requests.
func Views(factory ViewFactory) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			viewer, ok := GetViewer(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyViews, factory(viewer))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetViews(ctx context.Context) (*view.Service, bool) {
	svc, ok := ctx.Value(ctxKeyViews).(*view.Service)
	return svc, ok && svc != nil
}
