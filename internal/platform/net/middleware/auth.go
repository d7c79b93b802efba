package middleware

import (
	"net/http"

	"dialdesk/internal/platform/logger"
	pnet "dialdesk/internal/platform/net"
)

// AuthPort resolves the caller of a request
type AuthPort interface {
	// Parse returns the user id and team id carried by the request or an error
	Parse(r *http.Request) (userID string, teamID string, err error)
}

// Auth resolves the caller through p and stores user and team on the context
// a nil port passes requests through untouched
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			uid, tid, err := p.Parse(r)
			if err != nil {
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			ctx := pnet.WithUser(r.Context(), uid)
			reqID := pnet.RequestID(ctx)
			ctx = pnet.WithRequest(ctx, reqID, tid)
			ctx = logger.WithScope(ctx, reqID, tid, uid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
