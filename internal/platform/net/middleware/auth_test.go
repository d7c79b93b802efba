package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	perr "dialdesk/internal/platform/errors"
	pnet "dialdesk/internal/platform/net"
	"dialdesk/internal/platform/net/middleware"
)

type fakeAuthPort struct {
	user string
	team string
	err  error
}

func (f fakeAuthPort) Parse(*http.Request) (string, string, error) {
	return f.user, f.team, f.err
}

func writeStub(w http.ResponseWriter, status int, _ any) {
	w.WriteHeader(status)
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name       string
		port       middleware.AuthPort
		wantStatus int
		wantNext   bool
		wantTeam   string
		wantUser   string
	}{
		{name: "nil port passes through", port: nil, wantStatus: http.StatusOK, wantNext: true},
		{name: "port error is mapped", port: fakeAuthPort{err: perr.Unauthorizedf("bad token")}, wantStatus: http.StatusUnauthorized},
		{name: "scope stored", port: fakeAuthPort{user: "u1", team: "team-1"}, wantStatus: http.StatusOK, wantNext: true, wantTeam: "team-1", wantUser: "u1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called bool
			var team, user string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				team = pnet.TeamID(r.Context())
				user = pnet.UserID(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			rr := httptest.NewRecorder()
			middleware.Auth(tt.port, writeStub)(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

			if rr.Code != tt.wantStatus || called != tt.wantNext {
				t.Fatalf("status=%d called=%v", rr.Code, called)
			}
			if team != tt.wantTeam || user != tt.wantUser {
				t.Fatalf("team=%q user=%q", team, user)
			}
		})
	}
}
