package httpkit

import (
	"net/http"
	"strings"

	perrs "dialdesk/internal/platform/errors"
)

// TokenFunc parses a bearer token and returns the user and team it was issued for
type TokenFunc func(token string) (userID string, teamID string, err error)

// Port implements middleware.AuthPort by reading Authorization and delegating to a TokenFunc
type Port struct {
	parse TokenFunc
}

// NewPortFunc builds a Port from a simple parser function
func NewPortFunc(fn TokenFunc) *Port {
	return &Port{parse: fn}
}

// Parse extracts user and team ids from an Authorization Bearer token
// returns unauthorized when the header is missing, malformed, or the parser rejects the token
func (p *Port) Parse(r *http.Request) (string, string, error) {
	raw, err := bearer(r)
	if err != nil {
		return "", "", err
	}
	if p.parse == nil {
		return "", "", perrs.Unauthorizedf("invalid bearer token")
	}
	uid, tid, err := p.parse(raw)
	if err != nil {
		return "", "", perrs.Unauthorizedf("invalid bearer token")
	}
	if uid == "" || tid == "" {
		return "", "", perrs.Unauthorizedf("missing team scope")
	}
	return uid, tid, nil
}

// bearer returns the token after a case-insensitive "Bearer" scheme
func bearer(r *http.Request) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	return token, nil
}
