package httpkit

import (
	"net/http"

	perrs "dialdesk/internal/platform/errors"
	pnet "dialdesk/internal/platform/net"
)

// User returns the authenticated user id from the request context
func User(r *http.Request) (string, error) {
	uid := pnet.UserID(r.Context())
	if uid == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	return uid, nil
}

// Team returns the team the authenticated caller acts for
func Team(r *http.Request) (string, error) {
	tid := pnet.TeamID(r.Context())
	if tid == "" {
		return "", perrs.Unauthorizedf("missing team scope")
	}
	return tid, nil
}

// Caller returns both the user and team ids, failing if either is absent
func Caller(r *http.Request) (userID, teamID string, err error) {
	if userID, err = User(r); err != nil {
		return "", "", err
	}
	if teamID, err = Team(r); err != nil {
		return "", "", err
	}
	return userID, teamID, nil
}
