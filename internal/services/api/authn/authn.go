// Package authn mints and verifies the bearer tokens that scope API calls to a user and team
//
// a token is base64url("user:team:expiry_unix") + "." + hex(hmac_sha256(secret, payload))
package authn

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"dialdesk/internal/modkit/httpkit"
	"dialdesk/internal/platform/config"
	perr "dialdesk/internal/platform/errors"

	"github.com/google/uuid"
)

// DefaultTTL is the lifetime of minted tokens when none is given
const DefaultTTL = 24 * time.Hour

// Signer signs and verifies tokens with one shared secret
type Signer struct {
	secret []byte
	now    func() time.Time
}

// New returns a Signer, an empty secret is refused
func New(secret string) (*Signer, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, perr.InvalidArgf("auth secret is empty")
	}
	return &Signer{secret: []byte(secret), now: time.Now}, nil
}

// FromConfig reads CORE_API_AUTH_SECRET
func FromConfig(c config.Conf) (*Signer, error) {
	return New(c.Prefix("CORE_API_").MayString("AUTH_SECRET", ""))
}

// Sign mints a token for userID acting in teamID, valid for ttl
func (s *Signer) Sign(userID, teamID string, ttl time.Duration) (string, error) {
	uid, err := canonical(userID, "user")
	if err != nil {
		return "", err
	}
	tid, err := canonical(teamID, "team")
	if err != nil {
		return "", err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	exp := s.now().Add(ttl).Unix()
	payload := base64.RawURLEncoding.EncodeToString([]byte(uid + ":" + tid + ":" + strconv.FormatInt(exp, 10)))
	return payload + "." + s.mac(payload), nil
}

// Verify checks signature and expiry and returns the user and team ids
func (s *Signer) Verify(token string) (userID, teamID string, err error) {
	payload, sig, ok := strings.Cut(strings.TrimSpace(token), ".")
	if !ok || payload == "" || sig == "" {
		return "", "", perr.Unauthorizedf("malformed token")
	}
	if !hmac.Equal([]byte(strings.ToLower(sig)), []byte(s.mac(payload))) {
		return "", "", perr.Unauthorizedf("bad token signature")
	}
	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", "", perr.Unauthorizedf("malformed token")
	}
	parts := strings.Split(string(raw), ":")
	if len(parts) != 3 {
		return "", "", perr.Unauthorizedf("malformed token")
	}
	exp, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return "", "", perr.Unauthorizedf("malformed token")
	}
	if !s.now().Before(time.Unix(exp, 0)) {
		return "", "", perr.Unauthorizedf("token expired")
	}
	if userID, err = canonical(parts[0], "user"); err != nil {
		return "", "", perr.Unauthorizedf("malformed token")
	}
	if teamID, err = canonical(parts[1], "team"); err != nil {
		return "", "", perr.Unauthorizedf("malformed token")
	}
	return userID, teamID, nil
}

// Port adapts Verify to the bearer auth middleware
func (s *Signer) Port() *httpkit.Port { return httpkit.NewPortFunc(s.Verify) }

func (s *Signer) mac(payload string) string {
	m := hmac.New(sha256.New, s.secret)
	m.Write([]byte(payload))
	return hex.EncodeToString(m.Sum(nil))
}

func canonical(id, what string) (string, error) {
	u, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil || u == uuid.Nil {
		return "", perr.WithField(perr.InvalidArgf("%s id must be a uuid", what), what)
	}
	return u.String(), nil
}
