package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"marketdesk-api/internal/config"
	"marketdesk-api/pkg/pricesync"
)

// RoleAdmin is the claim value required for admin-issued tokens.
const RoleAdmin = "admin"

// HeaderCronSecret carries the scheduler's shared secret.
const HeaderCronSecret = "X-Cron-Secret"

// Claims are the JWT claims accepted from the admin UI.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Authorizer accepts either the cron shared secret or an HS256 admin token.
type Authorizer struct {
	cronSecret   []byte
	accessSecret []byte
	now          func() time.Time
}

var _ pricesync.Authorizer = (*Authorizer)(nil)

func New(cfg config.AuthConf) *Authorizer {
	return &Authorizer{
		cronSecret:   []byte(strings.TrimSpace(cfg.CronSecret)),
		accessSecret: []byte(strings.TrimSpace(cfg.AccessSecret)),
		now:          time.Now,
	}
}

// Authorize returns nil when credential matches the cron secret or is a valid
// admin token. Every failure wraps pricesync.ErrUnauthorized.
func (a *Authorizer) Authorize(_ context.Context, credential string) error {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return fmt.Errorf("%w: missing credential", pricesync.ErrUnauthorized)
	}
	if len(a.cronSecret) > 0 && subtle.ConstantTimeCompare([]byte(credential), a.cronSecret) == 1 {
		return nil
	}
	if len(a.accessSecret) == 0 {
		return fmt.Errorf("%w: invalid credential", pricesync.ErrUnauthorized)
	}

	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(credential, claims, func(*jwt.Token) (any, error) {
		return a.accessSecret, nil
	})
	if err != nil || !token.Valid {
		return fmt.Errorf("%w: invalid credential", pricesync.ErrUnauthorized)
	}
	if claims.Role != RoleAdmin {
		return fmt.Errorf("%w: role %q cannot run sync", pricesync.ErrUnauthorized, claims.Role)
	}
	return nil
}

// IssueToken signs an admin token for subject valid for ttl.
func (a *Authorizer) IssueToken(subject, role string, ttl time.Duration) (string, error) {
	if len(a.accessSecret) == 0 {
		return "", errors.New("auth: access secret not configured")
	}
	now := a.now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.accessSecret)
}

// CredentialFromRequest extracts the bearer token, falling back to the cron
// secret header.
func CredentialFromRequest(r *http.Request) string {
	if h := strings.TrimSpace(r.Header.Get("Authorization")); h != "" {
		if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
			return strings.TrimSpace(h[7:])
		}
		return h
	}
	return strings.TrimSpace(r.Header.Get(HeaderCronSecret))
}
