package auth

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"

	"marketdesk-api/internal/config"
	"marketdesk-api/pkg/pricesync"
)

func TestAuthorizeCronSecret(t *testing.T) {
	a := New(config.AuthConf{CronSecret: "cron-123"})
	ctx := context.Background()

	require.NoError(t, a.Authorize(ctx, "cron-123"))
	require.ErrorIs(t, a.Authorize(ctx, "cron-124"), pricesync.ErrUnauthorized)
	require.ErrorIs(t, a.Authorize(ctx, ""), pricesync.ErrUnauthorized)
}

func TestAuthorizeAdminToken(t *testing.T) {
	a := New(config.AuthConf{AccessSecret: "jwt-secret"})
	ctx := context.Background()

	admin, err := a.IssueToken("ops@example.com", RoleAdmin, time.Hour)
	require.NoError(t, err)
	require.NoError(t, a.Authorize(ctx, admin))

	viewer, err := a.IssueToken("viewer@example.com", "viewer", time.Hour)
	require.NoError(t, err)
	require.ErrorIs(t, a.Authorize(ctx, viewer), pricesync.ErrUnauthorized)

	expired, err := a.IssueToken("ops@example.com", RoleAdmin, -time.Minute)
	require.NoError(t, err)
	require.ErrorIs(t, a.Authorize(ctx, expired), pricesync.ErrUnauthorized)

	other := New(config.AuthConf{AccessSecret: "another-secret"})
	forged, err := other.IssueToken("ops@example.com", RoleAdmin, time.Hour)
	require.NoError(t, err)
	require.ErrorIs(t, a.Authorize(ctx, forged), pricesync.ErrUnauthorized)
}

func TestAuthorizeRejectsNoneAlgorithm(t *testing.T) {
	a := New(config.AuthConf{AccessSecret: "jwt-secret"})
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Role: RoleAdmin})
	raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	require.ErrorIs(t, a.Authorize(context.Background(), raw), pricesync.ErrUnauthorized)
}

func TestCredentialFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		header string
		value  string
		want   string
	}{
		{name: "bearer", header: "Authorization", value: "Bearer abc", want: "abc"},
		{name: "lowercase bearer", header: "Authorization", value: "bearer xyz", want: "xyz"},
		{name: "raw authorization", header: "Authorization", value: "abc", want: "abc"},
		{name: "cron header", header: HeaderCronSecret, value: "cron-1", want: "cron-1"},
		{name: "none", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/api/sync", nil)
			if tt.header != "" {
				r.Header.Set(tt.header, tt.value)
			}
			require.Equal(t, tt.want, CredentialFromRequest(r))
		})
	}
}
