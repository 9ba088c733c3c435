package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toneelevate/tonesmith/pkg/logger"
)

type mockBlacklist struct {
	revoked bool
	err     error
}

func (m *mockBlacklist) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	return m.revoked, m.err
}

var _ Blacklist = &mockBlacklist{}

func newTestAuthenticator(bl Blacklist) *Authenticator {
	return NewAuthenticator(testSecret, testAudience, bl, logger.Nop())
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"Bearer   padded  ", "padded", true},
		{"Bearer ", "", false},
		{"Basic dXNlcjpwYXNz", "", false},
		{"abc.def.ghi", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			token, ok := BearerToken(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.token, token)
		})
	}
}

func TestResolve_ValidToken(t *testing.T) {
	userID := uuid.New()
	token, err := GenerateJWT(userID, "writer@example.com", testSecret, testAudience, time.Hour)
	require.NoError(t, err)

	id := newTestAuthenticator(nil).Resolve(context.Background(), "Bearer "+token)

	authed, ok := id.(Authenticated)
	require.True(t, ok)
	assert.Equal(t, userID.String(), authed.UserID)
	assert.Equal(t, "writer@example.com", authed.Email)
}

func TestResolve_DegradesToAnonymous(t *testing.T) {
	userID := uuid.New()
	valid, err := GenerateJWT(userID, "", testSecret, testAudience, time.Hour)
	require.NoError(t, err)
	expired, err := GenerateJWT(userID, "", testSecret, testAudience, -time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name      string
		header    string
		blacklist Blacklist
	}{
		{"no header", "", nil},
		{"wrong scheme", "Token " + valid, nil},
		{"malformed", "Bearer garbage", nil},
		{"expired", "Bearer " + expired, nil},
		{"revoked", "Bearer " + valid, &mockBlacklist{revoked: true}},
		{"blacklist unavailable", "Bearer " + valid, &mockBlacklist{err: errors.New("redis down")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := newTestAuthenticator(tt.blacklist).Resolve(context.Background(), tt.header)
			assert.Equal(t, Anonymous{}, id)
		})
	}
}

func TestAuthenticate_MissingCredential(t *testing.T) {
	_, err := newTestAuthenticator(nil).Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestIdentityHelpers(t *testing.T) {
	userID, ok := UserIDOf(Authenticated{UserID: "u-1"})
	assert.True(t, ok)
	assert.Equal(t, "u-1", userID)

	_, ok = UserIDOf(Anonymous{})
	assert.False(t, ok)

	assert.Equal(t, "anonymous", Describe(Anonymous{}))
	assert.Equal(t, "u-1", Describe(Authenticated{UserID: "u-1"}))
}
