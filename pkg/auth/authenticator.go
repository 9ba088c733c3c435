package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/toneelevate/tonesmith/pkg/logger"
)

// ErrNoCredential is returned when no bearer token was sent
var ErrNoCredential = errors.New("missing bearer token")

// Authenticator resolves bearer tokens to identities
type Authenticator struct {
	secret    string
	audience  string
	blacklist Blacklist
	timeout   time.Duration
	logger    logger.Logger
}

// NewAuthenticator creates an authenticator. blacklist may be nil.
func NewAuthenticator(secret, audience string, blacklist Blacklist, log logger.Logger) *Authenticator {
	return &Authenticator{
		secret:    secret,
		audience:  audience,
		blacklist: blacklist,
		timeout:   5 * time.Second,
		logger:    log.With("component", "authenticator"),
	}
}

// BearerToken extracts the token from an Authorization header value
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// Authenticate verifies the Authorization header strictly
func (a *Authenticator) Authenticate(ctx context.Context, header string) (*Claims, error) {
	token, ok := BearerToken(header)
	if !ok {
		return nil, ErrNoCredential
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	return ValidateJWTWithBlacklist(ctx, token, a.secret, a.audience, a.blacklist)
}

// Resolve never fails: a missing or unusable credential yields Anonymous
func (a *Authenticator) Resolve(ctx context.Context, header string) Identity {
	claims, err := a.Authenticate(ctx, header)
	if errors.Is(err, ErrNoCredential) {
		a.logger.Debug("no bearer token, proceeding as anonymous")
		return Anonymous{}
	}
	if err != nil {
		a.logger.Warn("bearer token rejected, proceeding as anonymous", "error", err)
		return Anonymous{}
	}
	userID, _ := claims.UserID()
	return Authenticated{UserID: userID.String(), Email: claims.Email}
}
