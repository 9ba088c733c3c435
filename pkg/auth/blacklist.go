package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/toneelevate/tonesmith/pkg/cache"
)

// Blacklist answers whether a token was revoked
type Blacklist interface {
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}

// TokenBlacklist stores revoked tokens in Redis until they expire
type TokenBlacklist struct {
	cache *cache.Client
}

var _ Blacklist = (*TokenBlacklist)(nil)

// NewTokenBlacklist creates a new token blacklist
func NewTokenBlacklist(cache *cache.Client) *TokenBlacklist {
	return &TokenBlacklist{
		cache: cache,
	}
}

// Add revokes a token for the given duration. Non-positive durations are a no-op.
func (b *TokenBlacklist) Add(ctx context.Context, token string, expiration time.Duration) error {
	return b.cache.Mark(ctx, b.key(token), expiration)
}

// IsBlacklisted checks if a token is blacklisted
func (b *TokenBlacklist) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	return b.cache.Marked(ctx, b.key(token))
}

// key hashes the token so raw credentials never reach Redis
func (b *TokenBlacklist) key(token string) string {
	hash := sha256.Sum256([]byte(token))
	return b.cache.Key("jwt", "revoked", hex.EncodeToString(hash[:]))
}
