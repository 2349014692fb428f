package blacklist

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist tracks revoked JWT tokens in Redis. Entries expire on
// their own once the token they shadow would have expired anyway.
type TokenBlacklist struct {
	redis *redis.Client
}

func NewTokenBlacklist(redisClient *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{
		redis: redisClient,
	}
}

// Add records a token as revoked for the given TTL.
func (b *TokenBlacklist) Add(ctx context.Context, token string, ttl time.Duration) error {
	key := fmt.Sprintf("blacklist:token:%s", token)

	if err := b.redis.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}

	return nil
}

// AddUntil revokes a token for as long as it would otherwise remain
// valid. Tokens that already expired are not stored.
func (b *TokenBlacklist) AddUntil(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	return b.Add(ctx, token, ttl)
}

// IsBlacklisted reports whether the token has been revoked.
func (b *TokenBlacklist) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	key := fmt.Sprintf("blacklist:token:%s", token)

	exists, err := b.redis.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}

	return exists > 0, nil
}

// RevokeUser invalidates every token issued to the user before now.
// The marker expires after ttl, which should exceed the longest token
// lifetime the service issues.
func (b *TokenBlacklist) RevokeUser(ctx context.Context, userID string, ttl time.Duration) error {
	key := fmt.Sprintf("blacklist:user:%s", userID)

	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return b.redis.Set(ctx, key, time.Now().Unix(), ttl).Err()
}

// IsUserRevoked reports whether the token was issued before the user's
// revocation marker.
func (b *TokenBlacklist) IsUserRevoked(ctx context.Context, userID string, tokenIssuedAt time.Time) (bool, error) {
	key := fmt.Sprintf("blacklist:user:%s", userID)

	timestamp, err := b.redis.Get(ctx, key).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return tokenIssuedAt.Before(time.Unix(timestamp, 0)), nil
}
