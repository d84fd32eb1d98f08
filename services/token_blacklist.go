package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist stores revoked tokens in Redis until they would have
// expired anyway. A nil *TokenBlacklist accepts every token.
type TokenBlacklist struct {
	client *redis.Client
}

func NewTokenBlacklist(client *redis.Client) *TokenBlacklist {
	if client == nil {
		return nil
	}
	return &TokenBlacklist{client: client}
}

func blacklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "blacklist:" + hex.EncodeToString(sum[:])
}

// Revoke blacklists a token until expiresAt.
func (tb *TokenBlacklist) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	if tb == nil {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := tb.client.Set(ctx, blacklistKey(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to blacklist token in Redis: %w", err)
	}
	return nil
}

func (tb *TokenBlacklist) IsRevoked(ctx context.Context, token string) bool {
	if tb == nil {
		return false
	}
	n, err := tb.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		log.Printf("Error checking token blacklist: %v", err)
		return false
	}
	return n > 0
}
