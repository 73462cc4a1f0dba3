package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/yoldosh/admin-api/internal/shared"
)

// TokenStore keeps bearer credentials in Redis, keyed by scope. A token's
// presence maps it to an admin ID; validity beyond the TTL is decided by
// profile resolution, never computed here.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenStore constructs a TokenStore.
func NewTokenStore(client *redis.Client, ttl time.Duration) *TokenStore {
	return &TokenStore{client: client, ttl: ttl}
}

// Save writes the token under its scope-specific key and indexes it by
// admin so ClearAll can revoke every session of one account.
func (ts *TokenStore) Save(ctx context.Context, scope Scope, token, adminID string) error {
	key := ts.tokenKey(scope, token)
	pipe := ts.client.TxPipeline()
	pipe.Set(ctx, key, adminID, ts.ttl)
	pipe.SAdd(ctx, ts.indexKey(adminID), key)
	pipe.Expire(ctx, ts.indexKey(adminID), ts.ttl)
	_, err := pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("auth: save token: %w", err)
	}
	return nil
}

// Resolve returns the admin ID a token maps to. A missing or expired
// token yields shared.ErrUnauthorized.
func (ts *TokenStore) Resolve(ctx context.Context, scope Scope, token string) (string, error) {
	if token == "" {
		return "", shared.ErrUnauthorized
	}
	adminID, err := ts.client.Get(ctx, ts.tokenKey(scope, token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", shared.ErrUnauthorized
		}
		return "", fmt.Errorf("auth: resolve token: %w", err)
	}
	return adminID, nil
}

// Clear removes a token. Clearing an absent token is a no-op.
func (ts *TokenStore) Clear(ctx context.Context, scope Scope, token string) error {
	if token == "" {
		return nil
	}
	key := ts.tokenKey(scope, token)
	adminID, err := ts.client.Get(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("auth: clear token: %w", err)
	}
	pipe := ts.client.TxPipeline()
	pipe.Del(ctx, key)
	if adminID != "" {
		pipe.SRem(ctx, ts.indexKey(adminID), key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("auth: clear token: %w", err)
	}
	return nil
}

// ClearAll revokes every token held by an admin across both scopes.
func (ts *TokenStore) ClearAll(ctx context.Context, adminID string) error {
	keys, err := ts.client.SMembers(ctx, ts.indexKey(adminID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("auth: list tokens: %w", err)
	}
	keys = append(keys, ts.indexKey(adminID))
	if err := ts.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("auth: revoke tokens: %w", err)
	}
	return nil
}

// PruneIndexes drops index entries whose token key has expired. Redis
// evicts the tokens themselves by TTL; the per-admin index sets only
// shrink here or on explicit logout.
func (ts *TokenStore) PruneIndexes(ctx context.Context) (int, error) {
	var pruned int
	iter := ts.client.Scan(ctx, 0, "admin_tokens:*", 100).Iterator()
	for iter.Next(ctx) {
		setKey := iter.Val()
		members, err := ts.client.SMembers(ctx, setKey).Result()
		if err != nil {
			return pruned, fmt.Errorf("auth: prune indexes: %w", err)
		}
		for _, tokenKey := range members {
			exists, err := ts.client.Exists(ctx, tokenKey).Result()
			if err != nil {
				return pruned, fmt.Errorf("auth: prune indexes: %w", err)
			}
			if exists == 0 {
				if err := ts.client.SRem(ctx, setKey, tokenKey).Err(); err != nil {
					return pruned, fmt.Errorf("auth: prune indexes: %w", err)
				}
				pruned++
			}
		}
	}
	if err := iter.Err(); err != nil {
		return pruned, fmt.Errorf("auth: prune indexes: %w", err)
	}
	return pruned, nil
}

func (ts *TokenStore) tokenKey(scope Scope, token string) string {
	return "token:" + string(scope) + ":" + token
}

func (ts *TokenStore) indexKey(adminID string) string {
	return "admin_tokens:" + adminID
}

// GenerateToken returns an opaque high-entropy bearer string.
func GenerateToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return uuid.NewString()
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
