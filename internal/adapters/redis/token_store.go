// Package redis provides Redis-based adapters for gatehouse.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gatehouse/gatehouse/internal/ports"
)

// TokenStore is a Redis-based token store for the dev identity provider.
// It holds refresh tokens and single-use reset contexts; Redis TTLs enforce
// the validity windows, so an expired token simply stops resolving.
type TokenStore struct {
	client redis.UniversalClient
	prefix string
}

// NewTokenStore creates a new Redis-based token store.
func NewTokenStore(client redis.UniversalClient) *TokenStore {
	return &TokenStore{
		client: client,
		prefix: "token:",
	}
}

// NewTokenStoreWithPrefix creates a Redis token store with a custom key prefix.
func NewTokenStoreWithPrefix(client redis.UniversalClient, prefix string) *TokenStore {
	return &TokenStore{
		client: client,
		prefix: prefix,
	}
}

func (s *TokenStore) key(kind, token string) string {
	return s.prefix + kind + ":" + token
}

// Save stores a token record under its kind with the given TTL.
func (s *TokenStore) Save(ctx context.Context, kind string, rec ports.TokenRecord, ttl time.Duration) error {
	if rec.Token == "" {
		return errors.New("token cannot be empty")
	}
	if ttl <= 0 {
		return errors.New("token TTL must be positive")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal token record: %w", err)
	}

	return s.client.Set(ctx, s.key(kind, rec.Token), data, ttl).Err()
}

// Get resolves a token record, reporting ports.ErrTokenNotFound for missing
// or expired tokens.
func (s *TokenStore) Get(ctx context.Context, kind, token string) (ports.TokenRecord, error) {
	if token == "" {
		return ports.TokenRecord{}, ports.ErrTokenNotFound
	}

	data, err := s.client.Get(ctx, s.key(kind, token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ports.TokenRecord{}, ports.ErrTokenNotFound
		}
		return ports.TokenRecord{}, fmt.Errorf("redis get: %w", err)
	}

	var rec ports.TokenRecord
	if unmarshalErr := json.Unmarshal([]byte(data), &rec); unmarshalErr != nil {
		return ports.TokenRecord{}, fmt.Errorf("unmarshal token record: %w", unmarshalErr)
	}
	return rec, nil
}

// Delete removes a token record; deleting a missing token is not an error.
func (s *TokenStore) Delete(ctx context.Context, kind, token string) error {
	if token == "" {
		return nil
	}
	return s.client.Del(ctx, s.key(kind, token)).Err()
}
