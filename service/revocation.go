// file: service/revocation.go

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrTokenRevoked reports that a token ID was already present in the
// revocation list when Revoke was called. The refresh flow uses this to
// detect that a concurrent caller won the rotation race.
var ErrTokenRevoked = errors.New("token already revoked")

// IRevocationList is the durable blacklist of refresh-token IDs.
// It must be shared across server instances and support atomic
// check-and-set, since two concurrent refreshes with the same token race on
// who revokes it first.
type IRevocationList interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RedisRevocationList implements IRevocationList on Redis. Entries carry a
// TTL equal to the token's remaining natural lifetime, so Redis key expiry
// garbage-collects them once the token could no longer verify anyway.
type RedisRevocationList struct {
	client *redis.Client
}

func NewRedisRevocationList(client *redis.Client) *RedisRevocationList {
	return &RedisRevocationList{client: client}
}

func revocationKey(tokenID string) string {
	return "revoked:" + tokenID
}

// Revoke inserts the token ID into the blacklist via SETNX, which makes the
// operation an atomic compare-and-insert: exactly one of any number of
// concurrent callers observes success, the rest get ErrTokenRevoked.
func (l *RedisRevocationList) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// The token can no longer verify on expiry alone; an entry would
		// only waste space.
		return nil
	}

	ok, err := l.client.SetNX(ctx, revocationKey(tokenID), time.Now().Unix(), ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	if !ok {
		return ErrTokenRevoked
	}
	return nil
}

// IsRevoked reports whether the token ID is present in the blacklist.
func (l *RedisRevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := l.client.Exists(ctx, revocationKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check revocation list: %w", err)
	}
	return n > 0, nil
}
