package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nutritionnest/coaching-api/internal/core/domain"
)

// SessionCache stores issued sessions in Redis.
// Key format: session:<session_id> → account id, expiring with the session.
// A per-account set (account_sessions:<account_id>) supports bulk revocation
// when an account is deleted.
type SessionCache struct {
	client *redis.Client
}

// NewSessionCache creates a SessionCache wrapping the given Redis client.
func NewSessionCache(client *redis.Client) *SessionCache {
	return &SessionCache{client: client}
}

// Save records a session for the account with the given time to live.
func (s *SessionCache) Save(ctx context.Context, sessionID, accountID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(sessionID), accountID, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	// The index set carries the same TTL so it cannot outlive its sessions
	// forever; it is refreshed on every new session.
	pipe := s.client.Pipeline()
	pipe.SAdd(ctx, s.accountKey(accountID), sessionID)
	pipe.Expire(ctx, s.accountKey(accountID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("index session: %w", err)
	}
	return nil
}

// Lookup resolves a session id to its account id. A missing key means the
// session expired or was revoked.
func (s *SessionCache) Lookup(ctx context.Context, sessionID string) (string, error) {
	accountID, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrSessionExpired
	}
	if err != nil {
		return "", fmt.Errorf("%w: lookup session: %w", domain.ErrBackendUnavailable, err)
	}
	return accountID, nil
}

// Delete removes a single session. It reports whether a live session was
// actually removed, so callers can tell a revocation apart from a no-op on
// an already expired key.
func (s *SessionCache) Delete(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.client.Del(ctx, s.key(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return n > 0, nil
}

// RevokeAccount removes every live session belonging to the account.
func (s *SessionCache) RevokeAccount(ctx context.Context, accountID string) error {
	ids, err := s.client.SMembers(ctx, s.accountKey(accountID)).Result()
	if err != nil {
		return fmt.Errorf("list account sessions: %w", err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, s.key(id))
	}
	keys = append(keys, s.accountKey(accountID))

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("revoke account sessions: %w", err)
	}
	return nil
}

func (s *SessionCache) key(sessionID string) string {
	return "session:" + sessionID
}

func (s *SessionCache) accountKey(accountID string) string {
	return "account_sessions:" + accountID
}
