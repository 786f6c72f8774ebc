// Package session implements the server-side half of the auth protocol: a
// Redis-backed session record per issued token plus a per-user index set used
// for bulk enumeration and invalidation.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionPrefix     = "auth:"
	userSessionPrefix = "user_sessions:"

	// DefaultTTL bounds every session and index entry; expiry is enforced
	// by Redis itself, not by application polling.
	DefaultTTL = 24 * time.Hour
)

// Data is the session record stored per token.
type Data struct {
	UserID       uint      `json:"user_id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	UserAgent    string    `json:"user_agent"`
	IP           string    `json:"ip"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	IsActive     bool      `json:"is_active"`
}

// Stats summarizes the live session population. Counts are best-effort under
// concurrent writes; no locking is attempted.
type Stats struct {
	TotalSessions int64 `json:"totalSessions"`
	ActiveUsers   int64 `json:"activeUsers"`
}

// Store owns all session records. The raw token string is the lookup key.
type Store struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

// NewStore creates a session Store backed by the given Redis client.
// A non-positive ttl falls back to DefaultTTL.
func NewStore(client redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{client: client, ttl: ttl, logger: logger}
}

// Create writes the session record keyed by token and registers the token in
// the owner's index set; both carry the store TTL.
func (s *Store) Create(ctx context.Context, token string, data Data) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, sessionKey(token), payload, s.ttl).Err(); err != nil {
		return err
	}

	userKey := userKey(data.UserID)
	if err := s.client.SAdd(ctx, userKey, token).Err(); err != nil {
		return err
	}
	return s.client.Expire(ctx, userKey, s.ttl).Err()
}

// Get loads the session record for token. A missing or expired session
// returns (nil, nil).
func (s *Store) Get(ctx context.Context, token string) (*Data, error) {
	raw, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Touch refreshes the session's last-activity timestamp and resets its TTL.
// Touching an absent session is a no-op.
func (s *Store) Touch(ctx context.Context, token string) error {
	data, err := s.Get(ctx, token)
	if err != nil || data == nil {
		return err
	}

	data.LastActivity = time.Now()
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(token), payload, s.ttl).Err()
}

// Invalidate destroys the session record and deregisters the token from its
// owner's index set. Invalidating an already-absent token is a no-op.
func (s *Store) Invalidate(ctx context.Context, token string) error {
	// Read first: once the record is gone the owner is unknowable and the
	// index entry would leak until its TTL.
	data, err := s.Get(ctx, token)
	if err != nil {
		return err
	}

	if err := s.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return err
	}
	if data != nil {
		return s.client.SRem(ctx, userKey(data.UserID), token).Err()
	}
	return nil
}

// InvalidateUser revokes every session in the user's index set, then removes
// the set itself. Per-token failures are logged and swallowed; the sweep is
// best-effort, not atomic, and a concurrent issue may survive it.
func (s *Store) InvalidateUser(ctx context.Context, userID uint) error {
	key := userKey(userID)
	tokens, err := s.client.SMembers(ctx, key).Result()
	if err != nil {
		return err
	}

	for _, token := range tokens {
		if err := s.client.Del(ctx, sessionKey(token)).Err(); err != nil {
			s.logger.Error("session sweep: delete failed",
				slog.Uint64("user_id", uint64(userID)),
				slog.Any("error", err),
			)
		}
	}

	return s.client.Del(ctx, key).Err()
}

// UserSessions returns the active token strings registered for the user.
func (s *Store) UserSessions(ctx context.Context, userID uint) ([]string, error) {
	return s.client.SMembers(ctx, userKey(userID)).Result()
}

// UserSessionCount returns the number of active sessions for the user.
func (s *Store) UserSessionCount(ctx context.Context, userID uint) (int64, error) {
	return s.client.SCard(ctx, userKey(userID)).Result()
}

// Stats counts live session keys and distinct user index keys by scanning
// the two key namespaces.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	total, err := s.countKeys(ctx, sessionPrefix+"*")
	if err != nil {
		return Stats{}, err
	}
	users, err := s.countKeys(ctx, userSessionPrefix+"*")
	if err != nil {
		return Stats{}, err
	}
	return Stats{TotalSessions: total, ActiveUsers: users}, nil
}

func (s *Store) countKeys(ctx context.Context, pattern string) (int64, error) {
	var count int64
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return 0, err
		}
		count += int64(len(keys))
		if next == 0 {
			return count, nil
		}
		cursor = next
	}
}

func sessionKey(token string) string {
	return sessionPrefix + token
}

func userKey(userID uint) string {
	return userSessionPrefix + strconv.FormatUint(uint64(userID), 10)
}
