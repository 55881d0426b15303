package redis

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tonkonan/materrax/internal/models"
)

type SessionRepository struct {
	client *redis.Client
}

func NewSessionRepository(ctx context.Context, redisURL string) (*SessionRepository, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &SessionRepository{client: client}, nil
}

func (r *SessionRepository) Close() {
	if r.client != nil {
		r.client.Close()
	}
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

func userSessionsKey(userID int64) string {
	return fmt.Sprintf("user_sessions:%d", userID)
}

// StoreSession writes the session hash and indexes it under its user. Both
// keys expire with the token; the index keeps the longest remaining TTL.
func (r *SessionRepository) StoreSession(ctx context.Context, session *models.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	key := sessionKey(session.ID)
	indexKey := userSessionsKey(session.UserID)

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, map[string]interface{}{
			"user_id":    session.UserID,
			"email":      session.Email,
			"role":       string(session.Role),
			"issued_at":  session.IssuedAt.Unix(),
			"expires_at": session.ExpiresAt.Unix(),
		})
		pipe.Expire(ctx, key, ttl)
		pipe.SAdd(ctx, indexKey, session.ID)
		pipe.ExpireGT(ctx, indexKey, ttl)
		// ExpireGT is a no-op on keys without a TTL
		pipe.ExpireNX(ctx, indexKey, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}

// ListSessions returns the user's unexpired sessions, newest first, and drops
// index entries whose session hash has already expired.
func (r *SessionRepository) ListSessions(ctx context.Context, userID int64) ([]models.Session, error) {
	indexKey := userSessionsKey(userID)

	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	sessions := make([]models.Session, 0, len(ids))
	var stale []interface{}
	for _, id := range ids {
		data, err := r.client.HGetAll(ctx, sessionKey(id)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to get session: %w", err)
		}
		if len(data) == 0 {
			stale = append(stale, id)
			continue
		}

		session, err := parseSession(id, data)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}

	if len(stale) > 0 {
		if err := r.client.SRem(ctx, indexKey, stale...).Err(); err != nil {
			return nil, fmt.Errorf("failed to prune sessions: %w", err)
		}
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].IssuedAt.After(sessions[j].IssuedAt)
	})

	return sessions, nil
}

func parseSession(id string, data map[string]string) (*models.Session, error) {
	userID, err := strconv.ParseInt(data["user_id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse session %s: %w", id, err)
	}
	issuedAt, err := strconv.ParseInt(data["issued_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse session %s: %w", id, err)
	}
	expiresAt, err := strconv.ParseInt(data["expires_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse session %s: %w", id, err)
	}

	return &models.Session{
		ID:        id,
		UserID:    userID,
		Email:     data["email"],
		Role:      models.Role(data["role"]),
		IssuedAt:  time.Unix(issuedAt, 0).UTC(),
		ExpiresAt: time.Unix(expiresAt, 0).UTC(),
	}, nil
}
