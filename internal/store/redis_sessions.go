package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/erazemk/zaloga/internal/model"
)

// RedisSessions keeps login sessions in Redis hashes that expire on their own.
type RedisSessions struct {
	client *redis.Client
	prefix string
}

// NewRedisSessions returns a session store backed by client.
func NewRedisSessions(client *redis.Client) *RedisSessions {
	return &RedisSessions{client: client, prefix: "session:"}
}

func (r *RedisSessions) key(id string) string {
	return r.prefix + id
}

// CreateSession stores a session with a TTL matching its expiry.
func (r *RedisSessions) CreateSession(ctx context.Context, sess *model.Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return errors.New("creating session: already expired")
	}

	key := r.key(sess.ID)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			"user_id", sess.UserID,
			"created_at", sess.CreatedAt.UnixNano(),
			"expires_at", sess.ExpiresAt.UnixNano(),
		)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	return nil
}

// GetSession returns a session by ID, or nil if it does not exist.
func (r *RedisSessions) GetSession(ctx context.Context, id string) (*model.Session, error) {
	fields, err := r.client.HGetAll(ctx, r.key(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	userID, err := strconv.ParseInt(fields["user_id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing session user_id: %w", err)
	}
	created, err := strconv.ParseInt(fields["created_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing session created_at: %w", err)
	}
	expires, err := strconv.ParseInt(fields["expires_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing session expires_at: %w", err)
	}

	return &model.Session{
		ID:        id,
		UserID:    userID,
		CreatedAt: time.Unix(0, created).UTC(),
		ExpiresAt: time.Unix(0, expires).UTC(),
	}, nil
}

// DeleteSession removes a session. Deleting an unknown session is not an error.
func (r *RedisSessions) DeleteSession(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions is a no-op; Redis expires keys itself.
func (r *RedisSessions) DeleteExpiredSessions(context.Context, time.Time) error {
	return nil
}
