package helpers

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient initializes a redis client
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// SessionKey is the Redis key of a login session.
func SessionKey(sessionID string) string {
	return "user:session:" + sessionID
}

// PutSession records a session owned by userID until ttl elapses.
func PutSession(ctx context.Context, rdb *redis.Client, sessionID, userID string, ttl time.Duration) error {
	key := SessionKey(sessionID)
	pipe := rdb.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"user_id":    userID,
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	})
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// SessionOwner returns the user owning sessionID, or "" when the session is gone.
func SessionOwner(ctx context.Context, rdb *redis.Client, sessionID string) (string, error) {
	uid, err := rdb.HGet(ctx, SessionKey(sessionID), "user_id").Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return uid, err
}

func DeleteSession(ctx context.Context, rdb *redis.Client, sessionID string) error {
	return rdb.Del(ctx, SessionKey(sessionID)).Err()
}
