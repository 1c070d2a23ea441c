package sessiondb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/andrebq/turnstile/auth"
	"github.com/redis/go-redis/v9"
)

type (
	// Redis stores each session as JSON under session:<id>
	Redis struct {
		client *redis.Client
		ttl    time.Duration
	}
)

const (
	redisKeyPrefix = "session:"
)

// NewRedis wraps client, when ttl > 0 keys are removed by redis after ttl.
// Expiration is still checked by the strategy, the ttl only bounds how
// long expired sessions take space.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// DialRedis connects to addr and checks the connection
func DialRedis(ctx context.Context, addr, password string, ttl time.Duration) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("unable to reach redis at %v, cause %w", addr, err)
	}
	return NewRedis(client, ttl), nil
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

func (r *Redis) Insert(ctx context.Context, sess auth.Session) error {
	buf, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("unable to encode session, cause %w", err)
	}
	// negative values have special meaning for go-redis
	ttl := r.ttl
	if ttl < 0 {
		ttl = 0
	}
	created, err := r.client.SetNX(ctx, redisKey(sess.ID), buf, ttl).Result()
	if err != nil {
		return fmt.Errorf("unable to insert session, cause %w", err)
	}
	if !created {
		return ErrDuplicatedSession
	}
	return nil
}

func (r *Redis) Get(ctx context.Context, id string) (auth.Session, error) {
	buf, err := r.client.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return auth.Session{}, auth.ErrUnknownSession
	} else if err != nil {
		return auth.Session{}, fmt.Errorf("unable to load session, cause %w", err)
	}
	var sess auth.Session
	if err := json.Unmarshal(buf, &sess); err != nil {
		return auth.Session{}, fmt.Errorf("unable to decode session %v, cause %w", id, err)
	}
	return sess, nil
}

func (r *Redis) Delete(ctx context.Context, id string) (bool, error) {
	n, err := r.client.Del(ctx, redisKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("unable to delete session, cause %w", err)
	}
	return n > 0, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
