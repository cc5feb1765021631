package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

// RedisStore keeps sessions in Redis so multiple instances share them.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(ctx context.Context, addr string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{
			Addr:         addr,
			MinIdleConns: 1,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "redis ping")
	}

	return &RedisStore{client: client, ttl: ttl}, nil
}

func sessionKey(id string) string {
	return "session:" + id
}

func (r *RedisStore) Save(ctx context.Context, s Session) error {
	buf, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return errors.Wrap(r.client.Set(ctx, sessionKey(s.ID), buf, r.ttl).Err(), "redis set")
}

func (r *RedisStore) Get(ctx context.Context, id string) (Session, error) {
	buf, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, errors.Wrap(err, "redis get")
	}

	var s Session
	if err := json.Unmarshal(buf, &s); err != nil {
		return Session{}, errors.Wrap(err, "decode session")
	}
	return s, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return errors.Wrap(r.client.Del(ctx, sessionKey(id)).Err(), "redis del")
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
