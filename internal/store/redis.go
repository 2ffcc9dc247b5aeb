package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"timetracker/internal/timelog"
)

// RedisKey is the list holding the log, one CSV-encoded entry per element.
const RedisKey = "tt:entries"

// RedisStore keeps the log in a Redis list so several machines can share it.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("%w: redis url: %v", timelog.ErrUnsupportedFormat, err)
	}
	return &RedisStore{client: redis.NewClient(opts), key: RedisKey}, nil
}

func (s *RedisStore) Init(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return ioErr("connect to redis", err)
	}
	return nil
}

func (s *RedisStore) Append(ctx context.Context, e timelog.Entry) error {
	line, err := encodeLine(e)
	if err != nil {
		return ioErr("encode entry", err)
	}
	if err := s.client.RPush(ctx, s.key, line).Err(); err != nil {
		return ioErr("append entry", err)
	}
	return nil
}

func (s *RedisStore) Entries(ctx context.Context) ([]timelog.Entry, error) {
	lines, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, ioErr("read entries", err)
	}

	entries := make([]timelog.Entry, 0, len(lines))
	for i, line := range lines {
		e, err := decodeLine(line)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", s.key, i, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return ioErr("delete entries", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
