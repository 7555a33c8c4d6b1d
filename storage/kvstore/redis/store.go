package rediskv

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/elimuhub/elimu/core"
)

const scanBatchSize = 100

// Store is the Redis-backed KV store. Keys map one-to-one onto Redis keys and
// prefix scan is SCAN MATCH prefix* followed by MGET.
type Store struct {
	client *redis.Client
}

var _ core.KV = (*Store)(nil)

func Open(ctx context.Context, url string) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "parsing redis URL")
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "pinging redis")
	}
	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, core.ErrKeyNotFound
		}
		return nil, errors.Wrap(err, "redis GET")
	}
	return val, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return errors.Wrap(s.client.Set(ctx, key, value, 0).Err(), "redis SET")
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return errors.Wrap(s.client.Del(ctx, key).Err(), "redis DEL")
}

func (s *Store) ScanPrefix(ctx context.Context, prefix string) ([][]byte, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, prefix+"*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrap(err, "redis SCAN")
	}
	if len(keys) == 0 {
		return nil, nil
	}

	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Wrap(err, "redis MGET")
	}
	values := make([][]byte, 0, len(vals))
	for _, val := range vals {
		if str, ok := val.(string); ok { // nil for keys deleted mid-scan
			values = append(values, []byte(str))
		}
	}
	return values, nil
}
