package redis

import (
	"context"
	"time"

	"github.com/kailas-cloud/topicd/internal/db"
)

// IncrByWithTTL pipelines INCRBY and EXPIRE NX in one round trip.
// EXPIRE ... NX needs Valkey 7.2 or Redis 7.0.
func (s *Store) IncrByWithTTL(ctx context.Context, key string, val int64, ttl time.Duration) (int64, error) {
	b := s.client.B()
	secs := max(int64(ttl/time.Second), 1)

	res := s.client.DoMulti(ctx,
		b.Incrby().Key(key).Increment(val).Build(),
		b.Expire().Key(key).Seconds(secs).Nx().Build(),
	)

	total, err := res[0].AsInt64()
	if err != nil {
		return 0, &db.Error{Op: db.OpIncrBy, Key: key, Err: err}
	}
	if err := res[1].Error(); err != nil {
		return total, &db.Error{Op: db.OpExpire, Key: key, Err: err}
	}
	return total, nil
}
