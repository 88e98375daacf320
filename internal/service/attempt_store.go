package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/techincepto/portal-backend/internal/config"
	"github.com/techincepto/portal-backend/internal/model"
)

// MemoryAttemptStore keeps counters in process memory. Each server instance
// enforces its own limit.
type MemoryAttemptStore struct {
	mu      sync.Mutex
	entries map[string]model.LoginAttempt
}

// NewMemoryAttemptStore creates an empty in-memory store.
func NewMemoryAttemptStore() *MemoryAttemptStore {
	return &MemoryAttemptStore{entries: make(map[string]model.LoginAttempt)}
}

func (s *MemoryAttemptStore) Get(_ context.Context, key string) (*model.LoginAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (s *MemoryAttemptStore) Increment(_ context.Context, key string, at time.Time, _ time.Duration) (*model.LoginAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.entries[key]
	a.Count++
	a.LastAttemptAt = at
	s.entries[key] = a
	return &a, nil
}

func (s *MemoryAttemptStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Len returns the number of stored counters.
func (s *MemoryAttemptStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// RedisAttemptStore shares counters between instances through Redis hashes.
type RedisAttemptStore struct {
	rdb *redis.Client
}

// NewRedisAttemptStore creates a Redis-backed store.
func NewRedisAttemptStore(rdb *redis.Client) *RedisAttemptStore {
	return &RedisAttemptStore{rdb: rdb}
}

const (
	attemptFieldCount = "count"
	attemptFieldLast  = "last"
)

func (s *RedisAttemptStore) Get(ctx context.Context, key string) (*model.LoginAttempt, error) {
	vals, err := s.rdb.HGetAll(ctx, config.CacheKey.LoginAttemptKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	if len(vals) == 0 {
		return nil, nil
	}
	return parseAttempt(vals), nil
}

func (s *RedisAttemptStore) Increment(ctx context.Context, key string, at time.Time, ttl time.Duration) (*model.LoginAttempt, error) {
	k := config.CacheKey.LoginAttemptKey(key)

	var incr *redis.IntCmd
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.HIncrBy(ctx, k, attemptFieldCount, 1)
		pipe.HSet(ctx, k, attemptFieldLast, at.UnixMilli())
		pipe.Expire(ctx, k, ttl)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &model.LoginAttempt{Count: int(incr.Val()), LastAttemptAt: at}, nil
}

func (s *RedisAttemptStore) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, config.CacheKey.LoginAttemptKey(key)).Err()
}

func parseAttempt(vals map[string]string) *model.LoginAttempt {
	count, _ := strconv.Atoi(vals[attemptFieldCount])
	ms, _ := strconv.ParseInt(vals[attemptFieldLast], 10, 64)
	return &model.LoginAttempt{Count: count, LastAttemptAt: time.UnixMilli(ms)}
}
