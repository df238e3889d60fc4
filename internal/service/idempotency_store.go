package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type IdempotencyState string

const (
	// IdempotencyStateNew means this key has not been seen; the request
	// should proceed and its response be cached.
	IdempotencyStateNew IdempotencyState = "new"
	// IdempotencyStateInProgress means another request with this key is
	// still running.
	IdempotencyStateInProgress IdempotencyState = "in_progress"
	// IdempotencyStateReplay means a completed response is cached.
	IdempotencyStateReplay IdempotencyState = "replay"
	// IdempotencyStateConflict means the key was reused with a different
	// request payload.
	IdempotencyStateConflict IdempotencyState = "conflict"
)

type CachedHTTPResponse struct {
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type IdempotencyBeginResult struct {
	State  IdempotencyState
	Cached *CachedHTTPResponse
}

type IdempotencyStore interface {
	Begin(ctx context.Context, scope, key, fingerprint string, ttl time.Duration) (IdempotencyBeginResult, error)
	Complete(ctx context.Context, scope, key, fingerprint string, response CachedHTTPResponse, ttl time.Duration) error
}

type idempotencyRecord struct {
	Fingerprint string              `json:"fingerprint"`
	Done        bool                `json:"done"`
	Response    *CachedHTTPResponse `json:"response,omitempty"`
}

// RedisIdempotencyStore keeps idempotency records in Redis so replay
// detection works across instances. Records expire with the given TTL.
type RedisIdempotencyStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisIdempotencyStore(client redis.UniversalClient, prefix string) *RedisIdempotencyStore {
	if prefix == "" {
		prefix = "idem"
	}
	return &RedisIdempotencyStore{client: client, prefix: prefix}
}

func (s *RedisIdempotencyStore) storeKey(scope, key string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, scope, key)
}

func (s *RedisIdempotencyStore) Begin(ctx context.Context, scope, key, fingerprint string, ttl time.Duration) (IdempotencyBeginResult, error) {
	if s.client == nil {
		return IdempotencyBeginResult{}, fmt.Errorf("redis client is nil")
	}
	record, err := json.Marshal(idempotencyRecord{Fingerprint: fingerprint})
	if err != nil {
		return IdempotencyBeginResult{}, err
	}

	storeKey := s.storeKey(scope, key)
	created, err := s.client.SetNX(ctx, storeKey, record, ttl).Result()
	if err != nil {
		return IdempotencyBeginResult{}, fmt.Errorf("idempotency begin: %w", err)
	}
	if created {
		return IdempotencyBeginResult{State: IdempotencyStateNew}, nil
	}

	raw, err := s.client.Get(ctx, storeKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			// Expired between SetNX and Get; treat as fresh.
			return IdempotencyBeginResult{State: IdempotencyStateNew}, nil
		}
		return IdempotencyBeginResult{}, fmt.Errorf("idempotency lookup: %w", err)
	}
	var existing idempotencyRecord
	if err := json.Unmarshal(raw, &existing); err != nil {
		return IdempotencyBeginResult{}, fmt.Errorf("idempotency record corrupt: %w", err)
	}
	if existing.Fingerprint != fingerprint {
		return IdempotencyBeginResult{State: IdempotencyStateConflict}, nil
	}
	if !existing.Done {
		return IdempotencyBeginResult{State: IdempotencyStateInProgress}, nil
	}
	return IdempotencyBeginResult{State: IdempotencyStateReplay, Cached: existing.Response}, nil
}

func (s *RedisIdempotencyStore) Complete(ctx context.Context, scope, key, fingerprint string, response CachedHTTPResponse, ttl time.Duration) error {
	if s.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	record, err := json.Marshal(idempotencyRecord{
		Fingerprint: fingerprint,
		Done:        true,
		Response:    &response,
	})
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.storeKey(scope, key), record, ttl).Err(); err != nil {
		return fmt.Errorf("idempotency complete: %w", err)
	}
	return nil
}
