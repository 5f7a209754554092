// Package cache holds the Redis read-through cache for single recommendations.
// Every method is best effort: failures are logged and reported as a miss.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"recommendations/internal/dto"
	"recommendations/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DefaultTTL = 5 * time.Minute

// generationTTL keeps invalidation counters well past any single read.
const generationTTL = 24 * time.Hour

var errInvalidated = errors.New("cache: invalidated during read")

// Key returns the Redis key a recommendation is cached under.
func Key(id int64) string {
	return "recommendation:" + strconv.FormatInt(id, 10)
}

// GenerationKey returns the key of the counter Invalidate advances for id.
func GenerationKey(id int64) string {
	return Key(id) + ":gen"
}

type RedisCache struct {
	rdb *redis.Client
	cb  *infra.CircuitBreaker
	ttl time.Duration
}

// NewRedis wraps rdb. Calls go through cb so a dead Redis is skipped quickly.
func NewRedis(rdb *redis.Client, cb *infra.CircuitBreaker, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{rdb: rdb, cb: cb, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, id int64) (dto.RecommendationResponse, bool) {
	var raw []byte
	err := c.cb.Execute(func() error {
		b, err := c.rdb.Get(ctx, Key(id)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		raw = b
		return err
	})
	if err != nil {
		log.Warn().Err(err).Int64("id", id).Msg("cache get failed")
		return dto.RecommendationResponse{}, false
	}
	if raw == nil {
		return dto.RecommendationResponse{}, false
	}

	var resp dto.RecommendationResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		log.Warn().Err(err).Int64("id", id).Msg("cache entry undecodable")
		return dto.RecommendationResponse{}, false
	}
	return resp, true
}

// Generation returns the invalidation counter of id, 0 if it was never
// invalidated, or -1 when Redis cannot be read.
func (c *RedisCache) Generation(ctx context.Context, id int64) int64 {
	var gen int64
	err := c.cb.Execute(func() error {
		n, err := c.rdb.Get(ctx, GenerationKey(id)).Int64()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		gen = n
		return err
	})
	if err != nil {
		log.Warn().Err(err).Int64("id", id).Msg("cache generation failed")
		return -1
	}
	return gen
}

// Set stores rec only while the generation counter still equals gen.
// The counter is WATCHed, so an Invalidate racing the write aborts it.
func (c *RedisCache) Set(ctx context.Context, rec dto.RecommendationResponse, gen int64) {
	if gen < 0 {
		return
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return
	}
	genKey := GenerationKey(rec.ID)
	err = c.cb.Execute(func() error {
		err := c.rdb.Watch(ctx, func(tx *redis.Tx) error {
			cur, err := tx.Get(ctx, genKey).Int64()
			if err != nil && !errors.Is(err, redis.Nil) {
				return err
			}
			if cur != gen {
				return errInvalidated
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, Key(rec.ID), b, c.ttl)
				return nil
			})
			return err
		}, genKey)
		if errors.Is(err, errInvalidated) || errors.Is(err, redis.TxFailedErr) {
			return nil
		}
		return err
	})
	if err != nil {
		log.Warn().Err(err).Int64("id", rec.ID).Msg("cache set failed")
	}
}

// Invalidate drops the entry and advances the generation counter in one
// transaction.
func (c *RedisCache) Invalidate(ctx context.Context, id int64) {
	err := c.cb.Execute(func() error {
		_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Incr(ctx, GenerationKey(id))
			pipe.Expire(ctx, GenerationKey(id), generationTTL)
			pipe.Del(ctx, Key(id))
			return nil
		})
		return err
	})
	if err != nil {
		log.Warn().Err(err).Int64("id", id).Msg("cache invalidate failed")
	}
}
