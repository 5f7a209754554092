package cache

import (
	"context"

	"recommendations/internal/dto"
	"recommendations/internal/service"
)

// LookupRecorder receives one call per Get.
type LookupRecorder interface {
	CacheLookup(hit bool)
}

// Instrumented reports hits and misses of the wrapped cache.
type Instrumented struct {
	next service.RecommendationCache
	rec  LookupRecorder
}

func WithMetrics(next service.RecommendationCache, rec LookupRecorder) *Instrumented {
	return &Instrumented{next: next, rec: rec}
}

func (i *Instrumented) Get(ctx context.Context, id int64) (dto.RecommendationResponse, bool) {
	v, ok := i.next.Get(ctx, id)
	i.rec.CacheLookup(ok)
	return v, ok
}

func (i *Instrumented) Generation(ctx context.Context, id int64) int64 {
	return i.next.Generation(ctx, id)
}

func (i *Instrumented) Set(ctx context.Context, rec dto.RecommendationResponse, gen int64) {
	i.next.Set(ctx, rec, gen)
}

func (i *Instrumented) Invalidate(ctx context.Context, id int64) {
	i.next.Invalidate(ctx, id)
}
