package cache

import (
	"context"
	"sync"
	"time"

	"recommendations/internal/dto"

	gocache "github.com/patrickmn/go-cache"
)

// LocalCache keeps recommendations in process memory. It is used when no
// Redis is configured; entries are only invalidated by writes seen by this
// process, so other replicas may serve data up to one TTL old.
type LocalCache struct {
	c *gocache.Cache

	// gens maps an id to the sequence number of its last invalidation.
	// Numbers come from seq and never repeat.
	mu   sync.Mutex
	gens *gocache.Cache
	seq  int64
}

func NewLocal(ttl time.Duration) *LocalCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &LocalCache{
		c:    gocache.New(ttl, 2*ttl),
		gens: gocache.New(generationTTL, time.Hour),
	}
}

func (l *LocalCache) Get(_ context.Context, id int64) (dto.RecommendationResponse, bool) {
	v, ok := l.c.Get(Key(id))
	if !ok {
		return dto.RecommendationResponse{}, false
	}
	rec, ok := v.(dto.RecommendationResponse)
	return rec, ok
}

func (l *LocalCache) Generation(_ context.Context, id int64) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.generationLocked(id)
}

func (l *LocalCache) generationLocked(id int64) int64 {
	if v, ok := l.gens.Get(Key(id)); ok {
		return v.(int64)
	}
	return 0
}

// Set stores rec unless id was invalidated after gen was taken.
func (l *LocalCache) Set(_ context.Context, rec dto.RecommendationResponse, gen int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen < 0 || l.generationLocked(rec.ID) != gen {
		return
	}
	l.c.SetDefault(Key(rec.ID), rec)
}

func (l *LocalCache) Invalidate(_ context.Context, id int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	l.gens.SetDefault(Key(id), l.seq)
	l.c.Delete(Key(id))
}
