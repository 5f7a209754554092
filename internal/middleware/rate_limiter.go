package middleware

import (
	"net/http"
	"sync"
	"time"

	"recommendations/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ── API rate limiter ──────────────────────────────────────────────────────────

// rateEntry tracks request counts per IP within a fixed window.
type rateEntry struct {
	count     int
	windowEnd time.Time
}

// purgeInterval bounds how often expired entries are swept from the map.
const purgeInterval = 5 * time.Minute

// RateLimiter counts requests per client IP. Entries whose window has
// expired are swept lazily on the request path, so no goroutine is needed.
type RateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu        sync.Mutex
	entries   map[string]*rateEntry
	nextPurge time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		entries: make(map[string]*rateEntry),
	}
}

// allow records one request from ip and reports whether it is within the limit,
// along with the end of the current window.
func (rl *RateLimiter) allow(ip string) (bool, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.After(rl.nextPurge) {
		rl.purgeLocked(now)
		rl.nextPurge = now.Add(purgeInterval)
	}

	entry, ok := rl.entries[ip]
	if !ok {
		entry = &rateEntry{}
		rl.entries[ip] = entry
	}
	if now.After(entry.windowEnd) {
		entry.count = 0
		entry.windowEnd = now.Add(rl.window)
	}
	entry.count++
	return entry.count <= rl.limit, entry.windowEnd
}

func (rl *RateLimiter) purgeLocked(now time.Time) {
	purged := 0
	for ip, entry := range rl.entries {
		if now.After(entry.windowEnd) {
			delete(rl.entries, ip)
			purged++
		}
	}
	if purged > 0 {
		log.Debug().
			Int("entries_purged", purged).
			Int("entries_remaining", len(rl.entries)).
			Msg("rate limiter map purged")
	}
}

// Handler returns the gin middleware. Rejected requests get 429 with Retry-After.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, windowEnd := rl.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", windowEnd.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				apierror.New(http.StatusTooManyRequests, "Too many requests, try again shortly"))
			return
		}
		c.Next()
	}
}
