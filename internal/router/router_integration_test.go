//go:build integration

package router

// End-to-end tests on real PostgreSQL + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"recommendations/internal/cache"
	"recommendations/internal/config"
	"recommendations/internal/dto"
	"recommendations/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func do(t *testing.T, srv *httptest.Server, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	rdb    *redis.Client
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.Run(ctx, "postgres:16-alpine",
		tcPostgres.WithDatabase("recommendations_test"),
		tcPostgres.WithUsername("recommendations"),
		tcPostgres.WithPassword("recommendations"),
		tcPostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, pgC)
	require.NoError(t, err)

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, rdC)
	require.NoError(t, err)

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:             "test",
		DatabaseURL:     pgURL,
		DBMaxOpenConns:  10,
		DBMaxIdleConns:  2,
		RedisURL:        rdURL,
		CacheTTLSeconds: 60,
		MaxPageLimit:    100,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL, infra.PoolConfig{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	gin.SetMode(gin.TestMode)
	r, err := New(cfg, db, rdb)
	require.NoError(t, err)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, rdb: rdb}
}

func create(t *testing.T, env *testEnv, productID, recommendedID int64, typ, status string) dto.RecommendationResponse {
	t.Helper()
	resp := do(t, env.server, http.MethodPost, "/recommendations", map[string]any{
		"product_id":          productID,
		"recommended_id":      recommendedID,
		"recommendation_type": typ,
		"status":              status,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var rec dto.RecommendationResponse
	decodeJSON(t, resp, &rec)
	return rec
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_CrudAndCache(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	rec := create(t, env, 10, 20, "cross-sell", "active")

	resp := do(t, env.server, http.MethodGet, fmt.Sprintf("/recommendations/%d", rec.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	n, err := env.rdb.Exists(ctx, cache.Key(rec.ID)).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "read-one populates the cache")

	resp = do(t, env.server, http.MethodPut, fmt.Sprintf("/recommendations/%d/like", rec.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var liked dto.RecommendationResponse
	decodeJSON(t, resp, &liked)
	assert.Equal(t, 1, liked.Like)

	n, err = env.rdb.Exists(ctx, cache.Key(rec.ID)).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), n, "writes invalidate the cache")

	resp = do(t, env.server, http.MethodGet, fmt.Sprintf("/recommendations/%d", rec.ID), nil)
	var fresh dto.RecommendationResponse
	decodeJSON(t, resp, &fresh)
	assert.Equal(t, 1, fresh.Like)

	resp = do(t, env.server, http.MethodDelete, fmt.Sprintf("/recommendations/%d", rec.ID), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, http.MethodGet, fmt.Sprintf("/recommendations/%d", rec.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestE2E_FiltersAndPagination(t *testing.T) {
	env := setupTestEnv(t)

	for i := int64(1); i <= 12; i++ {
		status := "active"
		if i%3 == 0 {
			status = "draft"
		}
		create(t, env, 100+i%2, i, "up-sell", status)
	}

	var page []dto.RecommendationResponse
	resp := do(t, env.server, http.MethodGet, "/recommendations?product_id=101&status=active&sort_by=recommended_id&order=asc", nil)
	decodeJSON(t, resp, &page)
	require.NotEmpty(t, page)
	for i, r := range page {
		assert.Equal(t, int64(101), r.ProductID)
		assert.Equal(t, "active", r.Status)
		if i > 0 {
			assert.Greater(t, r.RecommendedID, page[i-1].RecommendedID)
		}
	}

	seen := map[int64]bool{}
	for p := 1; p <= 3; p++ {
		resp := do(t, env.server, http.MethodGet, fmt.Sprintf("/recommendations?limit=5&page=%d", p), nil)
		decodeJSON(t, resp, &page)
		for _, r := range page {
			assert.False(t, seen[r.ID], "row %d on two pages", r.ID)
			seen[r.ID] = true
		}
	}
	assert.Len(t, seen, 12)

	resp = do(t, env.server, http.MethodGet, "/recommendations?created_at_min=2999-01-01", nil)
	decodeJSON(t, resp, &page)
	assert.Empty(t, page)
}

func TestE2E_RedisCacheSkipsSetAfterInvalidate(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	c := cache.NewRedis(env.rdb, infra.NewCircuitBreaker(infra.CircuitBreakerConfig{}), time.Minute)

	gen := c.Generation(ctx, 77)
	assert.Equal(t, int64(0), gen)
	c.Invalidate(ctx, 77)
	c.Set(ctx, dto.RecommendationResponse{ID: 77, Status: "active"}, gen)
	_, ok := c.Get(ctx, 77)
	assert.False(t, ok, "stale row must not be cached")

	ttl, err := env.rdb.TTL(ctx, cache.GenerationKey(77)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Hour)

	gen = c.Generation(ctx, 77)
	assert.Equal(t, int64(1), gen)
	c.Set(ctx, dto.RecommendationResponse{ID: 77, Status: "expired"}, gen)
	got, ok := c.Get(ctx, 77)
	require.True(t, ok)
	assert.Equal(t, "expired", got.Status)
}

// Concurrent writers holding the same token: exactly one wins on PostgreSQL's row lock.
func TestE2E_ConcurrentUpdatesConflict(t *testing.T) {
	env := setupTestEnv(t)
	rec := create(t, env, 1, 2, "accessory", "active")
	token := rec.LastUpdated.Format(time.RFC3339Nano)

	const writers = 5
	codes := make([]int, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp := do(t, env.server, http.MethodPatch, fmt.Sprintf("/recommendations/%d", rec.ID), map[string]any{
				"dislike":      i + 1,
				"last_updated": token,
			})
			codes[i] = resp.StatusCode
			resp.Body.Close()
		}(i)
	}
	wg.Wait()

	ok, conflict := 0, 0
	for _, c := range codes {
		switch c {
		case http.StatusOK:
			ok++
		case http.StatusConflict:
			conflict++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, writers-1, conflict)
}
