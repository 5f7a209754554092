package router

import (
	"time"

	_ "recommendations/docs"
	"recommendations/internal/cache"
	"recommendations/internal/config"
	"recommendations/internal/handler"
	"recommendations/internal/infra"
	"recommendations/internal/metrics"
	"recommendations/internal/middleware"
	"recommendations/internal/repository"
	"recommendations/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// rdb may be nil, in which case read-one is cached in process memory
// (or not at all with CacheDisabled).
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		var err error
		if m, err = metrics.New(); err != nil {
			return nil, err
		}
	}

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	if m != nil {
		r.Use(middleware.Metrics(m))
	}
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	if cfg.RateLimitPerMinute > 0 {
		r.Use(middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute).Handler())
	}

	// ── Infrastructure ───────────────────────────────────────────────────────
	var (
		recCache  service.RecommendationCache
		cacheCB   *infra.CircuitBreaker
		cacheKind = "disabled"
	)
	switch {
	case cfg.CacheDisabled:
		rdb = nil
	case rdb != nil:
		cacheCB = infra.NewCircuitBreaker(infra.CircuitBreakerConfig{})
		recCache = cache.NewRedis(rdb, cacheCB, cfg.CacheTTL())
		cacheKind = "redis"
	default:
		recCache = cache.NewLocal(cfg.CacheTTL())
		cacheKind = "memory"
	}
	if recCache != nil && m != nil {
		recCache = cache.WithMetrics(recCache, m)
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	recommendationRepo := repository.NewRecommendationRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	recommendationSvc := service.NewRecommendationService(recommendationRepo, recCache)

	// ── Handlers ─────────────────────────────────────────────────────────────
	recommendationsH := handler.NewRecommendationsHandler(recommendationSvc, cfg.MaxPageLimit)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/", handler.Index)
	r.GET("/health", handler.Health(db, rdb, cacheCB, cacheKind))
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	recs := r.Group("/recommendations")
	{
		recs.GET("", recommendationsH.List)
		recs.POST("", recommendationsH.Create)
		recs.GET("/:id", recommendationsH.Get)
		recs.PUT("/:id", recommendationsH.Update)
		recs.PATCH("/:id", recommendationsH.Patch)
		recs.DELETE("/:id", recommendationsH.Delete)
		recs.PUT("/:id/like", recommendationsH.Like)
	}

	// Swagger UI, only outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r, nil
}
