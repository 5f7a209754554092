package handler

import (
	"context"
	"net/http"
	"time"

	"recommendations/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Checks DB and Redis connectivity; never exposes credentials or internals.
// rdb and cb are nil unless the cache is Redis; cacheKind is reported
// as-is for the in-memory and disabled caches.
func Health(db *gorm.DB, rdb *redis.Client, cb *infra.CircuitBreaker, cacheKind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		cacheStatus := cacheKind
		if rdb != nil {
			cacheStatus = "connected"
			if rdb.Ping(ctx).Err() != nil {
				cacheStatus = "error"
			}
		}

		status := http.StatusOK
		if dbStatus != "connected" || cacheStatus == "error" {
			status = http.StatusServiceUnavailable
		}

		body := gin.H{
			"ok":    status == http.StatusOK,
			"db":    dbStatus,
			"cache": cacheStatus,
		}
		if cb != nil {
			body["circuit"] = cb.State().String()
		}
		c.JSON(status, body)
	}
}
