package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"admin-gateway/internal/httpapi"
	"admin-gateway/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// readiness holds the optional stores checked by /readyz. Nil entries are skipped.
type readiness struct {
	db  *sql.DB
	rdb *redis.Client
}

func (rd readiness) check(ctx context.Context) map[string]string {
	out := map[string]string{}
	if rd.db != nil {
		out["postgres"] = statusOf(utils.HealthCheck(ctx, rd.db, time.Second))
	}
	if rd.rdb != nil {
		out["redis"] = statusOf(rd.rdb.Ping(ctx).Err())
	}
	return out
}

func statusOf(err error) string {
	if err != nil {
		return "down"
	}
	return "ok"
}

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, h httpapi.Handlers, rd readiness) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		deps := rd.check(ctx)
		status := http.StatusOK
		for _, s := range deps {
			if s != "ok" {
				status = http.StatusServiceUnavailable
			}
		}
		c.JSON(status, gin.H{"deps": deps})
	})

	h.Register(r)
}
