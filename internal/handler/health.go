package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

type dependencyCheck struct {
	name  string
	check func(ctx context.Context) error
}

// HealthHandler reports liveness and the state of every configured backing service.
// Nil dependencies are not in use and are skipped.
type HealthHandler struct {
	checks []dependencyCheck
}

func NewHealthHandler(dbPool *pgxpool.Pool, redisClient *redis.Client, amqpConn *amqp.Connection) *HealthHandler {
	h := &HealthHandler{}
	if dbPool != nil {
		h.checks = append(h.checks, dependencyCheck{"postgres", dbPool.Ping})
	}
	if redisClient != nil {
		h.checks = append(h.checks, dependencyCheck{"redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}})
	}
	if amqpConn != nil {
		h.checks = append(h.checks, dependencyCheck{"rabbitmq", func(context.Context) error {
			if amqpConn.IsClosed() {
				return errors.New("connection closed")
			}
			return nil
		}})
	}
	return h
}

func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) Readyz(c *gin.Context) {
	ctx := c.Request.Context()

	resp := gin.H{"status": "ok"}
	for _, dep := range h.checks {
		if err := dep.check(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", dep.name: "unavailable"})
			return
		}
		resp[dep.name] = "connected"
	}

	c.JSON(http.StatusOK, resp)
}
