package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/NivedanR/capstone-erp/internal/infra"
	"github.com/NivedanR/capstone-erp/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports DB and Redis connectivity, async queue depths, and the
// state of the SMTP circuit breaker. Never exposes credentials or internals.
func Health(db *gorm.DB, rdb *redis.Client, smtpCB *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		queues := gin.H{}
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		} else {
			for _, q := range []string{worker.QueueReceipt, worker.QueueEmail} {
				depth, _ := rdb.LLen(ctx, q).Result()
				dlq, _ := worker.DLQLength(ctx, rdb, q)
				queues[q] = gin.H{"depth": depth, "dlq": dlq}
			}
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":           status == http.StatusOK,
			"db":           dbStatus,
			"redis":        redisStatus,
			"queues":       queues,
			"smtp_breaker": smtpCB.State().String(),
		})
	}
}

// RequeueDLQ moves entries from a queue's dead letter list back onto the
// queue itself. Admin-only; used after the underlying failure is resolved.
func RequeueDLQ(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		queue := c.Param("queue")
		if queue != worker.QueueReceipt && queue != worker.QueueEmail {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown queue"})
			return
		}
		count, err := strconv.Atoi(c.DefaultQuery("count", "10"))
		if err != nil || count < 1 || count > 1000 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "count must be between 1 and 1000"})
			return
		}
		moved, err := worker.RequeueFromDLQ(c.Request.Context(), rdb, queue, count)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "requeue failed", "moved": moved})
			return
		}
		c.JSON(http.StatusOK, gin.H{"queue": queue, "moved": moved})
	}
}
