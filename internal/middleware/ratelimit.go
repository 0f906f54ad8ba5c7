package middleware

import (
	"fmt"
	"net/http"
	"time"

	"dailybrush/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// CheckRateLimit reports whether id may perform another request against
// resource within the fixed window. Fail-open: redis being down never blocks
// traffic.
func CheckRateLimit(c *gin.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if rdb == nil {
		return true, nil
	}

	ctx := c.Request.Context()
	key := fmt.Sprintf("rl:%s:%s", resource, id)

	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return true, err
	}
	if cnt == 1 {
		rdb.Expire(ctx, key, window)
	}
	return cnt <= int64(limit), nil
}

// RateLimit enforces `limit` requests per `window` for the named resource,
// keyed by authenticated actor id when available, otherwise by client IP.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var id string
		if actor := response.GetActor(c); actor.Authenticated {
			id = "user:" + actor.ID.String()
		} else {
			id = "ip:" + c.ClientIP()
		}

		allowed, err := CheckRateLimit(c, rdb, resource, id, limit, window)
		if err != nil {
			c.Next()
			return
		}

		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			c.Abort()
			return
		}
		c.Next()
	}
}
