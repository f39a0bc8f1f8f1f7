package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	IdempotencyCacheKey = "idempotency_cache_key"
	IdempotencyLockKey  = "idempotency_lock_key"

	idempotencyLockTTL  = 30 * time.Second
	idempotencyCacheTTL = 24 * time.Hour
)

// Idempotency replays the stored response of a POST carrying an
// Idempotency-Key header, and rejects a concurrent retry while the first
// call is still running. Handlers persist their result with
// StoreIdempotentResponse.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if rdb == nil || idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		userID := c.GetString("user_id")
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s:%s", c.FullPath(), c.GetString("company_id"), userID, idempKey)
		lockKey := cacheKey + ":lock"
		ctx := c.Request.Context()

		if val, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
			var cached any
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				c.Header("Idempotent-Replay", "true")
				response.Success(c, http.StatusOK, cached, nil)
				c.Abort()
				return
			}
		}

		isNew, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			zap.L().Named("middleware.idempotency").Warn("idempotency lock unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !isNew {
			response.Error(c, http.StatusConflict, "PROCESSING", "The same request is still being processed", nil)
			c.Abort()
			return
		}

		c.Set(IdempotencyCacheKey, cacheKey)
		c.Set(IdempotencyLockKey, lockKey)

		c.Next()

		rdb.Del(ctx, lockKey)
	}
}

// StoreIdempotentResponse caches payload under the request's idempotency key
// if the request carried one.
func StoreIdempotentResponse(c *gin.Context, rdb *redis.Client, payload any) {
	if rdb == nil {
		return
	}
	cacheKey := c.GetString(IdempotencyCacheKey)
	if cacheKey == "" {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_ = rdb.Set(c.Request.Context(), cacheKey, body, idempotencyCacheTTL).Err()
}
