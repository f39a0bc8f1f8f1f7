package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	generatePath = "/salary-generations/generate"
	cacheKey     = "idemp:" + generatePath + ":company-1:user-1:key-1"
	lockKey      = cacheKey + ":lock"
)

func newIdempotentRouter(rdb *redis.Client, calls *int) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("company_id", "company-1")
		c.Set("user_id", "user-1")
		c.Next()
	})
	r.POST(generatePath, middleware.Idempotency(rdb), func(c *gin.Context) {
		*calls++
		payload := gin.H{"id": "gen-1"}
		middleware.StoreIdempotentResponse(c, rdb, payload)
		c.JSON(http.StatusCreated, payload)
	})
	return r
}

func postWithKey(key string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, generatePath, nil)
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	return req
}

func TestIdempotency(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("first call runs handler and stores response", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		body, err := json.Marshal(gin.H{"id": "gen-1"})
		require.NoError(t, err)

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
		mock.ExpectSet(cacheKey, body, 24*time.Hour).SetVal("OK")
		mock.ExpectDel(lockKey).SetVal(1)

		calls := 0
		w := httptest.NewRecorder()
		newIdempotentRouter(rdb, &calls).ServeHTTP(w, postWithKey("key-1"))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("retry replays stored response", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).SetVal(`{"id":"gen-1"}`)

		calls := 0
		w := httptest.NewRecorder()
		newIdempotentRouter(rdb, &calls).ServeHTTP(w, postWithKey("key-1"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "true", w.Header().Get("Idempotent-Replay"))
		assert.Contains(t, w.Body.String(), `"gen-1"`)
		assert.Zero(t, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("concurrent retry is rejected", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(false)

		calls := 0
		w := httptest.NewRecorder()
		newIdempotentRouter(rdb, &calls).ServeHTTP(w, postWithKey("key-1"))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Zero(t, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no key passes through", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()

		calls := 0
		w := httptest.NewRecorder()
		newIdempotentRouter(rdb, &calls).ServeHTTP(w, postWithKey(""))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
