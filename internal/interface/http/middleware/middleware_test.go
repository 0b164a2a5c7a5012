package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	r := gin.New()
	r.Use(Recovery(zap.New(core)), RequestID())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := serve(r, "/panic")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 50000, body.Code)
	assert.NotContains(t, body.Message, "boom", "panic内容不能返回给客户端")

	require.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := gin.New()
	r.Use(RequestID(), Logger(zap.New(core)))
	r.GET("/books/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, "/books/7")
	require.Equal(t, http.StatusOK, w.Code)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/books/7", fields["path"])
	assert.Equal(t, "/books/:id", fields["route"])
	assert.EqualValues(t, 200, fields["status"])
	assert.Equal(t, w.Header().Get(RequestIDHeader), fields["request_id"])
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{RPS: 1, Burst: 2, TTL: time.Minute})
	defer rl.Stop()

	t.Run("按IP独立计数", func(t *testing.T) {
		assert.True(t, rl.allow("10.0.0.1"))
		assert.True(t, rl.allow("10.0.0.1"))
		assert.False(t, rl.allow("10.0.0.1"), "超过burst后拒绝")
		assert.True(t, rl.allow("10.0.0.2"), "其他IP不受影响")
	})

	t.Run("清理空闲IP", func(t *testing.T) {
		rl.evict(time.Now().Add(2 * time.Minute))
		rl.mu.Lock()
		defer rl.mu.Unlock()
		assert.Empty(t, rl.visitors)
	})

	t.Run("Stop可重复调用", func(t *testing.T) {
		rl.Stop()
		rl.Stop()
	})
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{RPS: 0.001, Burst: 1})
	defer rl.Stop()

	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, "/").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, "/").Code)
}
