package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb, mr
}

func limitedEngine(t *testing.T, rdb *redis.Client, max int, allow AllowFunc) *gin.Engine {
	t.Helper()
	r := newEngine()
	require.NoError(t, TrustProxies(r, nil, false))
	r.Use(RealIP(), RateLimit(rdb, max, time.Minute, KeyByIP(), allow))
	r.GET("/limited", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func TestRateLimit_CountsAndBlocks(t *testing.T) {
	rdb, mr := newRedis(t)
	r := limitedEngine(t, rdb, 2, nil)

	var codes []int
	var remaining []string
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, fromPeer("/limited", "203.0.113.9", nil))
		codes = append(codes, w.Code)
		remaining = append(remaining, w.Header().Get("X-RateLimit-Remaining"))
		last = w
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
	assert.Equal(t, []string{"1", "0", "0"}, remaining)
	assert.Equal(t, "2", last.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "60", last.Header().Get("Retry-After"))
	assert.Contains(t, last.Body.String(), "rate limit exceeded")

	// the window is set once, on the first hit
	assert.Equal(t, time.Minute, mr.TTL("rl:ip:203.0.113.9"))

	// other clients have their own window
	w := httptest.NewRecorder()
	r.ServeHTTP(w, fromPeer("/limited", "198.51.100.7", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	mr.FastForward(time.Minute)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, fromPeer("/limited", "203.0.113.9", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRateLimit_SpoofedPrivateIPIsStillCounted(t *testing.T) {
	rdb, _ := newRedis(t)
	r := limitedEngine(t, rdb, 1, AllowPrivateIP())

	spoofed := map[string]string{"X-Real-IP": "10.0.0.1", "X-Forwarded-For": "10.0.0.1"}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, fromPeer("/limited", "203.0.113.9", spoofed))
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, fromPeer("/limited", "203.0.113.9", spoofed))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// a peer that really is on the private network bypasses the limit
	for i := 0; i < 3; i++ {
		w = httptest.NewRecorder()
		r.ServeHTTP(w, fromPeer("/limited", "10.0.0.5", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}

func TestRateLimit_SkipsOptions(t *testing.T) {
	rdb, mr := newRedis(t)
	r := newEngine(RateLimit(rdb, 1, time.Minute, KeyByIP(), nil))
	r.OPTIONS("/limited", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/limited", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
	assert.Empty(t, mr.Keys())
}

func TestRateLimit_FailsOpenWhenRedisIsDown(t *testing.T) {
	rdb, mr := newRedis(t)
	r := limitedEngine(t, rdb, 1, nil)
	mr.Close()

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, fromPeer("/limited", "203.0.113.9", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}
