package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func limitedHandler(t *testing.T, rl *RateLimiter, maxPerMinute int) http.Handler {
	t.Helper()
	return rl.Limit(maxPerMinute)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func doRequest(handler http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_WithinBudget(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	defer rl.Stop()
	handler := limitedHandler(t, rl, 10)

	for i := 0; i < 10; i++ {
		rec := doRequest(handler, "1.2.3.4:1234")
		assert.Equal(t, http.StatusOK, rec.Code, "request %d", i)
	}
}

func TestRateLimiter_OverBudget(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	defer rl.Stop()
	handler := limitedHandler(t, rl, 5)

	for i := 0; i < 5; i++ {
		doRequest(handler, "1.2.3.4:1234")
	}

	rec := doRequest(handler, "1.2.3.4:1234")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRateLimiter_KeyedByIPNotPort(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	defer rl.Stop()
	handler := limitedHandler(t, rl, 2)

	// Same client reconnecting from a new ephemeral port shares the bucket.
	doRequest(handler, "1.1.1.1:1000")
	doRequest(handler, "1.1.1.1:2000")
	rec := doRequest(handler, "1.1.1.1:3000")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// A different client is unaffected.
	rec = doRequest(handler, "2.2.2.2:1000")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_Refills(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	defer rl.Stop()
	// 60 per minute refills one token per second.
	handler := limitedHandler(t, rl, 60)

	for i := 0; i < 60; i++ {
		doRequest(handler, "3.3.3.3:1234")
	}
	assert.Equal(t, http.StatusTooManyRequests, doRequest(handler, "3.3.3.3:1234").Code)

	time.Sleep(1100 * time.Millisecond)

	assert.Equal(t, http.StatusOK, doRequest(handler, "3.3.3.3:1234").Code)
}
