package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecoverPanic(t *testing.T) {
	app := newTestApplication(t)

	h := app.recoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "close", rec.Header().Get("Connection"))
	assert.Contains(t, rec.Body.String(), "the server encountered a problem")
}

func TestRateLimit(t *testing.T) {
	app := newTestApplication(t)
	app.config.limiter.enabled = true
	app.config.limiter.rps = 1
	app.config.limiter.burst = 2

	h := app.rateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	send := func(remote string) int {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, send("10.0.0.1:1000"))
	assert.Equal(t, http.StatusNoContent, send("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:1002"))
	assert.Equal(t, http.StatusNoContent, send("10.0.0.2:1000"))
	assert.Equal(t, http.StatusInternalServerError, send("no-port"))
}

func TestRateLimitDisabled(t *testing.T) {
	app := newTestApplication(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	h := app.rateLimit(next)

	for i := 0; i < 20; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
