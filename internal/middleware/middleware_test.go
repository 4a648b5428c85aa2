package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/timetable-backend/internal/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestBrotliCompressesLargeBodies(t *testing.T) {
	large := strings.Repeat("Monday 08:30-10:00 Zaoui ", 200)

	r := gin.New()
	r.Use(Brotli())
	r.GET("/large", func(c *gin.Context) { c.String(http.StatusOK, large) })
	r.GET("/small", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	req := httptest.NewRequest(http.MethodGet, "/large", nil)
	req.Header.Set("Accept-Encoding", "gzip, br")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Header().Get("Content-Encoding") != "br" {
		t.Fatalf("Content-Encoding = %q", w.Header().Get("Content-Encoding"))
	}
	body, err := io.ReadAll(brotli.NewReader(w.Body))
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != large {
		t.Errorf("decompressed %d bytes, want %d", len(body), len(large))
	}

	req = httptest.NewRequest(http.MethodGet, "/small", nil)
	req.Header.Set("Accept-Encoding", "br")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("Content-Encoding") != "" || w.Body.String() != "ok" {
		t.Errorf("small body: encoding=%q body=%q", w.Header().Get("Content-Encoding"), w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/large", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("Content-Encoding") != "" || w.Body.String() != large {
		t.Error("client without br support received a compressed body")
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()

	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	r := gin.New()
	r.Use(response.RequestIDMiddleware(), rl.Middleware())
	r.POST("/login", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	hit := func() int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.7:5000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 2; i++ {
		if code := hit(); code != http.StatusNoContent {
			t.Fatalf("request %d: status %d", i, code)
		}
	}
	if code := hit(); code != http.StatusTooManyRequests {
		t.Fatalf("third request: status %d, want 429", code)
	}

	now = now.Add(time.Minute)
	if code := hit(); code != http.StatusNoContent {
		t.Errorf("after refill: status %d", code)
	}

	now = now.Add(10 * time.Minute)
	rl.cleanup()
	rl.mu.Lock()
	left := len(rl.visitors)
	rl.mu.Unlock()
	if left != 0 {
		t.Errorf("stale visitors kept: %d", left)
	}
}
