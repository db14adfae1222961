package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/cloudexam/cloudexam-backend/internal/config"
	"github.com/cloudexam/cloudexam-backend/internal/response"
	"github.com/cloudexam/cloudexam-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testAuth() *service.AuthService {
	return service.NewAuthService(&config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour})
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) response.ErrCode {
	t.Helper()
	var body response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v (%s)", err, w.Body.String())
	}
	if body.Error == nil {
		return ""
	}
	return body.Error.Code
}

func TestRequireJWT(t *testing.T) {
	auth := testAuth()
	token, err := auth.IssueToken(42, "learner@example.com")
	if err != nil {
		t.Fatal(err)
	}
	expired, err := service.NewAuthService(&config.Config{JWTSecret: "test-secret", JWTExpiry: -time.Minute}).IssueToken(42, "x")
	if err != nil {
		t.Fatal(err)
	}

	r := gin.New()
	r.GET("/me", RequireJWT(auth), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c)})
	})

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantErr  response.ErrCode
	}{
		{"valid", "Bearer " + token, http.StatusOK, ""},
		{"lowercase scheme", "bearer " + token, http.StatusOK, ""},
		{"missing", "", http.StatusUnauthorized, response.ErrTokenRequired},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, response.ErrTokenRequired},
		{"garbage", "Bearer nope", http.StatusUnauthorized, response.ErrTokenInvalid},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, response.ErrTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantCode)
			}
			if tt.wantErr != "" {
				if got := errorCode(t, w); got != tt.wantErr {
					t.Errorf("error code = %s, want %s", got, tt.wantErr)
				}
				return
			}
			if !strings.Contains(w.Body.String(), `"user_id":42`) {
				t.Errorf("body = %s", w.Body.String())
			}
		})
	}
}

func TestGetUserIDWithoutClaims(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if id := GetUserID(c); id != 0 {
		t.Errorf("GetUserID = %d, want 0", id)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	r := gin.New()
	r.POST("/", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusCreated) })

	hit := func() int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
		return w.Code
	}

	if hit() != http.StatusCreated || hit() != http.StatusCreated {
		t.Fatal("first two requests should pass")
	}
	if code := hit(); code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want 429", code)
	}

	now = now.Add(time.Minute)
	if code := hit(); code != http.StatusCreated {
		t.Errorf("after refill status = %d, want 201", code)
	}

	rl.Stop()
	rl.Stop()
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(1, time.Second)
	defer rl.Stop()

	now := time.Now()
	rl.now = func() time.Time { return now }
	rl.allow("10.0.0.1")

	now = now.Add(10 * time.Second)
	rl.cleanup()
	if len(rl.visitors) != 0 {
		t.Errorf("visitors = %d, want 0 after cleanup", len(rl.visitors))
	}
}

func TestBrotli(t *testing.T) {
	large := strings.Repeat("exam-result ", 500)

	r := gin.New()
	r.Use(Brotli())
	r.GET("/large", func(c *gin.Context) { c.String(http.StatusOK, large) })
	r.GET("/small", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	get := func(path, encoding string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if encoding != "" {
			req.Header.Set("Accept-Encoding", encoding)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := get("/large", "gzip, br;q=0.9")
	if w.Header().Get("Content-Encoding") != "br" {
		t.Fatalf("Content-Encoding = %q, want br", w.Header().Get("Content-Encoding"))
	}
	decoded, err := io.ReadAll(brotli.NewReader(bytes.NewReader(w.Body.Bytes())))
	if err != nil {
		t.Fatalf("decode brotli: %v", err)
	}
	if string(decoded) != large {
		t.Error("decoded body mismatch")
	}

	w = get("/small", "br")
	if w.Header().Get("Content-Encoding") != "" || w.Body.String() != "ok" {
		t.Errorf("small body should pass through, got %q (%q)", w.Body.String(), w.Header().Get("Content-Encoding"))
	}

	w = get("/large", "")
	if w.Header().Get("Content-Encoding") != "" || w.Body.String() != large {
		t.Error("body should not be compressed without Accept-Encoding")
	}
}

func TestNoStore(t *testing.T) {
	r := gin.New()
	r.GET("/", NoStore(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := w.Header().Get("Cache-Control"); got != "private, no-store" {
		t.Errorf("Cache-Control = %q", got)
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	r := gin.New()
	r.Use(response.RequestIDMiddleware(), RequestLogger(log))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set(response.HeaderRequestID, "abc")
	r.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log: %v (%s)", err, buf.String())
	}
	if entry["level"] != "warn" || entry["status"] != float64(404) || entry["request_id"] != "abc" || entry["path"] != "/missing" {
		t.Errorf("unexpected log entry: %v", entry)
	}
}
