package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"course-review/config"
	"course-review/internal/model"
	"course-review/pkg/jwt"
	"course-review/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ── Mock 依赖 ──

type fakeBlacklist struct {
	revoked map[string]bool
	err     error
}

func (f *fakeBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	return f.revoked[jti], f.err
}

type fakeLimiter struct {
	counts map[string]int
	err    error
}

func (f *fakeLimiter) CheckRateLimit(_ context.Context, key string, limit int, _ time.Duration) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.counts[key]++
	return f.counts[key] <= limit, nil
}

// ── 辅助函数 ──

func newTestJWTManager() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
	})
}

func setupAuthRouter(mgr *jwt.Manager, blacklist TokenChecker) *gin.Engine {
	r := gin.New()
	r.GET("/me", JWTAuth(mgr, blacklist), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetInt64(ContextUserID),
			"role":    c.GetString(ContextRole),
		})
	})
	r.GET("/admin", JWTAuth(mgr, blacklist), AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func doGet(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ═══════════════════════════════════════════════════════════
// JWTAuth / RoleAuth
// ═══════════════════════════════════════════════════════════

func TestJWTAuth_MissingHeader(t *testing.T) {
	r := setupAuthRouter(newTestJWTManager(), nil)

	w := doGet(r, "/me", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestJWTAuth_MalformedHeader(t *testing.T) {
	r := setupAuthRouter(newTestJWTManager(), nil)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestJWTAuth_ValidToken(t *testing.T) {
	mgr := newTestJWTManager()
	r := setupAuthRouter(mgr, &fakeBlacklist{revoked: map[string]bool{}})

	token, err := mgr.GenerateAccessToken(7, "alice", model.RoleMember)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	w := doGet(r, "/me", token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := w.Body.String(); !strings.Contains(body, `"user_id":7`) || !strings.Contains(body, `"role":"member"`) {
		t.Errorf("context not populated: %s", body)
	}
}

func TestJWTAuth_RefreshTokenRejected(t *testing.T) {
	mgr := newTestJWTManager()
	r := setupAuthRouter(mgr, nil)

	token, _ := mgr.GenerateRefreshToken(7, "alice", model.RoleMember)
	w := doGet(r, "/me", token)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for refresh token, got %d", w.Code)
	}
}

func TestJWTAuth_Blacklisted(t *testing.T) {
	mgr := newTestJWTManager()
	token, _ := mgr.GenerateAccessToken(7, "alice", model.RoleMember)
	claims, err := mgr.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}

	r := setupAuthRouter(mgr, &fakeBlacklist{revoked: map[string]bool{claims.ID: true}})
	w := doGet(r, "/me", token)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for revoked token, got %d", w.Code)
	}
}

func TestJWTAuth_BlacklistError(t *testing.T) {
	mgr := newTestJWTManager()
	token, _ := mgr.GenerateAccessToken(7, "alice", model.RoleMember)

	r := setupAuthRouter(mgr, &fakeBlacklist{err: errors.New("redis down")})
	w := doGet(r, "/me", token)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

func TestAdminOnly(t *testing.T) {
	mgr := newTestJWTManager()
	r := setupAuthRouter(mgr, nil)

	member, _ := mgr.GenerateAccessToken(7, "alice", model.RoleMember)
	if w := doGet(r, "/admin", member); w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for member, got %d", w.Code)
	}

	admin, _ := mgr.GenerateAccessToken(1, "root", model.RoleAdmin)
	if w := doGet(r, "/admin", admin); w.Code != http.StatusNoContent {
		t.Errorf("expected 204 for admin, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// RateLimit
// ═══════════════════════════════════════════════════════════

func setupRateLimitRouter(limiter RateLimiter) *gin.Engine {
	r := gin.New()
	r.POST("/auth/login", RateLimit(limiter, 2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRateLimit_Exceeded(t *testing.T) {
	r := setupRateLimitRouter(&fakeLimiter{counts: map[string]int{}})

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		r.ServeHTTP(last, httptest.NewRequest("POST", "/auth/login", nil))
		if i < 2 && last.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, last.Code)
		}
	}
	if last.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", last.Code)
	}
	if last.Header().Get("Retry-After") != "60" {
		t.Errorf("expected Retry-After 60, got %q", last.Header().Get("Retry-After"))
	}
}

func TestRateLimit_Degrades(t *testing.T) {
	for name, limiter := range map[string]RateLimiter{
		"nil":   nil,
		"error": &fakeLimiter{err: errors.New("redis down")},
	} {
		r := setupRateLimitRouter(limiter)
		for i := 0; i < 5; i++ {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest("POST", "/auth/login", nil))
			if w.Code != http.StatusOK {
				t.Fatalf("%s limiter: expected 200, got %d", name, w.Code)
			}
		}
	}
}

// ═══════════════════════════════════════════════════════════
// RequestID / SecurityHeaders / CORS
// ═══════════════════════════════════════════════════════════

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(zap.NewNop()))
	r.GET("/ping", func(c *gin.Context) {
		if logger.FromContext(c.Request.Context(), nil) == nil {
			t.Error("expected request logger in context")
		}
		c.String(http.StatusOK, c.GetString(ContextRequestID))
	})

	// 沿用调用方传入的 ID
	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("X-Request-ID") != "abc-123" || w.Body.String() != "abc-123" {
		t.Errorf("expected request id abc-123, header=%q body=%q", w.Header().Get("X-Request-ID"), w.Body.String())
	}

	// 超长 ID 被替换
	req = httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", 100))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); len(got) != 36 {
		t.Errorf("expected generated uuid, got %q", got)
	}
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := doGet(r, "/ping", "")
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Errorf("expected nosniff, got %q", w.Header().Get("X-Content-Type-Options"))
	}
	if w.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("expected no-store, got %q", w.Header().Get("Cache-Control"))
	}
}

func TestCORS_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("OPTIONS", "/ping", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Errorf("unexpected allow origin %q", w.Header().Get("Access-Control-Allow-Origin"))
	}

	req = httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("expected no allow origin for unknown origin")
	}
}
