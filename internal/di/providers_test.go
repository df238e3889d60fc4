package di

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/foodshareapp/foodshare-backend/internal/config"
	"github.com/foodshareapp/foodshare-backend/internal/http/middleware"
	"github.com/foodshareapp/foodshare-backend/internal/observability"
	"github.com/foodshareapp/foodshare-backend/internal/security"
)

func TestProvideHTTPServer(t *testing.T) {
	cfg := &config.Config{HTTPPort: "9999"}
	srv := provideHTTPServer(cfg, nil)
	if srv.Addr != ":9999" {
		t.Fatalf("unexpected addr: %s", srv.Addr)
	}
	if srv.ReadHeaderTimeout != 5*time.Second {
		t.Fatalf("unexpected read header timeout: %v", srv.ReadHeaderTimeout)
	}
}

func TestProvideRouterDependencies(t *testing.T) {
	cfg := &config.Config{
		CORSAllowedOrigins:  []string{"http://localhost:3000"},
		AuthRateLimitPerMin: 10,
		APIRateLimitPerMin:  100,
		OTELMetricsEnabled:  true,
	}
	dep := provideRouterDependencies(nil, nil, nil, nil, nil, nil, nil, nil, cfg)
	if dep.AuthRateLimitRPM != 10 || dep.APIRateLimitRPM != 100 {
		t.Fatalf("unexpected rate limits: %+v", dep)
	}
	if !dep.EnableOTelHTTP {
		t.Fatal("expected otel http enabled")
	}
	if len(dep.CORSOrigins) != 1 || dep.CORSOrigins[0] != "http://localhost:3000" {
		t.Fatalf("unexpected cors origins: %+v", dep.CORSOrigins)
	}
}

func TestProvideGlobalRateLimiterLocalFallback(t *testing.T) {
	cfg := &config.Config{APIRateLimitPerMin: 1}
	jwt := security.NewJWTManager(
		"iss",
		"aud",
		"abcdefghijklmnopqrstuvwxyz123456",
		"abcdefghijklmnopqrstuvwxyz654321",
	)
	limiter := provideGlobalRateLimiter(cfg, nil, jwt)
	if limiter == nil {
		t.Fatal("expected local fallback limiter")
	}
	h := limiter(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req1 := httptest.NewRequest(http.MethodGet, "/x", nil)
	req1.RemoteAddr = "10.0.0.1:1111"
	rr1 := httptest.NewRecorder()
	h.ServeHTTP(rr1, req1)
	if rr1.Code != http.StatusOK {
		t.Fatalf("expected first request 200, got %d", rr1.Code)
	}
	req2 := httptest.NewRequest(http.MethodGet, "/x", nil)
	req2.RemoteAddr = "10.0.0.1:1111"
	rr2 := httptest.NewRecorder()
	h.ServeHTTP(rr2, req2)
	if rr2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request 429, got %d", rr2.Code)
	}
}

func TestProvideAuthRateLimiterLocalFallback(t *testing.T) {
	cfg := &config.Config{AuthRateLimitPerMin: 5}
	limiter := provideAuthRateLimiter(cfg, nil)
	if limiter == nil {
		t.Fatal("expected auth limiter")
	}
}

func TestRateLimitFailureMode(t *testing.T) {
	if got := rateLimitFailureMode(&config.Config{RateLimitRedisFailOpen: true}); got != middleware.FailOpen {
		t.Fatalf("expected fail-open, got %v", got)
	}
	if got := rateLimitFailureMode(&config.Config{RateLimitRedisFailOpen: false}); got != middleware.FailClosed {
		t.Fatalf("expected fail-closed, got %v", got)
	}
}

func TestProvideIdempotencyFactoryDisabled(t *testing.T) {
	cfg := &config.Config{IdempotencyEnabled: false}
	if factory := provideIdempotencyFactory(cfg, nil); factory != nil {
		t.Fatal("expected nil factory when idempotency disabled")
	}
	cfg = &config.Config{IdempotencyEnabled: true}
	if factory := provideIdempotencyFactory(cfg, nil); factory != nil {
		t.Fatal("expected nil factory without redis client")
	}
}

func TestProvideRedisClient(t *testing.T) {
	logger := slog.Default()
	cfg := &config.Config{RedisAddr: "localhost:6379"}
	if client := provideRedisClient(cfg, logger); client != nil {
		t.Fatal("expected nil redis client when no redis-backed feature is enabled")
	}
	cfg.IdempotencyEnabled = true
	if client := provideRedisClient(cfg, logger); client == nil {
		t.Fatal("expected redis client when idempotency is enabled")
	}
	cfg.IdempotencyEnabled = false
	cfg.RateLimitRedisEnabled = true
	if client := provideRedisClient(cfg, logger); client == nil {
		t.Fatal("expected redis client when redis rate limiting is enabled")
	}
}

func TestProvideApp(t *testing.T) {
	cfg := &config.Config{
		HTTPPort:                     "8080",
		ShutdownTimeout:              20 * time.Second,
		ShutdownHTTPDrainTimeout:     10 * time.Second,
		ShutdownObservabilityTimeout: 8 * time.Second,
	}
	logger := slog.Default()
	srv := &http.Server{Addr: ":8080", ReadHeaderTimeout: time.Second}
	runtime := &observability.Runtime{}

	a := provideApp(cfg, logger, srv, runtime, nil, nil, nil)
	if a == nil {
		t.Fatal("expected app")
	}
	if a.Config != cfg || a.Logger != logger || a.Server != srv || a.Observability != runtime {
		t.Fatal("app dependencies not wired as expected")
	}
	if a.ShutdownTimeout != 20*time.Second {
		t.Fatalf("unexpected shutdown timeout %v", a.ShutdownTimeout)
	}
}
