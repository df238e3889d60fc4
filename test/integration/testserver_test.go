package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/foodshareapp/foodshare-backend/internal/config"
	"github.com/foodshareapp/foodshare-backend/internal/database"
	"github.com/foodshareapp/foodshare-backend/internal/http/handler"
	"github.com/foodshareapp/foodshare-backend/internal/http/router"
	"github.com/foodshareapp/foodshare-backend/internal/repository"
	"github.com/foodshareapp/foodshare-backend/internal/security"
	"github.com/foodshareapp/foodshare-backend/internal/service"
)

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// recordingStorage satisfies service.StorageService without an object store.
type recordingStorage struct {
	uploads int
	deleted []string
}

func (s *recordingStorage) UploadDonationImage(_ context.Context, donorID uint, _ []byte, _ string) (string, error) {
	s.uploads++
	return fmt.Sprintf("https://cdn.test/donations/donor-%d/upload-%d.png", donorID, s.uploads), nil
}

func (s *recordingStorage) DeleteDonationImage(_ context.Context, _ uint, objectKey string) error {
	s.deleted = append(s.deleted, objectKey)
	return nil
}

func newMarketplaceServer(t *testing.T) (string, func()) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{
		JWTAccessTTL:  15 * time.Minute,
		JWTRefreshTTL: 168 * time.Hour,
	}
	jwtMgr := security.NewJWTManager("iss", "aud", "abcdefghijklmnopqrstuvwxyz123456", "abcdefghijklmnopqrstuvwxyz654321")
	cookieMgr := security.NewCookieManager("", false, "lax")
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))

	userRepo := repository.NewUserRepository(db)
	donationRepo := repository.NewDonationRepository(db)

	tokenSvc := service.NewTokenService(jwtMgr, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	authSvc := service.NewAuthService(cfg, tokenSvc, userRepo)
	userSvc := service.NewUserService(userRepo)
	storage := &recordingStorage{}
	donationSvc := service.NewDonationService(donationRepo, userRepo, storage, discard)

	h := router.NewRouter(router.Dependencies{
		AuthHandler:      handler.NewAuthHandler(authSvc, cookieMgr, cfg.JWTRefreshTTL),
		UserHandler:      handler.NewUserHandler(userSvc),
		DonationHandler:  handler.NewDonationHandler(donationSvc, service.NewHeuristicShelfLifeAnalyzer()),
		JWTManager:       jwtMgr,
		CORSOrigins:      []string{"http://localhost:3000"},
		AuthRateLimitRPM: 10000,
		APIRateLimitRPM:  100000,
	})

	srv := httptest.NewServer(h)
	return srv.URL, func() {
		srv.Close()
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar, Timeout: 10 * time.Second}
}

func doJSON(t *testing.T, client *http.Client, method, rawURL string, body any, headers map[string]string) (*http.Response, apiEnvelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequest(method, rawURL, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, rawURL, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var env apiEnvelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("decode envelope from %q: %v", string(raw), err)
		}
	}
	return resp, env
}

func cookieValue(t *testing.T, client *http.Client, baseURL, name string) string {
	t.Helper()
	u, err := url.Parse(baseURL)
	if err != nil {
		t.Fatalf("parse base url: %v", err)
	}
	for _, c := range client.Jar.Cookies(u) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func assertCookieProps(t *testing.T, resp *http.Response, name, path string, httpOnly bool) {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name != name {
			continue
		}
		if c.Path != path {
			t.Fatalf("cookie %s path = %q, want %q", name, c.Path, path)
		}
		if c.HttpOnly != httpOnly {
			t.Fatalf("cookie %s HttpOnly = %v, want %v", name, c.HttpOnly, httpOnly)
		}
		return
	}
	t.Fatalf("cookie %s not set", name)
}

func assertClearingCookie(t *testing.T, resp *http.Response, name string) {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == name {
			if c.MaxAge >= 0 && c.Value != "" {
				t.Fatalf("cookie %s not cleared: maxAge=%d value=%q", name, c.MaxAge, c.Value)
			}
			return
		}
	}
	t.Fatalf("expected clearing Set-Cookie for %s", name)
}

type signedUpUser struct {
	ID     uint
	Client *http.Client
	CSRF   string
}

func signupRole(t *testing.T, baseURL, role, email string) signedUpUser {
	t.Helper()
	client := newClient(t)
	username := strings.SplitN(email, "@", 2)[0]
	resp, env := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/signup", map[string]string{
		"username": username,
		"email":    email,
		"name":     username + " (" + role + ")",
		"password": "Valid#Pass1234",
		"role":     role,
	}, nil)
	if resp.StatusCode != http.StatusCreated || !env.Success {
		t.Fatalf("signup %s failed: status=%d error=%+v", role, resp.StatusCode, env.Error)
	}
	var payload struct {
		User struct {
			ID uint `json:"id"`
		} `json:"user"`
		CSRFToken string `json:"csrf_token"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("decode signup payload: %v", err)
	}
	return signedUpUser{ID: payload.User.ID, Client: client, CSRF: payload.CSRFToken}
}
