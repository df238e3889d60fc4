package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/foodshareapp/foodshare-backend/internal/http/middleware"
	"github.com/foodshareapp/foodshare-backend/internal/http/response"
	"github.com/foodshareapp/foodshare-backend/internal/observability"
	"github.com/foodshareapp/foodshare-backend/internal/security"
	"github.com/foodshareapp/foodshare-backend/internal/service"
)

type AuthHandler struct {
	authSvc    service.AuthServiceInterface
	cookieMgr  *security.CookieManager
	refreshTTL time.Duration
}

func NewAuthHandler(authSvc service.AuthServiceInterface, cookieMgr *security.CookieManager, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, cookieMgr: cookieMgr, refreshTTL: refreshTTL}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "signup", status, time.Since(start))
	}()

	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		status = "failure"
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}

	result, err := h.authSvc.Signup(service.SignupInput{
		Username: body.Username,
		Email:    body.Email,
		Name:     body.Name,
		Password: body.Password,
		Role:     body.Role,
	})
	if err != nil {
		status = "failure"
		switch {
		case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrUsernameTaken):
			observability.Audit(r, "auth.signup.failed", "reason", "duplicate_identity")
			response.Error(w, r, http.StatusConflict, "CONFLICT", err.Error(), nil)
		case errors.Is(err, service.ErrInvalidRole), errors.Is(err, service.ErrWeakPassword):
			observability.Audit(r, "auth.signup.failed", "reason", "invalid_input")
			response.Error(w, r, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		default:
			var vErr *service.ValidationError
			if errors.As(err, &vErr) {
				observability.Audit(r, "auth.signup.failed", "reason", "invalid_input")
				response.Error(w, r, http.StatusBadRequest, "VALIDATION", err.Error(), vErr.Fields)
				return
			}
			observability.Audit(r, "auth.signup.failed", "reason", "internal", "error", err.Error())
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "signup failed", nil)
		}
		return
	}

	h.cookieMgr.SetTokenCookies(w, result.AccessToken, result.RefreshToken, result.CSRFToken, h.refreshTTL)
	observability.Audit(r, "auth.signup.success", "user_id", result.User.ID, "role", string(result.User.Role))
	response.JSON(w, r, http.StatusCreated, map[string]any{
		"user":       result.User,
		"csrf_token": result.CSRFToken,
		"expires_at": result.ExpiresAt,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "login", status, time.Since(start))
	}()

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		status = "failure"
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}

	result, err := h.authSvc.Login(body.Email, body.Password)
	if err != nil {
		status = "failure"
		if errors.Is(err, service.ErrInvalidCredentials) {
			observability.Audit(r, "auth.login.failed", "reason", "invalid_credentials")
			response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid email or password", nil)
			return
		}
		observability.Audit(r, "auth.login.failed", "reason", "internal", "error", err.Error())
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "login failed", nil)
		return
	}

	h.cookieMgr.SetTokenCookies(w, result.AccessToken, result.RefreshToken, result.CSRFToken, h.refreshTTL)
	observability.Audit(r, "auth.login.success", "user_id", result.User.ID)
	response.JSON(w, r, http.StatusOK, map[string]any{
		"user":       result.User,
		"csrf_token": result.CSRFToken,
		"expires_at": result.ExpiresAt,
	})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "refresh", status, time.Since(start))
	}()

	refresh := security.GetCookie(r, security.RefreshTokenCookie)
	if refresh == "" {
		status = "failure"
		observability.Audit(r, "auth.refresh.failed", "reason", "missing_refresh_cookie")
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing refresh token", nil)
		return
	}
	result, err := h.authSvc.Refresh(refresh)
	if err != nil {
		status = "failure"
		observability.Audit(r, "auth.refresh.failed", "reason", "invalid_refresh")
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid refresh token", nil)
		return
	}

	h.cookieMgr.SetTokenCookies(w, result.AccessToken, result.RefreshToken, result.CSRFToken, h.refreshTTL)
	observability.Audit(r, "auth.refresh.success", "user_id", result.User.ID)
	response.JSON(w, r, http.StatusOK, map[string]any{
		"user":       result.User,
		"csrf_token": result.CSRFToken,
		"expires_at": result.ExpiresAt,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "logout", status, time.Since(start))
	}()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		status = "failure"
		observability.Audit(r, "auth.logout.failed", "reason", "missing_auth_context")
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	if err := h.authSvc.Logout(claims.UserID); err != nil {
		status = "failure"
		observability.Audit(r, "auth.logout.failed", "user_id", claims.UserID, "reason", "logout_error")
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "logout failed", nil)
		return
	}

	h.cookieMgr.ClearTokenCookies(w)
	observability.Audit(r, "auth.logout.success", "user_id", claims.UserID)
	response.JSON(w, r, http.StatusOK, map[string]string{"status": "logged_out"})
}
