package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/foodshareapp/foodshare-backend/internal/http/middleware"
	"github.com/foodshareapp/foodshare-backend/internal/http/response"
	"github.com/foodshareapp/foodshare-backend/internal/observability"
	"github.com/foodshareapp/foodshare-backend/internal/repository"
	"github.com/foodshareapp/foodshare-backend/internal/service"
)

type UserHandler struct {
	userSvc service.UserServiceInterface
}

func NewUserHandler(userSvc service.UserServiceInterface) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	u, err := h.userSvc.GetByID(claims.UserID)
	if err != nil {
		observability.RecordUserProfileEvent(r.Context(), "not_found")
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "user not found", nil)
		return
	}
	observability.RecordUserProfileEvent(r.Context(), "self")
	response.JSON(w, r, http.StatusOK, u)
}

// Profile serves the public view of another member: no email, no timestamps
// beyond a rough membership age.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.ClaimsFromContext(r.Context()); !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid user id", nil)
		return
	}

	profile, err := h.userSvc.PublicProfile(id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			observability.RecordUserProfileEvent(r.Context(), "not_found")
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "user not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to load profile", nil)
		return
	}
	observability.RecordUserProfileEvent(r.Context(), "public")
	response.JSON(w, r, http.StatusOK, profile)
}
