package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/foodshareapp/foodshare-backend/internal/domain"
	"github.com/foodshareapp/foodshare-backend/internal/http/middleware"
	"github.com/foodshareapp/foodshare-backend/internal/http/response"
	"github.com/foodshareapp/foodshare-backend/internal/observability"
	"github.com/foodshareapp/foodshare-backend/internal/repository"
	"github.com/foodshareapp/foodshare-backend/internal/service"
)

type DonationHandler struct {
	svc       service.DonationServiceInterface
	shelfLife service.ShelfLifeAnalyzer
}

func NewDonationHandler(svc service.DonationServiceInterface, shelfLife service.ShelfLifeAnalyzer) *DonationHandler {
	return &DonationHandler{svc: svc, shelfLife: shelfLife}
}

func (h *DonationHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}

	var body struct {
		Title        string    `json:"title"`
		Description  string    `json:"description"`
		Location     string    `json:"location"`
		FoodType     string    `json:"food_type"`
		Quantity     string    `json:"quantity"`
		Expiry       time.Time `json:"expiry"`
		ImagePayload string    `json:"image"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		return
	}

	created, err := h.svc.Create(r.Context(), actor, service.CreateDonationInput{
		Title:        body.Title,
		Description:  body.Description,
		Location:     body.Location,
		FoodType:     body.FoodType,
		Quantity:     body.Quantity,
		Expiry:       body.Expiry,
		ImagePayload: body.ImagePayload,
	})
	if err != nil {
		respondDonationError(w, r, err, "create donation")
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "donation.create",
		ActorUserID: strconv.FormatUint(uint64(actor.UserID), 10),
		TargetType:  "donation",
		TargetID:    strconv.FormatUint(uint64(created.ID), 10),
		Action:      "create",
		Outcome:     "success",
	}, "food_type", created.FoodType)
	response.JSON(w, r, http.StatusCreated, created)
}

func (h *DonationHandler) List(w http.ResponseWriter, r *http.Request) {
	viewer, ok := viewerFromContext(r)
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}

	var statusFilter *domain.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, ok := domain.ParseStatus(raw)
		if !ok {
			response.Error(w, r, http.StatusBadRequest, "VALIDATION", "unknown status filter", map[string]string{"status": raw})
			return
		}
		statusFilter = &status
	}
	var donorFilter *uint
	if raw := r.URL.Query().Get("donor_id"); raw != "" {
		donorID, err := parsePathID(raw)
		if err != nil {
			response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid donor_id filter", map[string]string{"donor_id": raw})
			return
		}
		donorFilter = &donorID
	}

	donations, err := h.svc.List(r.Context(), viewer, statusFilter, donorFilter)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to list donations", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, donations)
}

func (h *DonationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	viewer, ok := viewerFromContext(r)
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid donation id", nil)
		return
	}

	donation, err := h.svc.GetByID(r.Context(), viewer, id)
	if err != nil {
		respondDonationError(w, r, err, "load donation")
		return
	}
	response.JSON(w, r, http.StatusOK, donation)
}

func (h *DonationHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid donation id", nil)
		return
	}

	var body struct {
		Title        *string    `json:"title"`
		Description  *string    `json:"description"`
		Location     *string    `json:"location"`
		FoodType     *string    `json:"food_type"`
		Quantity     *string    `json:"quantity"`
		Expiry       *time.Time `json:"expiry"`
		ImagePayload *string    `json:"image"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		return
	}

	updated, err := h.svc.Update(r.Context(), actor, id, service.UpdateDonationInput{
		Title:        body.Title,
		Description:  body.Description,
		Location:     body.Location,
		FoodType:     body.FoodType,
		Quantity:     body.Quantity,
		Expiry:       body.Expiry,
		ImagePayload: body.ImagePayload,
	})
	if err != nil {
		respondDonationError(w, r, err, "update donation")
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "donation.update",
		ActorUserID: strconv.FormatUint(uint64(actor.UserID), 10),
		TargetType:  "donation",
		TargetID:    strconv.FormatUint(uint64(id), 10),
		Action:      "update",
		Outcome:     "success",
	})
	response.JSON(w, r, http.StatusOK, updated)
}

func (h *DonationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid donation id", nil)
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		return
	}
	target, ok := domain.ParseStatus(body.Status)
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "unknown status", map[string]string{"status": body.Status})
		return
	}

	updated, err := h.svc.UpdateStatus(r.Context(), actor, id, target)
	if err != nil {
		respondDonationError(w, r, err, "update donation status")
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "donation.transition",
		ActorUserID: strconv.FormatUint(uint64(actor.UserID), 10),
		TargetType:  "donation",
		TargetID:    strconv.FormatUint(uint64(id), 10),
		Action:      "transition",
		Outcome:     "success",
	}, "status", string(target), "role", string(actor.Role))
	response.JSON(w, r, http.StatusOK, updated)
}

func (h *DonationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid donation id", nil)
		return
	}

	if err := h.svc.Delete(r.Context(), actor, id); err != nil {
		respondDonationError(w, r, err, "delete donation")
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "donation.delete",
		ActorUserID: strconv.FormatUint(uint64(actor.UserID), 10),
		TargetType:  "donation",
		TargetID:    strconv.FormatUint(uint64(id), 10),
		Action:      "delete",
		Outcome:     "success",
	})
	response.JSON(w, r, http.StatusOK, map[string]any{"deleted": true})
}

// ValidateImage checks an image payload without creating anything, so clients
// can warn before submitting a full listing.
func (h *DonationHandler) ValidateImage(w http.ResponseWriter, r *http.Request) {
	if _, ok := actorFromContext(r); !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}

	var body struct {
		Image string `json:"image"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		return
	}

	check, err := h.svc.CheckImage(r.Context(), body.Image)
	if err != nil {
		respondDonationError(w, r, err, "validate image")
		return
	}
	response.JSON(w, r, http.StatusOK, check)
}

// Catalog returns the accepted food type and quantity values so clients can
// render pickers without hardcoding them.
func (h *DonationHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, map[string]any{
		"food_types":     domain.FoodTypes,
		"quantity_bands": domain.QuantityBands,
		"statuses":       []domain.Status{domain.StatusAvailable, domain.StatusReserved, domain.StatusCompleted},
	})
}

func (h *DonationHandler) ShelfLife(w http.ResponseWriter, r *http.Request) {
	if _, ok := actorFromContext(r); !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}

	var body struct {
		FoodType string    `json:"food_type"`
		Expiry   time.Time `json:"expiry"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		return
	}
	if body.Expiry.IsZero() {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "expiry is required", map[string]string{"expiry": "required"})
		return
	}

	report, err := h.shelfLife.Analyze(r.Context(), body.FoodType, body.Expiry)
	if err != nil {
		if errors.Is(err, service.ErrShelfLifeUnknownType) {
			response.Error(w, r, http.StatusBadRequest, "VALIDATION", "unknown food type", map[string]string{"food_type": body.FoodType})
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "shelf life analysis failed", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, report)
}

// respondDonationError maps service and domain errors onto the API error
// taxonomy. Order matters: a wrapped invalid-transition must not fall through
// to the generic branch.
func respondDonationError(w http.ResponseWriter, r *http.Request, err error, action string) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid donation payload", vErr.Fields)
	case errors.Is(err, service.ErrImageTooLarge):
		response.Error(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "image exceeds the 5MB limit", nil)
	case errors.Is(err, service.ErrImageInvalidData), errors.Is(err, service.ErrImageBadType):
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
	case errors.Is(err, service.ErrNoUpdates):
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "no fields to update", nil)
	case errors.Is(err, repository.ErrDonationNotFound):
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "donation not found", nil)
	case errors.Is(err, domain.ErrNotPermitted):
		response.Error(w, r, http.StatusForbidden, "FORBIDDEN", "not allowed for this user", nil)
	case errors.Is(err, domain.ErrInvalidTransition):
		response.Error(w, r, http.StatusConflict, "INVALID_TRANSITION", err.Error(), nil)
	default:
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to "+action, nil)
	}
}

// decodeBody reads a JSON body, translating the body-limit breach into the
// payload-too-large taxonomy entry instead of a generic bad request.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			response.Error(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "request body too large", nil)
			return err
		}
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return err
	}
	return nil
}

func actorFromContext(r *http.Request) (domain.Actor, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return domain.Actor{}, false
	}
	role, ok := domain.ParseRole(claims.Role)
	if !ok {
		return domain.Actor{}, false
	}
	return domain.Actor{UserID: claims.UserID, Role: role}, true
}

func viewerFromContext(r *http.Request) (domain.Viewer, bool) {
	actor, ok := actorFromContext(r)
	if !ok {
		return domain.Viewer{}, false
	}
	return domain.Viewer{UserID: actor.UserID, Role: actor.Role}, true
}

func parsePathID(input string) (uint, error) {
	n, err := strconv.ParseUint(input, 10, 64)
	if err != nil || n == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(n), nil
}
