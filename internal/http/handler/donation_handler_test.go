package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"github.com/foodshareapp/foodshare-backend/internal/domain"
	"github.com/foodshareapp/foodshare-backend/internal/http/middleware"
	"github.com/foodshareapp/foodshare-backend/internal/repository"
	"github.com/foodshareapp/foodshare-backend/internal/security"
	"github.com/foodshareapp/foodshare-backend/internal/service"
	servicegomock "github.com/foodshareapp/foodshare-backend/internal/service/gomock"
)

type errorEnvelope struct {
	Success bool `json:"success"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func withClaims(r *http.Request, userID uint, role string) *http.Request {
	claims := &security.Claims{UserID: userID, Role: role}
	return r.WithContext(context.WithValue(r.Context(), middleware.ClaimsContextKey, claims))
}

func newDonationRouter(h *DonationHandler) chi.Router {
	r := chi.NewRouter()
	r.Post("/donations", h.Create)
	r.Get("/donations", h.List)
	r.Get("/donations/{id}", h.GetByID)
	r.Put("/donations/{id}", h.Update)
	r.Patch("/donations/{id}/status", h.UpdateStatus)
	r.Delete("/donations/{id}", h.Delete)
	r.Post("/donations/validate-image", h.ValidateImage)
	r.Get("/donations/catalog", h.Catalog)
	r.Post("/donations/shelf-life", h.ShelfLife)
	return r
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error envelope: %v (%s)", err, rr.Body.String())
	}
	return env
}

func TestDonationHandlerCreate(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockDonationServiceInterface(ctrl)
	router := newDonationRouter(NewDonationHandler(svc, service.NewHeuristicShelfLifeAnalyzer()))

	expiry := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	svc.EXPECT().Create(gomock.Any(), domain.Actor{UserID: 1, Role: domain.RoleDonor}, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ domain.Actor, input service.CreateDonationInput) (*domain.Donation, error) {
			if input.Title != "Bread" || !input.Expiry.Equal(expiry) {
				t.Fatalf("input not mapped: %+v", input)
			}
			return &domain.Donation{ID: 9, Title: input.Title, Status: domain.StatusAvailable}, nil
		})

	payload := fmt.Sprintf(`{"title":"Bread","description":"day-old loaves","location":"Main St","food_type":"Baked Goods","quantity":"1-5 servings","expiry":%q}`, expiry.Format(time.RFC3339))
	req := withClaims(httptest.NewRequest(http.MethodPost, "/donations", strings.NewReader(payload)), 1, "donor")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestDonationHandlerCreateValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockDonationServiceInterface(ctrl)
	router := newDonationRouter(NewDonationHandler(svc, service.NewHeuristicShelfLifeAnalyzer()))

	svc.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil,
		&service.ValidationError{Fields: map[string]string{"title": "must be between 3 and 120 characters"}})

	req := withClaims(httptest.NewRequest(http.MethodPost, "/donations", strings.NewReader(`{"title":"x"}`)), 1, "donor")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	env := decodeError(t, rr)
	if env.Error == nil || env.Error.Code != "VALIDATION" {
		t.Fatalf("expected VALIDATION code, got %+v", env.Error)
	}
	if env.Error.Details["title"] == "" {
		t.Fatalf("expected title detail, got %v", env.Error.Details)
	}
}

func TestDonationHandlerCreateImageTooLarge(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockDonationServiceInterface(ctrl)
	router := newDonationRouter(NewDonationHandler(svc, service.NewHeuristicShelfLifeAnalyzer()))

	svc.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, service.ErrImageTooLarge)

	req := withClaims(httptest.NewRequest(http.MethodPost, "/donations", strings.NewReader(`{"title":"Bread"}`)), 1, "donor")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rr.Code)
	}
	if env := decodeError(t, rr); env.Error == nil || env.Error.Code != "PAYLOAD_TOO_LARGE" {
		t.Fatalf("expected PAYLOAD_TOO_LARGE, got %+v", rr.Body.String())
	}
}

func TestDonationHandlerRequiresAuth(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockDonationServiceInterface(ctrl)
	router := newDonationRouter(NewDonationHandler(svc, service.NewHeuristicShelfLifeAnalyzer()))

	req := httptest.NewRequest(http.MethodGet, "/donations", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without claims, got %d", rr.Code)
	}
}

func TestDonationHandlerListPassesStatusFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockDonationServiceInterface(ctrl)
	router := newDonationRouter(NewDonationHandler(svc, service.NewHeuristicShelfLifeAnalyzer()))

	svc.EXPECT().List(gomock.Any(), domain.Viewer{UserID: 3, Role: domain.RoleVolunteer}, gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ domain.Viewer, status *domain.Status, donorID *uint) ([]domain.Donation, error) {
			if status == nil || *status != domain.StatusReserved {
				t.Fatalf("expected reserved filter, got %v", status)
			}
			if donorID != nil {
				t.Fatalf("expected no donor filter, got %v", *donorID)
			}
			return []domain.Donation{}, nil
		})

	req := withClaims(httptest.NewRequest(http.MethodGet, "/donations?status=reserved", nil), 3, "volunteer")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestDonationHandlerListRejectsUnknownStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockDonationServiceInterface(ctrl)
	router := newDonationRouter(NewDonationHandler(svc, service.NewHeuristicShelfLifeAnalyzer()))

	req := withClaims(httptest.NewRequest(http.MethodGet, "/donations?status=stale", nil), 3, "recipient")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", rr.Code)
	}
}

func TestDonationHandlerGetByIDNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockDonationServiceInterface(ctrl)
	router := newDonationRouter(NewDonationHandler(svc, service.NewHeuristicShelfLifeAnalyzer()))

	svc.EXPECT().GetByID(gomock.Any(), gomock.Any(), uint(42)).Return(nil, repository.ErrDonationNotFound)

	req := withClaims(httptest.NewRequest(http.MethodGet, "/donations/42", nil), 3, "donor")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if env := decodeError(t, rr); env.Error == nil || env.Error.Code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND, got %s", rr.Body.String())
	}
}

func TestDonationHandlerUpdateStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockDonationServiceInterface(ctrl)
	router := newDonationRouter(NewDonationHandler(svc, service.NewHeuristicShelfLifeAnalyzer()))

	svc.EXPECT().UpdateStatus(gomock.Any(), domain.Actor{UserID: 2, Role: domain.RoleRecipient}, uint(5), domain.StatusReserved).
		Return(&domain.Donation{ID: 5, Status: domain.StatusReserved}, nil)

	req := withClaims(httptest.NewRequest(http.MethodPatch, "/donations/5/status", strings.NewReader(`{"status":"reserved"}`)), 2, "recipient")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestDonationHandlerUpdateStatusConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockDonationServiceInterface(ctrl)
	router := newDonationRouter(NewDonationHandler(svc, service.NewHeuristicShelfLifeAnalyzer()))

	svc.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), uint(5), domain.StatusReserved).
		Return(nil, fmt.Errorf("%w: donation was updated concurrently", domain.ErrInvalidTransition))

	req := withClaims(httptest.NewRequest(http.MethodPatch, "/donations/5/status", strings.NewReader(`{"status":"reserved"}`)), 2, "recipient")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
	if env := decodeError(t, rr); env.Error == nil || env.Error.Code != "INVALID_TRANSITION" {
		t.Fatalf("expected INVALID_TRANSITION, got %s", rr.Body.String())
	}
}

func TestDonationHandlerDeleteForbidden(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockDonationServiceInterface(ctrl)
	router := newDonationRouter(NewDonationHandler(svc, service.NewHeuristicShelfLifeAnalyzer()))

	svc.EXPECT().Delete(gomock.Any(), gomock.Any(), uint(7)).Return(domain.ErrNotPermitted)

	req := withClaims(httptest.NewRequest(http.MethodDelete, "/donations/7", nil), 9, "donor")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestDonationHandlerValidateImage(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockDonationServiceInterface(ctrl)
	router := newDonationRouter(NewDonationHandler(svc, service.NewHeuristicShelfLifeAnalyzer()))

	svc.EXPECT().CheckImage(gomock.Any(), "data:image/png;base64,AAAA").
		Return(&service.ImageCheck{ContentType: "image/png", SizeBytes: 3}, nil)

	req := withClaims(httptest.NewRequest(http.MethodPost, "/donations/validate-image", strings.NewReader(`{"image":"data:image/png;base64,AAAA"}`)), 1, "donor")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestDonationHandlerValidateImageMapsMalformedPayloads(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"not base64", service.ErrImageInvalidData},
		{"unsupported content type", service.ErrImageBadType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := servicegomock.NewMockDonationServiceInterface(ctrl)
			router := newDonationRouter(NewDonationHandler(svc, service.NewHeuristicShelfLifeAnalyzer()))

			svc.EXPECT().CheckImage(gomock.Any(), "not an image").Return(nil, tt.err)

			req := withClaims(httptest.NewRequest(http.MethodPost, "/donations/validate-image", strings.NewReader(`{"image":"not an image"}`)), 1, "donor")
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 for malformed image, got %d", rr.Code)
			}
			env := decodeError(t, rr)
			if env.Error == nil || env.Error.Code != "VALIDATION" {
				t.Fatalf("expected VALIDATION code, got %+v", env.Error)
			}
		})
	}
}

func TestDonationHandlerCatalog(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockDonationServiceInterface(ctrl)
	router := newDonationRouter(NewDonationHandler(svc, service.NewHeuristicShelfLifeAnalyzer()))

	req := httptest.NewRequest(http.MethodGet, "/donations/catalog", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var env struct {
		Data struct {
			FoodTypes     []string `json:"food_types"`
			QuantityBands []string `json:"quantity_bands"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(env.Data.FoodTypes) == 0 || len(env.Data.QuantityBands) == 0 {
		t.Fatalf("expected catalog entries, got %s", rr.Body.String())
	}
}

func TestDonationHandlerShelfLife(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockDonationServiceInterface(ctrl)
	router := newDonationRouter(NewDonationHandler(svc, service.NewHeuristicShelfLifeAnalyzer()))

	payload := fmt.Sprintf(`{"food_type":"Produce","expiry":%q}`, time.Now().Add(48*time.Hour).Format(time.RFC3339))
	req := withClaims(httptest.NewRequest(http.MethodPost, "/donations/shelf-life", strings.NewReader(payload)), 1, "donor")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	req = withClaims(httptest.NewRequest(http.MethodPost, "/donations/shelf-life", strings.NewReader(`{"food_type":"Glassware","expiry":"2030-01-01T00:00:00Z"}`)), 1, "donor")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown food type, got %d", rr.Code)
	}
}
