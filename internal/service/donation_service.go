package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/foodshareapp/foodshare-backend/internal/domain"
	"github.com/foodshareapp/foodshare-backend/internal/observability"
	"github.com/foodshareapp/foodshare-backend/internal/repository"
)

var ErrNoUpdates = errors.New("no updates provided")

// ValidationError aggregates per-field problems so the client can surface
// them all at once instead of fixing one at a time.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}

type CreateDonationInput struct {
	Title       string
	Description string
	Location    string
	FoodType    string
	Quantity    string
	Expiry      time.Time
	// ImagePayload is an optional base64 data URL submitted by the client.
	ImagePayload string
}

type UpdateDonationInput struct {
	Title        *string
	Description  *string
	Location     *string
	FoodType     *string
	Quantity     *string
	Expiry       *time.Time
	ImagePayload *string
}

type DonationService struct {
	repo     repository.DonationRepository
	userRepo repository.UserRepository
	storage  StorageService
	logger   *slog.Logger
}

func NewDonationService(repo repository.DonationRepository, userRepo repository.UserRepository, storage StorageService, logger *slog.Logger) *DonationService {
	return &DonationService{repo: repo, userRepo: userRepo, storage: storage, logger: logger}
}

func (s *DonationService) Create(ctx context.Context, actor domain.Actor, input CreateDonationInput) (*domain.Donation, error) {
	outcome := "success"
	defer func() { observability.RecordDonationMutation(ctx, "create", outcome) }()

	if actor.Role != domain.RoleDonor {
		outcome = "forbidden"
		return nil, domain.ErrNotPermitted
	}
	if err := validateCreate(input); err != nil {
		outcome = "bad_request"
		return nil, err
	}

	imageURL, err := s.storeImage(ctx, actor.UserID, input.ImagePayload)
	if err != nil {
		outcome = "payload_too_large"
		return nil, err
	}

	donor, err := s.userRepo.FindByID(actor.UserID)
	if err != nil {
		outcome = "error"
		return nil, err
	}

	donation := &domain.Donation{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		DonorID:     donor.ID,
		DonorName:   donor.Name,
		Location:    strings.TrimSpace(input.Location),
		FoodType:    input.FoodType,
		Quantity:    input.Quantity,
		Expiry:      input.Expiry,
		Status:      domain.StatusAvailable,
		ImageURL:    imageURL,
	}
	if err := s.repo.Create(donation); err != nil {
		outcome = "error"
		return nil, err
	}
	return donation, nil
}

func (s *DonationService) List(ctx context.Context, viewer domain.Viewer, status *domain.Status, donorID *uint) ([]domain.Donation, error) {
	start := time.Now()
	scope := domain.ScopeFor(viewer, status)
	if donorID != nil {
		if scope.DonorID == nil {
			scope.DonorID = donorID
		} else if *scope.DonorID != *donorID {
			// A donor asking for someone else's listings gets nothing; the
			// self-scope and the requested filter cannot both hold.
			observability.RecordDonationFeedRequest(ctx, string(viewer.Role), feedFilterLabel(status), 0, time.Since(start))
			return []domain.Donation{}, nil
		}
	}
	donations, err := s.repo.List(scope)
	if err != nil {
		return nil, err
	}
	observability.RecordDonationFeedRequest(ctx, string(viewer.Role), feedFilterLabel(status), len(donations), time.Since(start))
	return donations, nil
}

func feedFilterLabel(status *domain.Status) string {
	if status == nil {
		return "none"
	}
	return string(*status)
}

func (s *DonationService) GetByID(ctx context.Context, viewer domain.Viewer, id uint) (*domain.Donation, error) {
	donation, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	// Records outside the viewer's scope read as absent, not forbidden, so
	// responses don't leak other donors' inventory.
	if !domain.VisibleTo(donation, viewer, nil) {
		return nil, repository.ErrDonationNotFound
	}
	return donation, nil
}

func (s *DonationService) Update(ctx context.Context, actor domain.Actor, id uint, input UpdateDonationInput) (*domain.Donation, error) {
	outcome := "success"
	defer func() { observability.RecordDonationMutation(ctx, "update", outcome) }()

	donation, err := s.repo.FindByID(id)
	if err != nil {
		outcome = "not_found"
		return nil, err
	}
	if err := domain.CanUpdateDetails(actor, donation); err != nil {
		outcome = "forbidden"
		return nil, err
	}

	updates := map[string]any{}
	fields := map[string]string{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if l := len(title); l < 3 || l > 120 {
			fields["title"] = "must be between 3 and 120 characters"
		} else {
			updates["title"] = title
		}
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" || len(description) > 2000 {
			fields["description"] = "must be between 1 and 2000 characters"
		} else {
			updates["description"] = description
		}
	}
	if input.Location != nil {
		location := strings.TrimSpace(*input.Location)
		if location == "" {
			fields["location"] = "is required"
		} else {
			updates["location"] = location
		}
	}
	if input.FoodType != nil {
		if !domain.ValidFoodType(*input.FoodType) {
			fields["food_type"] = "is not a recognized food type"
		} else {
			updates["food_type"] = *input.FoodType
		}
	}
	if input.Quantity != nil {
		if !domain.ValidQuantity(*input.Quantity) {
			fields["quantity"] = "is not a recognized quantity band"
		} else {
			updates["quantity"] = *input.Quantity
		}
	}
	if input.Expiry != nil {
		if input.Expiry.IsZero() {
			fields["expiry"] = "is required"
		} else {
			updates["expiry"] = *input.Expiry
		}
	}
	if len(fields) > 0 {
		outcome = "bad_request"
		return nil, &ValidationError{Fields: fields}
	}
	if input.ImagePayload != nil {
		imageURL, err := s.storeImage(ctx, actor.UserID, *input.ImagePayload)
		if err != nil {
			outcome = "payload_too_large"
			return nil, err
		}
		updates["image_url"] = imageURL
	}
	if len(updates) == 0 {
		outcome = "bad_request"
		return nil, ErrNoUpdates
	}

	if err := s.repo.UpdateFields(id, updates); err != nil {
		outcome = "error"
		return nil, err
	}
	return s.repo.FindByID(id)
}

func (s *DonationService) UpdateStatus(ctx context.Context, actor domain.Actor, id uint, target domain.Status) (*domain.Donation, error) {
	donation, err := s.repo.FindByID(id)
	if err != nil {
		observability.RecordDonationTransition(ctx, "", string(target), string(actor.Role), "not_found")
		return nil, err
	}
	current := donation.Status

	if err := domain.CanTransition(actor, current, target); err != nil {
		observability.RecordDonationTransition(ctx, string(current), string(target), string(actor.Role), "invalid")
		return nil, err
	}

	// The conditional update is the arbiter under contention: whichever
	// caller flips the row first wins, the rest get a conflict.
	if err := s.repo.UpdateStatus(id, current, target); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			observability.RecordDonationTransition(ctx, string(current), string(target), string(actor.Role), "conflict")
			return nil, fmt.Errorf("%w: donation was updated concurrently", domain.ErrInvalidTransition)
		}
		observability.RecordDonationTransition(ctx, string(current), string(target), string(actor.Role), "error")
		return nil, err
	}

	observability.RecordDonationTransition(ctx, string(current), string(target), string(actor.Role), "success")
	donation.Status = target
	return donation, nil
}

func (s *DonationService) Delete(ctx context.Context, actor domain.Actor, id uint) error {
	outcome := "success"
	defer func() { observability.RecordDonationMutation(ctx, "delete", outcome) }()

	donation, err := s.repo.FindByID(id)
	if err != nil {
		outcome = "not_found"
		return err
	}
	if err := domain.CanDelete(actor, donation); err != nil {
		outcome = "forbidden"
		return err
	}

	if err := s.repo.DeleteOwnedAvailable(id, actor.UserID); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			// Reserved between our check and the delete.
			outcome = "conflict"
			return fmt.Errorf("%w: donation is no longer available", domain.ErrInvalidTransition)
		}
		if errors.Is(err, repository.ErrDonorMismatch) {
			outcome = "forbidden"
			return domain.ErrNotPermitted
		}
		outcome = "error"
		return err
	}

	if donation.ImageURL != "" && donation.ImageURL != PlaceholderImageURL {
		if key, ok := objectKeyFromURL(donation.ImageURL); ok {
			if err := s.storage.DeleteDonationImage(ctx, actor.UserID, key); err != nil {
				s.logger.WarnContext(ctx, "orphaned donation image left in storage",
					"donation_id", id, "object_key", key, "error", err)
			}
		}
	}
	return nil
}

// CheckImage inspects an image payload without storing it, backing the
// pre-submit validation endpoint.
func (s *DonationService) CheckImage(ctx context.Context, payload string) (*ImageCheck, error) {
	_, check, err := decodeImagePayload(payload)
	if err != nil {
		size := int64(0)
		if check != nil {
			size = check.SizeBytes
		}
		observability.RecordImageValidation(ctx, imageOutcome(err), size)
		return check, err
	}
	if check.OverSoftSize {
		observability.RecordImageValidation(ctx, "soft_limit", check.SizeBytes)
		s.logger.WarnContext(ctx, "donation image above soft size guard",
			"size_bytes", check.SizeBytes, "soft_limit_bytes", softImageBytes)
	} else {
		observability.RecordImageValidation(ctx, "accepted", check.SizeBytes)
	}
	return check, nil
}

// storeImage runs the image pipeline for create/update. Oversized payloads
// are rejected; any other image problem (bad encoding, unsupported type,
// storage outage) degrades to the placeholder so the listing still goes
// through.
func (s *DonationService) storeImage(ctx context.Context, donorID uint, payload string) (string, error) {
	if strings.TrimSpace(payload) == "" {
		return "", nil
	}
	data, check, err := decodeImagePayload(payload)
	if err != nil {
		if errors.Is(err, ErrImageTooLarge) {
			size := int64(0)
			if check != nil {
				size = check.SizeBytes
			}
			observability.RecordImageValidation(ctx, "rejected", size)
			return "", err
		}
		observability.RecordImageValidation(ctx, "placeholder", 0)
		s.logger.WarnContext(ctx, "unusable donation image, substituting placeholder",
			"donor_id", donorID, "error", err)
		return PlaceholderImageURL, nil
	}
	if check.OverSoftSize {
		s.logger.WarnContext(ctx, "donation image above soft size guard",
			"donor_id", donorID, "size_bytes", check.SizeBytes, "soft_limit_bytes", softImageBytes)
	}

	imageURL, err := s.storage.UploadDonationImage(ctx, donorID, data, check.ContentType)
	if err != nil {
		observability.RecordImageValidation(ctx, "placeholder", check.SizeBytes)
		s.logger.ErrorContext(ctx, "image upload failed, substituting placeholder",
			"donor_id", donorID, "error", err)
		return PlaceholderImageURL, nil
	}
	observability.RecordImageValidation(ctx, "accepted", check.SizeBytes)
	return imageURL, nil
}

func imageOutcome(err error) string {
	switch {
	case errors.Is(err, ErrImageTooLarge):
		return "rejected"
	default:
		return "invalid"
	}
}

// objectKeyFromURL recovers the storage key from a stored image URL. Returns
// false for URLs that do not point at our bucket layout.
func objectKeyFromURL(imageURL string) (string, bool) {
	idx := strings.Index(imageURL, "/"+imagePathPrefix+"/")
	if idx < 0 {
		return "", false
	}
	key := imageURL[idx+1:]
	if q := strings.IndexByte(key, '?'); q >= 0 {
		key = key[:q]
	}
	return key, true
}

func validateCreate(input CreateDonationInput) error {
	fields := map[string]string{}
	title := strings.TrimSpace(input.Title)
	if l := len(title); l < 3 || l > 120 {
		fields["title"] = "must be between 3 and 120 characters"
	}
	description := strings.TrimSpace(input.Description)
	if description == "" || len(description) > 2000 {
		fields["description"] = "must be between 1 and 2000 characters"
	}
	if strings.TrimSpace(input.Location) == "" {
		fields["location"] = "is required"
	}
	if !domain.ValidFoodType(input.FoodType) {
		fields["food_type"] = "is not a recognized food type"
	}
	if !domain.ValidQuantity(input.Quantity) {
		fields["quantity"] = "is not a recognized quantity band"
	}
	if input.Expiry.IsZero() {
		fields["expiry"] = "is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
