package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/foodshareapp/foodshare-backend/internal/domain"
	"github.com/foodshareapp/foodshare-backend/internal/observability"
)

var (
	ErrDonationNotFound = errors.New("donation not found")

	// ErrStatusConflict means the donation exists but its status no longer
	// matches the expected source state. Typically a lost reservation race.
	ErrStatusConflict = errors.New("donation status conflict")

	// ErrDonorMismatch means the donation exists but belongs to another donor.
	ErrDonorMismatch = errors.New("donation owned by another donor")
)

type DonationRepository interface {
	Create(donation *domain.Donation) error
	FindByID(id uint) (*domain.Donation, error)
	List(scope domain.DonationScope) ([]domain.Donation, error)
	UpdateFields(id uint, updates map[string]any) error
	// UpdateStatus flips id from the expected source status to target in a
	// single conditional statement, so concurrent reservations of the same
	// donation resolve to exactly one winner.
	UpdateStatus(id uint, from, to domain.Status) error
	// DeleteOwnedAvailable removes a donation only while it is still
	// available and owned by donorID.
	DeleteOwnedAvailable(id, donorID uint) error
}

type GormDonationRepository struct{ db *gorm.DB }

func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &GormDonationRepository{db: db}
}

func (r *GormDonationRepository) Create(donation *domain.Donation) error {
	start := time.Now()
	if err := r.db.Create(donation).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), "donation", "create", "error", time.Since(start))
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "donation", "create", "success", time.Since(start))
	return nil
}

func (r *GormDonationRepository) FindByID(id uint) (*domain.Donation, error) {
	start := time.Now()
	var donation domain.Donation
	if err := r.db.First(&donation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "donation", "find_by_id", "not_found", time.Since(start))
			return nil, ErrDonationNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "donation", "find_by_id", "error", time.Since(start))
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "donation", "find_by_id", "success", time.Since(start))
	return &donation, nil
}

func (r *GormDonationRepository) List(scope domain.DonationScope) ([]domain.Donation, error) {
	start := time.Now()
	q := r.db.Model(&domain.Donation{})
	if len(scope.Statuses) > 0 {
		q = q.Where("status IN ?", scope.Statuses)
	}
	if scope.DonorID != nil {
		q = q.Where("donor_id = ?", *scope.DonorID)
	}
	var donations []domain.Donation
	if err := q.Order("created_at DESC, id DESC").Find(&donations).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), "donation", "list", "error", time.Since(start))
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "donation", "list", "success", time.Since(start))
	return donations, nil
}

func (r *GormDonationRepository) UpdateFields(id uint, updates map[string]any) error {
	start := time.Now()
	res := r.db.Model(&domain.Donation{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "donation", "update_fields", "error", time.Since(start))
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(context.Background(), "donation", "update_fields", "not_found", time.Since(start))
		return ErrDonationNotFound
	}
	observability.RecordRepositoryOperation(context.Background(), "donation", "update_fields", "success", time.Since(start))
	return nil
}

func (r *GormDonationRepository) UpdateStatus(id uint, from, to domain.Status) error {
	start := time.Now()
	res := r.db.Model(&domain.Donation{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "donation", "update_status", "error", time.Since(start))
		return res.Error
	}
	if res.RowsAffected == 0 {
		outcome, err := r.classifyMiss(id)
		observability.RecordRepositoryOperation(context.Background(), "donation", "update_status", outcome, time.Since(start))
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "donation", "update_status", "success", time.Since(start))
	return nil
}

func (r *GormDonationRepository) DeleteOwnedAvailable(id, donorID uint) error {
	start := time.Now()
	res := r.db.
		Where("id = ? AND donor_id = ? AND status = ?", id, donorID, domain.StatusAvailable).
		Delete(&domain.Donation{})
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "donation", "delete", "error", time.Since(start))
		return res.Error
	}
	if res.RowsAffected == 0 {
		outcome, err := r.classifyDeleteMiss(id, donorID)
		observability.RecordRepositoryOperation(context.Background(), "donation", "delete", outcome, time.Since(start))
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "donation", "delete", "success", time.Since(start))
	return nil
}

// classifyMiss distinguishes "row gone" from "row present but guarded" after
// a conditional write touched zero rows.
func (r *GormDonationRepository) classifyMiss(id uint) (string, error) {
	var count int64
	if err := r.db.Model(&domain.Donation{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return "error", err
	}
	if count == 0 {
		return "not_found", ErrDonationNotFound
	}
	return "conflict", ErrStatusConflict
}

// classifyDeleteMiss re-reads the row to name which guard stopped the delete:
// the row is gone, it belongs to another donor, or its status moved on.
func (r *GormDonationRepository) classifyDeleteMiss(id, donorID uint) (string, error) {
	var row struct{ DonorID uint }
	err := r.db.Model(&domain.Donation{}).Select("donor_id").Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "not_found", ErrDonationNotFound
	}
	if err != nil {
		return "error", err
	}
	if row.DonorID != donorID {
		return "forbidden", ErrDonorMismatch
	}
	return "conflict", ErrStatusConflict
}
