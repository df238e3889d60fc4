package service

import (
	"context"
	"time"

	"github.com/foodshareapp/foodshare-backend/internal/domain"
)

type AuthServiceInterface interface {
	Signup(input SignupInput) (*LoginResult, error)
	Login(email, password string) (*LoginResult, error)
	Refresh(refreshToken string) (*LoginResult, error)
	Logout(userID uint) error
}

type DonationServiceInterface interface {
	Create(ctx context.Context, actor domain.Actor, input CreateDonationInput) (*domain.Donation, error)
	List(ctx context.Context, viewer domain.Viewer, status *domain.Status, donorID *uint) ([]domain.Donation, error)
	GetByID(ctx context.Context, viewer domain.Viewer, id uint) (*domain.Donation, error)
	Update(ctx context.Context, actor domain.Actor, id uint, input UpdateDonationInput) (*domain.Donation, error)
	UpdateStatus(ctx context.Context, actor domain.Actor, id uint, target domain.Status) (*domain.Donation, error)
	Delete(ctx context.Context, actor domain.Actor, id uint) error
	CheckImage(ctx context.Context, payload string) (*ImageCheck, error)
}

type UserServiceInterface interface {
	GetByID(id uint) (*domain.User, error)
	PublicProfile(id uint) (*PublicProfile, error)
}

// ShelfLifeAnalyzer estimates how long a listed donation stays safe to hand
// out. Implementations may call an external model; the dev implementation is
// deterministic.
type ShelfLifeAnalyzer interface {
	Analyze(ctx context.Context, foodType string, expiry time.Time) (*ShelfLifeReport, error)
}
