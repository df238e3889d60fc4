package service

import (
	"fmt"
	"time"

	"github.com/foodshareapp/foodshare-backend/internal/domain"
	"github.com/foodshareapp/foodshare-backend/internal/repository"
)

// PublicProfile is the subset of a user safe to show to other members.
type PublicProfile struct {
	ID        uint        `json:"id"`
	Username  string      `json:"username"`
	Name      string      `json:"name"`
	Role      domain.Role `json:"role"`
	MemberFor string      `json:"member_for"`
}

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetByID(id uint) (*domain.User, error) {
	return s.userRepo.FindByID(id)
}

func (s *UserService) PublicProfile(id uint) (*PublicProfile, error) {
	u, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	return &PublicProfile{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Role:      u.Role,
		MemberFor: memberFor(u.CreatedAt),
	}, nil
}

func memberFor(since time.Time) string {
	d := time.Since(since)
	switch {
	case d < 24*time.Hour:
		return "less than a day"
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%d days", int(d.Hours()/24))
	case d < 365*24*time.Hour:
		return fmt.Sprintf("%d months", int(d.Hours()/(24*30)))
	default:
		return fmt.Sprintf("%d years", int(d.Hours()/(24*365)))
	}
}
