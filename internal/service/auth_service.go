package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/foodshareapp/foodshare-backend/internal/config"
	"github.com/foodshareapp/foodshare-backend/internal/domain"
	"github.com/foodshareapp/foodshare-backend/internal/observability"
	"github.com/foodshareapp/foodshare-backend/internal/repository"
	"github.com/foodshareapp/foodshare-backend/internal/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("role must be donor, recipient or volunteer")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrWeakPassword       = errors.New("password does not meet policy requirements")
	ErrInvalidRefresh     = errors.New("invalid or expired refresh token")
)

var (
	usernameRe  = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]{2,63}$`)
	uppercaseRe = regexp.MustCompile(`[A-Z]`)
	lowercaseRe = regexp.MustCompile(`[a-z]`)
	digitRe     = regexp.MustCompile(`[0-9]`)
)

type SignupInput struct {
	Username string
	Email    string
	Name     string
	Password string
	Role     string
}

type LoginResult struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"-"`
	RefreshToken string       `json:"-"`
	CSRFToken    string       `json:"csrf_token,omitempty"`
	ExpiresAt    time.Time    `json:"expires_at,omitempty"`
}

type AuthService struct {
	cfg      *config.Config
	tokenSvc *TokenService
	userRepo repository.UserRepository
}

func NewAuthService(cfg *config.Config, tokenSvc *TokenService, userRepo repository.UserRepository) *AuthService {
	return &AuthService{cfg: cfg, tokenSvc: tokenSvc, userRepo: userRepo}
}

func (s *AuthService) Signup(input SignupInput) (*LoginResult, error) {
	username := strings.TrimSpace(strings.ToLower(input.Username))
	email := strings.TrimSpace(strings.ToLower(input.Email))
	name := strings.TrimSpace(input.Name)

	role, ok := domain.ParseRole(input.Role)
	if !ok {
		observability.RecordAuthSignup(context.Background(), input.Role, "bad_request")
		return nil, ErrInvalidRole
	}
	if err := validateEmail(email); err != nil {
		observability.RecordAuthSignup(context.Background(), string(role), "bad_request")
		return nil, &ValidationError{Fields: map[string]string{"email": err.Error()}}
	}
	if !usernameRe.MatchString(username) {
		observability.RecordAuthSignup(context.Background(), string(role), "bad_request")
		return nil, &ValidationError{Fields: map[string]string{"username": "must be 3-64 chars of lowercase letters, digits, '.', '-' or '_'"}}
	}
	if name == "" {
		name = username
	}
	if err := validatePassword(input.Password); err != nil {
		observability.RecordAuthSignup(context.Background(), string(role), "bad_request")
		return nil, err
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		observability.RecordAuthSignup(context.Background(), string(role), "conflict")
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.FindByUsername(username); err == nil {
		observability.RecordAuthSignup(context.Background(), string(role), "conflict")
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Username:     username,
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(user); err != nil {
		observability.RecordAuthSignup(context.Background(), string(role), "error")
		return nil, err
	}

	observability.RecordAuthSignup(context.Background(), string(role), "success")
	return s.issue(user)
}

func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			observability.RecordAuthLogin(context.Background(), "invalid_credentials")
			return nil, ErrInvalidCredentials
		}
		observability.RecordAuthLogin(context.Background(), "error")
		return nil, err
	}
	ok, err := security.VerifyPassword(user.PasswordHash, password)
	if err != nil {
		observability.RecordAuthLogin(context.Background(), "error")
		return nil, err
	}
	if !ok {
		observability.RecordAuthLogin(context.Background(), "invalid_credentials")
		return nil, ErrInvalidCredentials
	}
	observability.RecordAuthLogin(context.Background(), "success")
	return s.issue(user)
}

func (s *AuthService) Refresh(refreshToken string) (*LoginResult, error) {
	access, newRefresh, csrf, uid, err := s.tokenSvc.Rotate(refreshToken, s.userRepo.FindByID)
	if err != nil {
		observability.RecordAuthRefresh(context.Background(), "denied")
		if errors.Is(err, security.ErrInvalidToken) || errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}
	user, err := s.userRepo.FindByID(uid)
	if err != nil {
		return nil, err
	}
	observability.RecordAuthRefresh(context.Background(), "success")
	return &LoginResult{
		User:         user,
		AccessToken:  access,
		RefreshToken: newRefresh,
		CSRFToken:    csrf,
		ExpiresAt:    time.Now().Add(s.cfg.JWTAccessTTL),
	}, nil
}

// Logout is a cookie-clearing affair on the transport side; tokens are
// stateless so there is nothing to revoke server side.
func (s *AuthService) Logout(userID uint) error {
	observability.RecordAuthLogout(context.Background(), "success")
	return nil
}

func (s *AuthService) issue(user *domain.User) (*LoginResult, error) {
	access, refresh, csrf, err := s.tokenSvc.Issue(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		CSRFToken:    csrf,
		ExpiresAt:    time.Now().Add(s.cfg.JWTAccessTTL),
	}, nil
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid email")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 10 || !uppercaseRe.MatchString(password) ||
		!lowercaseRe.MatchString(password) || !digitRe.MatchString(password) {
		return ErrWeakPassword
	}
	return nil
}
