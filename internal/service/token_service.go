package service

import (
	"time"

	"github.com/foodshareapp/foodshare-backend/internal/domain"
	"github.com/foodshareapp/foodshare-backend/internal/security"
)

// TokenService mints the access/refresh/CSRF token triple. Tokens are
// stateless; a refresh is valid until its expiry and logout relies on the
// client dropping its cookies.
type TokenService struct {
	jwtMgr     *security.JWTManager
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(jwtMgr *security.JWTManager, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{jwtMgr: jwtMgr, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (s *TokenService) Issue(user *domain.User) (access string, refresh string, csrf string, err error) {
	access, err = s.jwtMgr.SignAccessToken(user.ID, string(user.Role), s.accessTTL)
	if err != nil {
		return "", "", "", err
	}
	refresh, err = s.jwtMgr.SignRefreshToken(user.ID, s.refreshTTL)
	if err != nil {
		return "", "", "", err
	}
	csrf, err = security.NewRandomString(32)
	if err != nil {
		return "", "", "", err
	}
	return access, refresh, csrf, nil
}

// Rotate validates a refresh token and issues a fresh triple for its user.
func (s *TokenService) Rotate(refreshToken string, userFetcher func(id uint) (*domain.User, error)) (access string, newRefresh string, csrf string, userID uint, err error) {
	userID, err = s.jwtMgr.ParseRefreshToken(refreshToken)
	if err != nil {
		return "", "", "", 0, err
	}
	user, err := userFetcher(userID)
	if err != nil {
		return "", "", "", 0, err
	}
	access, newRefresh, csrf, err = s.Issue(user)
	if err != nil {
		return "", "", "", 0, err
	}
	return access, newRefresh, csrf, userID, nil
}

func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }
