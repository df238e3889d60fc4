package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/foodshareapp/foodshare-backend/internal/domain"
	"github.com/foodshareapp/foodshare-backend/internal/security"
)

func newTokenFixture() *TokenService {
	jwtMgr := security.NewJWTManager("foodshare-backend", "foodshare-api",
		strings.Repeat("a", 32), strings.Repeat("b", 32))
	return NewTokenService(jwtMgr, 15*time.Minute, 168*time.Hour)
}

func TestTokenServiceIssueAndRotate(t *testing.T) {
	svc := newTokenFixture()
	user := &domain.User{ID: 42, Role: domain.RoleVolunteer}

	access, refresh, csrf, err := svc.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if access == "" || refresh == "" || csrf == "" {
		t.Fatal("expected non-empty token triple")
	}

	fetched := false
	newAccess, newRefresh, _, uid, err := svc.Rotate(refresh, func(id uint) (*domain.User, error) {
		fetched = true
		if id != 42 {
			t.Fatalf("rotate resolved wrong user %d", id)
		}
		return user, nil
	})
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if !fetched || uid != 42 {
		t.Fatal("rotate must re-fetch the user")
	}
	if newAccess == "" || newRefresh == "" {
		t.Fatal("expected fresh tokens after rotation")
	}
}

func TestTokenServiceRotateRejectsAccessToken(t *testing.T) {
	svc := newTokenFixture()
	access, _, _, err := svc.Issue(&domain.User{ID: 42, Role: domain.RoleVolunteer})
	if err != nil {
		t.Fatal(err)
	}

	// Access and refresh tokens are signed with different secrets; one can
	// never stand in for the other.
	_, _, _, _, err = svc.Rotate(access, func(id uint) (*domain.User, error) {
		t.Fatal("user fetcher must not run for a bad token")
		return nil, nil
	})
	if !errors.Is(err, security.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
