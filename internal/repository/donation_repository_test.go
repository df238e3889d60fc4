package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/foodshareapp/foodshare-backend/internal/domain"
)

func seedDonation(t *testing.T, repo DonationRepository, donorID uint, status domain.Status, createdAt time.Time) *domain.Donation {
	t.Helper()
	d := &domain.Donation{
		Title:       fmt.Sprintf("Donation %d", createdAt.UnixNano()),
		Description: "desc",
		DonorID:     donorID,
		DonorName:   "Donor",
		Location:    "Community Center",
		FoodType:    "Produce",
		Quantity:    "5-10 servings",
		Expiry:      createdAt.Add(72 * time.Hour),
		Status:      status,
		CreatedAt:   createdAt,
	}
	if err := repo.Create(d); err != nil {
		t.Fatalf("create donation: %v", err)
	}
	return d
}

func TestDonationRepositoryListOrdersNewestFirst(t *testing.T) {
	db := newRepositoryDBForTest(t)
	if err := db.AutoMigrate(&domain.Donation{}); err != nil {
		t.Fatalf("migrate donation: %v", err)
	}
	repo := NewDonationRepository(db)

	base := time.Now().Add(-time.Hour)
	oldest := seedDonation(t, repo, 1, domain.StatusAvailable, base)
	middle := seedDonation(t, repo, 2, domain.StatusReserved, base.Add(time.Minute))
	newest := seedDonation(t, repo, 1, domain.StatusAvailable, base.Add(2*time.Minute))

	all, err := repo.List(domain.DonationScope{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 donations, got %d", len(all))
	}
	if all[0].ID != newest.ID || all[1].ID != middle.ID || all[2].ID != oldest.ID {
		t.Fatalf("unexpected order: %d, %d, %d", all[0].ID, all[1].ID, all[2].ID)
	}
}

func TestDonationRepositoryListAppliesScope(t *testing.T) {
	db := newRepositoryDBForTest(t)
	if err := db.AutoMigrate(&domain.Donation{}); err != nil {
		t.Fatalf("migrate donation: %v", err)
	}
	repo := NewDonationRepository(db)

	base := time.Now().Add(-time.Hour)
	mine := seedDonation(t, repo, 1, domain.StatusAvailable, base)
	seedDonation(t, repo, 2, domain.StatusReserved, base.Add(time.Minute))
	seedDonation(t, repo, 2, domain.StatusCompleted, base.Add(2*time.Minute))

	donorID := uint(1)
	own, err := repo.List(domain.DonationScope{DonorID: &donorID})
	if err != nil {
		t.Fatalf("list own: %v", err)
	}
	if len(own) != 1 || own[0].ID != mine.ID {
		t.Fatalf("expected only donor 1 listings, got %+v", own)
	}

	workQueue, err := repo.List(domain.DonationScope{Statuses: []domain.Status{domain.StatusReserved, domain.StatusCompleted}})
	if err != nil {
		t.Fatalf("list work queue: %v", err)
	}
	if len(workQueue) != 2 {
		t.Fatalf("expected 2 reserved/completed donations, got %d", len(workQueue))
	}
	for _, d := range workQueue {
		if d.Status == domain.StatusAvailable {
			t.Fatalf("available donation leaked into status scope: %+v", d)
		}
	}
}

func TestDonationRepositoryUpdateStatusConditional(t *testing.T) {
	db := newRepositoryDBForTest(t)
	if err := db.AutoMigrate(&domain.Donation{}); err != nil {
		t.Fatalf("migrate donation: %v", err)
	}
	repo := NewDonationRepository(db)

	d := seedDonation(t, repo, 1, domain.StatusAvailable, time.Now())

	if err := repo.UpdateStatus(d.ID, domain.StatusAvailable, domain.StatusReserved); err != nil {
		t.Fatalf("first reserve: %v", err)
	}

	// Second caller expecting the old source state loses the race.
	if err := repo.UpdateStatus(d.ID, domain.StatusAvailable, domain.StatusReserved); !errors.Is(err, ErrStatusConflict) {
		t.Fatalf("expected ErrStatusConflict, got %v", err)
	}

	if err := repo.UpdateStatus(999, domain.StatusAvailable, domain.StatusReserved); !errors.Is(err, ErrDonationNotFound) {
		t.Fatalf("expected ErrDonationNotFound, got %v", err)
	}

	loaded, err := repo.FindByID(d.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if loaded.Status != domain.StatusReserved {
		t.Fatalf("expected reserved, got %s", loaded.Status)
	}
}

func TestDonationRepositoryDeleteGuards(t *testing.T) {
	db := newRepositoryDBForTest(t)
	if err := db.AutoMigrate(&domain.Donation{}); err != nil {
		t.Fatalf("migrate donation: %v", err)
	}
	repo := NewDonationRepository(db)

	available := seedDonation(t, repo, 1, domain.StatusAvailable, time.Now())
	reserved := seedDonation(t, repo, 1, domain.StatusReserved, time.Now())

	// A foreign owner is named as such, not folded into the status conflict.
	if err := repo.DeleteOwnedAvailable(available.ID, 2); !errors.Is(err, ErrDonorMismatch) {
		t.Fatalf("expected donor mismatch for foreign owner, got %v", err)
	}
	if err := repo.DeleteOwnedAvailable(reserved.ID, 1); !errors.Is(err, ErrStatusConflict) {
		t.Fatalf("expected conflict for reserved donation, got %v", err)
	}
	if err := repo.DeleteOwnedAvailable(999, 1); !errors.Is(err, ErrDonationNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := repo.DeleteOwnedAvailable(available.ID, 1); err != nil {
		t.Fatalf("delete owned available: %v", err)
	}
	if _, err := repo.FindByID(available.ID); !errors.Is(err, ErrDonationNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestDonationRepositoryUpdateFields(t *testing.T) {
	db := newRepositoryDBForTest(t)
	if err := db.AutoMigrate(&domain.Donation{}); err != nil {
		t.Fatalf("migrate donation: %v", err)
	}
	repo := NewDonationRepository(db)

	d := seedDonation(t, repo, 1, domain.StatusAvailable, time.Now())
	if err := repo.UpdateFields(d.ID, map[string]any{"title": "Fresh Bread", "location": "North Shelter"}); err != nil {
		t.Fatalf("update fields: %v", err)
	}
	loaded, err := repo.FindByID(d.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if loaded.Title != "Fresh Bread" || loaded.Location != "North Shelter" {
		t.Fatalf("unexpected donation after update: %+v", loaded)
	}

	if err := repo.UpdateFields(999, map[string]any{"title": "x"}); !errors.Is(err, ErrDonationNotFound) {
		t.Fatalf("expected not found on update, got %v", err)
	}
}

func TestUserRepositoryLookups(t *testing.T) {
	db := newRepositoryDBForTest(t)
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("migrate user: %v", err)
	}
	repo := NewUserRepository(db)

	u := &domain.User{
		Username:     "greenmarket",
		Email:        "owner@greenmarket.example",
		Name:         "Green Market",
		Role:         domain.RoleDonor,
		PasswordHash: "hash",
	}
	if err := repo.Create(u); err != nil {
		t.Fatalf("create user: %v", err)
	}

	byEmail, err := repo.FindByEmail("owner@greenmarket.example")
	if err != nil || byEmail.ID != u.ID {
		t.Fatalf("find by email: %v %+v", err, byEmail)
	}
	byUsername, err := repo.FindByUsername("greenmarket")
	if err != nil || byUsername.ID != u.ID {
		t.Fatalf("find by username: %v %+v", err, byUsername)
	}
	if _, err := repo.FindByID(999); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	dup := &domain.User{
		Username:     "greenmarket",
		Email:        "other@greenmarket.example",
		Name:         "Dup",
		Role:         domain.RoleDonor,
		PasswordHash: "hash",
	}
	if err := repo.Create(dup); err == nil {
		t.Fatal("expected unique constraint violation for duplicate username")
	}
}
