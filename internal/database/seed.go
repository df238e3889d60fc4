package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/foodshareapp/foodshare-backend/internal/domain"
	"github.com/foodshareapp/foodshare-backend/internal/security"

	"gorm.io/gorm"
)

// SeedReport summarizes what a seeding pass created, so repeated runs can be
// verified as no-ops.
type SeedReport struct {
	CreatedUsers     int  `json:"created_users"`
	CreatedDonations int  `json:"created_donations"`
	Noop             bool `json:"noop"`
}

type seedUser struct {
	Username string
	Email    string
	Name     string
	Role     domain.Role
	Password string
}

var demoUsers = []seedUser{
	{Username: "greenmarket", Email: "donor@foodshare.local", Name: "Green Market Co-op", Role: domain.RoleDonor, Password: "DonorPass1!"},
	{Username: "hopekitchen", Email: "recipient@foodshare.local", Name: "Hope Community Kitchen", Role: domain.RoleRecipient, Password: "RecipPass1!"},
	{Username: "cityrunner", Email: "volunteer@foodshare.local", Name: "City Route Volunteers", Role: domain.RoleVolunteer, Password: "VolunPass1!"},
}

// Seed inserts demo accounts and a handful of donations in each lifecycle
// state. Existing rows are left untouched, so it is safe to run on every
// startup of a development environment.
func Seed(db *gorm.DB) (*SeedReport, error) {
	report := &SeedReport{}

	users := make(map[domain.Role]*domain.User, len(demoUsers))
	for _, su := range demoUsers {
		var u domain.User
		err := db.Where("email = ?", strings.ToLower(su.Email)).First(&u).Error
		if err == nil {
			users[su.Role] = &u
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("seed lookup %s: %w", su.Email, err)
		}
		hash, err := security.HashPassword(su.Password)
		if err != nil {
			return nil, fmt.Errorf("seed hash password: %w", err)
		}
		u = domain.User{
			Username:     su.Username,
			Email:        strings.ToLower(su.Email),
			Name:         su.Name,
			Role:         su.Role,
			PasswordHash: hash,
		}
		if err := db.Create(&u).Error; err != nil {
			return nil, fmt.Errorf("seed create %s: %w", su.Email, err)
		}
		users[su.Role] = &u
		report.CreatedUsers++
	}

	donor := users[domain.RoleDonor]
	if donor != nil {
		created, err := seedDonations(db, donor)
		if err != nil {
			return nil, err
		}
		report.CreatedDonations = created
	}

	report.Noop = report.CreatedUsers == 0 && report.CreatedDonations == 0
	return report, nil
}

func seedDonations(db *gorm.DB, donor *domain.User) (int, error) {
	var count int64
	if err := db.Model(&domain.Donation{}).Where("donor_id = ?", donor.ID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("seed count donations: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	samples := []domain.Donation{
		{
			Title:       "Surplus bread and pastries",
			Description: "Day-old sourdough loaves and assorted pastries from this morning's bake. All individually bagged.",
			Location:    "Green Market Co-op, 14 Harbor St",
			FoodType:    "Baked Goods",
			Quantity:    "10-25 servings",
			Expiry:      now.Add(36 * time.Hour),
			Status:      domain.StatusAvailable,
		},
		{
			Title:       "Canned vegetables pallet",
			Description: "Mixed canned corn, beans and tomatoes. Labels intact, well within date.",
			Location:    "Green Market Co-op warehouse dock B",
			FoodType:    "Canned Goods",
			Quantity:    "50+ servings",
			Expiry:      now.Add(90 * 24 * time.Hour),
			Status:      domain.StatusReserved,
		},
		{
			Title:       "Prepared lunch trays",
			Description: "Refrigerated pasta trays from a cancelled catering order. Kept below 4C since preparation.",
			Location:    "Green Market Co-op kitchen entrance",
			FoodType:    "Prepared Meals",
			Quantity:    "25-50 servings",
			Expiry:      now.Add(12 * time.Hour),
			Status:      domain.StatusCompleted,
		},
	}

	created := 0
	for i := range samples {
		samples[i].DonorID = donor.ID
		samples[i].DonorName = donor.Name
		if err := db.Create(&samples[i]).Error; err != nil {
			return created, fmt.Errorf("seed create donation %q: %w", samples[i].Title, err)
		}
		created++
	}
	return created, nil
}
