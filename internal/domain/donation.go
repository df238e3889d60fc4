package domain

import (
	"strings"
	"time"
)

// Status tracks a donation through its lifecycle. The only legal edges are
// available -> reserved and reserved -> completed; completed is terminal.
type Status string

const (
	StatusAvailable Status = "available"
	StatusReserved  Status = "reserved"
	StatusCompleted Status = "completed"
)

func ParseStatus(v string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(v))) {
	case StatusAvailable:
		return StatusAvailable, true
	case StatusReserved:
		return StatusReserved, true
	case StatusCompleted:
		return StatusCompleted, true
	default:
		return "", false
	}
}

func (s Status) Valid() bool {
	return s == StatusAvailable || s == StatusReserved || s == StatusCompleted
}

type Donation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:120;not null" json:"title"`
	Description string    `gorm:"size:2000;not null" json:"description"`
	DonorID     uint      `gorm:"not null;index:idx_donations_donor" json:"donor_id"`
	DonorName   string    `gorm:"size:255;not null" json:"donor_name"`
	Location    string    `gorm:"size:255;not null" json:"location"`
	FoodType    string    `gorm:"size:64;not null" json:"food_type"`
	Quantity    string    `gorm:"size:64;not null" json:"quantity"`
	Expiry      time.Time `gorm:"not null" json:"expiry"`
	Status      Status    `gorm:"size:16;not null;default:available;index:idx_donations_status" json:"status"`
	ImageURL    string    `gorm:"size:2048" json:"image_url"`
	CreatedAt   time.Time `gorm:"index:idx_donations_created_at" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FoodTypes is the catalog offered to donors when listing a donation.
var FoodTypes = []string{
	"Produce",
	"Baked Goods",
	"Canned Goods",
	"Dairy",
	"Prepared Meals",
	"Dry Goods",
	"Beverages",
	"Other",
}

// QuantityBands describes approximate portion counts rather than exact weights.
var QuantityBands = []string{
	"1-5 servings",
	"5-10 servings",
	"10-25 servings",
	"25-50 servings",
	"50+ servings",
}

func ValidFoodType(v string) bool {
	for _, t := range FoodTypes {
		if strings.EqualFold(t, v) {
			return true
		}
	}
	return false
}

func ValidQuantity(v string) bool {
	for _, q := range QuantityBands {
		if strings.EqualFold(q, v) {
			return true
		}
	}
	return false
}
