package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction/category types.
const (
	TypeSpending = "spending"
	TypeEarning  = "earning"
)

// Category represents a spending or earning category.
// Non-custom categories are seeded by the system and can never be renamed
// or deleted, so an "Other" fallback always exists for each type.
type Category struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:64;not null" json:"name"`
	Type      string    `gorm:"size:16;index;not null" json:"type"` // spending / earning
	IsCustom  Flag      `gorm:"type:integer;not null;default:0" json:"is_custom"`
	CreatedAt time.Time `json:"created_at"`
}

// Default category names seeded at database initialization.
var (
	DefaultSpendingCategories = []string{
		"Food", "Transport", "Shopping", "Entertainment",
		"Health", "Bills", "Education", "Other",
	}
	DefaultEarningCategories = []string{
		"Salary", "Business", "Investment", "Gifts", "Refunds", "Other",
	}
)

// DefaultCategoryID returns a deterministic identifier for a seeded
// category. Default categories must keep the same id on every device, or
// transactions restored from a backup would no longer resolve to them.
func DefaultCategoryID(typ, name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("category/"+typ+"/"+name)).String()
}

// ValidType reports whether typ is a known transaction/category type.
func ValidType(typ string) bool {
	return typ == TypeSpending || typ == TypeEarning
}
