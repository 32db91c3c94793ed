package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal represents a savings goal. CurrentAmount is advanced manually by the
// user; it is not derived from transactions.
type Goal struct {
	ID            string          `gorm:"primaryKey;size:36" json:"id"`
	Title         string          `gorm:"size:128;not null" json:"title"`
	TargetAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"target_amount"`
	CurrentAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"current_amount"`
	Deadline      *time.Time      `json:"deadline,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
