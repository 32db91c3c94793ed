package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment methods.
const (
	MethodCash = "cash"
	MethodCard = "card"
)

// Recurrence intervals for subscription templates.
const (
	IntervalTwoWeeks = "2weeks"
	IntervalMonth    = "month"
	IntervalYear     = "year"
	IntervalCustom   = "custom"
)

// Transaction represents a single ledger row.
//
// A subscription template is a transaction with IsSubscription set and no
// ParentID; it owns the NextOccurrence schedule. Occurrences generated from
// a template are ordinary transactions that reference the template through
// ParentID and are never themselves recurring.
type Transaction struct {
	ID             string          `gorm:"primaryKey;size:36" json:"id"`
	CategoryID     string          `gorm:"size:36;index;not null" json:"category_id"`
	Type           string          `gorm:"size:16;index;not null" json:"type"` // spending / earning, matches category
	Amount         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	ItemName       string          `gorm:"size:128" json:"item_name"`
	Description    string          `gorm:"size:255" json:"description"`
	Method         string          `gorm:"size:16;not null;default:cash" json:"method"` // cash / card
	Date           time.Time       `gorm:"index;not null" json:"date"`
	IsSubscription Flag            `gorm:"type:integer;not null;default:0" json:"is_subscription"`
	Interval       string          `gorm:"size:16" json:"interval,omitempty"`
	CustomMonths   *int            `json:"custom_months,omitempty"` // required iff Interval == custom
	ParentID       *string         `gorm:"size:36;index" json:"parent_id,omitempty"`
	NextOccurrence *time.Time      `gorm:"index" json:"next_occurrence,omitempty"`
	Synced         Flag            `gorm:"type:integer;not null;default:0" json:"-"` // internal bookkeeping, never exposed
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// Category is a read-time join resolved through CategoryID; nil when the
	// referenced category no longer exists.
	Category *Category `gorm:"-:all" json:"category,omitempty"`
}

// IsTemplate reports whether t is a subscription template rather than a
// plain transaction or a generated occurrence.
func (t *Transaction) IsTemplate() bool {
	return t.IsSubscription.Bool() && t.ParentID == nil
}

// ValidMethod reports whether m is a known payment method.
func ValidMethod(m string) bool {
	return m == MethodCash || m == MethodCard
}

// ValidInterval reports whether iv is a known recurrence interval.
func ValidInterval(iv string) bool {
	switch iv {
	case IntervalTwoWeeks, IntervalMonth, IntervalYear, IntervalCustom:
		return true
	}
	return false
}
