package models

import "time"

// Reporting ranges for balance and category aggregations.
const (
	RangeWeek  = "week"
	RangeMonth = "month"
	RangeYear  = "year"
	RangeAll   = "all"
)

// Settings is the singleton per-device settings row. Theme fields are
// stored for the client but carry no meaning here. The store treats the
// first row as the settings record (single tenant per device).
type Settings struct {
	ID           uint       `gorm:"primaryKey" json:"-"`
	Currency     string     `gorm:"size:8;not null;default:USD" json:"currency"`
	ThemeMode    string     `gorm:"size:16;not null;default:system" json:"theme_mode"`
	ThemeColor   string     `gorm:"size:16;not null;default:blue" json:"theme_color"`
	DefaultRange string     `gorm:"size:16;not null;default:month" json:"default_range"` // week / month / year / all
	LastBackupAt *time.Time `json:"last_backup_at,omitempty"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ValidRange reports whether r is a known reporting range.
func ValidRange(r string) bool {
	switch r {
	case RangeWeek, RangeMonth, RangeYear, RangeAll:
		return true
	}
	return false
}
