package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/1kta4/finances/internal/models"

	"gorm.io/gorm"
)

// GetSettings returns the settings row, creating the default one on first
// access. The first row wins; local storage is single tenant per device.
func (s *Store) GetSettings(ctx context.Context) (*models.Settings, error) {
	var st models.Settings
	err := s.db.WithContext(ctx).Select(settingsColumns).
		Order("id ASC").First(&st).Error
	if err == nil {
		return &st, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	st = models.Settings{
		Currency:     "USD",
		ThemeMode:    "system",
		ThemeColor:   "blue",
		DefaultRange: models.RangeMonth,
	}
	if err := s.db.WithContext(ctx).Create(&st).Error; err != nil {
		return nil, fmt.Errorf("create settings: %w", err)
	}
	return &st, nil
}

// SettingsPatch is a partial update; nil fields stay untouched.
type SettingsPatch struct {
	Currency     *string
	ThemeMode    *string
	ThemeColor   *string
	DefaultRange *string
	LastBackupAt *time.Time
}

// UpdateSettings applies a partial update with upsert semantics: the row is
// created with defaults first if it does not exist yet.
func (s *Store) UpdateSettings(ctx context.Context, p SettingsPatch) (*models.Settings, error) {
	st, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if p.Currency != nil {
		if *p.Currency == "" {
			return nil, fmt.Errorf("currency is empty")
		}
		updates["currency"] = *p.Currency
	}
	if p.ThemeMode != nil {
		updates["theme_mode"] = *p.ThemeMode
	}
	if p.ThemeColor != nil {
		updates["theme_color"] = *p.ThemeColor
	}
	if p.DefaultRange != nil {
		if !models.ValidRange(*p.DefaultRange) {
			return nil, fmt.Errorf("unknown range %q", *p.DefaultRange)
		}
		updates["default_range"] = *p.DefaultRange
	}
	if p.LastBackupAt != nil {
		updates["last_backup_at"] = *p.LastBackupAt
	}
	if len(updates) == 0 {
		return st, nil
	}

	if err := s.db.WithContext(ctx).Model(&models.Settings{}).
		Where("id = ?", st.ID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}
	return s.GetSettings(ctx)
}
