// Package ledger owns the on-device ledger database: categories,
// transactions, goals and settings. All reads project explicit column
// lists (the table carries internal bookkeeping columns that must not leak)
// and every boolean column passes through the models.Flag coercion rule.
package ledger

import (
	"context"
	"fmt"

	"github.com/1kta4/finances/internal/models"

	"gorm.io/gorm"
)

// Explicit projections for every read path. Wildcard selects are forbidden:
// the transactions table carries a synced flag that is internal to the
// store, and the driver infers types less predictably on wildcard reads.
var (
	categoryColumns = []string{"id", "name", "type", "is_custom", "created_at"}

	transactionColumns = []string{
		"id", "category_id", "type", "amount", "item_name", "description",
		"method", "date", "is_subscription", "interval", "custom_months",
		"parent_id", "next_occurrence", "created_at", "updated_at",
	}

	goalColumns = []string{
		"id", "title", "target_amount", "current_amount", "deadline",
		"created_at", "updated_at",
	}

	settingsColumns = []string{
		"id", "currency", "theme_mode", "theme_color", "default_range",
		"last_backup_at", "updated_at",
	}
)

// Store is the local ledger store. It assumes a single writer (one
// foreground application instance per device); there is no row versioning
// or optimistic concurrency.
type Store struct {
	db *gorm.DB
}

// NewStore wraps an initialized gorm handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// InTx runs fn against a store bound to one database transaction.
func (s *Store) InTx(fn func(tx *Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// EnsureDefaults seeds the default categories and the settings row, each
// only if none exist yet. Idempotent; called at startup and after ClearAll.
func (s *Store) EnsureDefaults(ctx context.Context) error {
	db := s.db.WithContext(ctx)

	var categories int64
	if err := db.Model(&models.Category{}).
		Where("is_custom = ?", models.Flag(false)).
		Count(&categories).Error; err != nil {
		return fmt.Errorf("count default categories: %w", err)
	}
	if categories == 0 {
		if err := db.Create(defaultCategories()).Error; err != nil {
			return fmt.Errorf("seed default categories: %w", err)
		}
	}

	var settings int64
	if err := db.Model(&models.Settings{}).Count(&settings).Error; err != nil {
		return fmt.Errorf("count settings: %w", err)
	}
	if settings == 0 {
		if err := db.Create(&models.Settings{
			Currency:     "USD",
			ThemeMode:    "system",
			ThemeColor:   "blue",
			DefaultRange: models.RangeMonth,
		}).Error; err != nil {
			return fmt.Errorf("seed settings: %w", err)
		}
	}
	return nil
}

func defaultCategories() []models.Category {
	var out []models.Category
	for _, name := range models.DefaultSpendingCategories {
		out = append(out, models.Category{
			ID:   models.DefaultCategoryID(models.TypeSpending, name),
			Name: name,
			Type: models.TypeSpending,
		})
	}
	for _, name := range models.DefaultEarningCategories {
		out = append(out, models.Category{
			ID:   models.DefaultCategoryID(models.TypeEarning, name),
			Name: name,
			Type: models.TypeEarning,
		})
	}
	return out
}

// ClearAll resets the device data: every transaction and goal is deleted,
// custom categories are removed and the default categories re-seeded.
func (s *Store) ClearAll(ctx context.Context) error {
	return s.InTx(func(tx *Store) error {
		db := tx.db.WithContext(ctx)
		if err := db.Where("1 = 1").Delete(&models.Transaction{}).Error; err != nil {
			return fmt.Errorf("clear transactions: %w", err)
		}
		if err := db.Where("1 = 1").Delete(&models.Goal{}).Error; err != nil {
			return fmt.Errorf("clear goals: %w", err)
		}
		if err := db.Where("is_custom = ?", models.Flag(true)).
			Delete(&models.Category{}).Error; err != nil {
			return fmt.Errorf("clear custom categories: %w", err)
		}
		return tx.EnsureDefaults(ctx)
	})
}

// ImportLedger bulk-inserts rows fetched from the remote peer, keeping
// their identifiers and marking transactions as already synced. Rows are
// trusted as-is; they were validated when first written.
func (s *Store) ImportLedger(ctx context.Context, categories []models.Category, transactions []models.Transaction, goals []models.Goal) error {
	return s.InTx(func(tx *Store) error {
		db := tx.db.WithContext(ctx)
		if len(categories) > 0 {
			if err := db.CreateInBatches(categories, 100).Error; err != nil {
				return fmt.Errorf("import categories: %w", err)
			}
		}
		if len(transactions) > 0 {
			for i := range transactions {
				transactions[i].Synced = true
			}
			if err := db.CreateInBatches(transactions, 100).Error; err != nil {
				return fmt.Errorf("import transactions: %w", err)
			}
		}
		if len(goals) > 0 {
			if err := db.CreateInBatches(goals, 100).Error; err != nil {
				return fmt.Errorf("import goals: %w", err)
			}
		}
		return nil
	})
}

// MarkAllSynced flags every transaction as backed up. Called after a
// successful push.
func (s *Store) MarkAllSynced(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("synced = ?", models.Flag(false)).
		Update("synced", models.Flag(true)).Error; err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	return nil
}
