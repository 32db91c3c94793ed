package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/1kta4/finances/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListCategories returns categories, optionally filtered by type.
// Defaults come first, then custom categories, each in creation order.
func (s *Store) ListCategories(ctx context.Context, typ string) ([]models.Category, error) {
	q := s.db.WithContext(ctx).Select(categoryColumns).
		Order("is_custom ASC, created_at ASC")
	if typ != "" {
		if !models.ValidType(typ) {
			return nil, fmt.Errorf("unknown category type %q", typ)
		}
		q = q.Where("type = ?", typ)
	}
	var out []models.Category
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

// GetCategory returns one category by id.
func (s *Store) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	var cat models.Category
	err := s.db.WithContext(ctx).Select(categoryColumns).
		Where("id = ?", id).First(&cat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &cat, nil
}

// AddCategory creates a user-defined category.
func (s *Store) AddCategory(ctx context.Context, name, typ string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("category name is empty")
	}
	if len(name) > 64 {
		return nil, fmt.Errorf("category name too long")
	}
	if !models.ValidType(typ) {
		return nil, fmt.Errorf("unknown category type %q", typ)
	}

	cat := models.Category{
		ID:        uuid.NewString(),
		Name:      name,
		Type:      typ,
		IsCustom:  true,
		CreatedAt: time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&cat).Error; err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &cat, nil
}

// RenameCategory changes the display name of a custom category.
// Default categories are protected.
func (s *Store) RenameCategory(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("category name is empty")
	}

	cat, err := s.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	if !cat.IsCustom.Bool() {
		return ErrProtectedCategory
	}

	if err := s.db.WithContext(ctx).Model(&models.Category{}).
		Where("id = ?", id).Update("name", name).Error; err != nil {
		return fmt.Errorf("rename category: %w", err)
	}
	return nil
}

// DeleteCategory removes a custom category. Default categories are
// protected, and a category still referenced by transactions cannot be
// deleted.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	cat, err := s.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	if !cat.IsCustom.Bool() {
		return ErrProtectedCategory
	}

	inUse, err := s.CategoryInUse(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return ErrCategoryInUse
	}

	if err := s.db.WithContext(ctx).Where("id = ?", id).
		Delete(&models.Category{}).Error; err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// CategoryInUse reports whether any transaction references the category.
func (s *Store) CategoryInUse(ctx context.Context, id string) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("category_id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count category references: %w", err)
	}
	return n > 0, nil
}
