package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/1kta4/finances/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ListGoals returns all savings goals, oldest first.
func (s *Store) ListGoals(ctx context.Context) ([]models.Goal, error) {
	var out []models.Goal
	if err := s.db.WithContext(ctx).Select(goalColumns).
		Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return out, nil
}

// GetGoal returns one goal by id.
func (s *Store) GetGoal(ctx context.Context, id string) (*models.Goal, error) {
	var g models.Goal
	err := s.db.WithContext(ctx).Select(goalColumns).
		Where("id = ?", id).First(&g).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return &g, nil
}

// AddGoal creates a savings goal.
func (s *Store) AddGoal(ctx context.Context, g *models.Goal) error {
	g.Title = strings.TrimSpace(g.Title)
	if g.Title == "" {
		return fmt.Errorf("goal title is empty")
	}
	if !g.TargetAmount.IsPositive() {
		return fmt.Errorf("target amount must be positive, got %s", g.TargetAmount)
	}
	if g.CurrentAmount.IsNegative() {
		return fmt.Errorf("current amount must not be negative, got %s", g.CurrentAmount)
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(g).Error; err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	return nil
}

// GoalPatch is a partial update; nil fields stay untouched.
type GoalPatch struct {
	Title         *string
	TargetAmount  *decimal.Decimal
	CurrentAmount *decimal.Decimal
	Deadline      *time.Time
}

// UpdateGoal applies a partial update.
func (s *Store) UpdateGoal(ctx context.Context, id string, p GoalPatch) error {
	if _, err := s.GetGoal(ctx, id); err != nil {
		return err
	}

	updates := map[string]any{}
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return fmt.Errorf("goal title is empty")
		}
		updates["title"] = title
	}
	if p.TargetAmount != nil {
		if !p.TargetAmount.IsPositive() {
			return fmt.Errorf("target amount must be positive, got %s", p.TargetAmount)
		}
		updates["target_amount"] = *p.TargetAmount
	}
	if p.CurrentAmount != nil {
		if p.CurrentAmount.IsNegative() {
			return fmt.Errorf("current amount must not be negative, got %s", p.CurrentAmount)
		}
		updates["current_amount"] = *p.CurrentAmount
	}
	if p.Deadline != nil {
		updates["deadline"] = *p.Deadline
	}
	if len(updates) == 0 {
		return nil
	}

	if err := s.db.WithContext(ctx).Model(&models.Goal{}).
		Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return nil
}

// DeleteGoal removes one goal by id.
func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Goal{})
	if res.Error != nil {
		return fmt.Errorf("delete goal: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
