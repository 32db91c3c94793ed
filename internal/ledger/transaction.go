package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/1kta4/finances/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionFilter narrows ListTransactions. Zero values mean "no filter".
type TransactionFilter struct {
	Type         string
	CategoryID   string
	From         time.Time
	To           time.Time
	Subscription *bool // matches the stored is_subscription flag (occurrences are non-recurring)
	Limit        int
}

// ListTransactions returns transactions newest first with their joined
// category attached. A transaction whose category was hard-deleted keeps a
// nil Category.
func (s *Store) ListTransactions(ctx context.Context, f TransactionFilter) ([]models.Transaction, error) {
	q := s.db.WithContext(ctx).Select(transactionColumns).
		Order("date DESC, created_at DESC")
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.CategoryID != "" {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if !f.From.IsZero() {
		q = q.Where("date >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("date < ?", f.To)
	}
	if f.Subscription != nil {
		q = q.Where("is_subscription = ?", models.Flag(*f.Subscription))
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var out []models.Transaction
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	if err := s.attachCategories(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTransaction returns one transaction by id with its category attached.
func (s *Store) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	var t models.Transaction
	err := s.db.WithContext(ctx).Select(transactionColumns).
		Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	one := []models.Transaction{t}
	if err := s.attachCategories(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// attachCategories resolves category_id references in one batch and joins
// them onto the rows. Unresolvable references stay nil.
func (s *Store) attachCategories(ctx context.Context, txs []models.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(txs))
	seen := make(map[string]bool, len(txs))
	for i := range txs {
		if id := txs[i].CategoryID; id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	var cats []models.Category
	if err := s.db.WithContext(ctx).Select(categoryColumns).
		Where("id IN ?", ids).Find(&cats).Error; err != nil {
		return fmt.Errorf("join categories: %w", err)
	}
	byID := make(map[string]*models.Category, len(cats))
	for i := range cats {
		byID[cats[i].ID] = &cats[i]
	}
	for i := range txs {
		txs[i].Category = byID[txs[i].CategoryID]
	}
	return nil
}

// AddTransaction validates and inserts a transaction. The id is generated
// when empty; the row starts out unsynced.
func (s *Store) AddTransaction(ctx context.Context, t *models.Transaction) error {
	if !t.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", t.Amount)
	}
	if t.Method == "" {
		t.Method = models.MethodCash
	}
	if !models.ValidMethod(t.Method) {
		return fmt.Errorf("unknown payment method %q", t.Method)
	}
	if !models.ValidType(t.Type) {
		return fmt.Errorf("unknown transaction type %q", t.Type)
	}

	cat, err := s.GetCategory(ctx, t.CategoryID)
	if err != nil {
		return err
	}
	// a transaction's type always matches its category's type
	if cat.Type != t.Type {
		return fmt.Errorf("transaction type %q does not match category type %q", t.Type, cat.Type)
	}

	if t.IsSubscription.Bool() && t.ParentID == nil {
		if !models.ValidInterval(t.Interval) {
			return fmt.Errorf("unknown recurrence interval %q", t.Interval)
		}
		if t.Interval == models.IntervalCustom && (t.CustomMonths == nil || *t.CustomMonths < 1) {
			return fmt.Errorf("custom interval requires a positive month count")
		}
	}

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Date.IsZero() {
		t.Date = time.Now()
	}
	t.Synced = false

	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

// TransactionPatch is a partial update; nil fields stay untouched.
type TransactionPatch struct {
	CategoryID     *string
	Type           *string
	Amount         *decimal.Decimal
	ItemName       *string
	Description    *string
	Method         *string
	Date           *time.Time
	Interval       *string
	CustomMonths   *int
	NextOccurrence *time.Time
}

// UpdateTransaction applies a partial update and marks the row unsynced.
func (s *Store) UpdateTransaction(ctx context.Context, id string, p TransactionPatch) error {
	cur, err := s.GetTransaction(ctx, id)
	if err != nil {
		return err
	}

	// resolve the effective category/type pair so a patch cannot introduce
	// a mismatch
	categoryID, typ := cur.CategoryID, cur.Type
	if p.CategoryID != nil {
		categoryID = *p.CategoryID
	}
	if p.Type != nil {
		typ = *p.Type
	}
	if !models.ValidType(typ) {
		return fmt.Errorf("unknown transaction type %q", typ)
	}
	cat, err := s.GetCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	if cat.Type != typ {
		return fmt.Errorf("transaction type %q does not match category type %q", typ, cat.Type)
	}

	updates := map[string]any{"synced": models.Flag(false)}
	if p.CategoryID != nil {
		updates["category_id"] = *p.CategoryID
	}
	if p.Type != nil {
		updates["type"] = *p.Type
	}
	if p.Amount != nil {
		if !p.Amount.IsPositive() {
			return fmt.Errorf("amount must be positive, got %s", p.Amount)
		}
		updates["amount"] = *p.Amount
	}
	if p.ItemName != nil {
		updates["item_name"] = *p.ItemName
	}
	if p.Description != nil {
		updates["description"] = *p.Description
	}
	if p.Method != nil {
		if !models.ValidMethod(*p.Method) {
			return fmt.Errorf("unknown payment method %q", *p.Method)
		}
		updates["method"] = *p.Method
	}
	if p.Date != nil {
		updates["date"] = *p.Date
	}
	if p.Interval != nil {
		if !models.ValidInterval(*p.Interval) {
			return fmt.Errorf("unknown recurrence interval %q", *p.Interval)
		}
		updates["interval"] = *p.Interval
	}
	if p.CustomMonths != nil {
		updates["custom_months"] = *p.CustomMonths
	}
	if p.NextOccurrence != nil {
		updates["next_occurrence"] = *p.NextOccurrence
	}

	if err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return nil
}

// DeleteTransaction removes one transaction by id.
func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Transaction{})
	if res.Error != nil {
		return fmt.Errorf("delete transaction: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTransactionsByParent removes every occurrence generated from the
// given template.
func (s *Store) DeleteTransactionsByParent(ctx context.Context, parentID string) error {
	if err := s.db.WithContext(ctx).Where("parent_id = ?", parentID).
		Delete(&models.Transaction{}).Error; err != nil {
		return fmt.Errorf("delete occurrences: %w", err)
	}
	return nil
}

// ListDueTemplates returns subscription templates whose next occurrence is
// at or before now, earliest first, so the oldest obligations are
// materialized first if processing is interrupted. Child occurrences are
// never returned regardless of their dates.
func (s *Store) ListDueTemplates(ctx context.Context, now time.Time) ([]models.Transaction, error) {
	var out []models.Transaction
	err := s.db.WithContext(ctx).Select(transactionColumns).
		Where("is_subscription = ?", models.Flag(true)).
		Where("parent_id IS NULL").
		Where("next_occurrence IS NOT NULL").
		Where("next_occurrence <= ?", now).
		Order("next_occurrence ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list due templates: %w", err)
	}
	return out, nil
}

// SetNextOccurrence persists a template's advanced schedule.
func (s *Store) SetNextOccurrence(ctx context.Context, id string, next time.Time) error {
	res := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ?", id).Update("next_occurrence", next)
	if res.Error != nil {
		return fmt.Errorf("set next occurrence: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
