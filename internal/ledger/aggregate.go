package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/1kta4/finances/internal/models"

	"github.com/shopspring/decimal"
)

// BalanceData sums earnings and spending over a resolved date window.
type BalanceData struct {
	TotalEarnings decimal.Decimal `json:"total_earnings"`
	TotalSpending decimal.Decimal `json:"total_spending"`
	NetBalance    decimal.Decimal `json:"net_balance"`
}

// CategorySpending is the spending total for one category.
type CategorySpending struct {
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Total        decimal.Decimal `json:"total"`
}

// BalanceData aggregates all transactions in the given range in memory.
// An empty or unknown range falls back to the settings default.
func (s *Store) BalanceData(ctx context.Context, rng string) (BalanceData, error) {
	txs, err := s.rangeTransactions(ctx, rng)
	if err != nil {
		return BalanceData{}, err
	}

	earnings, spending := decimal.Zero, decimal.Zero
	for i := range txs {
		switch txs[i].Type {
		case models.TypeEarning:
			earnings = earnings.Add(txs[i].Amount)
		case models.TypeSpending:
			spending = spending.Add(txs[i].Amount)
		}
	}
	return BalanceData{
		TotalEarnings: earnings,
		TotalSpending: spending,
		NetBalance:    earnings.Sub(spending),
	}, nil
}

// CategorySpending buckets spending by category over the range, largest
// first. Earning transactions are excluded, and transactions whose category
// no longer resolves are silently skipped.
func (s *Store) CategorySpending(ctx context.Context, rng string) ([]CategorySpending, error) {
	txs, err := s.rangeTransactions(ctx, rng)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]*CategorySpending)
	for i := range txs {
		t := &txs[i]
		if t.Type != models.TypeSpending || t.Category == nil {
			continue
		}
		cs, ok := totals[t.CategoryID]
		if !ok {
			cs = &CategorySpending{
				CategoryID:   t.CategoryID,
				CategoryName: t.Category.Name,
				Total:        decimal.Zero,
			}
			totals[t.CategoryID] = cs
		}
		cs.Total = cs.Total.Add(t.Amount)
	}

	out := make([]CategorySpending, 0, len(totals))
	for _, cs := range totals {
		out = append(out, *cs)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})
	return out, nil
}

func (s *Store) rangeTransactions(ctx context.Context, rng string) ([]models.Transaction, error) {
	from, err := s.resolveRange(ctx, rng)
	if err != nil {
		return nil, err
	}
	return s.ListTransactions(ctx, TransactionFilter{From: from})
}

// resolveRange turns a reporting range into a window start. week is a
// rolling seven days; month and year start at the calendar boundary.
func (s *Store) resolveRange(ctx context.Context, rng string) (time.Time, error) {
	if !models.ValidRange(rng) {
		st, err := s.GetSettings(ctx)
		if err != nil {
			return time.Time{}, err
		}
		rng = st.DefaultRange
	}

	now := time.Now()
	switch rng {
	case models.RangeWeek:
		return now.AddDate(0, 0, -7), nil
	case models.RangeMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), nil
	case models.RangeYear:
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), nil
	default: // all
		return time.Time{}, nil
	}
}
