package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/1kta4/finances/internal/database"
	"github.com/1kta4/finances/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

// newTestStore opens a fresh in-memory database with the full schema and
// default rows seeded.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := fmt.Sprintf("file:ledger_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	if err := database.AutoMigrate(db, log); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	s := NewStore(db)
	if err := s.EnsureDefaults(context.Background()); err != nil {
		t.Fatalf("seed defaults: %v", err)
	}
	return s
}

func defaultCategory(typ, name string) string {
	return models.DefaultCategoryID(typ, name)
}

func addSpending(t *testing.T, s *Store, item string, amount int64, date time.Time) *models.Transaction {
	t.Helper()
	tx := &models.Transaction{
		CategoryID: defaultCategory(models.TypeSpending, "Food"),
		Type:       models.TypeSpending,
		Amount:     decimal.NewFromInt(amount),
		ItemName:   item,
		Date:       date,
	}
	if err := s.AddTransaction(context.Background(), tx); err != nil {
		t.Fatalf("add transaction %q: %v", item, err)
	}
	return tx
}

func TestEnsureDefaults_Seeds(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	all, err := s.ListCategories(ctx, "")
	if err != nil {
		t.Fatalf("ListCategories error = %v", err)
	}
	if len(all) != 14 {
		t.Fatalf("default categories = %d, want 14", len(all))
	}
	for _, c := range all {
		if c.IsCustom.Bool() {
			t.Errorf("seeded category %q marked custom", c.Name)
		}
	}

	spending, err := s.ListCategories(ctx, models.TypeSpending)
	if err != nil {
		t.Fatalf("ListCategories(spending) error = %v", err)
	}
	if len(spending) != 8 {
		t.Errorf("spending categories = %d, want 8", len(spending))
	}
	earning, err := s.ListCategories(ctx, models.TypeEarning)
	if err != nil {
		t.Fatalf("ListCategories(earning) error = %v", err)
	}
	if len(earning) != 6 {
		t.Errorf("earning categories = %d, want 6", len(earning))
	}

	// running the seed again must not duplicate anything
	if err := s.EnsureDefaults(ctx); err != nil {
		t.Fatalf("EnsureDefaults again error = %v", err)
	}
	all, _ = s.ListCategories(ctx, "")
	if len(all) != 14 {
		t.Errorf("categories after re-seed = %d, want 14", len(all))
	}
}

func TestCategories_DefaultsProtected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	foodID := defaultCategory(models.TypeSpending, "Food")

	if err := s.RenameCategory(ctx, foodID, "Dining"); !errors.Is(err, ErrProtectedCategory) {
		t.Errorf("RenameCategory(default) error = %v, want ErrProtectedCategory", err)
	}
	if err := s.DeleteCategory(ctx, foodID); !errors.Is(err, ErrProtectedCategory) {
		t.Errorf("DeleteCategory(default) error = %v, want ErrProtectedCategory", err)
	}
}

func TestCategories_CustomLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cat, err := s.AddCategory(ctx, "  Pets  ", models.TypeSpending)
	if err != nil {
		t.Fatalf("AddCategory error = %v", err)
	}
	if cat.Name != "Pets" {
		t.Errorf("AddCategory name = %q, want trimmed %q", cat.Name, "Pets")
	}
	if !cat.IsCustom.Bool() {
		t.Error("custom category not marked custom")
	}

	if err := s.RenameCategory(ctx, cat.ID, "Pet Care"); err != nil {
		t.Fatalf("RenameCategory error = %v", err)
	}
	got, err := s.GetCategory(ctx, cat.ID)
	if err != nil {
		t.Fatalf("GetCategory error = %v", err)
	}
	if got.Name != "Pet Care" {
		t.Errorf("renamed category = %q, want %q", got.Name, "Pet Care")
	}

	if err := s.DeleteCategory(ctx, cat.ID); err != nil {
		t.Fatalf("DeleteCategory error = %v", err)
	}
	if _, err := s.GetCategory(ctx, cat.ID); !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("GetCategory(deleted) error = %v, want ErrCategoryNotFound", err)
	}
}

func TestDeleteCategory_InUse(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cat, err := s.AddCategory(ctx, "Hobby", models.TypeSpending)
	if err != nil {
		t.Fatalf("AddCategory error = %v", err)
	}
	tx := &models.Transaction{
		CategoryID: cat.ID,
		Type:       models.TypeSpending,
		Amount:     decimal.NewFromInt(25),
		ItemName:   "paint",
		Date:       time.Now(),
	}
	if err := s.AddTransaction(ctx, tx); err != nil {
		t.Fatalf("AddTransaction error = %v", err)
	}

	if err := s.DeleteCategory(ctx, cat.ID); !errors.Is(err, ErrCategoryInUse) {
		t.Errorf("DeleteCategory(in use) error = %v, want ErrCategoryInUse", err)
	}

	if err := s.DeleteTransaction(ctx, tx.ID); err != nil {
		t.Fatalf("DeleteTransaction error = %v", err)
	}
	if err := s.DeleteCategory(ctx, cat.ID); err != nil {
		t.Errorf("DeleteCategory(freed) error = %v, want nil", err)
	}
}

func TestAddTransaction_Validation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	foodID := defaultCategory(models.TypeSpending, "Food")

	testCases := []struct {
		name string
		tx   models.Transaction
	}{
		{"zero amount", models.Transaction{CategoryID: foodID, Type: models.TypeSpending, Amount: decimal.Zero}},
		{"negative amount", models.Transaction{CategoryID: foodID, Type: models.TypeSpending, Amount: decimal.NewFromInt(-5)}},
		{"unknown method", models.Transaction{CategoryID: foodID, Type: models.TypeSpending, Amount: decimal.NewFromInt(5), Method: "crypto"}},
		{"unknown type", models.Transaction{CategoryID: foodID, Type: "transfer", Amount: decimal.NewFromInt(5)}},
		{"missing category", models.Transaction{CategoryID: "nope", Type: models.TypeSpending, Amount: decimal.NewFromInt(5)}},
		{"type mismatches category", models.Transaction{CategoryID: foodID, Type: models.TypeEarning, Amount: decimal.NewFromInt(5)}},
		{"template without interval", models.Transaction{CategoryID: foodID, Type: models.TypeSpending, Amount: decimal.NewFromInt(5), IsSubscription: true}},
		{"custom interval without months", models.Transaction{CategoryID: foodID, Type: models.TypeSpending, Amount: decimal.NewFromInt(5), IsSubscription: true, Interval: models.IntervalCustom}},
	}

	for _, tc := range testCases {
		tx := tc.tx
		if err := s.AddTransaction(ctx, &tx); err == nil {
			t.Errorf("AddTransaction(%s) error = nil, want error", tc.name)
		}
	}
}

func TestAddTransaction_Defaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tx := &models.Transaction{
		CategoryID: defaultCategory(models.TypeEarning, "Salary"),
		Type:       models.TypeEarning,
		Amount:     decimal.NewFromInt(3000),
		ItemName:   "july pay",
	}
	if err := s.AddTransaction(ctx, tx); err != nil {
		t.Fatalf("AddTransaction error = %v", err)
	}
	if tx.ID == "" {
		t.Error("AddTransaction left id empty")
	}
	if tx.Method != models.MethodCash {
		t.Errorf("default method = %q, want cash", tx.Method)
	}
	if tx.Date.IsZero() {
		t.Error("AddTransaction left date zero")
	}
}

func TestListTransactions_FiltersAndOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	old := addSpending(t, s, "older", 10, time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC))
	recent := addSpending(t, s, "newer", 20, time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC))

	salary := &models.Transaction{
		CategoryID: defaultCategory(models.TypeEarning, "Salary"),
		Type:       models.TypeEarning,
		Amount:     decimal.NewFromInt(3000),
		ItemName:   "pay",
		Date:       time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC),
	}
	if err := s.AddTransaction(ctx, salary); err != nil {
		t.Fatalf("AddTransaction error = %v", err)
	}

	all, err := s.ListTransactions(ctx, TransactionFilter{})
	if err != nil {
		t.Fatalf("ListTransactions error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("transactions = %d, want 3", len(all))
	}
	if all[0].ID != recent.ID || all[2].ID != old.ID {
		t.Errorf("transactions not newest first: %s, %s, %s", all[0].ItemName, all[1].ItemName, all[2].ItemName)
	}
	if all[0].Category == nil || all[0].Category.Name != "Food" {
		t.Error("joined category missing on list read")
	}

	spending, err := s.ListTransactions(ctx, TransactionFilter{Type: models.TypeSpending})
	if err != nil {
		t.Fatalf("ListTransactions(spending) error = %v", err)
	}
	if len(spending) != 2 {
		t.Errorf("spending transactions = %d, want 2", len(spending))
	}

	windowed, err := s.ListTransactions(ctx, TransactionFilter{
		From: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("ListTransactions(window) error = %v", err)
	}
	if len(windowed) != 1 || windowed[0].ID != salary.ID {
		t.Errorf("windowed transactions = %d, want just the salary row", len(windowed))
	}

	limited, err := s.ListTransactions(ctx, TransactionFilter{Limit: 1})
	if err != nil {
		t.Fatalf("ListTransactions(limit) error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limited transactions = %d, want 1", len(limited))
	}
}

func TestUpdateTransaction_RejectsMismatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tx := addSpending(t, s, "coffee", 4, time.Now())

	earningType := models.TypeEarning
	err := s.UpdateTransaction(ctx, tx.ID, TransactionPatch{Type: &earningType})
	if err == nil {
		t.Error("UpdateTransaction(type mismatch) error = nil, want error")
	}

	salaryID := defaultCategory(models.TypeEarning, "Salary")
	err = s.UpdateTransaction(ctx, tx.ID, TransactionPatch{CategoryID: &salaryID})
	if err == nil {
		t.Error("UpdateTransaction(category mismatch) error = nil, want error")
	}

	// moving category and type together is allowed
	err = s.UpdateTransaction(ctx, tx.ID, TransactionPatch{CategoryID: &salaryID, Type: &earningType})
	if err != nil {
		t.Errorf("UpdateTransaction(consistent move) error = %v, want nil", err)
	}
	got, err := s.GetTransaction(ctx, tx.ID)
	if err != nil {
		t.Fatalf("GetTransaction error = %v", err)
	}
	if got.Type != models.TypeEarning || got.CategoryID != salaryID {
		t.Errorf("moved transaction = %s/%s, want earning/Salary", got.Type, got.CategoryID)
	}
}

func TestUpdateTransaction_MarksUnsynced(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tx := addSpending(t, s, "rent", 900, time.Now())
	if err := s.MarkAllSynced(ctx); err != nil {
		t.Fatalf("MarkAllSynced error = %v", err)
	}

	amount := decimal.NewFromInt(950)
	if err := s.UpdateTransaction(ctx, tx.ID, TransactionPatch{Amount: &amount}); err != nil {
		t.Fatalf("UpdateTransaction error = %v", err)
	}

	var unsynced int64
	if err := s.db.Model(&models.Transaction{}).
		Where("synced = ?", models.Flag(false)).Count(&unsynced).Error; err != nil {
		t.Fatalf("count unsynced: %v", err)
	}
	if unsynced != 1 {
		t.Errorf("unsynced rows after update = %d, want 1", unsynced)
	}
}

func TestDeleteTransaction_NotFound(t *testing.T) {
	s := newTestStore(t)
	if err := s.DeleteTransaction(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteTransaction(missing) error = %v, want ErrNotFound", err)
	}
}

func TestListDueTemplates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()
	foodID := defaultCategory(models.TypeSpending, "Food")

	dueAt := func(ts time.Time) *time.Time { return &ts }

	overdue := &models.Transaction{
		CategoryID:     foodID,
		Type:           models.TypeSpending,
		Amount:         decimal.NewFromInt(10),
		ItemName:       "meal kit",
		Date:           now.AddDate(0, -1, 0),
		IsSubscription: true,
		Interval:       models.IntervalMonth,
		NextOccurrence: dueAt(now.AddDate(0, 0, -2)),
	}
	future := &models.Transaction{
		CategoryID:     foodID,
		Type:           models.TypeSpending,
		Amount:         decimal.NewFromInt(12),
		ItemName:       "snack box",
		Date:           now,
		IsSubscription: true,
		Interval:       models.IntervalMonth,
		NextOccurrence: dueAt(now.AddDate(0, 0, 10)),
	}
	for _, tx := range []*models.Transaction{overdue, future} {
		if err := s.AddTransaction(ctx, tx); err != nil {
			t.Fatalf("AddTransaction(%s) error = %v", tx.ItemName, err)
		}
	}

	// a child occurrence with an overdue-looking date must never be listed
	child := &models.Transaction{
		CategoryID: foodID,
		Type:       models.TypeSpending,
		Amount:     decimal.NewFromInt(10),
		ItemName:   "meal kit",
		Date:       now.AddDate(0, 0, -2),
		ParentID:   &overdue.ID,
	}
	if err := s.AddTransaction(ctx, child); err != nil {
		t.Fatalf("AddTransaction(child) error = %v", err)
	}

	due, err := s.ListDueTemplates(ctx, now)
	if err != nil {
		t.Fatalf("ListDueTemplates error = %v", err)
	}
	if len(due) != 1 || due[0].ID != overdue.ID {
		t.Fatalf("due templates = %d, want just the overdue one", len(due))
	}
}

func TestClearAll_ResetsToDefaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cat, err := s.AddCategory(ctx, "Travel", models.TypeSpending)
	if err != nil {
		t.Fatalf("AddCategory error = %v", err)
	}
	addSpending(t, s, "lunch", 12, time.Now())
	goal := &models.Goal{Title: "Emergency fund", TargetAmount: decimal.NewFromInt(5000)}
	if err := s.AddGoal(ctx, goal); err != nil {
		t.Fatalf("AddGoal error = %v", err)
	}

	if err := s.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll error = %v", err)
	}

	txs, _ := s.ListTransactions(ctx, TransactionFilter{})
	if len(txs) != 0 {
		t.Errorf("transactions after reset = %d, want 0", len(txs))
	}
	goals, _ := s.ListGoals(ctx)
	if len(goals) != 0 {
		t.Errorf("goals after reset = %d, want 0", len(goals))
	}
	cats, _ := s.ListCategories(ctx, "")
	if len(cats) != 14 {
		t.Errorf("categories after reset = %d, want the 14 defaults", len(cats))
	}
	if _, err := s.GetCategory(ctx, cat.ID); !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("custom category survived reset: error = %v", err)
	}
}

func TestImportLedger_MarksSynced(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	imported := []models.Transaction{{
		ID:         "t-1",
		CategoryID: defaultCategory(models.TypeSpending, "Bills"),
		Type:       models.TypeSpending,
		Amount:     decimal.NewFromInt(80),
		ItemName:   "electricity",
		Method:     models.MethodCard,
		Date:       time.Now(),
	}}
	if err := s.ImportLedger(ctx, nil, imported, nil); err != nil {
		t.Fatalf("ImportLedger error = %v", err)
	}

	var synced int64
	if err := s.db.Model(&models.Transaction{}).
		Where("synced = ?", models.Flag(true)).Count(&synced).Error; err != nil {
		t.Fatalf("count synced: %v", err)
	}
	if synced != 1 {
		t.Errorf("synced rows after import = %d, want 1", synced)
	}

	got, err := s.GetTransaction(ctx, "t-1")
	if err != nil {
		t.Fatalf("GetTransaction error = %v", err)
	}
	if got.ItemName != "electricity" {
		t.Errorf("imported row item = %q, want electricity", got.ItemName)
	}
}

func TestGoals_Lifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	g := &models.Goal{Title: "Laptop", TargetAmount: decimal.NewFromInt(1500)}
	if err := s.AddGoal(ctx, g); err != nil {
		t.Fatalf("AddGoal error = %v", err)
	}

	bad := &models.Goal{Title: "", TargetAmount: decimal.NewFromInt(10)}
	if err := s.AddGoal(ctx, bad); err == nil {
		t.Error("AddGoal(empty title) error = nil, want error")
	}
	bad = &models.Goal{Title: "x", TargetAmount: decimal.Zero}
	if err := s.AddGoal(ctx, bad); err == nil {
		t.Error("AddGoal(zero target) error = nil, want error")
	}

	saved := decimal.NewFromInt(400)
	if err := s.UpdateGoal(ctx, g.ID, GoalPatch{CurrentAmount: &saved}); err != nil {
		t.Fatalf("UpdateGoal error = %v", err)
	}
	got, err := s.GetGoal(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetGoal error = %v", err)
	}
	if !got.CurrentAmount.Equal(saved) {
		t.Errorf("current amount = %s, want %s", got.CurrentAmount, saved)
	}

	if err := s.DeleteGoal(ctx, g.ID); err != nil {
		t.Fatalf("DeleteGoal error = %v", err)
	}
	if err := s.DeleteGoal(ctx, g.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteGoal(again) error = %v, want ErrNotFound", err)
	}
}

func TestSettings_Upsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	st, err := s.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings error = %v", err)
	}
	if st.Currency != "USD" || st.DefaultRange != models.RangeMonth {
		t.Errorf("default settings = %s/%s, want USD/month", st.Currency, st.DefaultRange)
	}

	eur := "EUR"
	rng := models.RangeYear
	st, err = s.UpdateSettings(ctx, SettingsPatch{Currency: &eur, DefaultRange: &rng})
	if err != nil {
		t.Fatalf("UpdateSettings error = %v", err)
	}
	if st.Currency != "EUR" || st.DefaultRange != models.RangeYear {
		t.Errorf("updated settings = %s/%s, want EUR/year", st.Currency, st.DefaultRange)
	}

	badRange := "decade"
	if _, err := s.UpdateSettings(ctx, SettingsPatch{DefaultRange: &badRange}); err == nil {
		t.Error("UpdateSettings(bad range) error = nil, want error")
	}

	empty := ""
	if _, err := s.UpdateSettings(ctx, SettingsPatch{Currency: &empty}); err == nil {
		t.Error("UpdateSettings(empty currency) error = nil, want error")
	}
}
