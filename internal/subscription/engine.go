package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/1kta4/finances/internal/ledger"
	"github.com/1kta4/finances/internal/models"

	"github.com/sirupsen/logrus"
)

// ErrNotTemplate is returned when an engine operation targets a
// transaction that is not a subscription template (either not recurring at
// all, or itself a generated occurrence).
var ErrNotTemplate = errors.New("transaction is not a subscription template")

// ErrNotDue is returned when Materialize targets a template whose schedule
// is still in the future.
var ErrNotDue = errors.New("subscription is not due yet")

// Engine drives subscription templates: scheduled -> due -> scheduled
// again once the due occurrence has been materialized.
type Engine struct {
	store *ledger.Store
	log   *logrus.Logger
}

// NewEngine builds an engine on top of the ledger store.
func NewEngine(store *ledger.Store, log *logrus.Logger) *Engine {
	return &Engine{store: store, log: log}
}

// ListDue returns the templates due at now, earliest first.
func (e *Engine) ListDue(ctx context.Context, now time.Time) ([]models.Transaction, error) {
	return e.store.ListDueTemplates(ctx, now)
}

// Materialize creates one occurrence from the template and advances the
// template's schedule. Insert and advancement happen in a single database
// transaction, so a retry after a crash finds the template either fully
// processed or untouched. A template whose schedule already sits in the
// future is not due and returns ErrNotDue, so an immediate second call
// cannot double-create the occurrence.
func (e *Engine) Materialize(ctx context.Context, templateID string) (*models.Transaction, error) {
	var child *models.Transaction

	err := e.store.InTx(func(tx *ledger.Store) error {
		tmpl, err := tx.GetTransaction(ctx, templateID)
		if err != nil {
			return err
		}
		if !tmpl.IsTemplate() {
			return ErrNotTemplate
		}
		if tmpl.NextOccurrence != nil && tmpl.NextOccurrence.After(time.Now()) {
			return ErrNotDue
		}

		occurredAt := time.Now()
		if tmpl.NextOccurrence != nil {
			occurredAt = *tmpl.NextOccurrence
		}

		customMonths := 0
		if tmpl.CustomMonths != nil {
			customMonths = *tmpl.CustomMonths
		}
		next, err := NextOccurrence(occurredAt, tmpl.Interval, customMonths)
		if err != nil {
			return err
		}

		child = &models.Transaction{
			CategoryID:  tmpl.CategoryID,
			Type:        tmpl.Type,
			Amount:      tmpl.Amount,
			ItemName:    tmpl.ItemName,
			Description: tmpl.Description,
			Method:      tmpl.Method,
			Date:        occurredAt,
			ParentID:    &tmpl.ID,
		}
		if err := tx.AddTransaction(ctx, child); err != nil {
			return err
		}
		return tx.SetNextOccurrence(ctx, tmpl.ID, next)
	})
	if err != nil {
		return nil, err
	}
	return child, nil
}

// ProcessDue materializes every due template once. A failure on one
// template is logged and counted but never blocks the rest, and the loop
// itself never returns an error. Invoked once at application startup; there
// is no background scheduler.
func (e *Engine) ProcessDue(ctx context.Context, now time.Time) (processed, failed int) {
	due, err := e.ListDue(ctx, now)
	if err != nil {
		e.log.WithError(err).Error("listing due subscriptions failed")
		return 0, 0
	}

	for i := range due {
		if ctx.Err() != nil {
			e.log.WithField("remaining", len(due)-i).Warn("subscription processing cancelled")
			break
		}
		if _, err := e.Materialize(ctx, due[i].ID); err != nil {
			failed++
			e.log.WithError(err).WithFields(logrus.Fields{
				"template_id": due[i].ID,
				"item":        due[i].ItemName,
			}).Error("materializing subscription failed")
			continue
		}
		processed++
	}

	if processed > 0 || failed > 0 {
		e.log.WithFields(logrus.Fields{
			"processed": processed,
			"failed":    failed,
		}).Info("due subscriptions processed")
	}
	return processed, failed
}

// DeleteSubscription removes a template together with every occurrence it
// generated. The cascade is the engine's job, not the storage layer's.
func (e *Engine) DeleteSubscription(ctx context.Context, templateID string) error {
	return e.store.InTx(func(tx *ledger.Store) error {
		tmpl, err := tx.GetTransaction(ctx, templateID)
		if err != nil {
			return err
		}
		if !tmpl.IsTemplate() {
			return ErrNotTemplate
		}
		if err := tx.DeleteTransactionsByParent(ctx, tmpl.ID); err != nil {
			return err
		}
		return tx.DeleteTransaction(ctx, tmpl.ID)
	})
}
