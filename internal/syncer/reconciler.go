package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/1kta4/finances/internal/ledger"
	"github.com/1kta4/finances/internal/models"

	"github.com/sirupsen/logrus"
)

// Reconciler copies the ledger between the local store and a remote peer.
// There is no conflict detection: push replaces the remote copy, pull
// replaces the local one.
type Reconciler struct {
	store  *ledger.Store
	remote RemoteStore
	id     Identity
	log    *logrus.Logger
}

// NewReconciler wires the reconciler.
func NewReconciler(store *ledger.Store, remote RemoteStore, id Identity, log *logrus.Logger) *Reconciler {
	return &Reconciler{store: store, remote: remote, id: id, log: log}
}

// Push backs up the local ledger to the remote peer: custom categories,
// every transaction and every goal. On success the local last-backup
// timestamp is stamped and all transactions are marked synced.
func (r *Reconciler) Push(ctx context.Context) error {
	userID, err := r.id.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	snap, err := r.localSnapshot(ctx)
	if err != nil {
		return err
	}

	backupAt := time.Now()
	if err := r.remote.Replace(ctx, userID, snap, backupAt); err != nil {
		return fmt.Errorf("push ledger: %w", err)
	}

	if _, err := r.store.UpdateSettings(ctx, ledger.SettingsPatch{LastBackupAt: &backupAt}); err != nil {
		return err
	}
	if err := r.store.MarkAllSynced(ctx); err != nil {
		return err
	}

	r.log.WithFields(logrus.Fields{
		"user_id":      userID,
		"categories":   len(snap.Categories),
		"transactions": len(snap.Transactions),
		"goals":        len(snap.Goals),
	}).Info("ledger pushed")
	return nil
}

// Pull restores the ledger from the remote peer. Destructive: the local
// data is cleared first and the fetched rows re-inserted as already
// synced. The pull always wins; nothing is merged.
func (r *Reconciler) Pull(ctx context.Context) error {
	userID, err := r.id.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	snap, err := r.remote.Fetch(ctx, userID)
	if err != nil {
		return fmt.Errorf("pull ledger: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// clear and re-insert inside one local transaction, so a failed
	// import leaves the pre-pull ledger in place instead of a wiped device
	err = r.store.InTx(func(tx *ledger.Store) error {
		if err := tx.ClearAll(ctx); err != nil {
			return err
		}
		return tx.ImportLedger(ctx, snap.Categories, snap.Transactions, snap.Goals)
	})
	if err != nil {
		return fmt.Errorf("restore ledger: %w", err)
	}

	r.log.WithFields(logrus.Fields{
		"user_id":      userID,
		"categories":   len(snap.Categories),
		"transactions": len(snap.Transactions),
		"goals":        len(snap.Goals),
	}).Info("ledger pulled")
	return nil
}

// localSnapshot collects what push sends: custom categories only (the
// remote side seeds its own defaults), all transactions, all goals.
func (r *Reconciler) localSnapshot(ctx context.Context) (Snapshot, error) {
	cats, err := r.store.ListCategories(ctx, "")
	if err != nil {
		return Snapshot{}, err
	}
	custom := make([]models.Category, 0, len(cats))
	for _, c := range cats {
		if c.IsCustom.Bool() {
			custom = append(custom, c)
		}
	}

	txs, err := r.store.ListTransactions(ctx, ledger.TransactionFilter{})
	if err != nil {
		return Snapshot{}, err
	}
	goals, err := r.store.ListGoals(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{Categories: custom, Transactions: txs, Goals: goals}, nil
}
