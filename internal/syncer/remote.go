package syncer

import (
	"context"
	"time"

	"github.com/1kta4/finances/internal/models"
)

// Snapshot is one user's complete ledger as exchanged with the remote
// peer. Categories hold custom categories only; the remote side owns its
// own defaults.
type Snapshot struct {
	Categories   []models.Category
	Transactions []models.Transaction
	Goals        []models.Goal
}

// RemoteStore is the remote side of the reconciler. Rows are scoped by
// user id; access control on the remote service restricts each user to
// their own rows.
type RemoteStore interface {
	// Replace swaps the user's remote ledger for the snapshot and stamps
	// the backup time, all inside one remote transaction so a failed push
	// cannot leave deletions applied with inserts missing.
	Replace(ctx context.Context, userID string, snap Snapshot, backupAt time.Time) error

	// Fetch returns the user's remote ledger.
	Fetch(ctx context.Context, userID string) (Snapshot, error)
}
