package ledger

import "errors"

// Sentinel errors surfaced by the store. Anything else is a wrapped
// storage-layer failure and propagates as-is.
var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrCategoryNotFound is returned when a category reference does not
	// resolve.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrProtectedCategory is returned on any attempt to rename or delete a
	// non-custom (system default) category.
	ErrProtectedCategory = errors.New("default categories cannot be modified")

	// ErrCategoryInUse is returned when deleting a category that still has
	// transactions referencing it.
	ErrCategoryInUse = errors.New("category is still referenced by transactions")
)
