// Package subscription materializes recurring transactions: it computes
// occurrence schedules for subscription templates and spawns the concrete
// transaction rows when a template comes due.
package subscription

import (
	"errors"
	"fmt"
	"time"

	"github.com/1kta4/finances/internal/models"
)

// ErrInvalidInterval is returned for an unknown interval or a custom
// interval without a positive month count.
var ErrInvalidInterval = errors.New("invalid recurrence interval")

// NextOccurrence returns the due date following from for the given
// interval. customMonths only matters for the custom interval.
//
// Calendar arithmetic follows time.AddDate: a day-of-month past the end of
// the target month rolls forward into the following month, so Jan 31 plus
// one month is Mar 2 in a leap year and Mar 3 otherwise.
func NextOccurrence(from time.Time, interval string, customMonths int) (time.Time, error) {
	switch interval {
	case models.IntervalTwoWeeks:
		return from.AddDate(0, 0, 14), nil
	case models.IntervalMonth:
		return from.AddDate(0, 1, 0), nil
	case models.IntervalYear:
		return from.AddDate(1, 0, 0), nil
	case models.IntervalCustom:
		if customMonths < 1 {
			return time.Time{}, fmt.Errorf("%w: custom interval needs a positive month count, got %d", ErrInvalidInterval, customMonths)
		}
		return from.AddDate(0, customMonths, 0), nil
	default:
		return time.Time{}, fmt.Errorf("%w: unknown interval %q", ErrInvalidInterval, interval)
	}
}
