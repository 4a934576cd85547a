package split

import (
	"errors"
	"fmt"

	"github.com/PavanMeka09/expense-server/internal/money"
)

var (
	// ErrEmptyTitle is returned when the expense title is empty after
	// trimming whitespace.
	ErrEmptyTitle = errors.New("expense title is required")

	// ErrEmptyParticipants is returned when no participants share the
	// expense.
	ErrEmptyParticipants = errors.New("at least one participant is required")

	// ErrNegativeSplit is returned when a custom split amount is negative.
	ErrNegativeSplit = errors.New("custom split amounts cannot be negative")
)

// SplitMismatchError reports that the custom split amounts do not sum to the
// expense amount. It carries the computed total and the signed difference so
// callers can show the user exactly how far off they are.
type SplitMismatchError struct {
	// Want is the expense amount.
	Want money.Money

	// Got is the sum of the supplied custom amounts.
	Got money.Money
}

// Diff returns Got - Want: positive when the supplied amounts overshoot the
// expense amount, negative when they fall short.
func (e *SplitMismatchError) Diff() money.Money {
	return e.Got.Sub(e.Want)
}

func (e *SplitMismatchError) Error() string {
	return fmt.Sprintf("custom split amounts sum to %s, expense amount is %s (difference %s)", e.Got, e.Want, e.Diff())
}
