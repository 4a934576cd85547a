// Package events notifies external consumers (the dashboard, sync workers)
// when a ledger write has been committed. Publishing is best-effort: a failed
// notification never rolls back a committed write.
package events

import (
	"context"

	"github.com/PavanMeka09/expense-server/internal/models"
)

// Publisher emits ledger events after they are durably stored.
type Publisher interface {
	ExpenseRecorded(ctx context.Context, expense *models.Expense) error
	GroupSettled(ctx context.Context, settlement *models.Settlement) error
	Close() error
}

// Nop is a Publisher that drops every event. Used when no broker is
// configured and in tests.
type Nop struct{}

func (Nop) ExpenseRecorded(context.Context, *models.Expense) error { return nil }
func (Nop) GroupSettled(context.Context, *models.Settlement) error { return nil }
func (Nop) Close() error                                           { return nil }
