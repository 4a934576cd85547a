// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/PavanMeka09/expense-server/internal/models"
)

// ErrGroupNotFound is returned when a group id does not exist.
var ErrGroupNotFound = errors.New("group not found")

// Store defines the interface for ledger persistence. This abstraction allows
// swapping storage backends (SQLite, PostgreSQL, etc.) without changing the
// service layer.
//
// Expenses and settlements are append-only: nothing here updates or deletes a
// money record. AppendSettlement atomically records the settlement snapshot
// and marks the covered expenses as settled; either both happen or neither.
type Store interface {
	// CreateGroup persists a new group. The group.ID field is populated by
	// the store if empty.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by ID, or ErrGroupNotFound.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups retrieves all groups, newest first.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// AppendExpense persists a new expense with its obligations.
	AppendExpense(ctx context.Context, expense *models.Expense) error

	// ListUnsettledExpenses retrieves the expenses of a group not yet
	// covered by a settlement, oldest first.
	ListUnsettledExpenses(ctx context.Context, groupID string) ([]*models.Expense, error)

	// AppendSettlement persists a settlement with its balance snapshot and,
	// in the same transaction, marks the group's unsettled expenses as
	// covered by it.
	AppendSettlement(ctx context.Context, settlement *models.Settlement) error

	// ListSettlementsByGroup retrieves the settlement history of a group,
	// newest first, including balance snapshots.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// LatestSettlementTime returns the Unix timestamp of the group's most
	// recent settlement, or 0 if the group has never been settled.
	LatestSettlementTime(ctx context.Context, groupID string) (int64, error)

	// Close releases any resources held by the store.
	Close() error
}
