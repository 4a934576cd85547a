package models

import "github.com/PavanMeka09/expense-server/internal/money"

// Settlement records the moment a group's outstanding balances were snapshot
// and zeroed. Settlements are append-only; the full history is retained for
// audit display, but only the most recent one defines the ledger's effective
// starting point.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID string

	// TotalExpenses is the sum of expense amounts covered by this settlement.
	// Always strictly positive: settling an empty ledger is rejected.
	TotalExpenses money.Money

	// Balances is the balance sheet at the time of settlement.
	Balances []MemberBalance

	// CreatedAt is the Unix timestamp when the settlement was committed.
	CreatedAt int64
}
