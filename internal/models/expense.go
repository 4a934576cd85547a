package models

import "github.com/PavanMeka09/expense-server/internal/money"

// SplitType identifies how an expense amount was divided among participants.
type SplitType string

const (
	// SplitEqual divides the amount evenly, distributing any remainder one
	// minor unit at a time in ascending member-id order.
	SplitEqual SplitType = "equal"

	// SplitCustom uses caller-supplied per-member amounts that must sum
	// exactly to the expense amount.
	SplitCustom SplitType = "custom"
)

// Expense represents one shared expense. Immutable once created: expenses are
// never edited or deleted, only superseded by settlements.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Title is the human-readable description (non-empty after trimming).
	Title string

	// Amount is the full expense amount, strictly positive.
	Amount money.Money

	// PayerID is the member who paid. The payer may also appear as an
	// obligor; their own share nets out.
	PayerID string

	// SplitType records which policy produced the obligations.
	SplitType SplitType

	// Obligations are the per-member shares. They sum exactly to Amount.
	Obligations []Obligation

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// Obligation is one member's share of one expense. Amounts are non-negative.
type Obligation struct {
	MemberID string
	Amount   money.Money
}
