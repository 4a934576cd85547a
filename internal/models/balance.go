package models

import "github.com/PavanMeka09/expense-server/internal/money"

// MemberBalance is one member's position in a balance sheet.
type MemberBalance struct {
	// MemberID is the member this row belongs to.
	MemberID string

	// Owes is the total of this member's obligations since the last
	// settlement. Always non-negative.
	Owes money.Money

	// NetBalance is what the member is owed (positive) or owes (negative)
	// after netting what they paid against what they consumed. Net balances
	// sum to exactly zero across the group.
	NetBalance money.Money
}

// BalanceSheet is the derived per-member position of a group, computed from
// every expense recorded after the most recent settlement. It is never
// stored; it is recomputed on demand.
type BalanceSheet struct {
	// TotalExpenses is the sum of all included expense amounts.
	TotalExpenses money.Money

	// Members holds one row per group member, sorted by member id. Members
	// with no activity appear with zero amounts.
	Members []MemberBalance
}

// GroupSummary is the reporting shape consumed by the dashboard.
type GroupSummary struct {
	GroupID       string
	Name          string
	TotalExpenses money.Money

	// LastSettled is the Unix timestamp of the most recent settlement, or 0
	// if the group has never been settled.
	LastSettled int64

	Members []MemberBalance
}
