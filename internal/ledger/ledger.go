// Package ledger owns the expense and settlement history of one group and
// derives its balance sheet. Each group is an independent, addressable
// aggregate; all writes for a group are serialized behind its mutex.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PavanMeka09/expense-server/internal/models"
	"github.com/PavanMeka09/expense-server/internal/money"
	"github.com/PavanMeka09/expense-server/internal/split"
)

var (
	// ErrNothingToSettle is returned when a settlement is requested but no
	// expenses have been recorded since the last settlement. Rejected, not a
	// silent no-op, so callers can tell "already settled" from "succeeded".
	ErrNothingToSettle = errors.New("no expenses to settle")

	// ErrUnknownMember is returned when a payer or participant is not a
	// member of the group.
	ErrUnknownMember = errors.New("member does not belong to the group")
)

// Journal durably appends ledger events before they are considered committed.
// AppendSettlement must atomically record the settlement and mark the covered
// expenses as settled.
type Journal interface {
	AppendExpense(ctx context.Context, expense *models.Expense) error
	AppendSettlement(ctx context.Context, settlement *models.Settlement) error
}

// ExpenseRequest is what a caller supplies to record one expense. Amounts are
// already converted to Money at the transport boundary.
type ExpenseRequest struct {
	Title         string
	Amount        money.Money
	PayerID       string
	SplitType     models.SplitType
	Participants  []string
	CustomAmounts map[string]money.Money
}

// Ledger is the single-writer aggregate for one group. It holds the unsettled
// expenses in memory and appends every write to the journal before committing
// it; the balance sheet is always recomputed, never cached.
type Ledger struct {
	mu sync.Mutex

	group   *models.Group
	journal Journal

	unsettled   []*models.Expense
	lastSettled int64 // unix timestamp of the latest settlement, 0 if none

	now func() time.Time
}

// New creates an empty ledger for a group.
func New(group *models.Group, journal Journal) *Ledger {
	return Load(group, journal, nil, 0)
}

// Load rebuilds a ledger from storage: the expenses not yet covered by a
// settlement, and the timestamp of the most recent settlement.
func Load(group *models.Group, journal Journal, unsettled []*models.Expense, lastSettled int64) *Ledger {
	return &Ledger{
		group:       group,
		journal:     journal,
		unsettled:   unsettled,
		lastSettled: lastSettled,
		now:         time.Now,
	}
}

// Group returns the group this ledger belongs to.
func (l *Ledger) Group() *models.Group {
	return l.group
}

// RecordExpense validates the request, computes obligations, durably appends
// the expense and commits it to the ledger. Validation failures surface the
// split package's errors unchanged; the ledger itself only confirms that the
// payer and every participant belong to the group.
func (l *Ledger) RecordExpense(ctx context.Context, req ExpenseRequest) (*models.Expense, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Stored titles match the validated form.
	title := strings.TrimSpace(req.Title)

	payer := models.NormalizeMember(req.PayerID)
	if !l.group.HasMember(payer) {
		return nil, fmt.Errorf("payer %q: %w", req.PayerID, ErrUnknownMember)
	}

	participants := make([]string, len(req.Participants))
	for i, p := range req.Participants {
		participants[i] = models.NormalizeMember(p)
		if !l.group.HasMember(participants[i]) {
			return nil, fmt.Errorf("participant %q: %w", p, ErrUnknownMember)
		}
	}

	var custom map[string]money.Money
	if req.CustomAmounts != nil {
		custom = make(map[string]money.Money, len(req.CustomAmounts))
		for member, amount := range req.CustomAmounts {
			normalized := models.NormalizeMember(member)
			if !l.group.HasMember(normalized) {
				return nil, fmt.Errorf("custom amount for %q: %w", member, ErrUnknownMember)
			}
			custom[normalized] = amount
		}
	}

	obligations, err := split.Compute(split.Input{
		Title:         title,
		Amount:        req.Amount,
		Participants:  participants,
		Type:          req.SplitType,
		CustomAmounts: custom,
	})
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		ID:          uuid.New().String(),
		GroupID:     l.group.ID,
		Title:       title,
		Amount:      req.Amount,
		PayerID:     payer,
		SplitType:   req.SplitType,
		Obligations: obligations,
		CreatedAt:   l.now().Unix(),
	}

	// Durably append before the in-memory commit: an expense the journal
	// rejected never becomes visible.
	if err := l.journal.AppendExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("append expense: %w", err)
	}
	l.unsettled = append(l.unsettled, expense)
	return expense, nil
}

// BalanceSheet folds every expense recorded after the most recent settlement
// into per-member positions. Repeated calls with no intervening writes return
// identical results.
func (l *Ledger) BalanceSheet() models.BalanceSheet {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balanceSheetLocked()
}

func (l *Ledger) balanceSheetLocked() models.BalanceSheet {
	owes := make(map[string]money.Money, len(l.group.Members))
	net := make(map[string]money.Money, len(l.group.Members))

	var total money.Money
	for _, expense := range l.unsettled {
		total = total.Add(expense.Amount)

		// The payer fronted the full amount; their own obligation, if any,
		// nets out below like everyone else's.
		net[expense.PayerID] = net[expense.PayerID].Add(expense.Amount)
		for _, ob := range expense.Obligations {
			owes[ob.MemberID] = owes[ob.MemberID].Add(ob.Amount)
			net[ob.MemberID] = net[ob.MemberID].Sub(ob.Amount)
		}
	}

	members := make([]models.MemberBalance, 0, len(l.group.Members))
	for _, member := range l.group.Members {
		members = append(members, models.MemberBalance{
			MemberID:   member,
			Owes:       owes[member],
			NetBalance: net[member],
		})
	}
	sort.Slice(members, func(i, j int) bool { return members[i].MemberID < members[j].MemberID })

	return models.BalanceSheet{TotalExpenses: total, Members: members}
}

// Settle snapshots the current balance sheet into a new settlement, durably
// appends it and advances the ledger baseline so subsequent balance sheets
// start from zero. The operation is atomic: on journal failure nothing
// changes.
func (l *Ledger) Settle(ctx context.Context) (*models.Settlement, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sheet := l.balanceSheetLocked()
	if !sheet.TotalExpenses.IsPositive() {
		return nil, ErrNothingToSettle
	}

	settlement := &models.Settlement{
		ID:            uuid.New().String(),
		GroupID:       l.group.ID,
		TotalExpenses: sheet.TotalExpenses,
		Balances:      sheet.Members,
		CreatedAt:     l.now().Unix(),
	}

	if err := l.journal.AppendSettlement(ctx, settlement); err != nil {
		return nil, fmt.Errorf("append settlement: %w", err)
	}
	l.unsettled = nil
	l.lastSettled = settlement.CreatedAt
	return settlement, nil
}

// Summary combines the current balance sheet with the latest settlement
// timestamp into the reporting shape. Recomputed on every call.
func (l *Ledger) Summary() models.GroupSummary {
	l.mu.Lock()
	defer l.mu.Unlock()

	sheet := l.balanceSheetLocked()
	return models.GroupSummary{
		GroupID:       l.group.ID,
		Name:          l.group.Name,
		TotalExpenses: sheet.TotalExpenses,
		LastSettled:   l.lastSettled,
		Members:       sheet.Members,
	}
}

// Expenses returns a copy of the unsettled expenses, oldest first.
func (l *Ledger) Expenses() []*models.Expense {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]*models.Expense, len(l.unsettled))
	copy(out, l.unsettled)
	return out
}
