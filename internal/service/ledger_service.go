// Package service orchestrates the ledger core against storage and events.
// It owns the group lifecycle and routes every ledger operation through the
// per-group aggregate so writes stay serialized.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/PavanMeka09/expense-server/internal/events"
	"github.com/PavanMeka09/expense-server/internal/ledger"
	"github.com/PavanMeka09/expense-server/internal/models"
	"github.com/PavanMeka09/expense-server/internal/storage"
)

// Validation errors owned by the service layer.
var (
	ErrEmptyGroupName = errors.New("group name is required")
	ErrNoMembers      = errors.New("a group needs at least one member")
)

// LedgerService exposes the group and ledger operations consumed by the HTTP
// layer.
type LedgerService struct {
	store    storage.Store
	registry *ledger.Registry
	events   events.Publisher
}

// NewLedgerService wires the service with its storage backend and event
// publisher.
func NewLedgerService(store storage.Store, publisher events.Publisher) *LedgerService {
	s := &LedgerService{
		store:  store,
		events: publisher,
	}
	s.registry = ledger.NewRegistry(s.loadLedger)
	return s
}

// loadLedger hydrates a group's aggregate from storage: group record,
// unsettled expenses and latest settlement timestamp.
func (s *LedgerService) loadLedger(ctx context.Context, groupID string) (*ledger.Ledger, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	unsettled, err := s.store.ListUnsettledExpenses(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("load unsettled expenses: %w", err)
	}
	lastSettled, err := s.store.LatestSettlementTime(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("load latest settlement: %w", err)
	}
	return ledger.Load(group, s.store, unsettled, lastSettled), nil
}

// CreateGroup normalizes and deduplicates the member set, persists the group
// and registers its empty ledger.
func (s *LedgerService) CreateGroup(ctx context.Context, name string, members []string) (*models.Group, error) {
	slog.Info("CreateGroup request received", "name", name, "members_count", len(members))

	if name == "" {
		return nil, ErrEmptyGroupName
	}

	seen := make(map[string]bool, len(members))
	normalized := make([]string, 0, len(members))
	for _, member := range members {
		m := models.NormalizeMember(member)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		normalized = append(normalized, m)
	}
	if len(normalized) == 0 {
		return nil, ErrNoMembers
	}

	group := &models.Group{
		Name:    name,
		Members: normalized,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, err
	}

	s.registry.Put(group.ID, ledger.New(group, s.store))
	slog.Info("Group created", "group_id", group.ID)
	return group, nil
}

// GetGroup retrieves a group by ID.
func (s *LedgerService) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return s.store.GetGroup(ctx, groupID)
}

// ListGroups retrieves all groups.
func (s *LedgerService) ListGroups(ctx context.Context) ([]*models.Group, error) {
	return s.store.ListGroups(ctx)
}

// RecordExpense records one expense against a group's ledger and publishes
// the committed event.
func (s *LedgerService) RecordExpense(ctx context.Context, groupID string, req ledger.ExpenseRequest) (*models.Expense, error) {
	slog.Info("RecordExpense request received",
		"group_id", groupID,
		"title", req.Title,
		"split_type", req.SplitType,
		"participants_count", len(req.Participants),
	)

	l, err := s.registry.Get(ctx, groupID)
	if err != nil {
		return nil, err
	}

	expense, err := l.RecordExpense(ctx, req)
	if err != nil {
		slog.Warn("RecordExpense rejected", "group_id", groupID, "error", err)
		return nil, err
	}

	if err := s.events.ExpenseRecorded(ctx, expense); err != nil {
		// The expense is already committed; a lost notification is the
		// consumer's problem to recover from, not a reason to fail the call.
		slog.Warn("Failed to publish expense event", "expense_id", expense.ID, "error", err)
	}

	slog.Info("Expense recorded",
		"group_id", groupID,
		"expense_id", expense.ID,
		"amount", expense.Amount.String(),
	)
	return expense, nil
}

// Summary returns the group's current reporting projection. Always
// recomputed from the ledger, never cached.
func (s *LedgerService) Summary(ctx context.Context, groupID string) (models.GroupSummary, error) {
	l, err := s.registry.Get(ctx, groupID)
	if err != nil {
		return models.GroupSummary{}, err
	}
	return l.Summary(), nil
}

// Settle snapshots and zeroes the group's outstanding balances.
func (s *LedgerService) Settle(ctx context.Context, groupID string) (*models.Settlement, error) {
	slog.Info("Settle request received", "group_id", groupID)

	l, err := s.registry.Get(ctx, groupID)
	if err != nil {
		return nil, err
	}

	settlement, err := l.Settle(ctx)
	if err != nil {
		slog.Warn("Settle rejected", "group_id", groupID, "error", err)
		return nil, err
	}

	if err := s.events.GroupSettled(ctx, settlement); err != nil {
		slog.Warn("Failed to publish settlement event", "settlement_id", settlement.ID, "error", err)
	}

	slog.Info("Group settled",
		"group_id", groupID,
		"settlement_id", settlement.ID,
		"total", settlement.TotalExpenses.String(),
	)
	return settlement, nil
}

// ListExpenses returns the group's unsettled expenses, oldest first.
func (s *LedgerService) ListExpenses(ctx context.Context, groupID string) ([]*models.Expense, error) {
	l, err := s.registry.Get(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return l.Expenses(), nil
}

// ListSettlements returns the group's settlement history, newest first.
func (s *LedgerService) ListSettlements(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	if _, err := s.registry.Get(ctx, groupID); err != nil {
		return nil, err
	}
	return s.store.ListSettlementsByGroup(ctx, groupID)
}
