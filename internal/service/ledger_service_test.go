package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PavanMeka09/expense-server/internal/events"
	"github.com/PavanMeka09/expense-server/internal/ledger"
	"github.com/PavanMeka09/expense-server/internal/models"
	"github.com/PavanMeka09/expense-server/internal/money"
	"github.com/PavanMeka09/expense-server/internal/storage"
	"github.com/PavanMeka09/expense-server/internal/storage/sqlite"
)

func newTestService(t *testing.T) (*LedgerService, string) {
	t.Helper()
	return newTestServiceWithPublisher(t, events.Nop{})
}

func newTestServiceWithPublisher(t *testing.T, publisher events.Publisher) (*LedgerService, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := sqlite.New(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return NewLedgerService(store, publisher), dbPath
}

// capturePublisher records every published event and can be told to fail.
type capturePublisher struct {
	expenses    []*models.Expense
	settlements []*models.Settlement
	err         error
}

func (p *capturePublisher) ExpenseRecorded(_ context.Context, e *models.Expense) error {
	p.expenses = append(p.expenses, e)
	return p.err
}

func (p *capturePublisher) GroupSettled(_ context.Context, s *models.Settlement) error {
	p.settlements = append(p.settlements, s)
	return p.err
}

func (p *capturePublisher) Close() error { return nil }

func dinner(payer string, participants ...string) ledger.ExpenseRequest {
	return ledger.ExpenseRequest{
		Title:        "Dinner",
		Amount:       money.FromMinor(10000),
		PayerID:      payer,
		SplitType:    models.SplitEqual,
		Participants: participants,
	}
}

func TestCreateGroupNormalizesMembers(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, "Roommates", []string{" Alice@X.com ", "BOB@x.com", "alice@x.com", ""})
	require.NoError(t, err)
	assert.NotEmpty(t, group.ID)
	assert.ElementsMatch(t, []string{"alice@x.com", "bob@x.com"}, group.Members)
}

func TestCreateGroupValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateGroup(ctx, "", []string{"a@x.com"})
	assert.ErrorIs(t, err, ErrEmptyGroupName)

	_, err = svc.CreateGroup(ctx, "Roommates", nil)
	assert.ErrorIs(t, err, ErrNoMembers)

	_, err = svc.CreateGroup(ctx, "Roommates", []string{"   "})
	assert.ErrorIs(t, err, ErrNoMembers)
}

func TestRecordExpenseAndSummary(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, "Trip", []string{"a@x.com", "b@x.com", "c@x.com"})
	require.NoError(t, err)

	_, err = svc.RecordExpense(ctx, group.ID, dinner("a@x.com", "a@x.com", "b@x.com", "c@x.com"))
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), summary.TotalExpenses.Cents)
	assert.Zero(t, summary.LastSettled)
	require.Len(t, summary.Members, 3)

	var net int64
	for _, m := range summary.Members {
		net += m.NetBalance.Cents
	}
	assert.Zero(t, net)
}

func TestRecordExpenseUnknownGroup(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.RecordExpense(context.Background(), "no-such-group", dinner("a@x.com", "a@x.com"))
	assert.ErrorIs(t, err, storage.ErrGroupNotFound)
}

func TestSettleFlow(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, "Trip", []string{"a@x.com", "b@x.com", "c@x.com"})
	require.NoError(t, err)

	_, err = svc.Settle(ctx, group.ID)
	assert.ErrorIs(t, err, ledger.ErrNothingToSettle)

	_, err = svc.RecordExpense(ctx, group.ID, dinner("a@x.com", "a@x.com", "b@x.com", "c@x.com"))
	require.NoError(t, err)

	settlement, err := svc.Settle(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), settlement.TotalExpenses.Cents)

	summary, err := svc.Summary(ctx, group.ID)
	require.NoError(t, err)
	assert.True(t, summary.TotalExpenses.IsZero())
	assert.Equal(t, settlement.CreatedAt, summary.LastSettled)

	_, err = svc.Settle(ctx, group.ID)
	assert.ErrorIs(t, err, ledger.ErrNothingToSettle)

	settlements, err := svc.ListSettlements(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, settlements, 1)
	assert.Equal(t, settlement.ID, settlements[0].ID)
}

func TestListExpensesOnlyUnsettled(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, "Trip", []string{"a@x.com", "b@x.com"})
	require.NoError(t, err)

	_, err = svc.RecordExpense(ctx, group.ID, dinner("a@x.com", "a@x.com", "b@x.com"))
	require.NoError(t, err)
	_, err = svc.Settle(ctx, group.ID)
	require.NoError(t, err)

	req := dinner("b@x.com", "a@x.com", "b@x.com")
	req.Title = "Breakfast"
	_, err = svc.RecordExpense(ctx, group.ID, req)
	require.NoError(t, err)

	expenses, err := svc.ListExpenses(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "Breakfast", expenses[0].Title)
}

func TestLedgerSurvivesRestart(t *testing.T) {
	svc, dbPath := newTestService(t)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, "Trip", []string{"a@x.com", "b@x.com", "c@x.com"})
	require.NoError(t, err)

	_, err = svc.RecordExpense(ctx, group.ID, dinner("a@x.com", "a@x.com", "b@x.com", "c@x.com"))
	require.NoError(t, err)
	settlement, err := svc.Settle(ctx, group.ID)
	require.NoError(t, err)

	req := dinner("b@x.com", "a@x.com", "b@x.com", "c@x.com")
	req.Title = "Breakfast"
	req.Amount = money.FromMinor(900)
	_, err = svc.RecordExpense(ctx, group.ID, req)
	require.NoError(t, err)

	// A fresh service (same database) must hydrate the same state.
	store, err := sqlite.New(dbPath)
	require.NoError(t, err)
	defer store.Close()
	restarted := NewLedgerService(store, events.Nop{})

	summary, err := restarted.Summary(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(900), summary.TotalExpenses.Cents)
	assert.Equal(t, settlement.CreatedAt, summary.LastSettled)

	expenses, err := restarted.ListExpenses(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "Breakfast", expenses[0].Title)
}

func TestEventsPublishedAfterCommit(t *testing.T) {
	publisher := &capturePublisher{}
	svc, _ := newTestServiceWithPublisher(t, publisher)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, "Trip", []string{"a@x.com", "b@x.com"})
	require.NoError(t, err)

	expense, err := svc.RecordExpense(ctx, group.ID, dinner("a@x.com", "a@x.com", "b@x.com"))
	require.NoError(t, err)
	require.Len(t, publisher.expenses, 1)
	assert.Equal(t, expense.ID, publisher.expenses[0].ID)
	assert.Equal(t, group.ID, publisher.expenses[0].GroupID)

	settlement, err := svc.Settle(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, publisher.settlements, 1)
	assert.Equal(t, settlement.ID, publisher.settlements[0].ID)

	// A rejected write publishes nothing.
	_, err = svc.RecordExpense(ctx, group.ID, dinner("stranger@x.com", "a@x.com"))
	require.Error(t, err)
	assert.Len(t, publisher.expenses, 1)
}

func TestPublisherFailureDoesNotFailOperation(t *testing.T) {
	publisher := &capturePublisher{err: errors.New("broker down")}
	svc, _ := newTestServiceWithPublisher(t, publisher)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, "Trip", []string{"a@x.com", "b@x.com"})
	require.NoError(t, err)

	expense, err := svc.RecordExpense(ctx, group.ID, dinner("a@x.com", "a@x.com", "b@x.com"))
	require.NoError(t, err)

	settlement, err := svc.Settle(ctx, group.ID)
	require.NoError(t, err)

	// Both writes are committed regardless of the publisher.
	history, err := svc.store.ListSettlementsByGroup(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, settlement.ID, history[0].ID)
	assert.NotEmpty(t, expense.ID)
}
