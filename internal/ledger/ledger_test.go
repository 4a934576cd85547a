package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PavanMeka09/expense-server/internal/models"
	"github.com/PavanMeka09/expense-server/internal/money"
	"github.com/PavanMeka09/expense-server/internal/split"
)

// memJournal is an in-memory Journal for tests.
type memJournal struct {
	mu          sync.Mutex
	expenses    []*models.Expense
	settlements []*models.Settlement
	failNext    error
}

func (j *memJournal) AppendExpense(_ context.Context, e *models.Expense) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.failNext != nil {
		err := j.failNext
		j.failNext = nil
		return err
	}
	j.expenses = append(j.expenses, e)
	return nil
}

func (j *memJournal) AppendSettlement(_ context.Context, s *models.Settlement) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.failNext != nil {
		err := j.failNext
		j.failNext = nil
		return err
	}
	j.settlements = append(j.settlements, s)
	return nil
}

func testGroup() *models.Group {
	return &models.Group{
		ID:      "g1",
		Name:    "Goa Trip",
		Members: []string{"a@x.com", "b@x.com", "c@x.com"},
	}
}

func equalExpense(title string, cents int64, payer string, participants ...string) ExpenseRequest {
	return ExpenseRequest{
		Title:        title,
		Amount:       money.FromMinor(cents),
		PayerID:      payer,
		SplitType:    models.SplitEqual,
		Participants: participants,
	}
}

func balanceOf(sheet models.BalanceSheet, member string) models.MemberBalance {
	for _, b := range sheet.Members {
		if b.MemberID == member {
			return b
		}
	}
	return models.MemberBalance{}
}

func TestRecordExpenseDinnerScenario(t *testing.T) {
	ctx := context.Background()
	l := New(testGroup(), &memJournal{})

	expense, err := l.RecordExpense(ctx, equalExpense("Dinner", 10000, "a@x.com", "a@x.com", "b@x.com", "c@x.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, expense.ID)
	assert.NotZero(t, expense.CreatedAt)

	sheet := l.BalanceSheet()
	assert.Equal(t, int64(10000), sheet.TotalExpenses.Cents)

	// 100.00 split three ways: a (first by id) carries the extra cent.
	assert.Equal(t, int64(3334), balanceOf(sheet, "a@x.com").Owes.Cents)
	assert.Equal(t, int64(3333), balanceOf(sheet, "b@x.com").Owes.Cents)
	assert.Equal(t, int64(3333), balanceOf(sheet, "c@x.com").Owes.Cents)

	// a paid 100.00 and consumed 33.34.
	assert.Equal(t, int64(6666), balanceOf(sheet, "a@x.com").NetBalance.Cents)
	assert.Equal(t, int64(-3333), balanceOf(sheet, "b@x.com").NetBalance.Cents)
	assert.Equal(t, int64(-3333), balanceOf(sheet, "c@x.com").NetBalance.Cents)
}

func TestConservation(t *testing.T) {
	ctx := context.Background()
	l := New(testGroup(), &memJournal{})

	requests := []ExpenseRequest{
		equalExpense("Dinner", 10000, "a@x.com", "a@x.com", "b@x.com", "c@x.com"),
		equalExpense("Cab", 777, "b@x.com", "b@x.com", "c@x.com"),
		equalExpense("Snacks", 305, "c@x.com", "a@x.com"),
		{
			Title:        "Hotel",
			Amount:       money.FromMinor(25001),
			PayerID:      "a@x.com",
			SplitType:    models.SplitCustom,
			Participants: []string{"a@x.com", "b@x.com", "c@x.com"},
			CustomAmounts: map[string]money.Money{
				"a@x.com": money.FromMinor(10001),
				"b@x.com": money.FromMinor(10000),
				"c@x.com": money.FromMinor(5000),
			},
		},
	}

	for _, req := range requests {
		_, err := l.RecordExpense(ctx, req)
		require.NoError(t, err, req.Title)

		var net int64
		for _, b := range l.BalanceSheet().Members {
			net += b.NetBalance.Cents
		}
		assert.Zero(t, net, "net balances must sum to zero after %s", req.Title)
	}

	sheet := l.BalanceSheet()
	assert.Equal(t, int64(10000+777+305+25001), sheet.TotalExpenses.Cents)
}

func TestBalanceSheetIsIdempotentRead(t *testing.T) {
	ctx := context.Background()
	l := New(testGroup(), &memJournal{})

	_, err := l.RecordExpense(ctx, equalExpense("Dinner", 10000, "a@x.com", "a@x.com", "b@x.com", "c@x.com"))
	require.NoError(t, err)

	first := l.BalanceSheet()
	second := l.BalanceSheet()
	assert.Equal(t, first, second)
}

func TestPayerNotIncludedAsObligor(t *testing.T) {
	ctx := context.Background()
	l := New(testGroup(), &memJournal{})

	// a pays but only b and c share the expense.
	_, err := l.RecordExpense(ctx, equalExpense("Tickets", 5000, "a@x.com", "b@x.com", "c@x.com"))
	require.NoError(t, err)

	sheet := l.BalanceSheet()
	assert.Equal(t, int64(0), balanceOf(sheet, "a@x.com").Owes.Cents)
	assert.Equal(t, int64(5000), balanceOf(sheet, "a@x.com").NetBalance.Cents)
	assert.Equal(t, int64(-2500), balanceOf(sheet, "b@x.com").NetBalance.Cents)
	assert.Equal(t, int64(-2500), balanceOf(sheet, "c@x.com").NetBalance.Cents)
}

func TestRecordExpenseUnknownMember(t *testing.T) {
	ctx := context.Background()
	l := New(testGroup(), &memJournal{})

	_, err := l.RecordExpense(ctx, equalExpense("Dinner", 1000, "stranger@x.com", "a@x.com"))
	assert.ErrorIs(t, err, ErrUnknownMember)

	_, err = l.RecordExpense(ctx, equalExpense("Dinner", 1000, "a@x.com", "stranger@x.com"))
	assert.ErrorIs(t, err, ErrUnknownMember)

	_, err = l.RecordExpense(ctx, ExpenseRequest{
		Title:        "Dinner",
		Amount:       money.FromMinor(1000),
		PayerID:      "a@x.com",
		SplitType:    models.SplitCustom,
		Participants: []string{"a@x.com"},
		CustomAmounts: map[string]money.Money{
			"stranger@x.com": money.FromMinor(1000),
		},
	})
	assert.ErrorIs(t, err, ErrUnknownMember)
}

func TestRecordExpenseNormalizesMemberIDs(t *testing.T) {
	ctx := context.Background()
	l := New(testGroup(), &memJournal{})

	expense, err := l.RecordExpense(ctx, equalExpense("Dinner", 1000, "  A@X.com ", "B@x.COM", "a@x.com"))
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", expense.PayerID)

	for _, ob := range expense.Obligations {
		assert.Contains(t, []string{"a@x.com", "b@x.com"}, ob.MemberID)
	}
}

func TestRecordExpenseTrimsTitle(t *testing.T) {
	l := New(testGroup(), &memJournal{})

	expense, err := l.RecordExpense(context.Background(), equalExpense("  Dinner \n", 3000, "a@x.com", "a@x.com", "b@x.com"))
	require.NoError(t, err)
	assert.Equal(t, "Dinner", expense.Title)
}

func TestRecordExpenseJournalFailureLeavesLedgerUnchanged(t *testing.T) {
	ctx := context.Background()
	journal := &memJournal{failNext: errors.New("disk full")}
	l := New(testGroup(), journal)

	_, err := l.RecordExpense(ctx, equalExpense("Dinner", 1000, "a@x.com", "a@x.com"))
	require.Error(t, err)

	assert.True(t, l.BalanceSheet().TotalExpenses.IsZero())
	assert.Empty(t, l.Expenses())
}

func TestSettle(t *testing.T) {
	ctx := context.Background()
	journal := &memJournal{}
	l := New(testGroup(), journal)

	_, err := l.RecordExpense(ctx, equalExpense("Dinner", 10000, "a@x.com", "a@x.com", "b@x.com", "c@x.com"))
	require.NoError(t, err)

	settlement, err := l.Settle(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), settlement.TotalExpenses.Cents)
	assert.Len(t, settlement.Balances, 3)
	assert.Equal(t, int64(6666), settlement.Balances[0].NetBalance.Cents) // a@x.com

	// Baseline reset: the sheet is empty and all members read zero.
	sheet := l.BalanceSheet()
	assert.True(t, sheet.TotalExpenses.IsZero())
	for _, b := range sheet.Members {
		assert.True(t, b.Owes.IsZero(), b.MemberID)
		assert.True(t, b.NetBalance.IsZero(), b.MemberID)
	}

	summary := l.Summary()
	assert.Equal(t, settlement.CreatedAt, summary.LastSettled)

	// Settling again with nothing recorded is rejected, not a no-op.
	_, err = l.Settle(ctx)
	assert.ErrorIs(t, err, ErrNothingToSettle)
	assert.Len(t, journal.settlements, 1)
}

func TestSettleOnEmptyLedger(t *testing.T) {
	l := New(testGroup(), &memJournal{})
	_, err := l.Settle(context.Background())
	assert.ErrorIs(t, err, ErrNothingToSettle)
}

func TestExpenseAfterSettlementOnlyReflectsNewState(t *testing.T) {
	ctx := context.Background()
	l := New(testGroup(), &memJournal{})

	_, err := l.RecordExpense(ctx, equalExpense("Dinner", 10000, "a@x.com", "a@x.com", "b@x.com", "c@x.com"))
	require.NoError(t, err)
	_, err = l.Settle(ctx)
	require.NoError(t, err)

	_, err = l.RecordExpense(ctx, equalExpense("Breakfast", 900, "b@x.com", "a@x.com", "b@x.com", "c@x.com"))
	require.NoError(t, err)

	sheet := l.BalanceSheet()
	assert.Equal(t, int64(900), sheet.TotalExpenses.Cents)
	assert.Equal(t, int64(-300), balanceOf(sheet, "a@x.com").NetBalance.Cents)
	assert.Equal(t, int64(600), balanceOf(sheet, "b@x.com").NetBalance.Cents)
	assert.Equal(t, int64(-300), balanceOf(sheet, "c@x.com").NetBalance.Cents)
}

func TestSettleJournalFailureIsAtomic(t *testing.T) {
	ctx := context.Background()
	journal := &memJournal{}
	l := New(testGroup(), journal)

	_, err := l.RecordExpense(ctx, equalExpense("Dinner", 10000, "a@x.com", "a@x.com", "b@x.com", "c@x.com"))
	require.NoError(t, err)

	journal.failNext = errors.New("broker down")
	_, err = l.Settle(ctx)
	require.Error(t, err)

	// Neither the snapshot nor the baseline advance happened.
	assert.Empty(t, journal.settlements)
	assert.Equal(t, int64(10000), l.BalanceSheet().TotalExpenses.Cents)
	assert.Zero(t, l.Summary().LastSettled)
}

func TestSplitErrorsPassThrough(t *testing.T) {
	ctx := context.Background()
	l := New(testGroup(), &memJournal{})

	_, err := l.RecordExpense(ctx, equalExpense("  ", 1000, "a@x.com", "a@x.com"))
	assert.ErrorIs(t, err, split.ErrEmptyTitle)

	_, err = l.RecordExpense(ctx, ExpenseRequest{
		Title:        "Hotel",
		Amount:       money.FromMinor(9000),
		PayerID:      "a@x.com",
		SplitType:    models.SplitCustom,
		Participants: []string{"a@x.com", "b@x.com", "c@x.com"},
		CustomAmounts: map[string]money.Money{
			"a@x.com": money.FromMinor(3000),
			"b@x.com": money.FromMinor(3000),
			"c@x.com": money.FromMinor(2999),
		},
	})
	var mismatch *split.SplitMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, int64(-1), mismatch.Diff().Cents)
}

func TestConcurrentWritesStaySerialized(t *testing.T) {
	ctx := context.Background()
	journal := &memJournal{}
	l := New(testGroup(), journal)

	const writers = 8
	const perWriter = 25

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				_, err := l.RecordExpense(ctx, equalExpense("Coffee", 301, "a@x.com", "a@x.com", "b@x.com", "c@x.com"))
				if err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	sheet := l.BalanceSheet()
	assert.Equal(t, int64(writers*perWriter*301), sheet.TotalExpenses.Cents)

	var net int64
	for _, b := range sheet.Members {
		net += b.NetBalance.Cents
	}
	assert.Zero(t, net)
	assert.Len(t, journal.expenses, writers*perWriter)
}

func TestRegistry(t *testing.T) {
	loaded := 0
	registry := NewRegistry(func(_ context.Context, groupID string) (*Ledger, error) {
		loaded++
		return New(&models.Group{ID: groupID, Name: "g", Members: []string{"a@x.com"}}, &memJournal{}), nil
	})

	ctx := context.Background()
	first, err := registry.Get(ctx, "g1")
	require.NoError(t, err)
	second, err := registry.Get(ctx, "g1")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, loaded)

	fresh := New(&models.Group{ID: "g2", Members: []string{"a@x.com"}}, &memJournal{})
	registry.Put("g2", fresh)
	got, err := registry.Get(ctx, "g2")
	require.NoError(t, err)
	assert.Same(t, fresh, got)
	assert.Equal(t, 1, loaded)
}
