package sqlite

import (
	"context"
	"fmt"

	"github.com/PavanMeka09/expense-server/internal/models"
	"github.com/PavanMeka09/expense-server/internal/money"
)

// AppendExpense persists a new expense and its obligations in one
// transaction. Expenses are append-only; there is no update or delete.
func (s *Store) AppendExpense(ctx context.Context, expense *models.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, title, amount_cents, payer, split_type, settlement_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, NULL, ?)`,
		expense.ID, expense.GroupID, expense.Title, expense.Amount.Cents,
		expense.PayerID, string(expense.SplitType), expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for _, ob := range expense.Obligations {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO obligations (expense_id, member, amount_cents) VALUES (?, ?, ?)",
			expense.ID, ob.MemberID, ob.Amount.Cents,
		)
		if err != nil {
			return fmt.Errorf("failed to insert obligation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListUnsettledExpenses retrieves the expenses of a group not yet covered by
// a settlement, oldest first, with their obligations.
func (s *Store) ListUnsettledExpenses(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, title, amount_cents, payer, split_type, created_at
		 FROM expenses WHERE group_id = ? AND settlement_id IS NULL
		 ORDER BY created_at, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list unsettled expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		var amountCents int64
		var splitType string
		if err := rows.Scan(&expense.ID, &expense.GroupID, &expense.Title, &amountCents,
			&expense.PayerID, &splitType, &expense.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expense.Amount = money.FromMinor(amountCents)
		expense.SplitType = models.SplitType(splitType)
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		obligations, err := s.expenseObligations(ctx, expense.ID)
		if err != nil {
			return nil, err
		}
		expense.Obligations = obligations
	}
	return expenses, nil
}

func (s *Store) expenseObligations(ctx context.Context, expenseID string) ([]models.Obligation, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT member, amount_cents FROM obligations WHERE expense_id = ? ORDER BY member",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get obligations: %w", err)
	}
	defer rows.Close()

	var obligations []models.Obligation
	for rows.Next() {
		var member string
		var cents int64
		if err := rows.Scan(&member, &cents); err != nil {
			return nil, fmt.Errorf("failed to scan obligation: %w", err)
		}
		obligations = append(obligations, models.Obligation{
			MemberID: member,
			Amount:   money.FromMinor(cents),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate obligations: %w", err)
	}
	return obligations, nil
}
