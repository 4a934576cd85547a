package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/PavanMeka09/expense-server/internal/models"
	"github.com/PavanMeka09/expense-server/internal/money"
)

// AppendSettlement persists a settlement with its balance snapshot and marks
// the group's unsettled expenses as covered by it. Everything happens in one
// transaction so a settlement can never exist without its baseline advance.
func (s *Store) AppendSettlement(ctx context.Context, settlement *models.Settlement) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO settlements (id, group_id, total_cents, created_at) VALUES (?, ?, ?, ?)",
		settlement.ID, settlement.GroupID, settlement.TotalExpenses.Cents, settlement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}

	for _, bal := range settlement.Balances {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO settlement_balances (settlement_id, member, owes_cents, net_cents) VALUES (?, ?, ?, ?)",
			settlement.ID, bal.MemberID, bal.Owes.Cents, bal.NetBalance.Cents,
		)
		if err != nil {
			return fmt.Errorf("failed to insert settlement balance: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE expenses SET settlement_id = ? WHERE group_id = ? AND settlement_id IS NULL",
		settlement.ID, settlement.GroupID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark expenses settled: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListSettlementsByGroup retrieves the settlement history of a group, newest
// first, including balance snapshots.
func (s *Store) ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, total_cents, created_at
		 FROM settlements WHERE group_id = ? ORDER BY created_at DESC, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		settlement := &models.Settlement{}
		var totalCents int64
		if err := rows.Scan(&settlement.ID, &settlement.GroupID, &totalCents, &settlement.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlement.TotalExpenses = money.FromMinor(totalCents)
		settlements = append(settlements, settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	for _, settlement := range settlements {
		balances, err := s.settlementBalances(ctx, settlement.ID)
		if err != nil {
			return nil, err
		}
		settlement.Balances = balances
	}
	return settlements, nil
}

// LatestSettlementTime returns the Unix timestamp of the group's most recent
// settlement, or 0 if the group has never been settled.
func (s *Store) LatestSettlementTime(ctx context.Context, groupID string) (int64, error) {
	var createdAt int64
	err := s.db.QueryRowContext(ctx,
		"SELECT created_at FROM settlements WHERE group_id = ? ORDER BY created_at DESC, id LIMIT 1",
		groupID,
	).Scan(&createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get latest settlement: %w", err)
	}
	return createdAt, nil
}

func (s *Store) settlementBalances(ctx context.Context, settlementID string) ([]models.MemberBalance, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT member, owes_cents, net_cents FROM settlement_balances WHERE settlement_id = ? ORDER BY member",
		settlementID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement balances: %w", err)
	}
	defer rows.Close()

	var balances []models.MemberBalance
	for rows.Next() {
		var member string
		var owesCents, netCents int64
		if err := rows.Scan(&member, &owesCents, &netCents); err != nil {
			return nil, fmt.Errorf("failed to scan settlement balance: %w", err)
		}
		balances = append(balances, models.MemberBalance{
			MemberID:   member,
			Owes:       money.FromMinor(owesCents),
			NetBalance: money.FromMinor(netCents),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlement balances: %w", err)
	}
	return balances, nil
}
