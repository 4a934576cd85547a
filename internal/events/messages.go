package events

import (
	"encoding/json"
	"time"

	"github.com/PavanMeka09/expense-server/internal/models"
)

// ExpenseRecordedMessage is a lightweight notification that an expense was
// committed. Consumers fetch the full expense from the API if they need it.
type ExpenseRecordedMessage struct {
	GroupID   string    `json:"group_id"`
	ExpenseID string    `json:"expense_id"`
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseRecordedMessage builds the notification for a committed expense.
func NewExpenseRecordedMessage(expense *models.Expense) *ExpenseRecordedMessage {
	return &ExpenseRecordedMessage{
		GroupID:   expense.GroupID,
		ExpenseID: expense.ID,
		Amount:    expense.Amount.Major(),
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ExpenseRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// GroupSettledMessage is a lightweight notification that a group was settled.
type GroupSettledMessage struct {
	GroupID      string    `json:"group_id"`
	SettlementID string    `json:"settlement_id"`
	Total        float64   `json:"total"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewGroupSettledMessage builds the notification for a committed settlement.
func NewGroupSettledMessage(settlement *models.Settlement) *GroupSettledMessage {
	return &GroupSettledMessage{
		GroupID:      settlement.GroupID,
		SettlementID: settlement.ID,
		Total:        settlement.TotalExpenses.Major(),
		Timestamp:    time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *GroupSettledMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
