package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PavanMeka09/expense-server/internal/models"
	"github.com/PavanMeka09/expense-server/internal/money"
)

func TestExpenseRecordedMessageToJSON(t *testing.T) {
	expense := &models.Expense{
		ID:      "e1",
		GroupID: "g1",
		Amount:  money.FromMinor(10000),
	}

	payload, err := NewExpenseRecordedMessage(expense).ToJSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "g1", decoded["group_id"])
	assert.Equal(t, "e1", decoded["expense_id"])
	assert.Equal(t, 100.0, decoded["amount"])
	assert.NotEmpty(t, decoded["timestamp"])
}

func TestGroupSettledMessageToJSON(t *testing.T) {
	settlement := &models.Settlement{
		ID:            "s1",
		GroupID:       "g1",
		TotalExpenses: money.FromMinor(4550),
	}

	payload, err := NewGroupSettledMessage(settlement).ToJSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "g1", decoded["group_id"])
	assert.Equal(t, "s1", decoded["settlement_id"])
	assert.Equal(t, 45.5, decoded["total"])
	assert.NotEmpty(t, decoded["timestamp"])
}
