package server

import "github.com/PavanMeka09/expense-server/internal/models"

// Request shapes.

type createGroupRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

type recordExpenseRequest struct {
	Title         string             `json:"title"`
	Amount        float64            `json:"amount"`
	PaidBy        string             `json:"paidBy"`
	SplitType     string             `json:"splitType"`
	Participants  []string           `json:"participants"`
	CustomAmounts map[string]float64 `json:"customAmounts,omitempty"`
}

// Response shapes. Amounts are major-unit numbers; timestamps are Unix
// seconds, with lastSettled null when the group has never been settled.

type groupResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	MembersEmail []string `json:"membersEmail"`
	CreatedAt    int64    `json:"createdAt"`
}

type memberBalanceResponse struct {
	MemberID   string  `json:"memberId"`
	Owes       float64 `json:"owes"`
	NetBalance float64 `json:"netBalance"`
}

type summaryResponse struct {
	GroupID       string                  `json:"groupId"`
	Name          string                  `json:"name"`
	TotalExpenses float64                 `json:"totalExpenses"`
	LastSettled   *int64                  `json:"lastSettled"`
	Members       []memberBalanceResponse `json:"members"`
}

type obligationResponse struct {
	MemberID string  `json:"memberId"`
	Amount   float64 `json:"amount"`
}

type expenseResponse struct {
	ID          string               `json:"id"`
	GroupID     string               `json:"groupId"`
	Title       string               `json:"title"`
	Amount      float64              `json:"amount"`
	PaidBy      string               `json:"paidBy"`
	SplitType   string               `json:"splitType"`
	Obligations []obligationResponse `json:"obligations"`
	CreatedAt   int64                `json:"createdAt"`
}

type settlementResponse struct {
	ID            string                  `json:"id"`
	GroupID       string                  `json:"groupId"`
	TotalExpenses float64                 `json:"totalExpenses"`
	Balances      []memberBalanceResponse `json:"balances"`
	CreatedAt     int64                   `json:"createdAt"`
}

func toGroupResponse(g *models.Group) groupResponse {
	return groupResponse{
		ID:           g.ID,
		Name:         g.Name,
		MembersEmail: g.Members,
		CreatedAt:    g.CreatedAt,
	}
}

func toBalanceResponses(balances []models.MemberBalance) []memberBalanceResponse {
	out := make([]memberBalanceResponse, len(balances))
	for i, b := range balances {
		out[i] = memberBalanceResponse{
			MemberID:   b.MemberID,
			Owes:       b.Owes.Major(),
			NetBalance: b.NetBalance.Major(),
		}
	}
	return out
}

func toSummaryResponse(s models.GroupSummary) summaryResponse {
	resp := summaryResponse{
		GroupID:       s.GroupID,
		Name:          s.Name,
		TotalExpenses: s.TotalExpenses.Major(),
		Members:       toBalanceResponses(s.Members),
	}
	if s.LastSettled != 0 {
		ts := s.LastSettled
		resp.LastSettled = &ts
	}
	return resp
}

func toExpenseResponse(e *models.Expense) expenseResponse {
	obligations := make([]obligationResponse, len(e.Obligations))
	for i, ob := range e.Obligations {
		obligations[i] = obligationResponse{MemberID: ob.MemberID, Amount: ob.Amount.Major()}
	}
	return expenseResponse{
		ID:          e.ID,
		GroupID:     e.GroupID,
		Title:       e.Title,
		Amount:      e.Amount.Major(),
		PaidBy:      e.PayerID,
		SplitType:   string(e.SplitType),
		Obligations: obligations,
		CreatedAt:   e.CreatedAt,
	}
}

func toSettlementResponse(s *models.Settlement) settlementResponse {
	return settlementResponse{
		ID:            s.ID,
		GroupID:       s.GroupID,
		TotalExpenses: s.TotalExpenses.Major(),
		Balances:      toBalanceResponses(s.Balances),
		CreatedAt:     s.CreatedAt,
	}
}
