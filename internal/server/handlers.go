package server

import (
	"encoding/json"
	"net/http"

	"github.com/PavanMeka09/expense-server/internal/ledger"
	"github.com/PavanMeka09/expense-server/internal/middleware"
	"github.com/PavanMeka09/expense-server/internal/models"
	"github.com/PavanMeka09/expense-server/internal/money"
)

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, badRequest("invalid JSON body"))
		return
	}

	group, err := s.svc.CreateGroup(r.Context(), req.Name, req.Members)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGroupResponse(group))
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.svc.ListGroups(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]groupResponse, len(groups))
	for i, g := range groups {
		out[i] = toGroupResponse(g)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGroupDetails(w http.ResponseWriter, r *http.Request) {
	group, err := s.svc.GetGroup(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

func (s *Server) handleGroupSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.svc.Summary(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryResponse(summary))
}

func (s *Server) handleRecordExpense(w http.ResponseWriter, r *http.Request) {
	var req recordExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, badRequest("invalid JSON body"))
		return
	}

	amount, err := money.FromMajor(req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var custom map[string]money.Money
	if req.CustomAmounts != nil {
		custom = make(map[string]money.Money, len(req.CustomAmounts))
		for member, value := range req.CustomAmounts {
			// User-entered amounts are rounded exactly once, here at the
			// boundary.
			rounded, err := money.RoundToMinorUnit(value)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			custom[member] = rounded
		}
	}

	expense, err := s.svc.RecordExpense(r.Context(), r.PathValue("id"), ledger.ExpenseRequest{
		Title:         req.Title,
		Amount:        amount,
		PayerID:       req.PaidBy,
		SplitType:     models.SplitType(req.SplitType),
		Participants:  req.Participants,
		CustomAmounts: custom,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	middleware.ExpensesRecorded.Inc()
	writeJSON(w, http.StatusCreated, toExpenseResponse(expense))
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.svc.ListExpenses(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]expenseResponse, len(expenses))
	for i, e := range expenses {
		out[i] = toExpenseResponse(e)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSettle(w http.ResponseWriter, r *http.Request) {
	settlement, err := s.svc.Settle(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	middleware.SettlementsCommitted.Inc()
	writeJSON(w, http.StatusOK, toSettlementResponse(settlement))
}

func (s *Server) handleListSettlements(w http.ResponseWriter, r *http.Request) {
	settlements, err := s.svc.ListSettlements(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]settlementResponse, len(settlements))
	for i, st := range settlements {
		out[i] = toSettlementResponse(st)
	}
	writeJSON(w, http.StatusOK, out)
}
