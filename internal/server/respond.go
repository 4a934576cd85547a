package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/PavanMeka09/expense-server/internal/ledger"
	"github.com/PavanMeka09/expense-server/internal/money"
	"github.com/PavanMeka09/expense-server/internal/service"
	"github.com/PavanMeka09/expense-server/internal/split"
	"github.com/PavanMeka09/expense-server/internal/storage"
)

// apiError is the JSON error payload. Details is populated for split
// mismatches so the dashboard can show the exact difference.
type apiError struct {
	status  int
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func badRequest(msg string) apiError {
	return apiError{status: http.StatusBadRequest, Error: msg, Code: "bad_request"}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, e apiError) {
	writeJSON(w, e.status, e)
}

// writeServiceError maps core errors to HTTP statuses. Validation failures
// are 4xx with a stable code; anything unrecognized is an internal failure,
// so callers can tell a rejected operation from a broken collaborator.
func writeServiceError(w http.ResponseWriter, err error) {
	var mismatch *split.SplitMismatchError
	switch {
	case errors.As(err, &mismatch):
		writeError(w, apiError{
			status: http.StatusBadRequest,
			Error:  mismatch.Error(),
			Code:   "split_mismatch",
			Details: map[string]any{
				"total":      mismatch.Got.Major(),
				"difference": mismatch.Diff().Major(),
			},
		})
	case errors.Is(err, storage.ErrGroupNotFound):
		writeError(w, apiError{status: http.StatusNotFound, Error: err.Error(), Code: "group_not_found"})
	case errors.Is(err, ledger.ErrNothingToSettle):
		writeError(w, apiError{status: http.StatusConflict, Error: err.Error(), Code: "nothing_to_settle"})
	case errors.Is(err, money.ErrInvalidAmount):
		writeError(w, apiError{status: http.StatusBadRequest, Error: err.Error(), Code: "invalid_amount"})
	case errors.Is(err, split.ErrEmptyTitle):
		writeError(w, apiError{status: http.StatusBadRequest, Error: err.Error(), Code: "empty_title"})
	case errors.Is(err, split.ErrEmptyParticipants):
		writeError(w, apiError{status: http.StatusBadRequest, Error: err.Error(), Code: "empty_participants"})
	case errors.Is(err, split.ErrNegativeSplit):
		writeError(w, apiError{status: http.StatusBadRequest, Error: err.Error(), Code: "negative_split"})
	case errors.Is(err, ledger.ErrUnknownMember):
		writeError(w, apiError{status: http.StatusBadRequest, Error: err.Error(), Code: "unknown_member"})
	case errors.Is(err, service.ErrEmptyGroupName), errors.Is(err, service.ErrNoMembers):
		writeError(w, apiError{status: http.StatusBadRequest, Error: err.Error(), Code: "invalid_group"})
	default:
		slog.Error("Internal error", "error", err)
		writeError(w, apiError{status: http.StatusInternalServerError, Error: "internal error", Code: "internal"})
	}
}
