// Package server exposes the ledger service as a JSON HTTP API for the
// dashboard client.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PavanMeka09/expense-server/internal/middleware"
	"github.com/PavanMeka09/expense-server/internal/rbac"
	"github.com/PavanMeka09/expense-server/internal/service"
)

// Server routes dashboard requests to the ledger service.
type Server struct {
	svc *service.LedgerService
}

// New creates a Server for the given service.
func New(svc *service.LedgerService) *Server {
	return &Server{svc: svc}
}

// Handler builds the routed handler with the full middleware stack.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /groups", withPermission(rbac.PermCreateGroups, s.handleCreateGroup))
	mux.HandleFunc("GET /groups", withPermission(rbac.PermViewGroups, s.handleListGroups))
	mux.HandleFunc("GET /groups/{id}/details", withPermission(rbac.PermViewGroups, s.handleGroupDetails))
	mux.HandleFunc("GET /groups/{id}/summary", s.handleGroupSummary)
	mux.HandleFunc("GET /groups/{id}/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /groups/{id}/expenses", s.handleRecordExpense)
	mux.HandleFunc("GET /groups/{id}/settlements", s.handleListSettlements)
	mux.HandleFunc("POST /groups/{id}/settle", s.handleSettle)

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return middleware.Logging(middleware.Metrics(middleware.CORS(mux)))
}

// withPermission gates a handler on the caller's declared role. Requests
// without an X-Role header pass through, since authenticating the caller is
// the gateway's job, but a declared role is held to the permission table.
func withPermission(perm rbac.Permission, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if name := r.Header.Get("X-Role"); name != "" {
			role, ok := rbac.ParseRole(name)
			if !ok || !role.Permissions().Has(perm) {
				writeError(w, apiError{status: http.StatusForbidden, Error: "role lacks permission", Code: "forbidden"})
				return
			}
		}
		next(w, r)
	}
}
