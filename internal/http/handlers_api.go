package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"bilancio/internal/core"
	"bilancio/internal/donut"
	"bilancio/internal/remote"
)

// budgetResponse is the JSON shape shared by all API endpoints that return
// the current budget.
type budgetResponse struct {
	Income        int64            `json:"income"`
	Amounts       map[string]int64 `json:"amounts"`
	TotalExpenses int64            `json:"totalExpenses"`
	Remaining     int64            `json:"remaining"`
	PercentSpent  float64          `json:"percentSpent"`
	Segments      []donut.Segment  `json:"segments"`
}

func (s *Server) writeBudgetJSON(w http.ResponseWriter, snap core.Snapshot) {
	resp := budgetResponse{
		Income:        snap.Income,
		Amounts:       snap.Amounts,
		TotalExpenses: snap.TotalExpenses,
		Remaining:     snap.Remaining,
		PercentSpent:  donut.PercentSpent(snap),
		Segments:      donut.Layout(s.sess.Registry(), snap),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// handleAPIBudget returns the current budget with derived totals and the
// donut layout.
func (s *Server) handleAPIBudget(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeBudgetJSON(w, s.sess.Snapshot())
}

func (s *Server) handleAPISetIncome(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Income json.Number `json:"income"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snap := s.sess.SetIncome(core.ParseAmount(req.Income.String()))
	s.writeBudgetJSON(w, snap)
}

func (s *Server) handleAPISetCategory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Category string      `json:"category"`
		Amount   json.Number `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := strings.TrimSpace(req.Category)
	if !s.sess.Registry().Contains(id) {
		writeJSONError(w, http.StatusUnprocessableEntity, "unknown category: "+id)
		return
	}

	snap := s.sess.SetCategoryAmount(id, core.ParseAmount(req.Amount.String()))
	s.writeBudgetJSON(w, snap)
}

func (s *Server) handleAPISave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	snap := s.sess.Snapshot()
	if err := s.saveExplicit(r, snap); err != nil {
		slog.ErrorContext(r.Context(), "Explicit save failed", "error", err)
		if errors.Is(err, remote.ErrUnauthorized) {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		writeJSONError(w, http.StatusBadGateway, "save failed")
		return
	}

	if s.notify != nil {
		s.notify(r.Context(), snap)
	}
	s.writeBudgetJSON(w, snap)
}
