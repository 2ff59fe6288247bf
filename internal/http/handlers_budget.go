package http

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"bilancio/internal/core"
	"bilancio/internal/remote"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := struct {
		Budget BudgetView
	}{
		Budget: buildBudgetView(s.sess.Registry(), s.sess.Snapshot()),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleBudgetPartial renders the donut and totals fragment.
func (s *Server) handleBudgetPartial(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	body, err := s.renderBudget(s.sess.Snapshot())
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget partial rendering failed", "error", err)
		_, _ = w.Write([]byte(`<section id="budget" class="budget"><div class="placeholder">Errore caricando il bilancio</div></section>`))
		return
	}
	_, _ = w.Write(body)
}

func (s *Server) handleSetIncome(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		BadRequestError("Formato richiesta non valido").Write(w)
		return
	}

	income := core.ParseAmount(r.Form.Get("income"))
	snap := s.sess.SetIncome(income)

	s.writeBudgetUpdate(w, r, snap)
}

func (s *Server) handleSetCategory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		BadRequestError("Formato richiesta non valido").Write(w)
		return
	}

	id := strings.TrimSpace(r.Form.Get("category"))
	if !s.sess.Registry().Contains(id) {
		ErrorResponse(http.StatusUnprocessableEntity, "Categoria sconosciuta").Write(w)
		return
	}

	amount := core.ParseAmount(r.Form.Get("amount"))
	snap := s.sess.SetCategoryAmount(id, amount)

	s.writeBudgetUpdate(w, r, snap)
}

// handleSave is the user-initiated save. Unlike the background sync it
// reports failures to the user instead of swallowing them.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}

	snap := s.sess.Snapshot()
	if err := s.saveExplicit(r, snap); err != nil {
		slog.ErrorContext(r.Context(), "Explicit save failed", "error", err)
		if errors.Is(err, remote.ErrUnauthorized) {
			NewHTMXResponse().
				Status(http.StatusUnauthorized).
				TriggerErrorNotification("Sessione scaduta, effettua di nuovo l'accesso").
				BodyHTML(`<div class="error">Salvataggio non autorizzato</div>`).
				Write(w)
			return
		}
		NewHTMXResponse().
			Status(http.StatusBadGateway).
			TriggerErrorNotification("Errore nel salvataggio del bilancio").
			BodyHTML(`<div class="error">Errore nel salvataggio</div>`).
			Write(w)
		return
	}

	if s.notify != nil {
		s.notify(r.Context(), snap)
	}

	body, err := s.renderBudget(snap)
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget partial rendering failed", "error", err)
		body = []byte(`<section id="budget" class="budget"></section>`)
	}
	NewHTMXResponse().
		TriggerBudgetSaved().
		TriggerSuccessNotification("Bilancio salvato").
		Body(body).
		Header("Content-Type", "text/html; charset=utf-8").
		Write(w)
}

// saveExplicit prefers the store's dedicated explicit-save endpoint when it
// has one, falling back to the regular save.
func (s *Server) saveExplicit(r *http.Request, snap core.Snapshot) error {
	if es, ok := s.store.(interface {
		SaveExplicit(context.Context, core.Snapshot) error
	}); ok {
		return es.SaveExplicit(r.Context(), snap)
	}
	return s.store.Save(r.Context(), snap)
}

func (s *Server) writeBudgetUpdate(w http.ResponseWriter, r *http.Request, snap core.Snapshot) {
	body, err := s.renderBudget(snap)
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget partial rendering failed", "error", err)
		InternalServerError("Errore rendering bilancio").Write(w)
		return
	}
	NewHTMXResponse().
		TriggerBudgetChanged().
		Body(body).
		Header("Content-Type", "text/html; charset=utf-8").
		Write(w)
}

func (s *Server) renderBudget(snap core.Snapshot) ([]byte, error) {
	if s.templates == nil {
		return nil, errors.New("templates not loaded")
	}
	var buf bytes.Buffer
	view := buildBudgetView(s.sess.Registry(), snap)
	if err := s.templates.ExecuteTemplate(&buf, "budget.html", view); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
