package http

import (
	"log/slog"
	"net/http"
	"strings"

	"budget/internal/core"
)

type paycheckRow struct {
	ID        int64
	Amount    string
	Frequency string
}

// handlePaychecks serves the paycheck list partial on GET and records a
// paycheck on POST. Paychecks are append-only; there is no edit or delete.
func (s *Server) handlePaychecks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderPaycheckList(w, r)
	case http.MethodPost:
		s.createPaycheck(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderPaycheckList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	paychecks, err := s.paychecks.ListPaychecks(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List paychecks error", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Error loading paychecks</div>`))
		return
	}

	rows := make([]paycheckRow, 0, len(paychecks))
	for _, p := range paychecks {
		rows = append(rows, paycheckRow{
			ID:        p.ID,
			Amount:    formatDollars(p.Amount.Cents),
			Frequency: string(p.Frequency),
		})
	}

	data := struct {
		Paychecks []paycheckRow
	}{Paychecks: rows}

	if err := s.templates.ExecuteTemplate(w, "paychecks.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Paychecks template execution failed", "error", err, "template", "paychecks.html")
		_, _ = w.Write([]byte(`<div class="error">Error rendering paychecks</div>`))
	}
}

func (s *Server) createPaycheck(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}

	cents, err := core.ParseDecimalToCents(r.Form.Get("amount"))
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Invalid amount</div>`))
		return
	}

	p := core.Paycheck{
		Amount:    core.Money{Cents: cents},
		Frequency: core.Frequency(strings.TrimSpace(r.Form.Get("frequency"))),
	}
	if err := p.Validate(); err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Invalid frequency</div>`))
		return
	}

	id, err := s.paychecks.CreatePaycheck(r.Context(), p)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to save paycheck",
			"error", err,
			"amount_cents", p.Amount.Cents,
			"frequency", string(p.Frequency))
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Error saving paycheck</div>`))
		return
	}

	slog.InfoContext(r.Context(), "Paycheck created",
		"id", id,
		"amount_cents", p.Amount.Cents,
		"frequency", string(p.Frequency))

	s.invalidateOverview()
	w.Header().Set("HX-Trigger", `{"paychecks:changed": {}, "overview:refresh": {}}`)
	s.renderPaycheckList(w, r)
}
