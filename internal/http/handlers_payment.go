package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"budget/internal/core"
)

// handlePayments records a payment against a bill. The `mode` field selects
// between applying it immediately and scheduling it for later; immediate
// payments move the bill's balance, scheduled ones only record intent.
func (s *Server) handlePayments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}

	billID, err := parseID(r.Form.Get("bill_id"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Missing bill id</div>`))
		return
	}

	cents, err := core.ParseDecimalToCents(r.Form.Get("amount"))
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Invalid amount</div>`))
		return
	}
	amount := core.Money{Cents: cents}

	dateStr := strings.TrimSpace(r.Form.Get("date"))
	date, err := core.ParseDate(dateStr)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Invalid date</div>`))
		return
	}

	mode := strings.TrimSpace(r.Form.Get("mode"))
	if mode == "schedule" {
		s.schedulePayment(w, r, billID, amount, date)
		return
	}
	s.recordPayment(w, r, billID, amount, date.Time)
}

func (s *Server) recordPayment(w http.ResponseWriter, r *http.Request, billID int64, amount core.Money, paidAt time.Time) {
	bill, err := s.payments.RecordPayment(r.Context(), billID, amount, paidAt)
	if err != nil {
		if errors.Is(err, core.ErrNotInstallment) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`<div class="error">Bill has no balance to pay against</div>`))
			return
		}
		slog.ErrorContext(r.Context(), "Failed to record payment",
			"error", err,
			"bill_id", billID,
			"amount_cents", amount.Cents)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Error recording payment</div>`))
		return
	}

	slog.InfoContext(r.Context(), "Payment recorded",
		"bill_id", billID,
		"amount_cents", amount.Cents,
		"remaining_cents", bill.RemainingBalance.Cents)

	s.invalidateOverview()
	w.Header().Set("HX-Trigger", `{"bills:changed": {}, "overview:refresh": {}}`)
	s.renderBillsList(w, r)
}

func (s *Server) schedulePayment(w http.ResponseWriter, r *http.Request, billID int64, amount core.Money, due core.Date) {
	sp := core.ScheduledPayment{
		BillID:  billID,
		Amount:  amount,
		DueDate: due,
	}
	if err := sp.Validate(); err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Invalid scheduled payment</div>`))
		return
	}

	id, err := s.payments.SchedulePayment(r.Context(), sp)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to schedule payment",
			"error", err,
			"bill_id", billID,
			"amount_cents", amount.Cents,
			"due_date", due.String())
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Error scheduling payment</div>`))
		return
	}

	slog.InfoContext(r.Context(), "Payment scheduled",
		"id", id,
		"bill_id", billID,
		"amount_cents", amount.Cents,
		"due_date", due.String())

	w.Header().Set("HX-Trigger", `{"scheduled:changed": {}}`)
	s.renderScheduledList(w, r)
}

type scheduledRow struct {
	ID      int64
	BillID  int64
	Amount  string
	DueDate string
}

// handleScheduledPayments renders the scheduled payments partial. An
// optional bill_id query narrows it to one bill.
func (s *Server) handleScheduledPayments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.renderScheduledList(w, r)
}

func (s *Server) renderScheduledList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	var billID int64
	if v := strings.TrimSpace(r.URL.Query().Get("bill_id")); v != "" {
		if id, err := parseID(v); err == nil {
			billID = id
		}
	}

	items, err := s.payments.ListScheduledPayments(r.Context(), billID)
	if err != nil {
		slog.ErrorContext(r.Context(), "List scheduled payments error", "error", err, "bill_id", billID)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Error loading scheduled payments</div>`))
		return
	}

	rows := make([]scheduledRow, 0, len(items))
	for _, sp := range items {
		rows = append(rows, scheduledRow{
			ID:      sp.ID,
			BillID:  sp.BillID,
			Amount:  formatDollars(sp.Amount.Cents),
			DueDate: sp.DueDate.String(),
		})
	}

	data := struct {
		Scheduled []scheduledRow
	}{Scheduled: rows}

	if err := s.templates.ExecuteTemplate(w, "scheduled.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Scheduled template execution failed", "error", err, "template", "scheduled.html")
		_, _ = w.Write([]byte(`<div class="error">Error rendering scheduled payments</div>`))
	}
}
