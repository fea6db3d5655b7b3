package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"budget/internal/core"
)

type billRow struct {
	ID          int64
	Name        string
	Amount      string
	DueDate     string
	Description string
	IsRecurring bool
	Installment bool
	TotalOwed   string
	Remaining   string
	Payments    int
}

func billToRow(b core.Bill) billRow {
	row := billRow{
		ID:          b.ID,
		Name:        b.Name,
		Amount:      formatDollars(b.Amount.Cents),
		DueDate:     b.DueDate.String(),
		Description: b.Description,
		IsRecurring: b.IsRecurring,
		Installment: b.IsInstallment(),
	}
	if b.IsInstallment() {
		row.TotalOwed = formatDollars(b.TotalOwed.Cents)
		row.Remaining = formatDollars(b.RemainingBalance.Cents)
		row.Payments = len(b.PaymentAmounts)
	}
	return row
}

// handleBills serves the bills list partial on GET and creates a bill on POST.
func (s *Server) handleBills(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderBillsList(w, r)
	case http.MethodPost:
		s.createBill(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderBillsList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	bills, err := s.bills.ListBills(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List bills error", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Error loading bills</div>`))
		return
	}

	rows := make([]billRow, 0, len(bills))
	for _, b := range bills {
		rows = append(rows, billToRow(b))
	}

	data := struct {
		Bills []billRow
	}{Bills: rows}

	if err := s.templates.ExecuteTemplate(w, "bills.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Bills template execution failed", "error", err, "template", "bills.html")
		_, _ = w.Write([]byte(`<div class="error">Error rendering bills</div>`))
	}
}

func (s *Server) createBill(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}

	form := core.BillForm{
		Name:        sanitizeInput(r.Form.Get("name")),
		Amount:      strings.TrimSpace(r.Form.Get("amount")),
		DueDate:     strings.TrimSpace(r.Form.Get("due_date")),
		Description: sanitizeInput(r.Form.Get("description")),
		TotalOwed:   strings.TrimSpace(r.Form.Get("total_owed")),
		IsRecurring: r.Form.Get("is_recurring") == "on" || r.Form.Get("is_recurring") == "true",
	}

	bill, err := core.ParseBillForm(form)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Invalid bill data</div>`))
		return
	}

	id, err := s.bills.CreateBill(r.Context(), bill)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to save bill",
			"error", err,
			"bill_name", bill.Name,
			"amount_cents", bill.Amount.Cents)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Error saving bill</div>`))
		return
	}

	slog.InfoContext(r.Context(), "Bill created",
		"id", id,
		"bill_name", bill.Name,
		"amount_cents", bill.Amount.Cents,
		"installment", bill.IsInstallment())

	s.invalidateOverview()
	w.Header().Set("HX-Trigger", `{"bills:changed": {}, "overview:refresh": {}}`)
	s.renderBillsList(w, r)
}

// handleUpdateBill replaces the editable fields of a bill. The stored payment
// history and remaining balance ride along untouched, even when the edit
// makes total_owed disagree with them.
func (s *Server) handleUpdateBill(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}

	id, err := parseID(r.Form.Get("id"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Missing bill id</div>`))
		return
	}

	existing, err := s.bills.GetBill(r.Context(), id)
	if err != nil {
		slog.ErrorContext(r.Context(), "Bill lookup failed", "error", err, "bill_id", id)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`<div class="error">Bill not found</div>`))
		return
	}

	amountCents, err := core.ParseDecimalToCents(r.Form.Get("amount"))
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Invalid amount</div>`))
		return
	}
	due, err := core.ParseDate(r.Form.Get("due_date"))
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Invalid due date</div>`))
		return
	}

	bill := existing
	bill.Name = sanitizeInput(r.Form.Get("name"))
	bill.Amount = core.Money{Cents: amountCents}
	bill.DueDate = due
	bill.Description = sanitizeInput(r.Form.Get("description"))
	bill.IsRecurring = r.Form.Get("is_recurring") == "on" || r.Form.Get("is_recurring") == "true"

	owedStr := strings.TrimSpace(r.Form.Get("total_owed"))
	switch {
	case owedStr == "":
		bill.TotalOwed = nil
		bill.RemainingBalance = core.Money{}
		bill.PaymentDates = nil
		bill.PaymentAmounts = nil
	default:
		owedCents, err := core.ParseDecimalToCents(owedStr)
		if err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`<div class="error">Invalid total owed</div>`))
			return
		}
		bill.TotalOwed = &core.Money{Cents: owedCents}
		if !existing.IsInstallment() {
			// Newly converted to an installment bill: balance starts full.
			bill.RemainingBalance = core.Money{Cents: owedCents}
			bill.PaymentDates = []time.Time{}
			bill.PaymentAmounts = []core.Money{}
		}
	}

	if err := s.bills.UpdateBill(r.Context(), bill); err != nil {
		slog.ErrorContext(r.Context(), "Failed to update bill", "error", err, "bill_id", id)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Error updating bill</div>`))
		return
	}

	slog.InfoContext(r.Context(), "Bill updated", "bill_id", id, "bill_name", bill.Name)

	s.invalidateOverview()
	w.Header().Set("HX-Trigger", `{"bills:changed": {}, "overview:refresh": {}}`)
	s.renderBillsList(w, r)
}

func (s *Server) handleDeleteBill(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		w.Header().Set("Allow", "POST, DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}

	id, err := parseID(r.Form.Get("id"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Missing bill id</div>`))
		return
	}

	if err := s.bills.DeleteBill(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete bill", "error", err, "bill_id", id)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Error deleting bill</div>`))
		return
	}

	slog.InfoContext(r.Context(), "Bill deleted", "bill_id", id)

	s.invalidateOverview()
	w.Header().Set("HX-Trigger", `{"bills:changed": {}, "overview:refresh": {}}`)
	s.renderBillsList(w, r)
}
