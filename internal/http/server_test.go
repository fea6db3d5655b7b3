package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"budget/internal/ledger/memory"
	"budget/internal/services"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store := memory.New()
	s := NewServer(":0",
		services.NewBillService(store, nil),
		services.NewPaymentService(store, nil),
		store)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s
}

func postForm(t *testing.T, s *Server, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

// NewServer must parse every embedded template; a broken template should
// never survive to the first render.
func TestNewServerParsesTemplates(t *testing.T) {
	s := newTestServer(t)
	if s.templates == nil {
		t.Fatal("templates not parsed at construction")
	}
	rec := get(t, s, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("index = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "tab-content") {
		t.Fatalf("index missing tab container: %s", rec.Body.String())
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)
	if rec := get(t, s, "/healthz"); rec.Code != http.StatusOK {
		t.Fatalf("healthz = %d", rec.Code)
	}
	if rec := get(t, s, "/readyz"); rec.Code != http.StatusOK {
		t.Fatalf("readyz = %d", rec.Code)
	}
}

func TestCreateBillAndList(t *testing.T) {
	s := newTestServer(t)

	rec := postForm(t, s, "/bills", url.Values{
		"name":     {"Electric"},
		"amount":   {"120.50"},
		"due_date": {"2025-04-01"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create bill = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Electric") {
		t.Fatalf("list partial missing bill: %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "$120.50") {
		t.Fatalf("list partial missing amount: %s", rec.Body.String())
	}
	if trigger := rec.Header().Get("HX-Trigger"); !strings.Contains(trigger, "overview:refresh") {
		t.Fatalf("missing refresh trigger: %q", trigger)
	}
}

func TestCreateBillRejectsBadAmount(t *testing.T) {
	s := newTestServer(t)
	rec := postForm(t, s, "/bills", url.Values{
		"name":     {"Electric"},
		"amount":   {"abc"},
		"due_date": {"2025-04-01"},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad amount = %d", rec.Code)
	}
}

func TestPaymentFlow(t *testing.T) {
	s := newTestServer(t)

	rec := postForm(t, s, "/bills", url.Values{
		"name":       {"Car loan"},
		"amount":     {"250.00"},
		"due_date":   {"2025-04-15"},
		"total_owed": {"1000.00"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create bill = %d", rec.Code)
	}

	rec = postForm(t, s, "/payments", url.Values{
		"bill_id": {"1"},
		"amount":  {"300.00"},
		"date":    {"2025-04-10"},
		"mode":    {"now"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("record payment = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "$700.00") {
		t.Fatalf("remaining not updated: %s", rec.Body.String())
	}
}

func TestPaymentOnPlainBillRejected(t *testing.T) {
	s := newTestServer(t)

	postForm(t, s, "/bills", url.Values{
		"name":     {"Netflix"},
		"amount":   {"15.49"},
		"due_date": {"2025-04-01"},
	})

	rec := postForm(t, s, "/payments", url.Values{
		"bill_id": {"1"},
		"amount":  {"15.49"},
		"date":    {"2025-04-01"},
		"mode":    {"now"},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("plain bill payment = %d", rec.Code)
	}
}

func TestSchedulePaymentLeavesBillUntouched(t *testing.T) {
	s := newTestServer(t)

	postForm(t, s, "/bills", url.Values{
		"name":       {"Car loan"},
		"amount":     {"250.00"},
		"due_date":   {"2025-04-15"},
		"total_owed": {"1000.00"},
	})

	rec := postForm(t, s, "/payments", url.Values{
		"bill_id": {"1"},
		"amount":  {"100.00"},
		"date":    {"2025-05-01"},
		"mode":    {"schedule"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("schedule payment = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "2025-05-01") {
		t.Fatalf("scheduled partial missing due date: %s", rec.Body.String())
	}

	// The bill's balance must not have moved.
	rec = get(t, s, "/bills")
	if !strings.Contains(rec.Body.String(), "$1000.00") {
		t.Fatalf("balance changed by scheduling: %s", rec.Body.String())
	}
}

func TestOverviewTotalsAndInvalidation(t *testing.T) {
	s := newTestServer(t)

	postForm(t, s, "/paychecks", url.Values{
		"amount":    {"1000.00"},
		"frequency": {"bi-weekly"},
	})
	postForm(t, s, "/bills", url.Values{
		"name":     {"Rent"},
		"amount":   {"1500.00"},
		"due_date": {"2025-04-01"},
	})

	rec := get(t, s, "/ui/overview")
	if rec.Code != http.StatusOK {
		t.Fatalf("overview = %d", rec.Code)
	}
	body := rec.Body.String()
	// Bi-weekly income doubles toward the monthly figure.
	if !strings.Contains(body, "Income: $2000.00") {
		t.Fatalf("income wrong: %s", body)
	}
	if !strings.Contains(body, "Expenses: $1500.00") {
		t.Fatalf("expenses wrong: %s", body)
	}
	if !strings.Contains(body, "Remaining: $500.00") {
		t.Fatalf("remaining wrong: %s", body)
	}

	// A new paycheck must show up on the next render, not after TTL expiry.
	postForm(t, s, "/paychecks", url.Values{
		"amount":    {"500.00"},
		"frequency": {"monthly"},
	})
	rec = get(t, s, "/ui/overview")
	if !strings.Contains(rec.Body.String(), "Income: $2500.00") {
		t.Fatalf("overview cache not invalidated: %s", rec.Body.String())
	}
}

func TestOverviewPaidPercentUsesFlatAmount(t *testing.T) {
	s := newTestServer(t)

	postForm(t, s, "/bills", url.Values{
		"name":       {"Car loan"},
		"amount":     {"50.00"},
		"due_date":   {"2025-04-15"},
		"total_owed": {"200.00"},
	})
	// Payments move the balance but not the displayed percentage.
	postForm(t, s, "/payments", url.Values{
		"bill_id": {"1"},
		"amount":  {"150.00"},
		"date":    {"2025-04-10"},
		"mode":    {"now"},
	})

	rec := get(t, s, "/ui/overview")
	if !strings.Contains(rec.Body.String(), "Paid: 25.00%") {
		t.Fatalf("paid percent wrong: %s", rec.Body.String())
	}
}

func TestUpdateBillAcceptsDesyncedTotals(t *testing.T) {
	s := newTestServer(t)

	postForm(t, s, "/bills", url.Values{
		"name":       {"Car loan"},
		"amount":     {"250.00"},
		"due_date":   {"2025-04-15"},
		"total_owed": {"200.00"},
	})
	postForm(t, s, "/payments", url.Values{
		"bill_id": {"1"},
		"amount":  {"150.00"},
		"date":    {"2025-04-10"},
		"mode":    {"now"},
	})

	// Lower total owed below what was already paid; the edit is taken as given.
	rec := postForm(t, s, "/bills/update", url.Values{
		"id":         {"1"},
		"name":       {"Renegotiated loan"},
		"amount":     {"250.00"},
		"due_date":   {"2025-04-15"},
		"total_owed": {"100.00"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update = %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Renegotiated loan") || !strings.Contains(body, "$100.00") {
		t.Fatalf("update lost fields: %s", body)
	}
	// Remaining balance rides along untouched.
	if !strings.Contains(body, "$50.00") {
		t.Fatalf("remaining balance changed on edit: %s", body)
	}
}

func TestDeleteBill(t *testing.T) {
	s := newTestServer(t)

	postForm(t, s, "/bills", url.Values{
		"name":     {"Electric"},
		"amount":   {"120.00"},
		"due_date": {"2025-04-01"},
	})
	rec := postForm(t, s, "/bills/delete", url.Values{"id": {"1"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("delete = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "Electric") {
		t.Fatalf("bill still listed after delete: %s", rec.Body.String())
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPut, "/bills", nil)
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("PUT /bills = %d", rec.Code)
	}
}
