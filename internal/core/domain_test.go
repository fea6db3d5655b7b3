package core

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-09")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.String() != "2025-03-09" {
		t.Fatalf("round trip mismatch: %s", d.String())
	}
	if _, err := ParseDate("09/03/2025"); err == nil {
		t.Fatalf("expected error for non-ISO date")
	}
	if _, err := ParseDate(""); err == nil {
		t.Fatalf("expected error for empty date")
	}
}

func TestFrequencyValidate(t *testing.T) {
	for _, f := range []Frequency{Weekly, BiWeekly, Monthly} {
		if err := f.Validate(); err != nil {
			t.Fatalf("%s expected ok, got %v", f, err)
		}
	}
	if err := Frequency("yearly").Validate(); err == nil {
		t.Fatalf("expected error for unknown frequency")
	}
}

func TestParseBillFormPlain(t *testing.T) {
	b, err := ParseBillForm(BillForm{
		Name:    "Electric",
		Amount:  "84.20",
		DueDate: "2025-02-01",
	})
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if b.Amount.Cents != 8420 {
		t.Fatalf("amount = %d", b.Amount.Cents)
	}
	if b.IsInstallment() {
		t.Fatalf("empty total_owed must not create an installment bill")
	}
	if b.IsRecurring {
		t.Fatalf("is_recurring must default false")
	}
}

func TestParseBillFormInstallment(t *testing.T) {
	b, err := ParseBillForm(BillForm{
		Name:      "Car loan",
		Amount:    "250",
		DueDate:   "2025-02-15",
		TotalOwed: "12000",
	})
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if !b.IsInstallment() {
		t.Fatalf("expected installment bill")
	}
	if b.RemainingBalance.Cents != b.TotalOwed.Cents {
		t.Fatalf("remaining balance must start at total owed")
	}
	if len(b.PaymentDates) != 0 || len(b.PaymentAmounts) != 0 {
		t.Fatalf("payment history must start empty")
	}
}

func TestParseBillFormErrors(t *testing.T) {
	cases := []BillForm{
		{Name: "x", Amount: "abc", DueDate: "2025-01-01"},
		{Name: "x", Amount: "10", DueDate: "not-a-date"},
		{Name: "", Amount: "10", DueDate: "2025-01-01"},
		{Name: "x", Amount: "10", DueDate: "2025-01-01", TotalOwed: "12x"},
	}
	for i, f := range cases {
		if _, err := ParseBillForm(f); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseBillFormNegativeAmountAccepted(t *testing.T) {
	// Amounts are coerced, not judged.
	b, err := ParseBillForm(BillForm{Name: "Refund", Amount: "-12.50", DueDate: "2025-01-01"})
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if b.Amount.Cents != -1250 {
		t.Fatalf("amount = %d", b.Amount.Cents)
	}
}

func TestBillValidateHistoryLengths(t *testing.T) {
	owed := Money{Cents: 1000}
	b := Bill{
		Name:             "Loan",
		Amount:           Money{Cents: 100},
		DueDate:          NewDate(2025, 1, 1),
		TotalOwed:        &owed,
		RemainingBalance: owed,
		PaymentDates:     []time.Time{time.Now()},
		PaymentAmounts:   nil,
	}
	if err := b.Validate(); err == nil {
		t.Fatalf("expected error for mismatched history arrays")
	}
}

func TestScheduledPaymentValidate(t *testing.T) {
	sp := ScheduledPayment{BillID: 1, Amount: Money{Cents: 500}, DueDate: NewDate(2025, 6, 1)}
	if err := sp.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (ScheduledPayment{Amount: Money{Cents: 500}, DueDate: NewDate(2025, 6, 1)}).Validate(); err == nil {
		t.Fatalf("expected error for missing bill id")
	}
}
