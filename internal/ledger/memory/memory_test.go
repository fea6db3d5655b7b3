package memory

import (
	"context"
	"testing"
	"time"

	"budget/internal/core"
)

func installmentBill(owedCents int64) core.Bill {
	owed := core.Money{Cents: owedCents}
	return core.Bill{
		Name:             "Loan",
		Amount:           core.Money{Cents: 5000},
		DueDate:          core.NewDate(2025, 3, 1),
		TotalOwed:        &owed,
		RemainingBalance: owed,
		PaymentDates:     []time.Time{},
		PaymentAmounts:   []core.Money{},
	}
}

func TestApplyPaymentSequence(t *testing.T) {
	ctx := context.Background()
	s := New()
	id, err := s.CreateBill(ctx, installmentBill(20000))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	amounts := []int64{5000, 2500, 1000}
	for _, a := range amounts {
		if _, err := s.ApplyPayment(ctx, id, core.Money{Cents: a}, time.Now()); err != nil {
			t.Fatalf("apply %d: %v", a, err)
		}
	}

	b, err := s.GetBill(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if b.RemainingBalance.Cents != 20000-8500 {
		t.Fatalf("remaining = %d, want %d", b.RemainingBalance.Cents, 20000-8500)
	}
	if len(b.PaymentDates) != len(amounts) || len(b.PaymentAmounts) != len(amounts) {
		t.Fatalf("history lengths = %d/%d, want %d", len(b.PaymentDates), len(b.PaymentAmounts), len(amounts))
	}
}

func TestApplyPaymentOverpayment(t *testing.T) {
	ctx := context.Background()
	s := New()
	id, _ := s.CreateBill(ctx, installmentBill(3000))

	b, err := s.ApplyPayment(ctx, id, core.Money{Cents: 5000}, time.Now())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if b.RemainingBalance.Cents != -2000 {
		t.Fatalf("remaining = %d, want -2000", b.RemainingBalance.Cents)
	}
}

func TestApplyPaymentNonInstallment(t *testing.T) {
	ctx := context.Background()
	s := New()
	id, _ := s.CreateBill(ctx, core.Bill{Name: "Rent", Amount: core.Money{Cents: 100000}, DueDate: core.NewDate(2025, 1, 1)})
	if _, err := s.ApplyPayment(ctx, id, core.Money{Cents: 100}, time.Now()); err != core.ErrNotInstallment {
		t.Fatalf("expected ErrNotInstallment, got %v", err)
	}
}

func TestSchedulePaymentDoesNotTouchBill(t *testing.T) {
	ctx := context.Background()
	s := New()
	id, _ := s.CreateBill(ctx, installmentBill(10000))

	_, err := s.SchedulePayment(ctx, core.ScheduledPayment{
		BillID:  id,
		Amount:  core.Money{Cents: 2500},
		DueDate: core.NewDate(2025, 7, 1),
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	b, _ := s.GetBill(ctx, id)
	if b.RemainingBalance.Cents != 10000 {
		t.Fatalf("scheduling mutated remaining balance: %d", b.RemainingBalance.Cents)
	}
	if len(b.PaymentDates) != 0 || len(b.PaymentAmounts) != 0 {
		t.Fatalf("scheduling mutated payment history")
	}

	sps, err := s.ListScheduledPayments(ctx, id)
	if err != nil || len(sps) != 1 {
		t.Fatalf("scheduled list = %d (err=%v), want 1", len(sps), err)
	}
	if sps[0].DueDate.String() != "2025-07-01" {
		t.Fatalf("due date = %s", sps[0].DueDate.String())
	}
}

func TestDeleteBillRemovesOnlyTarget(t *testing.T) {
	ctx := context.Background()
	s := New()
	keep, _ := s.CreateBill(ctx, installmentBill(10000))
	drop, _ := s.CreateBill(ctx, core.Bill{Name: "Water", Amount: core.Money{Cents: 4000}, DueDate: core.NewDate(2025, 2, 1)})
	if _, err := s.SchedulePayment(ctx, core.ScheduledPayment{BillID: drop, Amount: core.Money{Cents: 100}, DueDate: core.NewDate(2025, 5, 1)}); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	if err := s.DeleteBill(ctx, drop); err != nil {
		t.Fatalf("delete: %v", err)
	}

	bills, _ := s.ListBills(ctx)
	if len(bills) != 1 || bills[0].ID != keep {
		t.Fatalf("delete removed the wrong bill")
	}
	sps, _ := s.ListScheduledPayments(ctx, 0)
	if len(sps) != 0 {
		t.Fatalf("scheduled payments of deleted bill survived")
	}
}

func TestListBillsOrderedByDueDate(t *testing.T) {
	ctx := context.Background()
	s := New()
	late, _ := s.CreateBill(ctx, core.Bill{Name: "B", Amount: core.Money{Cents: 1}, DueDate: core.NewDate(2025, 9, 1)})
	early, _ := s.CreateBill(ctx, core.Bill{Name: "A", Amount: core.Money{Cents: 1}, DueDate: core.NewDate(2025, 1, 1)})

	bills, _ := s.ListBills(ctx)
	if len(bills) != 2 || bills[0].ID != early || bills[1].ID != late {
		t.Fatalf("bills not ordered by due date")
	}
}

func TestGetBillReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := New()
	id, _ := s.CreateBill(ctx, installmentBill(10000))
	b, _ := s.GetBill(ctx, id)
	b.PaymentAmounts = append(b.PaymentAmounts, core.Money{Cents: 999})

	again, _ := s.GetBill(ctx, id)
	if len(again.PaymentAmounts) != 0 {
		t.Fatalf("store state mutated through returned copy")
	}
}
