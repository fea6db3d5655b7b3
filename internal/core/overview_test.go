package core

import "testing"

func TestComputeOverviewBiWeeklyDoubled(t *testing.T) {
	paychecks := []Paycheck{
		{Amount: Money{Cents: 10000}, Frequency: Monthly},
		{Amount: Money{Cents: 5000}, Frequency: BiWeekly},
	}
	ov := ComputeOverview(nil, paychecks)
	if ov.TotalIncome.Cents != 20000 {
		t.Fatalf("income = %d, want 20000", ov.TotalIncome.Cents)
	}
}

func TestComputeOverviewWeeklyNotMultiplied(t *testing.T) {
	// Weekly paychecks are taken at face value. This looks wrong next to the
	// bi-weekly doubling but matches the shipped behavior.
	ov := ComputeOverview(nil, []Paycheck{{Amount: Money{Cents: 10000}, Frequency: Weekly}})
	if ov.TotalIncome.Cents != 10000 {
		t.Fatalf("income = %d, want 10000", ov.TotalIncome.Cents)
	}
}

func TestComputeOverviewRemaining(t *testing.T) {
	bills := []Bill{
		{Name: "Rent", Amount: Money{Cents: 120000}, DueDate: NewDate(2025, 1, 1)},
		{Name: "Power", Amount: Money{Cents: 8000}, DueDate: NewDate(2025, 1, 5)},
	}
	paychecks := []Paycheck{{Amount: Money{Cents: 200000}, Frequency: Monthly}}
	ov := ComputeOverview(bills, paychecks)
	if ov.TotalExpenses.Cents != 128000 {
		t.Fatalf("expenses = %d", ov.TotalExpenses.Cents)
	}
	if ov.Remaining.Cents != 72000 {
		t.Fatalf("remaining = %d", ov.Remaining.Cents)
	}
}

func TestPaidPercentUsesFlatAmount(t *testing.T) {
	owed := Money{Cents: 20000}
	b := Bill{
		Name:             "Loan",
		Amount:           Money{Cents: 5000},
		DueDate:          NewDate(2025, 1, 1),
		TotalOwed:        &owed,
		RemainingBalance: Money{Cents: 100}, // nearly paid off, ignored on purpose
	}
	pct, ok := PaidPercent(b)
	if !ok {
		t.Fatalf("expected percentage for installment bill")
	}
	if pct != 25.0 {
		t.Fatalf("pct = %v, want 25.0", pct)
	}
}

func TestPaidPercentNonInstallment(t *testing.T) {
	if _, ok := PaidPercent(Bill{Name: "Rent", Amount: Money{Cents: 100}}); ok {
		t.Fatalf("non-installment bill must not report a percentage")
	}
}
