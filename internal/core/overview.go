package core

// MonthlyOverview is the aggregate income/expense summary rendered by the
// overview tab. It is recomputed from the latest fetch on every render.
type MonthlyOverview struct {
	TotalIncome   Money
	TotalExpenses Money
	Remaining     Money
}

// ComputeOverview derives the monthly totals from already-fetched bills and
// paychecks.
//
// Income normalization intentionally mirrors the product behavior: only
// bi-weekly paychecks are doubled toward a monthly figure; weekly and
// monthly amounts are taken at face value. Expenses sum the flat recurring
// amounts and do not include installment remaining balances.
func ComputeOverview(bills []Bill, paychecks []Paycheck) MonthlyOverview {
	var income, expenses int64
	for _, p := range paychecks {
		if p.Frequency == BiWeekly {
			income += p.Amount.Cents * 2
			continue
		}
		income += p.Amount.Cents
	}
	for _, b := range bills {
		expenses += b.Amount.Cents
	}
	return MonthlyOverview{
		TotalIncome:   Money{Cents: income},
		TotalExpenses: Money{Cents: expenses},
		Remaining:     Money{Cents: income - expenses},
	}
}

// PaidPercent returns the paid-progress display value for an installment
// bill, and false for bills without a total owed.
//
// The numerator is the bill's flat recurring amount, not the cumulative
// payment history. That matches the shipped display behavior; see DESIGN.md
// before changing it.
func PaidPercent(b Bill) (float64, bool) {
	if b.TotalOwed == nil || b.TotalOwed.Cents == 0 {
		return 0, false
	}
	return float64(b.Amount.Cents) / float64(b.TotalOwed.Cents) * 100, true
}
