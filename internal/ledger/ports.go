package ledger

import (
	"context"
	"time"

	"budget/internal/core"
)

// Ports for the record store backing the application.
type (
	BillStore interface {
		CreateBill(ctx context.Context, b core.Bill) (id int64, err error)
		GetBill(ctx context.Context, id int64) (core.Bill, error)
		// ListBills returns all bills ordered by due date ascending.
		ListBills(ctx context.Context) ([]core.Bill, error)
		// UpdateBill replaces the stored record field-for-field. It does not
		// revalidate total_owed against the recorded payment history.
		UpdateBill(ctx context.Context, b core.Bill) error
		DeleteBill(ctx context.Context, id int64) error
	}

	PaycheckStore interface {
		CreatePaycheck(ctx context.Context, p core.Paycheck) (id int64, err error)
		ListPaychecks(ctx context.Context) ([]core.Paycheck, error)
	}

	// PaymentStore records payments against bills.
	PaymentStore interface {
		// ApplyPayment appends an immediate payment to the bill's history and
		// recomputes the remaining balance in a single atomic operation.
		// Payments are not bounded by the remaining balance; an overpayment
		// drives it negative. Returns core.ErrNotInstallment for bills
		// without a total owed.
		ApplyPayment(ctx context.Context, billID int64, amount core.Money, paidAt time.Time) (core.Bill, error)
		// SchedulePayment inserts a future-dated payment intent. It never
		// touches the bill's own fields.
		SchedulePayment(ctx context.Context, sp core.ScheduledPayment) (id int64, err error)
		// ListScheduledPayments returns intents for one bill, or for all
		// bills when billID is zero, ordered by due date ascending.
		ListScheduledPayments(ctx context.Context, billID int64) ([]core.ScheduledPayment, error)
	}

	// Store is the full record store surface consumed by the HTTP layer.
	Store interface {
		BillStore
		PaycheckStore
		PaymentStore
	}
)
