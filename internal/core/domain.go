package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Weekly   Frequency = "weekly"
	BiWeekly Frequency = "bi-weekly"
	Monthly  Frequency = "monthly"
)

type (
	// Frequency is how often a paycheck arrives.
	Frequency string

	// Date is a calendar date without a time component. Due dates use this
	// type; recorded payment timestamps use time.Time. The two never mix on
	// the wire: Date serializes as YYYY-MM-DD, timestamps as RFC3339.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Bill is a tracked expense obligation. TotalOwed is nil for plain
	// recurring bills; when set the bill is an installment bill carrying a
	// running balance and parallel, append-only payment history arrays.
	Bill struct {
		ID          int64
		Name        string
		Amount      Money
		DueDate     Date
		Description string // rich text, stored as HTML
		IsRecurring bool

		TotalOwed        *Money
		RemainingBalance Money
		PaymentDates     []time.Time
		PaymentAmounts   []Money
	}

	// Paycheck is an income record. There is no update or delete path.
	Paycheck struct {
		ID        int64
		Amount    Money
		Frequency Frequency
	}

	// ScheduledPayment is a future-dated payment intent. It is recorded
	// independently of the bill's own payment history and nothing ever
	// reconciles it against actual payments.
	ScheduledPayment struct {
		ID      int64
		BillID  int64
		Amount  Money
		DueDate Date
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyName        = errors.New("empty bill name")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrNotInstallment   = errors.New("bill has no outstanding balance to pay against")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String formats the date in the YYYY-MM-DD wire representation.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (f Frequency) Validate() error {
	switch f {
	case Weekly, BiWeekly, Monthly:
		return nil
	default:
		return ErrInvalidFrequency
	}
}

// IsInstallment reports whether the bill tracks an outstanding balance.
func (b Bill) IsInstallment() bool {
	return b.TotalOwed != nil
}

func (b Bill) Validate() error {
	if len(strings.TrimSpace(b.Name)) == 0 {
		return ErrEmptyName
	}
	if err := b.DueDate.Validate(); err != nil {
		return err
	}
	if len(b.PaymentDates) != len(b.PaymentAmounts) {
		return errors.New("payment history arrays out of sync")
	}
	return nil
}

func (p Paycheck) Validate() error {
	return p.Frequency.Validate()
}

func (sp ScheduledPayment) Validate() error {
	if sp.BillID == 0 {
		return errors.New("missing bill reference")
	}
	return sp.DueDate.Validate()
}

// BillForm holds the raw string inputs of the bill create/edit form.
type BillForm struct {
	Name        string
	Amount      string
	DueDate     string
	Description string
	TotalOwed   string
	IsRecurring bool
}

// ParseBillForm coerces raw form input into a Bill ready for insertion.
// An empty total_owed means the bill is not an installment bill; when it is
// present the remaining balance starts equal to it and the payment history
// starts empty. Amounts are coerced, not judged: negative values pass
// through unchanged.
func ParseBillForm(f BillForm) (Bill, error) {
	amountCents, err := ParseDecimalToCents(f.Amount)
	if err != nil {
		return Bill{}, err
	}
	due, err := ParseDate(f.DueDate)
	if err != nil {
		return Bill{}, err
	}
	b := Bill{
		Name:        strings.TrimSpace(f.Name),
		Amount:      Money{Cents: amountCents},
		DueDate:     due,
		Description: f.Description,
		IsRecurring: f.IsRecurring,
	}
	if strings.TrimSpace(f.TotalOwed) != "" {
		owedCents, err := ParseDecimalToCents(f.TotalOwed)
		if err != nil {
			return Bill{}, err
		}
		b.TotalOwed = &Money{Cents: owedCents}
		b.RemainingBalance = Money{Cents: owedCents}
		b.PaymentDates = []time.Time{}
		b.PaymentAmounts = []Money{}
	}
	if err := b.Validate(); err != nil {
		return Bill{}, err
	}
	return b, nil
}
