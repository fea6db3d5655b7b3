package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"budget/internal/core"
)

// Store is an in-memory record store for development and tests. All methods
// take a single lock, so the payment read-modify-write is atomic by
// construction.
type Store struct {
	mu          sync.Mutex
	nextID      int64
	nextSchedID int64
	bills       map[int64]core.Bill
	paychecks   []core.Paycheck
	scheduled   []core.ScheduledPayment
}

func New() *Store {
	return &Store{
		nextID: 1,
		bills:  make(map[int64]core.Bill),
	}
}

func (s *Store) CreateBill(_ context.Context, b core.Bill) (int64, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.nextID
	s.nextID++
	s.bills[b.ID] = cloneBill(b)
	return b.ID, nil
}

func (s *Store) GetBill(_ context.Context, id int64) (core.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bills[id]
	if !ok {
		return core.Bill{}, ErrNotFound
	}
	return cloneBill(b), nil
}

func (s *Store) ListBills(_ context.Context) ([]core.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Bill, 0, len(s.bills))
	for _, b := range s.bills {
		out = append(out, cloneBill(b))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DueDate.Equal(out[j].DueDate.Time) {
			return out[i].ID < out[j].ID
		}
		return out[i].DueDate.Before(out[j].DueDate.Time)
	})
	return out, nil
}

// UpdateBill replaces the record wholesale, quirks included: an edit can set
// total_owed below the already-recorded payment total.
func (s *Store) UpdateBill(_ context.Context, b core.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bills[b.ID]; !ok {
		return ErrNotFound
	}
	s.bills[b.ID] = cloneBill(b)
	return nil
}

func (s *Store) DeleteBill(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bills[id]; !ok {
		return ErrNotFound
	}
	delete(s.bills, id)
	// Scheduled payments reference the bill; drop them with it.
	kept := s.scheduled[:0]
	for _, sp := range s.scheduled {
		if sp.BillID != id {
			kept = append(kept, sp)
		}
	}
	s.scheduled = kept
	return nil
}

func (s *Store) CreatePaycheck(_ context.Context, p core.Paycheck) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextID
	s.nextID++
	s.paychecks = append(s.paychecks, p)
	return p.ID, nil
}

func (s *Store) ListPaychecks(_ context.Context) ([]core.Paycheck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Paycheck, len(s.paychecks))
	copy(out, s.paychecks)
	return out, nil
}

func (s *Store) ApplyPayment(_ context.Context, billID int64, amount core.Money, paidAt time.Time) (core.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bills[billID]
	if !ok {
		return core.Bill{}, ErrNotFound
	}
	if !b.IsInstallment() {
		return core.Bill{}, core.ErrNotInstallment
	}
	b = cloneBill(b)
	b.PaymentDates = append(b.PaymentDates, paidAt)
	b.PaymentAmounts = append(b.PaymentAmounts, amount)
	b.RemainingBalance = b.RemainingBalance.Sub(amount)
	s.bills[billID] = b
	return cloneBill(b), nil
}

func (s *Store) SchedulePayment(_ context.Context, sp core.ScheduledPayment) (int64, error) {
	if err := sp.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bills[sp.BillID]; !ok {
		return 0, ErrNotFound
	}
	s.nextSchedID++
	sp.ID = s.nextSchedID
	s.scheduled = append(s.scheduled, sp)
	return sp.ID, nil
}

func (s *Store) ListScheduledPayments(_ context.Context, billID int64) ([]core.ScheduledPayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.ScheduledPayment
	for _, sp := range s.scheduled {
		if billID == 0 || sp.BillID == billID {
			out = append(out, sp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DueDate.Equal(out[j].DueDate.Time) {
			return out[i].ID < out[j].ID
		}
		return out[i].DueDate.Before(out[j].DueDate.Time)
	})
	return out, nil
}

func cloneBill(b core.Bill) core.Bill {
	out := b
	if b.TotalOwed != nil {
		owed := *b.TotalOwed
		out.TotalOwed = &owed
	}
	if b.PaymentDates != nil {
		out.PaymentDates = append([]time.Time(nil), b.PaymentDates...)
	}
	if b.PaymentAmounts != nil {
		out.PaymentAmounts = append([]core.Money(nil), b.PaymentAmounts...)
	}
	return out
}
