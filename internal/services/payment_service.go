package services

import (
	"context"
	"log/slog"
	"time"

	"budget/internal/amqp"
	"budget/internal/core"
	"budget/internal/ledger"
)

// PaymentService records immediate and scheduled payments.
type PaymentService struct {
	store  ledger.PaymentStore
	events EventPublisher
}

func NewPaymentService(store ledger.PaymentStore, events EventPublisher) *PaymentService {
	return &PaymentService{store: store, events: events}
}

// RecordPayment applies an immediate payment and publishes the result. The
// store call is the atomic part; the event is best-effort and never fails
// the request.
func (s *PaymentService) RecordPayment(ctx context.Context, billID int64, amount core.Money, paidAt time.Time) (core.Bill, error) {
	bill, err := s.store.ApplyPayment(ctx, billID, amount, paidAt)
	if err != nil {
		return core.Bill{}, err
	}

	if s.events != nil {
		event := amqp.PaymentRecorded{
			BillID:         bill.ID,
			BillName:       bill.Name,
			AmountCents:    amount.Cents,
			RemainingCents: bill.RemainingBalance.Cents,
			PaidAt:         paidAt.UTC(),
		}
		if err := s.events.PublishPaymentRecorded(ctx, event); err != nil {
			slog.ErrorContext(ctx, "Failed to publish payment event",
				"bill_id", billID, "amount_cents", amount.Cents, "error", err)
		}
	}

	return bill, nil
}

// SchedulePayment records a future-dated payment intent. No event: intents
// stay local until something acts on them, which nothing does today.
func (s *PaymentService) SchedulePayment(ctx context.Context, sp core.ScheduledPayment) (int64, error) {
	return s.store.SchedulePayment(ctx, sp)
}

// ListScheduledPayments returns intents for a bill, or all when billID is 0.
func (s *PaymentService) ListScheduledPayments(ctx context.Context, billID int64) ([]core.ScheduledPayment, error) {
	return s.store.ListScheduledPayments(ctx, billID)
}
