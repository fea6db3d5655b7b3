package services

import (
	"context"
	"log/slog"

	"budget/internal/amqp"
	"budget/internal/core"
	"budget/internal/ledger"
)

// EventPublisher publishes ledger events for downstream consumers. A nil
// publisher disables events without changing request behavior.
type EventPublisher interface {
	PublishPaymentRecorded(ctx context.Context, p amqp.PaymentRecorded) error
	PublishBillDeleted(ctx context.Context, billID int64) error
}

// BillService orchestrates bill writes: store first, then a best-effort
// event publish that never fails the request.
type BillService struct {
	store  ledger.BillStore
	events EventPublisher
}

func NewBillService(store ledger.BillStore, events EventPublisher) *BillService {
	return &BillService{store: store, events: events}
}

func (s *BillService) CreateBill(ctx context.Context, b core.Bill) (int64, error) {
	return s.store.CreateBill(ctx, b)
}

func (s *BillService) GetBill(ctx context.Context, id int64) (core.Bill, error) {
	return s.store.GetBill(ctx, id)
}

func (s *BillService) ListBills(ctx context.Context) ([]core.Bill, error) {
	return s.store.ListBills(ctx)
}

func (s *BillService) UpdateBill(ctx context.Context, b core.Bill) error {
	return s.store.UpdateBill(ctx, b)
}

// DeleteBill removes the bill and announces the deletion. A publish failure
// is logged and swallowed: the store is authoritative.
func (s *BillService) DeleteBill(ctx context.Context, id int64) error {
	if err := s.store.DeleteBill(ctx, id); err != nil {
		return err
	}

	if s.events == nil {
		return nil
	}
	if err := s.events.PublishBillDeleted(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish bill deleted event",
			"bill_id", id, "error", err)
	}
	return nil
}
