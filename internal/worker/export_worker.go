package worker

import (
	"context"
	"fmt"
	"log/slog"

	"budget/internal/amqp"
	"budget/internal/core"
	"budget/internal/export"
)

// ExportWorker mirrors recorded payments into an external ledger.
type ExportWorker struct {
	writer export.LedgerWriter
}

func NewExportWorker(writer export.LedgerWriter) *ExportWorker {
	return &ExportWorker{writer: writer}
}

// HandleEvent processes a single ledger event. Returning an error requeues
// the message on the broker side.
func (w *ExportWorker) HandleEvent(ctx context.Context, event amqp.Event) error {
	switch event.Type {
	case amqp.TypePaymentRecorded:
		p, err := event.PaymentRecorded()
		if err != nil {
			return fmt.Errorf("decode payment event: %w", err)
		}
		return w.exportPayment(ctx, p)
	case amqp.TypeBillDeleted:
		b, err := event.BillDeleted()
		if err != nil {
			return fmt.Errorf("decode bill deleted event: %w", err)
		}
		// Exported rows are append-only history; a deleted bill leaves them in place.
		slog.InfoContext(ctx, "Bill deleted, keeping exported history", "bill_id", b.BillID)
		return nil
	default:
		slog.WarnContext(ctx, "Skipping unknown event type", "type", event.Type)
		return nil
	}
}

func (w *ExportWorker) exportPayment(ctx context.Context, p amqp.PaymentRecorded) error {
	entry := export.LedgerEntry{
		BillID:    p.BillID,
		BillName:  p.BillName,
		Amount:    core.Money{Cents: p.AmountCents},
		Remaining: core.Money{Cents: p.RemainingCents},
		PaidAt:    p.PaidAt,
	}

	ref, err := w.writer.AppendPayment(ctx, entry)
	if err != nil {
		return fmt.Errorf("append to ledger: %w", err)
	}

	slog.InfoContext(ctx, "Exported payment",
		"bill_id", p.BillID,
		"bill_name", p.BillName,
		"amount_cents", p.AmountCents,
		"ledger_ref", ref)

	return nil
}
