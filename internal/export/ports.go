package export

import (
	"context"
	"time"

	"budget/internal/core"
)

// LedgerEntry is one payment row destined for the external ledger.
type LedgerEntry struct {
	BillID    int64
	BillName  string
	Amount    core.Money
	Remaining core.Money
	PaidAt    time.Time
}

// LedgerWriter is the outbound port for ledger exports.
type LedgerWriter interface {
	AppendPayment(ctx context.Context, entry LedgerEntry) (rowRef string, err error)
}
