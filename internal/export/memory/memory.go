package memory

import (
	"context"
	"fmt"
	"sync"

	"budget/internal/export"
)

// Writer collects ledger entries in memory. Used for local development and
// in worker tests.
type Writer struct {
	mu      sync.Mutex
	entries []export.LedgerEntry
}

var _ export.LedgerWriter = (*Writer)(nil)

func New() *Writer {
	return &Writer{}
}

// AppendPayment stores the entry and returns a synthetic row reference.
func (w *Writer) AppendPayment(_ context.Context, entry export.LedgerEntry) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = append(w.entries, entry)
	return fmt.Sprintf("mem:%d", len(w.entries)), nil
}

// Entries returns a copy of everything written so far.
func (w *Writer) Entries() []export.LedgerEntry {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]export.LedgerEntry(nil), w.entries...)
}
