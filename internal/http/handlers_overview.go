package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"budget/internal/core"
)

const overviewCacheKey = "overview"

type overviewCard struct {
	Name        string
	Amount      string
	Installment bool
	TotalOwed   string
	Remaining   string
	PaidPercent string
	Width       int
}

// handleOverview renders the monthly overview partial: income vs expense
// totals plus per-bill progress cards.
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	bills, err := s.bills.ListBills(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Overview bills error", "error", err)
		_, _ = w.Write([]byte(`<section id="overview" class="overview"><div class="placeholder">Error loading overview</div></section>`))
		return
	}

	ov, err := s.getOverview(r.Context(), bills)
	if err != nil {
		slog.ErrorContext(r.Context(), "Overview totals error", "error", err)
		_, _ = w.Write([]byte(`<section id="overview" class="overview"><div class="placeholder">Error loading overview</div></section>`))
		return
	}

	cards := make([]overviewCard, 0, len(bills))
	for _, b := range bills {
		card := overviewCard{
			Name:   b.Name,
			Amount: formatDollars(b.Amount.Cents),
		}
		if pct, ok := core.PaidPercent(b); ok {
			card.Installment = true
			card.TotalOwed = formatDollars(b.TotalOwed.Cents)
			card.Remaining = formatDollars(b.RemainingBalance.Cents)
			card.PaidPercent = fmt.Sprintf("%.2f", pct)
			width := int(pct)
			if width < 0 {
				width = 0
			}
			if width > 100 {
				width = 100
			}
			card.Width = width
		}
		cards = append(cards, card)
	}

	data := struct {
		Income    string
		Expenses  string
		Remaining string
		Negative  bool
		Cards     []overviewCard
	}{
		Income:    formatDollars(ov.TotalIncome.Cents),
		Expenses:  formatDollars(ov.TotalExpenses.Cents),
		Remaining: formatDollars(ov.Remaining.Cents),
		Negative:  ov.Remaining.Cents < 0,
		Cards:     cards,
	}

	if err := s.templates.ExecuteTemplate(w, "overview.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Overview template execution failed", "error", err, "template", "overview.html")
		_, _ = w.Write([]byte(`<section id="overview" class="overview"><div class="placeholder">Error rendering overview</div></section>`))
	}
}

// getOverview returns the cached monthly totals, recomputing from the given
// bills and a fresh paycheck fetch on miss.
func (s *Server) getOverview(ctx context.Context, bills []core.Bill) (core.MonthlyOverview, error) {
	if ov, found := s.overviewCache.Get(overviewCacheKey); found {
		slog.DebugContext(ctx, "Overview cache hit")
		return ov, nil
	}

	paychecks, err := s.paychecks.ListPaychecks(ctx)
	if err != nil {
		return core.MonthlyOverview{}, fmt.Errorf("list paychecks: %w", err)
	}

	ov := core.ComputeOverview(bills, paychecks)
	s.overviewCache.Set(overviewCacheKey, ov)
	slog.DebugContext(ctx, "Overview cached",
		"income_cents", ov.TotalIncome.Cents,
		"expense_cents", ov.TotalExpenses.Cents)
	return ov, nil
}
