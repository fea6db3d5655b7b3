package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"budget/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")

// SQLiteRepository is the SQLite-backed record store. It implements
// ledger.Store.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// Immediate transactions so a payment tx takes its write lock up front
	// instead of failing on upgrade under concurrency.
	db, err := sql.Open("sqlite", dbPath+"?_txlock=immediate&_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateBill implements ledger.BillStore.
func (r *SQLiteRepository) CreateBill(ctx context.Context, b core.Bill) (int64, error) {
	dates, amounts, err := encodeHistory(b.PaymentDates, b.PaymentAmounts)
	if err != nil {
		return 0, fmt.Errorf("encode payment history: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO bills (name, amount_cents, due_date, description, is_recurring,
			total_owed_cents, remaining_balance_cents, payment_dates, payment_amounts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Name, b.Amount.Cents, b.DueDate.String(), b.Description, boolToInt(b.IsRecurring),
		nullableCents(b.TotalOwed), installmentBalance(b), dates, amounts)
	if err != nil {
		return 0, fmt.Errorf("insert bill: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("bill insert id: %w", err)
	}

	slog.InfoContext(ctx, "Bill saved",
		"id", id,
		"name", b.Name,
		"amount_cents", b.Amount.Cents,
		"installment", b.IsInstallment())

	return id, nil
}

// GetBill implements ledger.BillStore.
func (r *SQLiteRepository) GetBill(ctx context.Context, id int64) (core.Bill, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, amount_cents, due_date, description, is_recurring,
			total_owed_cents, remaining_balance_cents, payment_dates, payment_amounts
		FROM bills WHERE id = ?`, id)
	b, err := scanBill(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Bill{}, ErrNotFound
		}
		return core.Bill{}, fmt.Errorf("get bill %d: %w", id, err)
	}
	return b, nil
}

// ListBills implements ledger.BillStore, ordered by due date ascending.
func (r *SQLiteRepository) ListBills(ctx context.Context) ([]core.Bill, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, amount_cents, due_date, description, is_recurring,
			total_owed_cents, remaining_balance_cents, payment_dates, payment_amounts
		FROM bills ORDER BY due_date ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()

	var bills []core.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

// UpdateBill replaces the stored record field-for-field. It intentionally
// does not revalidate total_owed against the recorded payment totals; an
// editor can desynchronize the two.
func (r *SQLiteRepository) UpdateBill(ctx context.Context, b core.Bill) error {
	dates, amounts, err := encodeHistory(b.PaymentDates, b.PaymentAmounts)
	if err != nil {
		return fmt.Errorf("encode payment history: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE bills SET name = ?, amount_cents = ?, due_date = ?, description = ?,
			is_recurring = ?, total_owed_cents = ?, remaining_balance_cents = ?,
			payment_dates = ?, payment_amounts = ?
		WHERE id = ?`,
		b.Name, b.Amount.Cents, b.DueDate.String(), b.Description, boolToInt(b.IsRecurring),
		nullableCents(b.TotalOwed), installmentBalance(b), dates, amounts, b.ID)
	if err != nil {
		return fmt.Errorf("update bill %d: %w", b.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update bill %d: %w", b.ID, err)
	}
	if n == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Bill updated", "id", b.ID, "name", b.Name)
	return nil
}

// DeleteBill implements ledger.BillStore. Scheduled payments referencing the
// bill go with it (FK cascade).
func (r *SQLiteRepository) DeleteBill(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bills WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete bill %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete bill %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Bill deleted", "id", id)
	return nil
}

// CreatePaycheck implements ledger.PaycheckStore.
func (r *SQLiteRepository) CreatePaycheck(ctx context.Context, p core.Paycheck) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO paychecks (amount_cents, frequency) VALUES (?, ?)`,
		p.Amount.Cents, string(p.Frequency))
	if err != nil {
		return 0, fmt.Errorf("insert paycheck: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("paycheck insert id: %w", err)
	}

	slog.InfoContext(ctx, "Paycheck saved",
		"id", id,
		"amount_cents", p.Amount.Cents,
		"frequency", string(p.Frequency))

	return id, nil
}

// ListPaychecks implements ledger.PaycheckStore.
func (r *SQLiteRepository) ListPaychecks(ctx context.Context) ([]core.Paycheck, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, amount_cents, frequency FROM paychecks ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list paychecks: %w", err)
	}
	defer rows.Close()

	var out []core.Paycheck
	for rows.Next() {
		var p core.Paycheck
		var freq string
		if err := rows.Scan(&p.ID, &p.Amount.Cents, &freq); err != nil {
			return nil, fmt.Errorf("scan paycheck: %w", err)
		}
		p.Frequency = core.Frequency(freq)
		out = append(out, p)
	}
	return out, rows.Err()
}

// ApplyPayment appends a payment to the bill's history and recomputes the
// remaining balance inside one transaction. The read and the write that used
// to be separate client round trips cannot interleave with a concurrent
// payment here, so the balance always ends at total_owed minus the sum of
// recorded amounts. The amount is not bounded by the remaining balance; an
// overpayment drives it negative.
func (r *SQLiteRepository) ApplyPayment(ctx context.Context, billID int64, amount core.Money, paidAt time.Time) (core.Bill, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Bill{}, fmt.Errorf("begin payment tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT total_owed_cents, remaining_balance_cents, payment_dates, payment_amounts
		FROM bills WHERE id = ?`, billID)

	var (
		totalOwed   sql.NullInt64
		remaining   sql.NullInt64
		datesJSON   string
		amountsJSON string
	)
	if err := row.Scan(&totalOwed, &remaining, &datesJSON, &amountsJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Bill{}, ErrNotFound
		}
		return core.Bill{}, fmt.Errorf("read bill %d for payment: %w", billID, err)
	}
	if !totalOwed.Valid {
		return core.Bill{}, core.ErrNotInstallment
	}

	dates, amounts, err := decodeHistory(datesJSON, amountsJSON)
	if err != nil {
		return core.Bill{}, fmt.Errorf("decode payment history: %w", err)
	}

	dates = append(dates, paidAt.UTC())
	amounts = append(amounts, amount)
	newRemaining := remaining.Int64 - amount.Cents

	newDates, newAmounts, err := encodeHistory(dates, amounts)
	if err != nil {
		return core.Bill{}, fmt.Errorf("encode payment history: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE bills SET remaining_balance_cents = ?, payment_dates = ?, payment_amounts = ?
		WHERE id = ?`, newRemaining, newDates, newAmounts, billID); err != nil {
		return core.Bill{}, fmt.Errorf("write payment for bill %d: %w", billID, err)
	}

	if err := tx.Commit(); err != nil {
		return core.Bill{}, fmt.Errorf("commit payment: %w", err)
	}

	slog.InfoContext(ctx, "Payment applied",
		"bill_id", billID,
		"amount_cents", amount.Cents,
		"remaining_cents", newRemaining,
		"payments", len(amounts))

	return r.GetBill(ctx, billID)
}

// SchedulePayment inserts a future-dated payment intent. The due date is
// stored date-only; the bill's own fields are untouched.
func (r *SQLiteRepository) SchedulePayment(ctx context.Context, sp core.ScheduledPayment) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO scheduled_payments (bill_id, amount_cents, due_date) VALUES (?, ?, ?)`,
		sp.BillID, sp.Amount.Cents, sp.DueDate.String())
	if err != nil {
		return 0, fmt.Errorf("insert scheduled payment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("scheduled payment insert id: %w", err)
	}

	slog.InfoContext(ctx, "Payment scheduled",
		"id", id,
		"bill_id", sp.BillID,
		"amount_cents", sp.Amount.Cents,
		"due_date", sp.DueDate.String())

	return id, nil
}

// ListScheduledPayments implements ledger.PaymentStore. A zero billID lists
// intents across all bills.
func (r *SQLiteRepository) ListScheduledPayments(ctx context.Context, billID int64) ([]core.ScheduledPayment, error) {
	query := `SELECT id, bill_id, amount_cents, due_date FROM scheduled_payments`
	args := []any{}
	if billID != 0 {
		query += ` WHERE bill_id = ?`
		args = append(args, billID)
	}
	query += ` ORDER BY due_date ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list scheduled payments: %w", err)
	}
	defer rows.Close()

	var out []core.ScheduledPayment
	for rows.Next() {
		var sp core.ScheduledPayment
		var due string
		if err := rows.Scan(&sp.ID, &sp.BillID, &sp.Amount.Cents, &due); err != nil {
			return nil, fmt.Errorf("scan scheduled payment: %w", err)
		}
		d, err := core.ParseDate(due)
		if err != nil {
			return nil, fmt.Errorf("parse scheduled due date %q: %w", due, err)
		}
		sp.DueDate = d
		out = append(out, sp)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBill(row rowScanner) (core.Bill, error) {
	var (
		b           core.Bill
		due         string
		recurring   int64
		totalOwed   sql.NullInt64
		remaining   sql.NullInt64
		datesJSON   string
		amountsJSON string
	)
	if err := row.Scan(&b.ID, &b.Name, &b.Amount.Cents, &due, &b.Description,
		&recurring, &totalOwed, &remaining, &datesJSON, &amountsJSON); err != nil {
		return core.Bill{}, err
	}

	d, err := core.ParseDate(due)
	if err != nil {
		return core.Bill{}, fmt.Errorf("parse due date %q: %w", due, err)
	}
	b.DueDate = d
	b.IsRecurring = recurring != 0

	if totalOwed.Valid {
		b.TotalOwed = &core.Money{Cents: totalOwed.Int64}
		b.RemainingBalance = core.Money{Cents: remaining.Int64}
		dates, amounts, err := decodeHistory(datesJSON, amountsJSON)
		if err != nil {
			return core.Bill{}, fmt.Errorf("decode payment history: %w", err)
		}
		b.PaymentDates = dates
		b.PaymentAmounts = amounts
	}
	return b, nil
}

// encodeHistory serializes the parallel payment arrays. Dates are full
// RFC3339 timestamps, never date-only strings; due_date columns hold the
// date-only form.
func encodeHistory(dates []time.Time, amounts []core.Money) (string, string, error) {
	ds := make([]string, len(dates))
	for i, t := range dates {
		ds[i] = t.UTC().Format(time.RFC3339)
	}
	as := make([]int64, len(amounts))
	for i, m := range amounts {
		as[i] = m.Cents
	}
	dj, err := json.Marshal(ds)
	if err != nil {
		return "", "", err
	}
	aj, err := json.Marshal(as)
	if err != nil {
		return "", "", err
	}
	return string(dj), string(aj), nil
}

func decodeHistory(datesJSON, amountsJSON string) ([]time.Time, []core.Money, error) {
	var ds []string
	var as []int64
	if err := json.Unmarshal([]byte(datesJSON), &ds); err != nil {
		return nil, nil, fmt.Errorf("payment_dates: %w", err)
	}
	if err := json.Unmarshal([]byte(amountsJSON), &as); err != nil {
		return nil, nil, fmt.Errorf("payment_amounts: %w", err)
	}
	if len(ds) != len(as) {
		return nil, nil, fmt.Errorf("payment history arrays out of sync: %d dates, %d amounts", len(ds), len(as))
	}
	dates := make([]time.Time, len(ds))
	for i, s := range ds {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, nil, fmt.Errorf("payment date %q: %w", s, err)
		}
		dates[i] = t
	}
	amounts := make([]core.Money, len(as))
	for i, c := range as {
		amounts[i] = core.Money{Cents: c}
	}
	return dates, amounts, nil
}

func nullableCents(m *core.Money) any {
	if m == nil {
		return nil
	}
	return m.Cents
}

func installmentBalance(b core.Bill) any {
	if b.TotalOwed == nil {
		return nil
	}
	return b.RemainingBalance.Cents
}

func boolToInt(v bool) int64 {
	if v {
		return 1
	}
	return 0
}
