// Package storage provides the persistence backends: a SQLite
// repository for durable data and an in-memory store for tests and
// local development.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"negocio/internal/core"
	"negocio/internal/reports"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("record not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
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

// SalesByDateRange implements reports.Store. Line items and payments
// are loaded in two follow-up queries and merged in memory, keeping
// each statement simple.
func (r *SQLiteRepository) SalesByDateRange(ctx context.Context, start, end time.Time) ([]core.Sale, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, sale_date, status FROM sales
		 WHERE sale_date BETWEEN ? AND ? ORDER BY sale_date, id`,
		start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	defer rows.Close()

	var sales []core.Sale
	index := make(map[string]int)
	for rows.Next() {
		var (
			id     string
			dateMs int64
			status string
		)
		if err := rows.Scan(&id, &dateMs, &status); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		index[id] = len(sales)
		sales = append(sales, core.Sale{
			ID:     id,
			Date:   time.UnixMilli(dateMs),
			Status: core.SaleStatus(status),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales: %w", err)
	}
	if len(sales) == 0 {
		return nil, nil
	}

	if err := r.loadSaleItems(ctx, start, end, sales, index); err != nil {
		return nil, err
	}
	if err := r.loadSalePayments(ctx, start, end, sales, index); err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *SQLiteRepository) loadSaleItems(ctx context.Context, start, end time.Time, sales []core.Sale, index map[string]int) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT i.sale_id, i.description, i.quantity, i.unit_price_cents
		 FROM sale_items i JOIN sales s ON s.id = i.sale_id
		 WHERE s.sale_date BETWEEN ? AND ? ORDER BY i.id`,
		start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return fmt.Errorf("query sale items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			saleID      string
			description string
			quantity    int64
			unitPrice   int64
		)
		if err := rows.Scan(&saleID, &description, &quantity, &unitPrice); err != nil {
			return fmt.Errorf("scan sale item: %w", err)
		}
		if i, ok := index[saleID]; ok {
			sales[i].Items = append(sales[i].Items, core.SaleItem{
				Description: description,
				Quantity:    quantity,
				UnitPrice:   core.Money{Cents: unitPrice},
			})
		}
	}
	return rows.Err()
}

func (r *SQLiteRepository) loadSalePayments(ctx context.Context, start, end time.Time, sales []core.Sale, index map[string]int) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.sale_id, p.method, p.bank_account, p.amount_cents
		 FROM sale_payments p JOIN sales s ON s.id = p.sale_id
		 WHERE s.sale_date BETWEEN ? AND ? ORDER BY p.id`,
		start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return fmt.Errorf("query sale payments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			saleID  string
			method  string
			account string
			amount  int64
		)
		if err := rows.Scan(&saleID, &method, &account, &amount); err != nil {
			return fmt.Errorf("scan sale payment: %w", err)
		}
		if i, ok := index[saleID]; ok {
			sales[i].Payments = append(sales[i].Payments, core.PaymentEntry{
				Method:      core.PaymentMethod(method),
				BankAccount: core.Account(account),
				Amount:      core.Money{Cents: amount},
			})
		}
	}
	return rows.Err()
}

// Expenses implements reports.Store with optional date/category filters.
func (r *SQLiteRepository) Expenses(ctx context.Context, f reports.ExpenseFilter) ([]core.Expense, error) {
	query := `SELECT id, expense_date, category, amount_cents, description, recorded_by, payment_method FROM expenses`
	var (
		where []string
		args  []any
	)
	if !f.Start.IsZero() {
		where = append(where, "expense_date >= ?")
		args = append(args, f.Start.UnixMilli())
	}
	if !f.End.IsZero() {
		where = append(where, "expense_date <= ?")
		args = append(args, f.End.UnixMilli())
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, string(f.Category))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY expense_date, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		var (
			e      core.Expense
			dateMs int64
			cents  int64
		)
		var category, method string
		if err := rows.Scan(&e.ID, &dateMs, &category, &cents, &e.Description, &e.RecordedBy, &method); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.Date = time.UnixMilli(dateMs)
		e.Category = core.ExpenseCategory(category)
		e.Amount = core.Money{Cents: cents}
		e.PaymentMethod = core.PaymentMethod(method)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

// Withdrawals implements reports.Store with optional date/account filters.
func (r *SQLiteRepository) Withdrawals(ctx context.Context, f reports.WithdrawalFilter) ([]core.Withdrawal, error) {
	query := `SELECT id, withdrawal_date, bank_account, amount_cents, description FROM withdrawals`
	var (
		where []string
		args  []any
	)
	if f.Account != "" {
		where = append(where, "bank_account = ?")
		args = append(args, string(f.Account))
	}
	if !f.Start.IsZero() {
		where = append(where, "withdrawal_date >= ?")
		args = append(args, f.Start.UnixMilli())
	}
	if !f.End.IsZero() {
		where = append(where, "withdrawal_date <= ?")
		args = append(args, f.End.UnixMilli())
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY withdrawal_date, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query withdrawals: %w", err)
	}
	defer rows.Close()

	var withdrawals []core.Withdrawal
	for rows.Next() {
		var (
			w       core.Withdrawal
			dateMs  int64
			account string
			cents   int64
		)
		if err := rows.Scan(&w.ID, &dateMs, &account, &cents, &w.Description); err != nil {
			return nil, fmt.Errorf("scan withdrawal: %w", err)
		}
		w.Date = time.UnixMilli(dateMs)
		w.BankAccount = core.Account(account)
		w.Amount = core.Money{Cents: cents}
		withdrawals = append(withdrawals, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate withdrawals: %w", err)
	}
	return withdrawals, nil
}

// CreateSale stores a sale with its items and payments in one
// transaction.
func (r *SQLiteRepository) CreateSale(ctx context.Context, sale core.Sale) (string, error) {
	if sale.ID == "" {
		sale.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sales (id, sale_date, status) VALUES (?, ?, ?)`,
		sale.ID, sale.Date.UnixMilli(), string(sale.Status))
	if err != nil {
		return "", fmt.Errorf("insert sale: %w", err)
	}
	for _, it := range sale.Items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO sale_items (sale_id, description, quantity, unit_price_cents) VALUES (?, ?, ?, ?)`,
			sale.ID, it.Description, it.Quantity, it.UnitPrice.Cents)
		if err != nil {
			return "", fmt.Errorf("insert sale item: %w", err)
		}
	}
	for _, p := range sale.Payments {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO sale_payments (sale_id, method, bank_account, amount_cents) VALUES (?, ?, ?, ?)`,
			sale.ID, string(p.Method), string(p.BankAccount), p.Amount.Cents)
		if err != nil {
			return "", fmt.Errorf("insert sale payment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit sale: %w", err)
	}
	return sale.ID, nil
}

func (r *SQLiteRepository) CreateExpense(ctx context.Context, expense core.Expense) (string, error) {
	if expense.ID == "" {
		expense.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, expense_date, category, amount_cents, description, recorded_by, payment_method)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Date.UnixMilli(), string(expense.Category),
		expense.Amount.Cents, expense.Description, expense.RecordedBy, string(expense.PaymentMethod))
	if err != nil {
		return "", fmt.Errorf("insert expense: %w", err)
	}
	return expense.ID, nil
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) CreateWithdrawal(ctx context.Context, withdrawal core.Withdrawal) (string, error) {
	if withdrawal.ID == "" {
		withdrawal.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO withdrawals (id, withdrawal_date, bank_account, amount_cents, description)
		 VALUES (?, ?, ?, ?, ?)`,
		withdrawal.ID, withdrawal.Date.UnixMilli(), string(withdrawal.BankAccount),
		withdrawal.Amount.Cents, withdrawal.Description)
	if err != nil {
		return "", fmt.Errorf("insert withdrawal: %w", err)
	}
	return withdrawal.ID, nil
}

func (r *SQLiteRepository) CreateIncident(ctx context.Context, incident core.Incident) (string, error) {
	if incident.ID == "" {
		incident.ID = uuid.NewString()
	}
	var closedAt any
	if !incident.ClosedAt.IsZero() {
		closedAt = incident.ClosedAt.UnixMilli()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO incidents (id, service_name, status, description, opened_at, closed_at, resolution)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		incident.ID, incident.ServiceName, string(incident.Status), incident.Description,
		incident.OpenedAt.UnixMilli(), closedAt, incident.Resolution)
	if err != nil {
		return "", fmt.Errorf("insert incident: %w", err)
	}
	return incident.ID, nil
}

func (r *SQLiteRepository) Incident(ctx context.Context, id string) (core.Incident, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, service_name, status, description, opened_at, closed_at, resolution
		 FROM incidents WHERE id = ?`, id)
	return scanIncident(row)
}

// UpdateIncident persists a state transition produced by the domain.
// The whole row is rewritten; incidents are small and transitions rare.
func (r *SQLiteRepository) UpdateIncident(ctx context.Context, incident core.Incident) error {
	var closedAt any
	if !incident.ClosedAt.IsZero() {
		closedAt = incident.ClosedAt.UnixMilli()
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE incidents SET service_name = ?, status = ?, description = ?, opened_at = ?, closed_at = ?, resolution = ?
		 WHERE id = ?`,
		incident.ServiceName, string(incident.Status), incident.Description,
		incident.OpenedAt.UnixMilli(), closedAt, incident.Resolution, incident.ID)
	if err != nil {
		return fmt.Errorf("update incident: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) OpenIncidents(ctx context.Context) ([]core.Incident, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, service_name, status, description, opened_at, closed_at, resolution
		 FROM incidents WHERE status = ? ORDER BY opened_at DESC`, string(core.IncidentOpen))
	if err != nil {
		return nil, fmt.Errorf("query incidents: %w", err)
	}
	defer rows.Close()

	var incidents []core.Incident
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate incidents: %w", err)
	}
	return incidents, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIncident(row rowScanner) (core.Incident, error) {
	var (
		incident core.Incident
		status   string
		openedMs int64
		closedMs sql.NullInt64
	)
	err := row.Scan(&incident.ID, &incident.ServiceName, &status, &incident.Description,
		&openedMs, &closedMs, &incident.Resolution)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Incident{}, ErrNotFound
	}
	if err != nil {
		return core.Incident{}, fmt.Errorf("scan incident: %w", err)
	}
	incident.Status = core.IncidentStatus(status)
	incident.OpenedAt = time.UnixMilli(openedMs)
	if closedMs.Valid {
		incident.ClosedAt = time.UnixMilli(closedMs.Int64)
	}
	return incident, nil
}
