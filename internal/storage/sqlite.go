package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"

	_ "modernc.org/sqlite"
)

// dateLayout has a fixed width so that text order in the date index is
// chronological order.
const dateLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore is the durable store: one SQLite file holding transactions,
// subscriptions, budgets and settings.
type SQLiteStore struct {
	db       *sql.DB
	path     string
	opts     Options
	logger   *log.Logger
	migrated bool
}

// Open opens or creates the store at dbPath, migrates it to SchemaVersion
// and seeds it when it holds no transactions. Without opts.Logger the
// logger attached to ctx is used.
func Open(ctx context.Context, dbPath string, opts Options) (*SQLiteStore, error) {
	if opts.Logger == nil {
		opts.Logger = log.FromContext(ctx)
	}
	opts = opts.WithDefaults()
	logger := opts.Logger.WithComponent(log.ComponentStorage)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, Unavailable("create db directory", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, Unavailable("open sqlite database", err)
	}
	// One connection serializes writers and keeps every statement on the
	// same file handle.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, Unavailable("ping database", err)
	}

	s := &SQLiteStore{
		db:     db,
		path:   dbPath,
		opts:   opts,
		logger: logger,
	}
	if err := s.Initialize(ctx); err != nil {
		db.Close()
		return nil, err
	}

	version, err := s.SchemaVersion(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	logger.InfoContext(ctx, "Store opened",
		log.FieldPath, dbPath,
		log.FieldVersion, version,
		log.FieldSeedMode, string(opts.SeedMode))
	return s, nil
}

// Initialize runs the migration guard (once per store value) and seeds
// the store if its transaction count is zero.
func (s *SQLiteStore) Initialize(ctx context.Context) error {
	if !s.migrated {
		version, err := RunMigrations(s.path, s.opts.Logger)
		if err != nil {
			return Unavailable("migrate", err)
		}
		s.migrated = true
		s.logger.DebugContext(ctx, "Schema ready", log.FieldVersion, version)
	}

	count, err := s.CountTransactions(ctx)
	if err != nil {
		return err
	}
	if count == 0 {
		return s.seed(ctx)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SchemaVersion reports the migration version recorded in the database.
func (s *SQLiteStore) SchemaVersion(ctx context.Context) (uint, error) {
	var version uint
	err := s.db.QueryRowContext(ctx, `SELECT version FROM schema_migrations LIMIT 1`).Scan(&version)
	if err != nil {
		return 0, Unavailable("read schema version", err)
	}
	return version, nil
}

func (s *SQLiteStore) CountTransactions(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, Unavailable("count transactions", err)
	}
	return n, nil
}

// ListTransactions returns every transaction in ascending date order.
func (s *SQLiteStore) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, category, amount, date, description
		FROM transactions
		ORDER BY date ASC, id ASC`)
	if err != nil {
		return nil, Unavailable("list transactions", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			t       core.Transaction
			txType  string
			dateRaw string
		)
		if err := rows.Scan(&t.ID, &txType, &t.Category, &t.Amount, &dateRaw, &t.Description); err != nil {
			return nil, Unavailable("scan transaction", err)
		}
		t.Type = core.TransactionType(txType)
		if t.Date, err = parseDate(dateRaw); err != nil {
			return nil, Unavailable("decode transaction date", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, Unavailable("list transactions", err)
	}
	return out, nil
}

func (s *SQLiteStore) PutTransaction(ctx context.Context, t core.Transaction) error {
	return s.putTransaction(ctx, s.db, t)
}

func (s *SQLiteStore) putTransaction(ctx context.Context, q querier, t core.Transaction) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO transactions (id, type, category, amount, date, description)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			category = excluded.category,
			amount = excluded.amount,
			date = excluded.date,
			description = excluded.description`,
		t.ID, string(t.Type), t.Category, t.Amount, formatDate(t.Date), t.Description)
	if err != nil {
		return Unavailable("put transaction", err)
	}
	return nil
}

// DeleteTransaction removes the transaction with id. Absent ids are not an error.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return Unavailable("delete transaction", err)
	}
	return nil
}

func (s *SQLiteStore) ListSubscriptions(ctx context.Context) ([]core.Subscription, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, cost, billing_period, next_billing_date, active
		FROM subscriptions
		ORDER BY id ASC`)
	if err != nil {
		return nil, Unavailable("list subscriptions", err)
	}
	defer rows.Close()

	var out []core.Subscription
	for rows.Next() {
		var (
			sub     core.Subscription
			period  string
			dateRaw string
		)
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Cost, &period, &dateRaw, &sub.Active); err != nil {
			return nil, Unavailable("scan subscription", err)
		}
		sub.BillingPeriod = core.BillingPeriod(period)
		if sub.NextBillingDate, err = parseDate(dateRaw); err != nil {
			return nil, Unavailable("decode next billing date", err)
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, Unavailable("list subscriptions", err)
	}
	return out, nil
}

func (s *SQLiteStore) PutSubscription(ctx context.Context, sub core.Subscription) error {
	return s.putSubscription(ctx, s.db, sub)
}

func (s *SQLiteStore) putSubscription(ctx context.Context, q querier, sub core.Subscription) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO subscriptions (id, name, cost, billing_period, next_billing_date, active)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			cost = excluded.cost,
			billing_period = excluded.billing_period,
			next_billing_date = excluded.next_billing_date,
			active = excluded.active`,
		sub.ID, sub.Name, sub.Cost, string(sub.BillingPeriod), formatDate(sub.NextBillingDate), sub.Active)
	if err != nil {
		return Unavailable("put subscription", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteSubscription(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = ?`, id); err != nil {
		return Unavailable("delete subscription", err)
	}
	return nil
}

// ListBudgets returns budgets ordered by category.
func (s *SQLiteStore) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT category, "limit" FROM budgets ORDER BY category ASC`)
	if err != nil {
		return nil, Unavailable("list budgets", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.Category, &b.Limit); err != nil {
			return nil, Unavailable("scan budget", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, Unavailable("list budgets", err)
	}
	return out, nil
}

// PutBudget upserts the budget for b.Category.
func (s *SQLiteStore) PutBudget(ctx context.Context, b core.Budget) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets (category, "limit") VALUES (?, ?)
		ON CONFLICT(category) DO UPDATE SET "limit" = excluded."limit"`,
		b.Category, b.Limit)
	if err != nil {
		return Unavailable("put budget", err)
	}
	return nil
}

// GetSetting returns the decoded value stored under key and whether it exists.
func (s *SQLiteStore) GetSetting(ctx context.Context, key string) (any, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, Unavailable("get setting", err)
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, false, Unavailable("decode setting", err)
	}
	return v, true, nil
}

// PutSetting stores value under key as JSON.
func (s *SQLiteStore) PutSetting(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode setting %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, string(raw))
	if err != nil {
		return Unavailable("put setting", err)
	}
	return nil
}

// ResetAll empties all four collections and seeds again in one
// transaction. On error the store is left as it was.
func (s *SQLiteStore) ResetAll(ctx context.Context) error {
	data, err := BuildSeed(s.opts)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Unavailable("begin reset", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"transactions", "subscriptions", "budgets", "settings"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return Unavailable("clear "+table, err)
		}
	}
	if err := s.insertSeed(ctx, tx, data); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return Unavailable("commit reset", err)
	}

	s.logger.InfoContext(ctx, "Store reset", log.FieldOperation, log.OpReset)
	s.logSeed(ctx, data)
	return nil
}

func (s *SQLiteStore) seed(ctx context.Context) error {
	data, err := BuildSeed(s.opts)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Unavailable("begin seed", err)
	}
	defer tx.Rollback()

	if err := s.insertSeed(ctx, tx, data); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return Unavailable("commit seed", err)
	}

	s.logSeed(ctx, data)
	return nil
}

func (s *SQLiteStore) insertSeed(ctx context.Context, q querier, data SeedData) error {
	for _, b := range data.Budgets {
		// Existing limits survive a reseed.
		if _, err := q.ExecContext(ctx,
			`INSERT INTO budgets (category, "limit") VALUES (?, ?) ON CONFLICT(category) DO NOTHING`,
			b.Category, b.Limit); err != nil {
			return Unavailable("seed budget", err)
		}
	}
	for _, sub := range data.Subscriptions {
		if err := s.putSubscription(ctx, q, sub); err != nil {
			return err
		}
	}
	for _, t := range data.Transactions {
		if err := s.putTransaction(ctx, q, t); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) logSeed(ctx context.Context, data SeedData) {
	s.opts.Logger.WithComponent(log.ComponentSeed).InfoContext(ctx, "Store seeded",
		log.FieldOperation, log.OpSeed,
		log.FieldSeedMode, string(s.opts.SeedMode),
		log.FieldBudgets, len(data.Budgets),
		log.FieldSubscription, len(data.Subscriptions),
		log.FieldTransaction, len(data.Transactions))
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
