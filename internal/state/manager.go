// Package state keeps the in-memory snapshot of a finance store and routes
// every mutation through the store followed by a full reload.
package state

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// Store is the persistence contract the Manager needs. Both the SQLite and
// the memory stores satisfy it.
type Store interface {
	Initialize(ctx context.Context) error
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
	PutTransaction(ctx context.Context, t core.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
	ListSubscriptions(ctx context.Context) ([]core.Subscription, error)
	PutSubscription(ctx context.Context, s core.Subscription) error
	DeleteSubscription(ctx context.Context, id string) error
	ListBudgets(ctx context.Context) ([]core.Budget, error)
	PutBudget(ctx context.Context, b core.Budget) error
	GetSetting(ctx context.Context, key string) (any, bool, error)
	PutSetting(ctx context.Context, key string, value any) error
	ResetAll(ctx context.Context) error
}

// Snapshot is the state as of the last successful Load. Transactions are
// newest first. UserName is empty when none has been set.
type Snapshot struct {
	Transactions  []core.Transaction
	Subscriptions []core.Subscription
	Budgets       []core.Budget
	UserName      string
	LoadedAt      time.Time
}

// Manager owns the snapshot. Mutations are not locked: callers must not
// issue two of them concurrently. Reading the snapshot is always safe.
// Without WithLogger it logs to the logger attached to each call's context.
type Manager struct {
	store    Store
	logger   *log.Logger
	now      func() time.Time
	snapshot atomic.Pointer[Snapshot]
	// ready is set once the store has been initialized by a Load.
	ready    atomic.Bool
}

type Option func(*Manager)

func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l.WithComponent(log.ComponentState)
		}
	}
}

// WithClock sets the clock used to stamp LoadedAt.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

func New(store Store, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.snapshot.Store(&Snapshot{})
	return m
}

// Snapshot returns the current snapshot. Its slices must be treated as read-only.
func (m *Manager) Snapshot() Snapshot {
	return *m.snapshot.Load()
}

// Loaded reports whether at least one Load has completed.
func (m *Manager) Loaded() bool {
	return !m.snapshot.Load().LoadedAt.IsZero()
}

// Load re-reads everything from the store and swaps the snapshot in one
// step. The first Load also initializes the store. On error the previous
// snapshot stays in place.
func (m *Manager) Load(ctx context.Context) (Snapshot, error) {
	if !m.ready.Load() {
		if err := m.store.Initialize(ctx); err != nil {
			return m.fail(ctx, log.OpLoad, fmt.Errorf("initialize store: %w", err))
		}
		m.ready.Store(true)
	}
	txs, err := m.store.ListTransactions(ctx)
	if err != nil {
		return m.fail(ctx, log.OpLoad, fmt.Errorf("load transactions: %w", err))
	}
	subs, err := m.store.ListSubscriptions(ctx)
	if err != nil {
		return m.fail(ctx, log.OpLoad, fmt.Errorf("load subscriptions: %w", err))
	}
	budgets, err := m.store.ListBudgets(ctx)
	if err != nil {
		return m.fail(ctx, log.OpLoad, fmt.Errorf("load budgets: %w", err))
	}
	name, found, err := m.store.GetSetting(ctx, core.SettingUserName)
	if err != nil {
		return m.fail(ctx, log.OpLoad, fmt.Errorf("load user name: %w", err))
	}

	sortNewestFirst(txs)

	next := &Snapshot{
		Transactions:  txs,
		Subscriptions: subs,
		Budgets:       budgets,
		LoadedAt:      m.now(),
	}
	if s, ok := name.(string); found && ok {
		next.UserName = s
	}
	m.snapshot.Store(next)

	m.log(ctx).DebugContext(ctx, "Snapshot loaded",
		log.FieldOperation, log.OpLoad,
		log.FieldTransaction, len(txs),
		log.FieldSubscription, len(subs),
		log.FieldBudgets, len(budgets))
	return *next, nil
}

// sortNewestFirst orders by date descending, id ascending on ties.
func sortNewestFirst(txs []core.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.After(txs[j].Date)
		}
		return txs[i].ID < txs[j].ID
	})
}

func (m *Manager) AddTransaction(ctx context.Context, t core.Transaction) error {
	fields := log.NewFields().WithTransaction(t.ID, string(t.Type), t.Category, t.Amount.String())
	return m.mutate(ctx, log.OpCreate, "put transaction", func() error {
		return m.store.PutTransaction(ctx, t)
	}, fields)
}

func (m *Manager) DeleteTransaction(ctx context.Context, id string) error {
	return m.mutate(ctx, log.OpDelete, "delete transaction", func() error {
		return m.store.DeleteTransaction(ctx, id)
	}, log.NewFields().WithID(id))
}

// AddSubscription creates or replaces the subscription with sub.ID.
func (m *Manager) AddSubscription(ctx context.Context, sub core.Subscription) error {
	return m.mutate(ctx, log.OpCreate, "put subscription", func() error {
		return m.store.PutSubscription(ctx, sub)
	}, log.NewFields().WithID(sub.ID))
}

func (m *Manager) DeleteSubscription(ctx context.Context, id string) error {
	return m.mutate(ctx, log.OpDelete, "delete subscription", func() error {
		return m.store.DeleteSubscription(ctx, id)
	}, log.NewFields().WithID(id))
}

// SetBudget upserts the monthly limit for b.Category.
func (m *Manager) SetBudget(ctx context.Context, b core.Budget) error {
	return m.mutate(ctx, log.OpUpdate, "put budget", func() error {
		return m.store.PutBudget(ctx, b)
	}, log.LogFields{log.FieldCategory: b.Category, log.FieldAmount: b.Limit.String()})
}

func (m *Manager) SetUserName(ctx context.Context, name string) error {
	return m.mutate(ctx, log.OpUpdate, "save user name", func() error {
		return m.store.PutSetting(ctx, core.SettingUserName, name)
	}, log.LogFields{log.FieldSettingKey: core.SettingUserName})
}

// Reset wipes the store back to its seeded state.
func (m *Manager) Reset(ctx context.Context) error {
	return m.mutate(ctx, log.OpReset, "reset store", func() error {
		return m.store.ResetAll(ctx)
	}, log.NewFields())
}

// mutate performs write and then reloads. A write that succeeds followed
// by a failed reload leaves the snapshot stale until the next Load.
func (m *Manager) mutate(ctx context.Context, op, what string, write func() error, fields log.LogFields) error {
	fields.WithOperation(op)
	if err := write(); err != nil {
		err = fmt.Errorf("%s: %w", what, err)
		m.log(ctx).ErrorContext(ctx, "State operation failed", fields.WithError(err).ToSlice()...)
		return err
	}
	m.log(ctx).DebugContext(ctx, "Store write done", fields.ToSlice()...)

	if _, err := m.Load(ctx); err != nil {
		m.log(ctx).WarnContext(ctx, "Snapshot stale after write", fields.WithError(err).ToSlice()...)
		return fmt.Errorf("reload after %s: %w", what, err)
	}
	return nil
}

func (m *Manager) fail(ctx context.Context, op string, err error) (Snapshot, error) {
	fields := log.NewFields().WithOperation(op).WithError(err)
	m.log(ctx).ErrorContext(ctx, "State operation failed", fields.ToSlice()...)
	return m.Snapshot(), err
}

func (m *Manager) log(ctx context.Context) *log.Logger {
	if m.logger != nil {
		return m.logger
	}
	return log.FromContext(ctx).WithComponent(log.ComponentState)
}
