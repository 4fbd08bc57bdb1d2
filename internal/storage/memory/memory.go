// Package memory provides an in-process store with the same contract as the
// SQLite store. Nothing survives the process.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

type Store struct {
	mu       sync.Mutex
	opts     storage.Options
	txs      map[string]core.Transaction
	subs     map[string]core.Subscription
	budgets  map[string]core.Budget
	settings map[string][]byte
	failNext error
}

// New returns a seeded store.
func New(opts storage.Options) (*Store, error) {
	opts = opts.WithDefaults()
	s := &Store{
		opts:     opts,
		txs:      map[string]core.Transaction{},
		subs:     map[string]core.Subscription{},
		budgets:  map[string]core.Budget{},
		settings: map[string][]byte{},
	}
	if err := s.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

// FailNext makes the next store call return err wrapped as a StoreError.
func (s *Store) FailNext(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = err
}

func (s *Store) fail(op string) error {
	if s.failNext == nil {
		return nil
	}
	err := s.failNext
	s.failNext = nil
	return storage.Unavailable(op, err)
}

func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("initialize"); err != nil {
		return err
	}
	if len(s.txs) == 0 {
		return s.seedLocked(ctx)
	}
	return nil
}

func (s *Store) Close() error { return nil }

func (s *Store) CountTransactions(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("count transactions"); err != nil {
		return 0, err
	}
	return len(s.txs), nil
}

// ListTransactions returns transactions ascending by date, then id.
func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("list transactions"); err != nil {
		return nil, err
	}
	out := make([]core.Transaction, 0, len(s.txs))
	for _, t := range s.txs {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) PutTransaction(_ context.Context, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("put transaction"); err != nil {
		return err
	}
	t.Date = t.Date.UTC()
	s.txs[t.ID] = t
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("delete transaction"); err != nil {
		return err
	}
	delete(s.txs, id)
	return nil
}

func (s *Store) ListSubscriptions(_ context.Context) ([]core.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("list subscriptions"); err != nil {
		return nil, err
	}
	out := make([]core.Subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) PutSubscription(_ context.Context, sub core.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("put subscription"); err != nil {
		return err
	}
	sub.NextBillingDate = sub.NextBillingDate.UTC()
	s.subs[sub.ID] = sub
	return nil
}

func (s *Store) DeleteSubscription(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("delete subscription"); err != nil {
		return err
	}
	delete(s.subs, id)
	return nil
}

func (s *Store) ListBudgets(_ context.Context) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("list budgets"); err != nil {
		return nil, err
	}
	out := make([]core.Budget, 0, len(s.budgets))
	for _, b := range s.budgets {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

func (s *Store) PutBudget(_ context.Context, b core.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("put budget"); err != nil {
		return err
	}
	s.budgets[b.Category] = b
	return nil
}

// GetSetting decodes the stored JSON the same way the SQLite store does, so
// numbers come back as float64.
func (s *Store) GetSetting(_ context.Context, key string) (any, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("get setting"); err != nil {
		return nil, false, err
	}
	raw, ok := s.settings[key]
	if !ok {
		return nil, false, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false, storage.Unavailable("decode setting", err)
	}
	return v, true, nil
}

func (s *Store) PutSetting(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode setting %s: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("put setting"); err != nil {
		return err
	}
	s.settings[key] = raw
	return nil
}

// ResetAll empties every collection and seeds again. When the seed cannot
// be built nothing is cleared.
func (s *Store) ResetAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("reset"); err != nil {
		return err
	}
	data, err := storage.BuildSeed(s.opts)
	if err != nil {
		return err
	}
	s.txs = map[string]core.Transaction{}
	s.subs = map[string]core.Subscription{}
	s.budgets = map[string]core.Budget{}
	s.settings = map[string][]byte{}
	s.applySeedLocked(ctx, data)
	return nil
}

func (s *Store) seedLocked(ctx context.Context) error {
	data, err := storage.BuildSeed(s.opts)
	if err != nil {
		return err
	}
	s.applySeedLocked(ctx, data)
	return nil
}

func (s *Store) applySeedLocked(ctx context.Context, data storage.SeedData) {
	for _, b := range data.Budgets {
		if _, exists := s.budgets[b.Category]; !exists {
			s.budgets[b.Category] = b
		}
	}
	for _, sub := range data.Subscriptions {
		s.subs[sub.ID] = sub
	}
	for _, t := range data.Transactions {
		s.txs[t.ID] = t
	}
	s.opts.Logger.WithComponent(log.ComponentSeed).DebugContext(ctx, "Memory store seeded",
		log.FieldOperation, log.OpSeed,
		log.FieldSeedMode, string(s.opts.SeedMode),
		log.FieldTransaction, len(data.Transactions))
}
