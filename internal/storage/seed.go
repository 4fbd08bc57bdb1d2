package storage

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// SeedMode selects what a first run writes into an empty store.
type SeedMode string

const (
	// SeedMinimal writes only the zero-limit budgets.
	SeedMinimal SeedMode = "minimal"
	// SeedDemo also writes sample subscriptions and ninety days of
	// synthetic transactions. Demonstration only.
	SeedDemo SeedMode = "demo"
)

const demoDays = 90

func (m SeedMode) IsValid() bool {
	return m == SeedMinimal || m == SeedDemo
}

// Options configure how a store seeds itself.
type Options struct {
	SeedMode SeedMode
	// SeedRandom drives the demo generator; the same value and Now always
	// produce the same records.
	SeedRandom uint64
	Now        func() time.Time
	Logger     *log.Logger
}

// WithDefaults fills unset fields.
func (o Options) WithDefaults() Options {
	if o.SeedMode == "" {
		o.SeedMode = SeedMinimal
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = log.Nop()
	}
	return o
}

// SeedData is the record set written into an empty store.
type SeedData struct {
	Budgets       []core.Budget
	Subscriptions []core.Subscription
	Transactions  []core.Transaction
}

// BuildSeed returns the records for o.SeedMode.
func BuildSeed(o Options) (SeedData, error) {
	o = o.WithDefaults()
	data := SeedData{Budgets: DefaultBudgets()}
	switch o.SeedMode {
	case SeedMinimal:
		return data, nil
	case SeedDemo:
		subs, txs, err := demoRecords(o.SeedRandom, o.Now())
		if err != nil {
			return SeedData{}, err
		}
		data.Subscriptions = subs
		data.Transactions = txs
		return data, nil
	default:
		return SeedData{}, fmt.Errorf("unknown seed mode %q", o.SeedMode)
	}
}

// DefaultBudgets returns one zero-limit budget per known category.
func DefaultBudgets() []core.Budget {
	cats := core.KnownCategories()
	budgets := make([]core.Budget, len(cats))
	for i, c := range cats {
		budgets[i] = core.Budget{Category: string(c), Limit: decimal.Zero}
	}
	return budgets
}

type demoExpense struct {
	category    core.Category
	chance      float64
	min, max    int
	description string
}

var demoExpenses = []demoExpense{
	{core.Food, 0.6, 80, 600, "Groceries"},
	{core.Travel, 0.15, 150, 2500, "Cab ride"},
	{core.Other, 0.2, 50, 1500, "Shopping"},
}

func demoRecords(seed uint64, now time.Time) ([]core.Subscription, []core.Transaction, error) {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	src := rand.NewChaCha8(key)
	rng := rand.New(src)

	newID := func() (string, error) {
		id, err := uuid.NewRandomFromReader(src)
		if err != nil {
			return "", fmt.Errorf("generate demo id: %w", err)
		}
		return id.String(), nil
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, time.UTC)

	samples := []struct {
		name   string
		cost   int64
		period core.BillingPeriod
		inDays int
	}{
		{"Netflix", 649, core.Monthly, 3},
		{"Spotify", 119, core.Monthly, 12},
		{"Amazon Prime", 1499, core.Yearly, 40},
	}
	subs := make([]core.Subscription, 0, len(samples))
	for _, s := range samples {
		id, err := newID()
		if err != nil {
			return nil, nil, err
		}
		subs = append(subs, core.Subscription{
			ID:              id,
			Name:            s.name,
			Cost:            decimal.NewFromInt(s.cost),
			BillingPeriod:   s.period,
			NextBillingDate: today.AddDate(0, 0, s.inDays),
			Active:          true,
		})
	}

	var txs []core.Transaction
	add := func(t core.Transaction) error {
		id, err := newID()
		if err != nil {
			return err
		}
		t.ID = id
		txs = append(txs, t)
		return nil
	}

	for d := demoDays - 1; d >= 0; d-- {
		day := today.AddDate(0, 0, -d)
		if day.Day() == 1 {
			if err := add(core.Transaction{
				Type:        core.Income,
				Category:    "Salary",
				Amount:      decimal.NewFromInt(int64(45000 + rng.IntN(10000))),
				Date:        day,
				Description: "Monthly salary",
			}); err != nil {
				return nil, nil, err
			}
		}
		for _, e := range demoExpenses {
			if rng.Float64() >= e.chance {
				continue
			}
			if err := add(core.Transaction{
				Type:        core.Expense,
				Category:    string(e.category),
				Amount:      decimal.NewFromInt(int64(e.min + rng.IntN(e.max-e.min+1))),
				Date:        day.Add(time.Duration(rng.IntN(8*60)) * time.Minute),
				Description: e.description,
			}); err != nil {
				return nil, nil, err
			}
		}
		for _, s := range subs {
			if s.BillingPeriod == core.Monthly && s.NextBillingDate.Day() == day.Day() {
				if err := add(core.Transaction{
					Type:        core.Expense,
					Category:    string(core.Subscriptions),
					Amount:      s.Cost,
					Date:        day,
					Description: s.Name,
				}); err != nil {
					return nil, nil, err
				}
			}
		}
	}
	return subs, txs, nil
}
