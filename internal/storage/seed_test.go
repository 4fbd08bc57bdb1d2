package storage

import (
	"reflect"
	"testing"
	"time"

	"fintrack/internal/core"
)

func TestBuildSeedMinimal(t *testing.T) {
	data, err := BuildSeed(Options{})
	if err != nil {
		t.Fatalf("build seed: %v", err)
	}
	if len(data.Budgets) != 4 || len(data.Subscriptions) != 0 || len(data.Transactions) != 0 {
		t.Fatalf("unexpected minimal seed: %d budgets, %d subs, %d txs",
			len(data.Budgets), len(data.Subscriptions), len(data.Transactions))
	}
	for i, c := range core.KnownCategories() {
		if data.Budgets[i].Category != string(c) || !data.Budgets[i].Limit.IsZero() {
			t.Fatalf("unexpected budget %d: %+v", i, data.Budgets[i])
		}
	}
}

func TestBuildSeedDemoReproducible(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 3, 20, 8, 30, 0, 0, time.UTC) }
	a, err := BuildSeed(Options{SeedMode: SeedDemo, SeedRandom: 99, Now: now})
	if err != nil {
		t.Fatalf("seed a: %v", err)
	}
	b, err := BuildSeed(Options{SeedMode: SeedDemo, SeedRandom: 99, Now: now})
	if err != nil {
		t.Fatalf("seed b: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("expected identical demo data for the same seed")
	}

	c, _ := BuildSeed(Options{SeedMode: SeedDemo, SeedRandom: 100, Now: now})
	if len(c.Transactions) > 0 && len(a.Transactions) > 0 && c.Transactions[0].ID == a.Transactions[0].ID {
		t.Fatal("expected different ids for a different seed")
	}
}

func TestBuildSeedDemoWindow(t *testing.T) {
	ref := time.Date(2024, 3, 20, 8, 30, 0, 0, time.UTC)
	data, err := BuildSeed(Options{SeedMode: SeedDemo, SeedRandom: 1, Now: func() time.Time { return ref }})
	if err != nil {
		t.Fatalf("build seed: %v", err)
	}
	if len(data.Subscriptions) != 3 {
		t.Fatalf("expected 3 demo subscriptions, got %d", len(data.Subscriptions))
	}

	oldest := ref.AddDate(0, 0, -demoDays)
	incomes := 0
	seen := map[string]bool{}
	for _, tx := range data.Transactions {
		if tx.Date.Before(oldest) || tx.Date.After(ref.AddDate(0, 0, 1)) {
			t.Fatalf("transaction outside the demo window: %v", tx.Date)
		}
		if !core.IsValidID(tx.ID) || seen[tx.ID] {
			t.Fatalf("bad or duplicate id %q", tx.ID)
		}
		seen[tx.ID] = true
		if tx.Type == core.Income {
			incomes++
		}
		if err := tx.Validate(); err != nil {
			t.Fatalf("demo transaction invalid: %v (%+v)", err, tx)
		}
	}
	// Ninety days always crosses at least two month starts.
	if incomes < 2 {
		t.Fatalf("expected at least 2 salary entries, got %d", incomes)
	}
}

func TestBuildSeedUnknownMode(t *testing.T) {
	if _, err := BuildSeed(Options{SeedMode: "lavish"}); err == nil {
		t.Fatal("expected error for unknown seed mode")
	}
}
