package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		ID:          NewID(),
		Type:        Expense,
		Category:    "Food",
		Amount:      decimal.NewFromInt(10),
		Date:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Description: "lunch",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Transaction)
		want   error
	}{
		{"empty id", func(tx *Transaction) { tx.ID = "" }, ErrEmptyID},
		{"bad type", func(tx *Transaction) { tx.Type = "transfer" }, ErrInvalidType},
		{"empty category", func(tx *Transaction) { tx.Category = " " }, ErrEmptyCategory},
		{"negative amount", func(tx *Transaction) { tx.Amount = decimal.NewFromInt(-1) }, ErrInvalidAmount},
		{"zero date", func(tx *Transaction) { tx.Date = time.Time{} }, ErrZeroDate},
		{"empty description", func(tx *Transaction) { tx.Description = "" }, ErrEmptyDescription},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := good
			tt.mutate(&tx)
			if err := tx.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSubscriptionValidate(t *testing.T) {
	sub := Subscription{
		ID:              NewID(),
		Name:            "Music",
		Cost:            decimal.RequireFromString("9.99"),
		BillingPeriod:   Monthly,
		NextBillingDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		Active:          true,
	}
	if err := sub.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	sub.BillingPeriod = "weekly"
	if err := sub.Validate(); !errors.Is(err, ErrInvalidBillingPeriod) {
		t.Fatalf("expected invalid billing period, got %v", err)
	}
}

func TestBudgetValidate(t *testing.T) {
	if err := (Budget{Category: "Food"}).Validate(); err != nil {
		t.Fatalf("zero limit should be valid: %v", err)
	}
	if err := (Budget{Category: "Food", Limit: decimal.NewFromInt(-5)}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
}

func TestCategoryOf(t *testing.T) {
	cases := map[string]Category{
		"Food":          Food,
		"Travel":        Travel,
		"Subscriptions": Subscriptions,
		"Other":         Other,
		"Salary":        Other,
		"":              Other,
		"food":          Other,
	}
	for in, want := range cases {
		if got := CategoryOf(in); got != want {
			t.Errorf("CategoryOf(%q) = %s, want %s", in, got, want)
		}
	}
	if IsKnownCategory("Salary") || !IsKnownCategory("Travel") {
		t.Fatal("IsKnownCategory mismatch")
	}
	if len(KnownCategories()) != 4 {
		t.Fatalf("expected 4 known categories, got %d", len(KnownCategories()))
	}
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	if a == b {
		t.Fatal("expected distinct ids")
	}
	if !IsValidID(a) || IsValidID("not-a-uuid") {
		t.Fatal("IsValidID mismatch")
	}
}
