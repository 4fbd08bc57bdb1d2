// Package report derives summaries from transaction lists. Every function is
// pure: the reference time is always passed in, and calendar comparisons use
// the UTC year and month of each stored instant.
package report

import (
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

var hundred = decimal.NewFromInt(100)

// Summary holds totals for one period. No rounding is applied.
type Summary struct {
	Income      decimal.Decimal
	Expenses    decimal.Decimal
	Net         decimal.Decimal
	SavingsRate decimal.Decimal
}

func sameMonth(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	return a.Year() == b.Year() && a.Month() == b.Month()
}

func summarize(txs []core.Transaction, keep func(time.Time) bool) Summary {
	var s Summary
	for _, t := range txs {
		if !keep(t.Date) {
			continue
		}
		switch t.Type {
		case core.Income:
			s.Income = s.Income.Add(t.Amount)
		case core.Expense:
			s.Expenses = s.Expenses.Add(t.Amount)
		}
	}
	s.Net = s.Income.Sub(s.Expenses)
	if s.Income.IsPositive() {
		s.SavingsRate = s.Net.Div(s.Income).Mul(hundred)
	}
	return s
}

// MonthlySummary totals the transactions in ref's calendar month.
// SavingsRate is net over income as a percentage, or zero without income.
func MonthlySummary(txs []core.Transaction, ref time.Time) Summary {
	return summarize(txs, func(d time.Time) bool { return sameMonth(d, ref) })
}

// YearSummary totals a whole calendar year.
func YearSummary(txs []core.Transaction, year int) Summary {
	return summarize(txs, func(d time.Time) bool { return d.UTC().Year() == year })
}

// CategoryBreakdown sums ref month expenses per category. Unknown categories
// are counted as Other. Categories without expenses are absent.
func CategoryBreakdown(txs []core.Transaction, ref time.Time) map[core.Category]decimal.Decimal {
	out := make(map[core.Category]decimal.Decimal)
	for _, t := range txs {
		if t.Type != core.Expense || !sameMonth(t.Date, ref) {
			continue
		}
		c := core.CategoryOf(t.Category)
		out[c] = out[c].Add(t.Amount)
	}
	return out
}
