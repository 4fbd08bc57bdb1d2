package report

import (
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// BudgetStatus is a budget's utilization in one month.
type BudgetStatus struct {
	Category   string
	Limit      decimal.Decimal
	Spent      decimal.Decimal
	Percentage decimal.Decimal
}

// Over reports whether spending reached the limit.
func (b BudgetStatus) Over() bool {
	return b.Percentage.GreaterThanOrEqual(hundred)
}

// BudgetStatuses computes spending against each budget for ref's month, in
// budget order. Percentage is capped at 100. A zero limit yields 100 when
// anything was spent and 0 otherwise. The Other budget also absorbs
// expenses whose category is not a known one.
func BudgetStatuses(budgets []core.Budget, txs []core.Transaction, ref time.Time) []BudgetStatus {
	out := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		spent := decimal.Zero
		for _, t := range txs {
			if t.Type != core.Expense || !sameMonth(t.Date, ref) {
				continue
			}
			if countsToward(b.Category, t.Category) {
				spent = spent.Add(t.Amount)
			}
		}
		out = append(out, BudgetStatus{
			Category:   b.Category,
			Limit:      b.Limit,
			Spent:      spent,
			Percentage: utilization(spent, b.Limit),
		})
	}
	return out
}

// countsToward matches categories exactly, except that the Other budget
// also takes expenses in categories outside the known set, the same way
// the breakdown and trend fold them.
func countsToward(budget, category string) bool {
	if budget == category {
		return true
	}
	return budget == string(core.Other) && !core.IsKnownCategory(category)
}

func utilization(spent, limit decimal.Decimal) decimal.Decimal {
	if !limit.IsPositive() {
		if spent.IsPositive() {
			return hundred
		}
		return decimal.Zero
	}
	p := spent.Div(limit).Mul(hundred)
	if p.GreaterThan(hundred) {
		return hundred
	}
	if p.IsNegative() {
		return decimal.Zero
	}
	return p
}
