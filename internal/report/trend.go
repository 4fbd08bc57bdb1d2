package report

import (
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// TrendPoint is one month of per-category expense totals.
type TrendPoint struct {
	Label  string
	Year   int
	Month  time.Month
	Totals map[core.Category]decimal.Decimal
}

// TrendSeries returns months entries, oldest first, ending with ref's month.
// Every known category is present in each entry. Income is not counted.
func TrendSeries(txs []core.Transaction, ref time.Time, months int) []TrendPoint {
	if months <= 0 {
		return []TrendPoint{}
	}
	ref = ref.UTC()
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	series := make([]TrendPoint, months)
	index := make(map[int]int, months)
	for i := range series {
		m := first.AddDate(0, i, 0)
		totals := make(map[core.Category]decimal.Decimal, len(core.KnownCategories()))
		for _, c := range core.KnownCategories() {
			totals[c] = decimal.Zero
		}
		series[i] = TrendPoint{Label: m.Format("Jan"), Year: m.Year(), Month: m.Month(), Totals: totals}
		index[monthKey(m)] = i
	}

	for _, t := range txs {
		if t.Type != core.Expense {
			continue
		}
		i, ok := index[monthKey(t.Date.UTC())]
		if !ok {
			continue
		}
		c := core.CategoryOf(t.Category)
		series[i].Totals[c] = series[i].Totals[c].Add(t.Amount)
	}
	return series
}

func monthKey(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}
