package report

import (
	"sort"
	"strings"

	"fintrack/internal/core"
)

// Years returns the distinct transaction years, newest first.
func Years(txs []core.Transaction) []int {
	seen := make(map[int]struct{})
	for _, t := range txs {
		seen[t.Date.UTC().Year()] = struct{}{}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// FilterYear keeps the transactions dated in year, preserving order.
func FilterYear(txs []core.Transaction, year int) []core.Transaction {
	out := make([]core.Transaction, 0)
	for _, t := range txs {
		if t.Date.UTC().Year() == year {
			out = append(out, t)
		}
	}
	return out
}

// YearOverview is one entry of the yearly archive.
type YearOverview struct {
	Year    int
	Count   int
	Summary Summary
}

// YearOverviews lists every year with data, newest first.
func YearOverviews(txs []core.Transaction) []YearOverview {
	years := Years(txs)
	out := make([]YearOverview, 0, len(years))
	for _, y := range years {
		inYear := FilterYear(txs, y)
		out = append(out, YearOverview{Year: y, Count: len(inYear), Summary: YearSummary(inYear, y)})
	}
	return out
}

// Filter narrows a transaction list. Zero values match everything.
type Filter struct {
	// Category must equal the transaction category exactly.
	Category string
	// Search is a case-insensitive substring of the description.
	Search string
	// Limit keeps only the first Limit matches when positive.
	Limit int
}

func FilterTransactions(txs []core.Transaction, f Filter) []core.Transaction {
	needle := strings.ToLower(f.Search)
	out := make([]core.Transaction, 0)
	for _, t := range txs {
		if f.Category != "" && t.Category != f.Category {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(t.Description), needle) {
			continue
		}
		out = append(out, t)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out
}
