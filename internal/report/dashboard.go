package report

import (
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/state"
)

const (
	DefaultTrendMonths  = 6
	DefaultRecentLimit  = 5
	DefaultUserGreeting = "Guest"
)

// DashboardOptions tune BuildDashboard. Zero values pick the defaults.
type DashboardOptions struct {
	TrendMonths   int
	RenewalWindow time.Duration
	RecentLimit   int
}

func (o DashboardOptions) withDefaults() DashboardOptions {
	if o.TrendMonths <= 0 {
		o.TrendMonths = DefaultTrendMonths
	}
	if o.RenewalWindow <= 0 {
		o.RenewalWindow = DefaultRenewalWindow
	}
	if o.RecentLimit <= 0 {
		o.RecentLimit = DefaultRecentLimit
	}
	return o
}

// Dashboard is the year-to-date view of a snapshot.
type Dashboard struct {
	Greeting          string
	Year              int
	Summary           Summary
	Breakdown         map[core.Category]decimal.Decimal
	Trend             []TrendPoint
	Budgets           []BudgetStatus
	Recent            []core.Transaction
	RenewingSoon      []core.Subscription
	SubscriptionsCost decimal.Decimal
}

// BuildDashboard derives the dashboard for now from a snapshot. Summary,
// breakdown and trend only see transactions of now's year, matching the
// year-to-date view. Budgets see all transactions.
func BuildDashboard(snap state.Snapshot, now time.Time, opts DashboardOptions) Dashboard {
	opts = opts.withDefaults()
	year := now.UTC().Year()
	ytd := FilterYear(snap.Transactions, year)

	greeting := snap.UserName
	if greeting == "" {
		greeting = DefaultUserGreeting
	}

	return Dashboard{
		Greeting:          greeting,
		Year:              year,
		Summary:           MonthlySummary(ytd, now),
		Breakdown:         CategoryBreakdown(ytd, now),
		Trend:             TrendSeries(ytd, now, opts.TrendMonths),
		Budgets:           BudgetStatuses(snap.Budgets, snap.Transactions, now),
		Recent:            FilterTransactions(ytd, Filter{Limit: opts.RecentLimit}),
		RenewingSoon:      RenewingSoon(snap.Subscriptions, now, opts.RenewalWindow),
		SubscriptionsCost: SubscriptionsMonthlyTotal(snap.Subscriptions),
	}
}
