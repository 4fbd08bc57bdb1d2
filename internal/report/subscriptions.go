package report

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// DefaultRenewalWindow is how far ahead a renewal counts as soon.
const DefaultRenewalWindow = 7 * 24 * time.Hour

// CostNormalizer converts a subscription cost to a monthly amount.
type CostNormalizer interface {
	Monthly(cost decimal.Decimal) decimal.Decimal
}

type MonthlyNormalizer struct{}

func (MonthlyNormalizer) Monthly(cost decimal.Decimal) decimal.Decimal { return cost }

type YearlyNormalizer struct{}

// Monthly spreads the yearly cost evenly over twelve months.
func (YearlyNormalizer) Monthly(cost decimal.Decimal) decimal.Decimal {
	return cost.Div(decimal.NewFromInt(12))
}

var costNormalizers = map[core.BillingPeriod]CostNormalizer{
	core.Monthly: MonthlyNormalizer{},
	core.Yearly:  YearlyNormalizer{},
}

// GetCostNormalizer returns the normalizer for a billing period.
func GetCostNormalizer(p core.BillingPeriod) (CostNormalizer, error) {
	n, ok := costNormalizers[p]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrInvalidBillingPeriod, p)
	}
	return n, nil
}

// MonthlyCost is the subscription's cost per month, unrounded.
func MonthlyCost(sub core.Subscription) (decimal.Decimal, error) {
	n, err := GetCostNormalizer(sub.BillingPeriod)
	if err != nil {
		return decimal.Zero, err
	}
	return n.Monthly(sub.Cost), nil
}

// SubscriptionsMonthlyTotal sums the monthly cost of active subscriptions.
// Subscriptions with an unknown billing period are skipped.
func SubscriptionsMonthlyTotal(subs []core.Subscription) decimal.Decimal {
	total := decimal.Zero
	for _, s := range subs {
		if !s.Active {
			continue
		}
		c, err := MonthlyCost(s)
		if err != nil {
			continue
		}
		total = total.Add(c)
	}
	return total
}

// DaysUntil counts whole days from now to t, truncated toward zero.
func DaysUntil(t, now time.Time) int {
	return int(t.Sub(now) / (24 * time.Hour))
}

// RenewingSoon returns the subscriptions billed between 0 and window days
// from now, counted in whole days truncated toward zero, so a date less than
// a day in the past still counts. A non-positive window uses
// DefaultRenewalWindow.
func RenewingSoon(subs []core.Subscription, now time.Time, window time.Duration) []core.Subscription {
	if window <= 0 {
		window = DefaultRenewalWindow
	}
	maxDays := int(window / (24 * time.Hour))
	out := make([]core.Subscription, 0)
	for _, s := range subs {
		if days := DaysUntil(s.NextBillingDate, now); days >= 0 && days <= maxDays {
			out = append(out, s)
		}
	}
	return out
}
