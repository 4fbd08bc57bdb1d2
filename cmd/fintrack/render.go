package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"fintrack/internal/core"
	"fintrack/internal/report"
)

func printDashboard(w io.Writer, d report.Dashboard) {
	fmt.Fprintf(w, "Welcome back, %s (%d)\n\n", d.Greeting, d.Year)

	s := d.Summary
	fmt.Fprintln(w, "This month")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "  Income\t%s\n", core.FormatAmount(s.Income))
	fmt.Fprintf(tw, "  Expenses\t%s\n", core.FormatAmount(s.Expenses))
	fmt.Fprintf(tw, "  Net\t%s\n", core.FormatAmount(s.Net))
	fmt.Fprintf(tw, "  Savings rate\t%s%%\n", s.SavingsRate.StringFixed(1))
	tw.Flush()

	fmt.Fprintln(w, "\nBy category")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, c := range core.KnownCategories() {
		if v, ok := d.Breakdown[c]; ok {
			fmt.Fprintf(tw, "  %s\t%s\n", c, core.FormatAmount(v))
		}
	}
	tw.Flush()

	fmt.Fprintln(w, "\nTrend")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "\t")
	for _, c := range core.KnownCategories() {
		fmt.Fprintf(tw, "%s\t", c)
	}
	fmt.Fprintln(tw)
	for _, p := range d.Trend {
		fmt.Fprintf(tw, "%s %d\t", p.Label, p.Year)
		for _, c := range core.KnownCategories() {
			fmt.Fprintf(tw, "%s\t", core.FormatAmount(p.Totals[c]))
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()

	fmt.Fprintln(w, "\nBudgets")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, b := range d.Budgets {
		flag := ""
		if b.Over() {
			flag = "over"
		}
		fmt.Fprintf(tw, "  %s\t%s / %s\t%s%%\t%s\n", b.Category,
			core.FormatAmount(b.Spent), core.FormatAmount(b.Limit), b.Percentage.StringFixed(0), flag)
	}
	tw.Flush()

	fmt.Fprintf(w, "\nSubscriptions: %s per month\n", core.FormatAmount(d.SubscriptionsCost))
	for _, sub := range d.RenewingSoon {
		fmt.Fprintf(w, "  %s renews %s\n", sub.Name, sub.NextBillingDate.Format("Jan 02"))
	}

	fmt.Fprintln(w, "\nRecent")
	printTransactions(w, d.Recent)
}

func printTransactions(w io.Writer, txs []core.Transaction) {
	if len(txs) == 0 {
		fmt.Fprintln(w, "  no transactions")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, t := range txs {
		sign := "-"
		if t.Type == core.Income {
			sign = "+"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s%s\t%s\n",
			t.Date.UTC().Format("2006-01-02"), t.Category, t.Description, sign, core.FormatAmount(t.Amount), t.ID)
	}
	tw.Flush()
}

func printYearOverviews(w io.Writer, years []report.YearOverview) {
	if len(years) == 0 {
		fmt.Fprintln(w, "No transaction history available.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, y := range years {
		fmt.Fprintf(tw, "%d\t%d transactions\tnet %s\n", y.Year, y.Count, core.FormatAmount(y.Summary.Net))
	}
	tw.Flush()
}

func printYear(w io.Writer, year int, s report.Summary, txs []core.Transaction) {
	fmt.Fprintf(w, "%d overview\n", year)
	fmt.Fprintf(w, "  income %s  expenses %s  net %s\n\n",
		core.FormatAmount(s.Income), core.FormatAmount(s.Expenses), core.FormatAmount(s.Net))
	printTransactions(w, txs)
}
