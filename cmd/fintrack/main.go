package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/report"
	"fintrack/internal/state"
)

func main() {
	cli.LoadEnvFile()

	cfg := config.Load()
	logger := cli.SetupLogger(cfg)
	cfg = cli.LoadAndValidateConfig(logger)

	ctx, stop := cli.SignalContext()
	defer stop()
	ctx = log.WithContext(ctx, logger)

	cmd := "dashboard"
	args := os.Args[1:]
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}
	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		printUsage()
		return
	}

	logger.InfoContext(ctx, "Starting fintrack",
		log.FieldOperation, log.OpStartup,
		log.FieldBackend, cfg.DataBackend)

	res, err := cli.OpenStore(ctx, logger, cfg)
	if err != nil {
		logger.Error("Failed to open store", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Warn("Store cleanup failed", log.FieldOperation, log.OpShutdown, log.FieldError, err)
			return
		}
		logger.Debug("Store closed", log.FieldOperation, log.OpShutdown)
	}()

	mgr := state.New(res.Store)
	if _, err := mgr.Load(ctx); err != nil {
		logger.Error("Failed to load snapshot", log.FieldError, err)
		os.Exit(1)
	}

	app := &app{cfg: cfg, logger: logger, mgr: mgr, now: time.Now}
	if err := app.run(ctx, cmd, args); err != nil {
		logger.Error("Command failed", log.FieldOperation, cmd, log.FieldError, err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("fintrack - personal finance tracker")
	fmt.Println("\nUsage:")
	fmt.Println("  fintrack <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  dashboard     Show the current year dashboard (default)")
	fmt.Println("  years         List years with transactions")
	fmt.Println("  year          Show one year (-year)")
	fmt.Println("  list          List transactions (-category, -search, -limit)")
	fmt.Println("  add           Record a transaction")
	fmt.Println("  delete        Delete a transaction by id")
	fmt.Println("  subscription  Add or replace a subscription")
	fmt.Println("  unsubscribe   Delete a subscription by id")
	fmt.Println("  budget        Set a monthly budget limit")
	fmt.Println("  name          Set the user name")
	fmt.Println("  reset         Wipe all data and reseed")
	fmt.Println("\nRun 'fintrack <command> -h' for more information on a command.")
}

type app struct {
	cfg    *config.Config
	logger *log.Logger
	mgr    *state.Manager
	now    func() time.Time
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	if !a.mgr.Loaded() {
		return fmt.Errorf("snapshot not loaded")
	}
	switch cmd {
	case "dashboard":
		return a.runDashboard()
	case "years":
		return a.runYears()
	case "year":
		return a.runYear(args)
	case "list":
		return a.runList(args)
	case "add":
		return a.runAdd(ctx, args)
	case "delete":
		return a.runDelete(ctx, args)
	case "subscription":
		return a.runSubscription(ctx, args)
	case "unsubscribe":
		return a.runUnsubscribe(ctx, args)
	case "budget":
		return a.runBudget(ctx, args)
	case "name":
		return a.runName(ctx, args)
	case "reset":
		return a.runReset(ctx, args)
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func (a *app) runDashboard() error {
	dash := report.BuildDashboard(a.mgr.Snapshot(), a.now(), report.DashboardOptions{
		TrendMonths:   a.cfg.TrendMonths,
		RenewalWindow: a.cfg.RenewalWindow(),
	})
	printDashboard(os.Stdout, dash)
	return nil
}

func (a *app) runYears() error {
	printYearOverviews(os.Stdout, report.YearOverviews(a.mgr.Snapshot().Transactions))
	return nil
}

func (a *app) runYear(args []string) error {
	fs := flag.NewFlagSet("year", flag.ExitOnError)
	year := fs.Int("year", a.now().UTC().Year(), "calendar year")
	fs.Parse(args)

	txs := report.FilterYear(a.mgr.Snapshot().Transactions, *year)
	a.logger.Debug("Year selected", log.FieldYear, *year, log.FieldCount, len(txs))
	printYear(os.Stdout, *year, report.YearSummary(txs, *year), txs)
	return nil
}

func (a *app) runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	category := fs.String("category", "", "exact category")
	search := fs.String("search", "", "description substring")
	limit := fs.Int("limit", 0, "maximum rows")
	fs.Parse(args)

	txs := report.FilterTransactions(a.mgr.Snapshot().Transactions, report.Filter{
		Category: *category,
		Search:   *search,
		Limit:    *limit,
	})
	a.logger.Debug("Transactions listed", log.FieldOperation, log.OpList, log.FieldCount, len(txs))
	printTransactions(os.Stdout, txs)
	return nil
}

func (a *app) runAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	kind := fs.String("type", string(core.Expense), "income or expense")
	category := fs.String("category", string(core.Other), "category")
	amount := fs.String("amount", "", "amount, e.g. 12.50")
	desc := fs.String("desc", "", "description")
	date := fs.String("date", "", "date as YYYY-MM-DD (default today)")
	fs.Parse(args)

	value, err := core.ParseAmount(*amount)
	if err != nil {
		return err
	}
	when := a.now()
	if *date != "" {
		if when, err = time.Parse(time.DateOnly, *date); err != nil {
			return fmt.Errorf("invalid date %q: %w", *date, err)
		}
	}

	t := core.Transaction{
		ID:          core.NewID(),
		Type:        core.TransactionType(*kind),
		Category:    *category,
		Amount:      value,
		Date:        when,
		Description: *desc,
	}
	if err := t.Validate(); err != nil {
		return err
	}
	if err := a.mgr.AddTransaction(ctx, t); err != nil {
		return err
	}
	fmt.Println(t.ID)
	return nil
}

func (a *app) runDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.String("id", "", "transaction id")
	fs.Parse(args)
	if err := checkID(*id); err != nil {
		return err
	}
	return a.mgr.DeleteTransaction(ctx, *id)
}

func (a *app) runSubscription(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("subscription", flag.ExitOnError)
	id := fs.String("id", "", "id to replace (default new)")
	name := fs.String("name", "", "service name")
	cost := fs.String("cost", "", "cost per billing period")
	period := fs.String("period", string(core.Monthly), "monthly or yearly")
	next := fs.String("next", "", "next billing date as YYYY-MM-DD")
	inactive := fs.Bool("inactive", false, "mark as paused")
	fs.Parse(args)

	value, err := core.ParseAmount(*cost)
	if err != nil {
		return err
	}
	nextDate, err := time.Parse(time.DateOnly, *next)
	if err != nil {
		return fmt.Errorf("invalid next billing date %q: %w", *next, err)
	}
	sub := core.Subscription{
		ID:              *id,
		Name:            *name,
		Cost:            value,
		BillingPeriod:   core.BillingPeriod(*period),
		NextBillingDate: nextDate,
		Active:          !*inactive,
	}
	if sub.ID == "" {
		sub.ID = core.NewID()
	} else if err := checkID(sub.ID); err != nil {
		return err
	}
	if err := sub.Validate(); err != nil {
		return err
	}
	if err := a.mgr.AddSubscription(ctx, sub); err != nil {
		return err
	}
	fmt.Println(sub.ID)
	return nil
}

func (a *app) runUnsubscribe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("unsubscribe", flag.ExitOnError)
	id := fs.String("id", "", "subscription id")
	fs.Parse(args)
	if err := checkID(*id); err != nil {
		return err
	}
	return a.mgr.DeleteSubscription(ctx, *id)
}

// checkID rejects ids that were not produced by core.NewID.
func checkID(id string) error {
	if id == "" {
		return core.ErrEmptyID
	}
	if !core.IsValidID(id) {
		return fmt.Errorf("invalid id %q", id)
	}
	return nil
}

func (a *app) runBudget(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("budget", flag.ExitOnError)
	category := fs.String("category", "", "budget category")
	limit := fs.String("limit", "", "monthly limit")
	fs.Parse(args)

	value, err := core.ParseAmount(*limit)
	if err != nil {
		return err
	}
	b := core.Budget{Category: *category, Limit: value}
	if err := b.Validate(); err != nil {
		return err
	}
	return a.mgr.SetBudget(ctx, b)
}

func (a *app) runName(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("name", flag.ExitOnError)
	name := fs.String("set", "", "new user name")
	fs.Parse(args)
	return a.mgr.SetUserName(ctx, *name)
}

func (a *app) runReset(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)
	yes := fs.Bool("yes", false, "confirm the reset")
	fs.Parse(args)
	if !*yes {
		return fmt.Errorf("reset deletes every record; pass -yes to confirm")
	}
	if err := a.mgr.Reset(ctx); err != nil {
		return err
	}
	a.logger.Info("Store reset", log.FieldOperation, log.OpReset,
		log.FieldTransaction, len(a.mgr.Snapshot().Transactions))
	return nil
}
