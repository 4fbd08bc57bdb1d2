package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/report"
	"fintrack/internal/state"
	"fintrack/internal/storage"
	"fintrack/internal/storage/memory"
)

func newTestApp(t *testing.T) *app {
	t.Helper()
	store, err := memory.New(storage.Options{})
	if err != nil {
		t.Fatalf("memory store: %v", err)
	}
	mgr := state.New(store)
	if _, err := mgr.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := &config.Config{TrendMonths: 3, RenewalWindowDays: 7}
	now := time.Date(2024, time.June, 15, 9, 0, 0, 0, time.UTC)
	return &app{cfg: cfg, logger: log.Nop(), mgr: mgr, now: func() time.Time { return now }}
}

func TestRunCommands(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)

	steps := [][]string{
		{"add", "-type", "income", "-category", "Salary", "-amount", "1000", "-desc", "June pay", "-date", "2024-06-01"},
		{"add", "-category", "Food", "-amount", "100", "-desc", "Groceries"},
		{"budget", "-category", "Food", "-limit", "400"},
		{"name", "-set", "Robin"},
		{"subscription", "-name", "Netflix", "-cost", "6.49", "-next", "2024-06-18"},
	}
	for _, s := range steps {
		if err := a.run(ctx, s[0], s[1:]); err != nil {
			t.Fatalf("%v: %v", s, err)
		}
	}

	snap := a.mgr.Snapshot()
	if len(snap.Transactions) != 2 || len(snap.Subscriptions) != 1 || snap.UserName != "Robin" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	var buf bytes.Buffer
	printDashboard(&buf, report.BuildDashboard(snap, a.now(), report.DashboardOptions{TrendMonths: a.cfg.TrendMonths}))
	out := buf.String()
	for _, want := range []string{"Welcome back, Robin (2024)", "Savings rate", "90.0%", "Netflix renews Jun 18", "Groceries"} {
		if !strings.Contains(out, want) {
			t.Errorf("dashboard output missing %q:\n%s", want, out)
		}
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)

	bad := [][]string{
		{"add", "-amount", "abc", "-desc", "x"},
		{"add", "-amount", "5"},
		{"add", "-amount", "5", "-desc", "x", "-type", "refund"},
		{"subscription", "-name", "X", "-cost", "1", "-next", "tomorrow"},
		{"delete"},
		{"delete", "-id", "not-a-uuid"},
		{"unsubscribe", "-id", "42"},
		{"subscription", "-id", "nope", "-name", "X", "-cost", "1", "-next", "2024-07-01"},
		{"reset"},
		{"bogus"},
	}
	for _, s := range bad {
		if err := a.run(ctx, s[0], s[1:]); err == nil {
			t.Errorf("%v: expected error", s)
		}
	}
	if got := len(a.mgr.Snapshot().Transactions); got != 0 {
		t.Errorf("rejected commands wrote %d transactions", got)
	}
}

func TestDeleteByGeneratedID(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)

	if err := a.run(ctx, "add", []string{"-amount", "3", "-desc", "Coffee"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	id := a.mgr.Snapshot().Transactions[0].ID
	if err := a.run(ctx, "delete", []string{"-id", id}); err != nil {
		t.Fatalf("delete %s: %v", id, err)
	}
	if got := len(a.mgr.Snapshot().Transactions); got != 0 {
		t.Errorf("expected transaction deleted, %d left", got)
	}
}

func TestRunRequiresLoadedSnapshot(t *testing.T) {
	store, err := memory.New(storage.Options{})
	if err != nil {
		t.Fatalf("memory store: %v", err)
	}
	a := &app{cfg: &config.Config{}, logger: log.Nop(), mgr: state.New(store), now: time.Now}
	if err := a.run(context.Background(), "dashboard", nil); err == nil {
		t.Error("expected error before the first load")
	}
}
