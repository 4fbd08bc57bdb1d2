package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerStampsComponent(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(Config{Level: slog.LevelDebug, Format: "json", Component: ComponentStorage, Output: buf})

	l.Info("opened", FieldPath, "/tmp/x.db")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected json output: %v (%q)", err, buf.String())
	}
	if rec[FieldComponent] != ComponentStorage {
		t.Fatalf("expected component %q, got %v", ComponentStorage, rec[FieldComponent])
	}
	if rec[FieldPath] != "/tmp/x.db" {
		t.Fatalf("missing path field: %v", rec)
	}
}

func TestWithComponent(t *testing.T) {
	buf := &bytes.Buffer{}
	base := New(Config{Output: buf})
	st := base.WithComponent(ComponentState)
	if st.component != ComponentState || base.component != ComponentApp {
		t.Fatalf("unexpected components: %s %s", st.component, base.component)
	}
	st.Warn("stale snapshot")
	if !strings.Contains(buf.String(), "component=state") {
		t.Fatalf("expected component=state in %q", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(Config{Level: slog.LevelWarn, Output: buf})
	l.Debug("hidden")
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below warn, got %q", buf.String())
	}
	l.Error("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected error record, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) err=%v, wantErr=%v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestContextRoundTrip(t *testing.T) {
	l := Nop().WithComponent(ComponentReport)
	ctx := WithContext(context.Background(), l)
	if got := FromContext(ctx); got != l {
		t.Fatal("expected the stored logger back")
	}
	if got := FromContext(context.Background()); got.component != "unknown" {
		t.Fatalf("expected fallback logger, got %s", got.component)
	}
}

func TestFieldsBuilder(t *testing.T) {
	f := NewFields().
		WithTransaction("t1", "expense", "Food", "4.20").
		WithOperation(OpDelete).
		WithError(errors.New("boom")).
		WithError(nil)
	if f[FieldError] != "boom" || f[FieldOperation] != OpDelete {
		t.Fatalf("unexpected fields: %v", f)
	}
	if f[FieldID] != "t1" || f[FieldAmount] != "4.20" {
		t.Fatalf("transaction fields missing: %v", f)
	}
	if len(f.ToSlice()) != 12 {
		t.Fatalf("expected 12 slice entries, got %d", len(f.ToSlice()))
	}
}
