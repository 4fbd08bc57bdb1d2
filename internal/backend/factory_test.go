package backend

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

func TestCreateBackend(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "memory",
			config: Config{Type: MemoryBackend},
		},
		{
			name:   "sqlite",
			config: Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(t.TempDir(), "f.db")},
		},
		{
			name:    "sqlite without path",
			config:  Config{Type: SQLiteBackend},
			wantErr: true,
		},
		{
			name:    "unknown type",
			config:  Config{Type: "sheets"},
			wantErr: true,
		},
		{
			name:    "bad seed mode",
			config:  Config{Type: MemoryBackend, Storage: storage.Options{SeedMode: "lots"}},
			wantErr: true,
		},
	}

	factory := NewFactory(log.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := factory.CreateBackend(ctx, tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CreateBackend() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			defer res.Cleanup()

			budgets, err := res.Store.ListBudgets(ctx)
			if err != nil {
				t.Fatalf("ListBudgets() error = %v", err)
			}
			if len(budgets) != 4 {
				t.Errorf("expected 4 seeded budgets, got %d", len(budgets))
			}
		})
	}
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil, nil); err == nil {
		t.Error("expected error for nil config")
	}

	cfg := &config.Config{DataBackend: "memory", SeedMode: "demo", SeedRandom: 9}
	bc, err := FromAppConfig(cfg, log.Nop())
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if bc.Type != MemoryBackend || bc.Storage.SeedMode != storage.SeedDemo || bc.Storage.SeedRandom != 9 {
		t.Errorf("FromAppConfig() = %+v", bc)
	}

	_, err = FromAppConfig(&config.Config{DataBackend: "sheets"}, nil)
	if err == nil || !strings.Contains(err.Error(), "[sqlite memory]") {
		t.Errorf("expected error listing backend types, got %v", err)
	}
}

func TestGetBackendTypeStrings(t *testing.T) {
	got := GetBackendTypeStrings()
	if len(got) != 2 || got[0] != "sqlite" || got[1] != "memory" {
		t.Errorf("GetBackendTypeStrings() = %v", got)
	}
}
