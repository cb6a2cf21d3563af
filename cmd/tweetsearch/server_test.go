package main

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"tweetsearch/internal/config"
)

type countingSeeder struct {
	calls int
	err   error
}

func (s *countingSeeder) SeedDevRecords(ctx context.Context) error {
	s.calls++
	return s.err
}

func TestSeedDevData_OffByDefault(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("SEED_DEV_DATA", "")

	cfg := config.Load()
	if !cfg.IsDev() {
		t.Fatal("expected development environment by default")
	}

	seeder := &countingSeeder{}
	seedDevData(context.Background(), cfg, seeder, zap.NewNop())

	if seeder.calls != 0 {
		t.Errorf("SeedDevRecords called %d times on a default start, want 0", seeder.calls)
	}
}

func TestSeedDevData_OptIn(t *testing.T) {
	t.Setenv("SEED_DEV_DATA", "true")

	seeder := &countingSeeder{err: errors.New("db down")}
	seedDevData(context.Background(), config.Load(), seeder, zap.NewNop())

	if seeder.calls != 1 {
		t.Errorf("SeedDevRecords called %d times, want 1", seeder.calls)
	}
}
