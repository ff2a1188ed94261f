package store

import (
	"context"
	"testing"
	"time"
)

func TestSQLiteStore_SaveAndLoad(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer func() { _ = s.Close() }()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	rec := CycleRecord{
		RunID:     "run-1",
		Cycle:     1,
		Trace:     "AAaaZZ",
		StartedAt: now,
		EndedAt:   now.Add(10 * time.Millisecond),
	}
	if err := s.SaveCycle(ctx, rec); err != nil {
		t.Fatalf("SaveCycle: %v", err)
	}

	recs, err := s.LoadRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("LoadRun: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].Trace != "AAaaZZ" {
		t.Errorf("Trace = %q", recs[0].Trace)
	}
	if recs[0].Cycle != 1 {
		t.Errorf("Cycle = %d", recs[0].Cycle)
	}
}

func TestSQLiteStore_DuplicateCycleRejected(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer func() { _ = s.Close() }()

	ctx := context.Background()
	rec := CycleRecord{RunID: "run-1", Cycle: 1, Trace: "AZ"}
	if err := s.SaveCycle(ctx, rec); err != nil {
		t.Fatalf("SaveCycle: %v", err)
	}
	if err := s.SaveCycle(ctx, rec); err == nil {
		t.Error("expected an error inserting a duplicate (run_id, cycle)")
	}
}

func TestSQLiteStore_LoadRun_NotFound(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer func() { _ = s.Close() }()

	if _, err := s.LoadRun(context.Background(), "missing"); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore_InterfaceContract(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer func() { _ = s.Close() }()
	var _ TraceStore = s
}
