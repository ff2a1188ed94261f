package emit

import (
	"context"
	"testing"
)

// mockEmitter is a minimal Emitter implementation for testing the interface contract.
type mockEmitter struct {
	events []Event
}

func (m *mockEmitter) Emit(event Event) {
	m.events = append(m.events, event)
}

func (m *mockEmitter) EmitBatch(ctx context.Context, events []Event) error {
	m.events = append(m.events, events...)
	return nil
}

func (m *mockEmitter) Flush(ctx context.Context) error { return nil }

func TestEmitter_InterfaceContract(t *testing.T) {
	var _ Emitter = (*mockEmitter)(nil)
}

func TestEmitter_Emit(t *testing.T) {
	t.Run("emit single event", func(t *testing.T) {
		emitter := &mockEmitter{}
		emitter.Emit(Event{RunID: "run-001", Cycle: 1, Label: "A", Msg: "task_start"})

		if len(emitter.events) != 1 {
			t.Fatalf("expected 1 event, got %d", len(emitter.events))
		}
		if emitter.events[0].Msg != "task_start" {
			t.Errorf("Msg = %q", emitter.events[0].Msg)
		}
	})

	t.Run("emit multiple events in order", func(t *testing.T) {
		emitter := &mockEmitter{}
		events := []Event{
			{RunID: "run-001", Cycle: 1, Msg: "cycle_start"},
			{RunID: "run-001", Cycle: 1, Label: "A", Msg: "task_start"},
			{RunID: "run-001", Cycle: 1, Label: "A", Msg: "task_end"},
		}
		for _, e := range events {
			emitter.Emit(e)
		}

		if len(emitter.events) != 3 {
			t.Fatalf("expected 3 events, got %d", len(emitter.events))
		}
		for i, e := range emitter.events {
			if e.Msg != events[i].Msg {
				t.Errorf("event %d: Msg = %q, want %q", i, e.Msg, events[i].Msg)
			}
		}
	})

	t.Run("emit with metadata", func(t *testing.T) {
		emitter := &mockEmitter{}
		emitter.Emit(Event{RunID: "run-001", Cycle: 1, Msg: "trace", Meta: map[string]any{"trace": "AAaaZZ"}})

		if emitter.events[0].Meta["trace"] != "AAaaZZ" {
			t.Errorf("trace = %v", emitter.events[0].Meta["trace"])
		}
	})

	t.Run("emit zero value event", func(t *testing.T) {
		emitter := &mockEmitter{}
		emitter.Emit(Event{})
		if len(emitter.events) != 1 {
			t.Fatalf("expected 1 event, got %d", len(emitter.events))
		}
	})
}

func TestEmitter_EmitBatch(t *testing.T) {
	emitter := &mockEmitter{}
	events := []Event{
		{RunID: "run-001", Cycle: 1, Label: "A", Msg: "task_start"},
		{RunID: "run-001", Cycle: 1, Label: "A", Msg: "task_end"},
	}
	if err := emitter.EmitBatch(context.Background(), events); err != nil {
		t.Fatalf("EmitBatch: %v", err)
	}
	if len(emitter.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(emitter.events))
	}
}
