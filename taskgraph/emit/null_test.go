package emit

import (
	"context"
	"testing"
)

func TestNullEmitter_NoOp(t *testing.T) {
	t.Run("emits events without error", func(t *testing.T) {
		emitter := NewNullEmitter()
		events := []Event{
			{RunID: "run-001", Cycle: 1, Label: "A", Msg: "task_start"},
			{RunID: "run-001", Cycle: 1, Label: "A", Msg: "task_end"},
			{RunID: "run-001", Cycle: 1, Msg: "cycle_end", Meta: map[string]any{"trace": "AAaaZZ"}},
		}
		for _, event := range events {
			emitter.Emit(event)
		}
	})

	t.Run("can emit with nil meta", func(t *testing.T) {
		emitter := NewNullEmitter()
		emitter.Emit(Event{RunID: "run-001", Msg: "worker_start"})
	})

	t.Run("batch and flush are no-ops", func(t *testing.T) {
		emitter := NewNullEmitter()
		if err := emitter.EmitBatch(context.Background(), []Event{{Msg: "x"}}); err != nil {
			t.Fatalf("EmitBatch: %v", err)
		}
		if err := emitter.Flush(context.Background()); err != nil {
			t.Fatalf("Flush: %v", err)
		}
	})
}

func TestNullEmitter_InterfaceContract(t *testing.T) {
	var _ Emitter = NewNullEmitter()
}
