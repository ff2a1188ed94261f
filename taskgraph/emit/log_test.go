package emit

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLogEmitter_StructuredOutput(t *testing.T) {
	t.Run("emits event with all fields", func(t *testing.T) {
		var buf bytes.Buffer
		emitter := NewLogEmitter(&buf, false)

		emitter.Emit(Event{
			RunID:    "test-run-001",
			Cycle:    1,
			WorkerID: 2,
			Label:    "A",
			Msg:      "task_start",
			Meta:     map[string]any{"key": "value"},
		})

		output := buf.String()
		if output == "" {
			t.Fatal("expected output, got empty string")
		}
		for _, want := range []string{"test-run-001", "task_start", "label=A"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q, got: %s", want, output)
			}
		}
	})

	t.Run("emits multiple events", func(t *testing.T) {
		var buf bytes.Buffer
		emitter := NewLogEmitter(&buf, false)

		emitter.Emit(Event{RunID: "run-001", Cycle: 1, Label: "A", Msg: "task_start"})
		emitter.Emit(Event{RunID: "run-001", Cycle: 1, Label: "A", Msg: "task_end"})

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 2 {
			t.Errorf("expected 2 lines of output, got %d", len(lines))
		}
	})
}

func TestLogEmitter_JSONFormatting(t *testing.T) {
	t.Run("emits valid JSON when JSON mode enabled", func(t *testing.T) {
		var buf bytes.Buffer
		emitter := NewLogEmitter(&buf, true)

		emitter.Emit(Event{
			RunID: "json-run-001",
			Cycle: 2,
			Label: "B",
			Msg:   "task_end",
			Meta:  map[string]any{"counter": 42},
		})

		var parsed map[string]any
		if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
			t.Fatalf("expected valid JSON, got error: %v\nOutput: %s", err, buf.String())
		}

		if parsed["runID"] != "json-run-001" {
			t.Errorf("runID = %v", parsed["runID"])
		}
		if parsed["cycle"] != float64(2) {
			t.Errorf("cycle = %v", parsed["cycle"])
		}
		if parsed["label"] != "B" {
			t.Errorf("label = %v", parsed["label"])
		}
		if parsed["msg"] != "task_end" {
			t.Errorf("msg = %v", parsed["msg"])
		}
		meta, ok := parsed["meta"].(map[string]any)
		if !ok {
			t.Fatal("expected meta to be a map")
		}
		if meta["counter"] != float64(42) {
			t.Errorf("counter = %v", meta["counter"])
		}
	})

	t.Run("emits multiple JSON events on separate lines", func(t *testing.T) {
		var buf bytes.Buffer
		emitter := NewLogEmitter(&buf, true)

		emitter.Emit(Event{RunID: "run-001", Label: "A", Msg: "task_start"})
		emitter.Emit(Event{RunID: "run-001", Label: "A", Msg: "task_end"})

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 2 {
			t.Fatalf("expected 2 lines of JSON, got %d", len(lines))
		}
		for i, line := range lines {
			var parsed map[string]any
			if err := json.Unmarshal([]byte(line), &parsed); err != nil {
				t.Errorf("line %d: expected valid JSON, got error: %v\nLine: %s", i, err, line)
			}
		}
	})
}

func TestLogEmitter_EmitBatch(t *testing.T) {
	var buf bytes.Buffer
	emitter := NewLogEmitter(&buf, false)

	events := []Event{
		{RunID: "run-001", Label: "A", Msg: "task_start"},
		{RunID: "run-001", Label: "A", Msg: "task_end"},
	}
	if err := emitter.EmitBatch(nil, events); err != nil {
		t.Fatalf("EmitBatch: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Errorf("expected 2 lines, got %d", len(lines))
	}
}

func TestLogEmitter_InterfaceContract(t *testing.T) {
	var buf bytes.Buffer
	var _ Emitter = NewLogEmitter(&buf, false)
}
