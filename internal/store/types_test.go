package store

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/cwbudde/fiducialfit/internal/fit"
)

func TestRun_JSONSerialization(t *testing.T) {
	original := createTestRun()
	original.Timestamp = time.Date(2025, 10, 23, 10, 30, 0, 0, time.UTC)

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Failed to marshal run: %v", err)
	}

	var restored Run
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Failed to unmarshal run: %v", err)
	}

	if restored.ID != original.ID {
		t.Errorf("ID mismatch: expected %s, got %s", original.ID, restored.ID)
	}
	if restored.Result.Params != original.Result.Params {
		t.Errorf("Params mismatch: expected %v, got %v", original.Result.Params, restored.Result.Params)
	}
	if restored.Result.Converged != original.Result.Converged {
		t.Errorf("Converged mismatch")
	}
	if restored.Config.Strategy != original.Config.Strategy {
		t.Errorf("Strategy mismatch: expected %s, got %s", original.Config.Strategy, restored.Config.Strategy)
	}
	if !restored.Timestamp.Equal(original.Timestamp) {
		t.Errorf("Timestamp mismatch: expected %v, got %v", original.Timestamp, restored.Timestamp)
	}
	if restored.Input != original.Input {
		t.Errorf("Input mismatch: expected %+v, got %+v", original.Input, restored.Input)
	}
}

func TestRun_JSONFlattensParams(t *testing.T) {
	data, err := json.Marshal(createTestRun().Result)
	if err != nil {
		t.Fatalf("Failed to marshal result: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Failed to unmarshal result: %v", err)
	}
	for _, key := range []string{"centerX", "centerY", "radius", "converged", "finalObjective"} {
		if _, ok := m[key]; !ok {
			t.Errorf("Expected key %q in result JSON", key)
		}
	}
}

func TestNewRun(t *testing.T) {
	r := NewRun("", Input{Source: "a.png", Width: 10, Height: 10}, fit.DefaultConfig(), createTestRun().Result, 1500*time.Millisecond)

	if r.ID == "" {
		t.Fatal("Expected generated ID")
	}
	if r.DurationMs != 1500 {
		t.Errorf("Expected 1500ms, got %d", r.DurationMs)
	}
	if r.Timestamp.IsZero() {
		t.Error("Expected timestamp to be set")
	}
	if err := r.Validate(); err != nil {
		t.Errorf("New run should be valid: %v", err)
	}

	other := NewRun("", r.Input, r.Config, r.Result, 0)
	if other.ID == r.ID {
		t.Error("Expected unique IDs")
	}

	id := NewRunID()
	if fixed := NewRun(id, r.Input, r.Config, r.Result, 0); fixed.ID != id {
		t.Errorf("Expected ID %s, got %s", id, fixed.ID)
	}
}

func TestRun_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Run)
		field  string
	}{
		{"empty id", func(r *Run) { r.ID = "" }, "ID"},
		{"non-uuid id", func(r *Run) { r.ID = "run-1" }, "ID"},
		{"empty source", func(r *Run) { r.Input.Source = "" }, "Input.Source"},
		{"zero size", func(r *Run) { r.Input.Width = 0 }, "Input"},
		{"zero timestamp", func(r *Run) { r.Timestamp = time.Time{} }, "Timestamp"},
		{"negative duration", func(r *Run) { r.DurationMs = -1 }, "DurationMs"},
		{"invalid config", func(r *Run) { r.Config.MaxIterations = 0 }, "Config"},
		{"zero radius", func(r *Run) { r.Result.Radius = 0 }, "Result"},
		{"negative objective", func(r *Run) { r.Result.FinalObjective = -1 }, "Result.FinalObjective"},
		{"negative iterations", func(r *Run) { r.Result.Iterations = -3 }, "Result.Iterations"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := createTestRun()
			tt.modify(r)

			err := r.Validate()
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Expected field %q, got %q", tt.field, ve.Field)
			}
		})
	}

	if err := createTestRun().Validate(); err != nil {
		t.Errorf("Expected valid run, got %v", err)
	}
}

func TestRunInfo_FromRun(t *testing.T) {
	r := createTestRun()
	info := r.ToInfo()

	if info.ID != r.ID || info.Source != r.Input.Source {
		t.Errorf("Identity mismatch: %+v", info)
	}
	if info.Radius != r.Result.Radius || info.CenterX != r.Result.CenterX {
		t.Errorf("Circle mismatch: %+v", info)
	}
	if info.Strategy != r.Result.Strategy {
		t.Errorf("Strategy mismatch: expected %s, got %s", r.Result.Strategy, info.Strategy)
	}
}
