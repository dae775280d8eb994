package testutil

import (
	"testing"
	"time"
)

func TestHooksRecorder_CapturesSignals(t *testing.T) {
	h := &HooksRecorder{}
	if h.LastStatus() != "" {
		t.Fatalf("empty recorder: want no status")
	}
	h.ObserveOperation("agg.op", "success", 10*time.Millisecond)
	h.IncConflict("agg.op")

	if len(h.Operations) != 1 {
		t.Fatalf("expected 1 op event, got %d", len(h.Operations))
	}
	if h.Operations[0].Name != "agg.op" || h.LastStatus() != "success" {
		t.Fatalf("unexpected op event: %+v", h.Operations[0])
	}
	if len(h.Conflicts) != 1 || h.Conflicts[0] != "agg.op" {
		t.Fatalf("unexpected conflicts: %+v", h.Conflicts)
	}
}
