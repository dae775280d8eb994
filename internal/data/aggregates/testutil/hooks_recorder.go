package testutil

import (
	"sync"
	"time"

	"github.com/yungbote/coursework-backend/internal/data/aggregates"
)

// HooksRecorder captures aggregate hook signals in tests.
type HooksRecorder struct {
	mu sync.Mutex

	Operations []OperationEvent
	Conflicts  []string
}

type OperationEvent struct {
	Name     string
	Status   string
	Duration time.Duration
}

var _ aggregates.Hooks = (*HooksRecorder)(nil)

func (h *HooksRecorder) ObserveOperation(name, status string, dur time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Operations = append(h.Operations, OperationEvent{
		Name:     name,
		Status:   status,
		Duration: dur,
	})
}

func (h *HooksRecorder) IncConflict(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Conflicts = append(h.Conflicts, name)
}

// LastStatus returns the status of the most recent operation, or "".
func (h *HooksRecorder) LastStatus() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.Operations) == 0 {
		return ""
	}
	return h.Operations[len(h.Operations)-1].Status
}
