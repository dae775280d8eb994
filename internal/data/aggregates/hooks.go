package aggregates

import (
	"strings"
	"time"

	"github.com/yungbote/coursework-backend/internal/observability"
	"github.com/yungbote/coursework-backend/internal/platform/logger"
)

// Hooks captures aggregate-level observability events.
type Hooks interface {
	ObserveOperation(name, status string, dur time.Duration)
	IncConflict(name string)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}
func (noopHooks) IncConflict(string)                             {}

type observabilityHooks struct {
	metrics *observability.Metrics
	log     *logger.Logger
}

// NewObservabilityHooks creates aggregate hooks backed by metrics and a logger.
// Either may be nil.
func NewObservabilityHooks(metrics *observability.Metrics, log *logger.Logger) Hooks {
	if metrics == nil && log == nil {
		return noopHooks{}
	}
	return &observabilityHooks{metrics: metrics, log: log}
}

func (h *observabilityHooks) ObserveOperation(name, status string, dur time.Duration) {
	if h == nil {
		return
	}
	name = strings.TrimSpace(name)
	status = strings.TrimSpace(status)
	h.metrics.ObserveAggregateOperation(name, status, dur)
	if h.log != nil && status != "success" {
		h.log.Debug("aggregate write failed", "operation", name, "status", status, "duration_ms", dur.Milliseconds())
	}
}

func (h *observabilityHooks) IncConflict(name string) {
	if h == nil {
		return
	}
	h.metrics.IncAggregateConflict(strings.TrimSpace(name))
}
