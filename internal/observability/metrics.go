package observability

import (
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/coursework-backend/internal/platform/envutil"
	"github.com/yungbote/coursework-backend/internal/platform/logger"
)

type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge

	aggregateOps       *CounterVec
	aggregateLatency   *HistogramVec
	aggregateConflicts *CounterVec

	attemptsGraded     *CounterVec
	attemptScore       *HistogramVec
	followUpFailures   *CounterVec
	achievementsGrants *CounterVec
	streakTransitions  *CounterVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled(log *logger.Logger) bool {
	return envutil.Bool("METRICS_ENABLED", false, log)
}

func Current() *Metrics {
	return instance
}

// Init builds the process-wide metrics set. It returns nil when METRICS_ENABLED
// is off; every method on a nil *Metrics is a no-op.
func Init(log *logger.Logger) *Metrics {
	if !Enabled(log) {
		return nil
	}
	initOnce.Do(func() {
		instance = NewMetrics()
		if log != nil {
			log.Info("Observability metrics enabled")
		}
	})
	return instance
}

// NewMetrics builds an unshared metrics set.
func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("cw_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"cw_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		),
		apiInflight: NewGauge("cw_api_inflight_requests", "In-flight API requests."),

		aggregateOps: NewCounterVec("cw_aggregate_operations_total", "Aggregate write operations by name/status.", []string{"operation", "status"}),
		aggregateLatency: NewHistogramVec(
			"cw_aggregate_operation_duration_seconds",
			"Aggregate write latency in seconds.",
			[]string{"operation"},
			nil,
		),
		aggregateConflicts: NewCounterVec("cw_aggregate_conflicts_total", "Aggregate writes rejected by a uniqueness conflict.", []string{"operation"}),

		attemptsGraded: NewCounterVec("cw_quiz_attempts_graded_total", "Graded quiz attempts by outcome.", []string{"outcome"}),
		attemptScore: NewHistogramVec(
			"cw_quiz_attempt_score",
			"Distribution of graded attempt scores (0-100).",
			nil,
			[]float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		),
		followUpFailures:   NewCounterVec("cw_followup_failures_total", "Best-effort follow-up steps that failed.", []string{"step"}),
		achievementsGrants: NewCounterVec("cw_achievements_granted_total", "Achievements granted by category.", []string{"category"}),
		streakTransitions:  NewCounterVec("cw_streak_transitions_total", "Streak updates by transition kind.", []string{"kind"}),
	}
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	writers := []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.aggregateOps,
		m.aggregateLatency,
		m.aggregateConflicts,
		m.attemptsGraded,
		m.attemptScore,
		m.followUpFailures,
		m.achievementsGrants,
		m.streakTransitions,
	}
	for _, wr := range writers {
		if err := wr.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveAggregateOperation(name, status string, dur time.Duration) {
	if m == nil {
		return
	}
	name = strings.TrimSpace(name)
	m.aggregateOps.Inc(name, strings.TrimSpace(status))
	m.aggregateLatency.Observe(dur.Seconds(), name)
}

func (m *Metrics) IncAggregateConflict(name string) {
	if m == nil {
		return
	}
	m.aggregateConflicts.Inc(strings.TrimSpace(name))
}

func (m *Metrics) ObserveAttemptGraded(passed bool, score float64) {
	if m == nil {
		return
	}
	outcome := "failed"
	if passed {
		outcome = "passed"
	}
	m.attemptsGraded.Inc(outcome)
	m.attemptScore.Observe(score)
}

func (m *Metrics) IncFollowUpFailure(step string) {
	if m == nil {
		return
	}
	m.followUpFailures.Inc(strings.TrimSpace(step))
}

func (m *Metrics) IncAchievementGranted(category string) {
	if m == nil {
		return
	}
	m.achievementsGrants.Inc(strings.TrimSpace(category))
}

func (m *Metrics) IncStreakTransition(kind string) {
	if m == nil {
		return
	}
	m.streakTransitions.Inc(strings.TrimSpace(kind))
}
