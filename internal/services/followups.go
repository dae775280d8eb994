package services

import (
	"context"
	"fmt"

	"github.com/yungbote/coursework-backend/internal/observability"
	"github.com/yungbote/coursework-backend/internal/platform/logger"
)

// FollowUpResult reports one best-effort step run after a primary write. The
// cause of a failure stays server side; callers only see that the step failed.
type FollowUpResult struct {
	Step    string `json:"step"`
	OK      bool   `json:"ok"`
	Skipped bool   `json:"skipped,omitempty"`
	Failed  bool   `json:"failed,omitempty"`

	err error
}

func (r FollowUpResult) Err() error { return r.err }

type followUpStep struct {
	name  string
	after []string
	run   func(ctx context.Context) error
}

// FollowUps is an ordered list of named steps. A failing step is logged and
// recorded but never stops the pipeline; only steps that declared it as a
// prerequisite are skipped.
type FollowUps struct {
	log     *logger.Logger
	metrics *observability.Metrics
	steps   []followUpStep
}

func NewFollowUps(log *logger.Logger, metrics *observability.Metrics) *FollowUps {
	if log == nil {
		log = logger.NewNop()
	}
	return &FollowUps{log: log, metrics: metrics}
}

// Add appends a step that runs only if every step named in after succeeded.
func (f *FollowUps) Add(name string, run func(ctx context.Context) error, after ...string) *FollowUps {
	f.steps = append(f.steps, followUpStep{name: name, after: after, run: run})
	return f
}

func (f *FollowUps) Run(ctx context.Context) []FollowUpResult {
	results := make([]FollowUpResult, 0, len(f.steps))
	ok := make(map[string]bool, len(f.steps))
	for _, step := range f.steps {
		res := FollowUpResult{Step: step.name}
		blocked := ""
		for _, dep := range step.after {
			if !ok[dep] {
				blocked = dep
				break
			}
		}
		if blocked != "" {
			res.Skipped = true
			f.log.Debug("follow-up skipped", "step", step.name, "blocked_by", blocked)
			results = append(results, res)
			continue
		}

		err := runStep(ctx, step.run)
		if err != nil {
			res.err = err
			res.Failed = true
			f.metrics.IncFollowUpFailure(step.name)
			f.log.Warn("follow-up failed", "step", step.name, "error", err)
		} else {
			res.OK = true
			ok[step.name] = true
		}
		results = append(results, res)
	}
	return results
}

func runStep(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if fn == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx)
}
