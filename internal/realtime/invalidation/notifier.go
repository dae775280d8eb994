// Package invalidation tells downstream caches and open views which resources
// changed. Handlers call it after a successful mutation; the learning core
// never does.
package invalidation

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Notifier interface {
	Notify(ctx context.Context, paths ...string) error
	Close() error
}

// Message is the payload published for one mutation.
type Message struct {
	Paths []string  `json:"paths"`
	At    time.Time `json:"at"`
}

// NormalizePaths trims, roots, de-duplicates and sorts paths.
func NormalizePaths(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		p = strings.TrimRight(p, "/")
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func CoursePaths(courseID uuid.UUID) []string {
	id := courseID.String()
	return []string{"/courses/" + id, "/courses/" + id + "/progress", "/me/summary"}
}

func ModulePaths(moduleID uuid.UUID) []string {
	return []string{"/modules/" + moduleID.String() + "/progress"}
}

func QuizPaths(quizID uuid.UUID) []string {
	id := quizID.String()
	return []string{"/quizzes/" + id, "/quizzes/" + id + "/attempts"}
}

func LearnerPaths() []string {
	return []string{"/me/streak", "/me/achievements", "/me/summary"}
}

type noopNotifier struct{}

// NewNoop returns a notifier that drops everything.
func NewNoop() Notifier { return noopNotifier{} }

func (noopNotifier) Notify(context.Context, ...string) error { return nil }
func (noopNotifier) Close() error                            { return nil }

// Recorder keeps every notification in memory.
type Recorder struct {
	mu       sync.Mutex
	Messages []Message
}

func (r *Recorder) Notify(_ context.Context, paths ...string) error {
	norm := NormalizePaths(paths)
	if len(norm) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, Message{Paths: norm, At: time.Now().UTC()})
	return nil
}

func (r *Recorder) Close() error { return nil }

// Paths flattens every recorded path in arrival order.
func (r *Recorder) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, m := range r.Messages {
		out = append(out, m.Paths...)
	}
	return out
}
