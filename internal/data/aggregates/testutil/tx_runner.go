package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/yungbote/coursework-backend/internal/data/aggregates"
	"github.com/yungbote/coursework-backend/internal/platform/dbctx"
	"gorm.io/gorm"
)

// InjectedTxRunner is a test helper for aggregate integration tests.
// It supports rollback/failure injection. When DB is set the body runs inside a
// real transaction that every injected failure rolls back; otherwise the body
// gets a context without a transaction handle.
type InjectedTxRunner struct {
	mu sync.Mutex

	DB *gorm.DB

	FailBegin      error
	FailBeforeBody error
	FailCommit     error

	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

var _ aggregates.TxRunner = (*InjectedTxRunner)(nil)

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.BeginCalls++
	failBegin := r.FailBegin
	failBeforeBody := r.FailBeforeBody
	failCommit := r.FailCommit
	r.mu.Unlock()

	if failBegin != nil {
		return failBegin
	}
	if failBeforeBody != nil {
		r.countRollback()
		return failBeforeBody
	}
	if fn == nil {
		r.countCommit()
		return nil
	}

	run := func(tx *gorm.DB) error {
		if err := fn(dbctx.Context{Ctx: ctx, Tx: tx}); err != nil {
			return err
		}
		return failCommit
	}

	var err error
	if r.DB != nil {
		err = r.DB.WithContext(ctx).Transaction(run)
	} else {
		err = run(nil)
	}
	if err != nil {
		r.countRollback()
		return err
	}
	r.countCommit()
	return nil
}

func (r *InjectedTxRunner) countCommit() {
	r.mu.Lock()
	r.CommitCalls++
	r.mu.Unlock()
}

func (r *InjectedTxRunner) countRollback() {
	r.mu.Lock()
	r.RollbackCalls++
	r.mu.Unlock()
}

// ErrInjected is a convenience sentinel for failure injection.
var ErrInjected = errors.New("injected failure")
