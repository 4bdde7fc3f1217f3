package tx

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

type ctxKey int

const (
	txKey ctxKey = iota
	hooksKey
)

// WithTx stores a SQL transaction in context for downstream store usage.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, tx)
}

// From extracts a SQL transaction from context if present.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey).(*sql.Tx)
	return tx, ok
}

// commitHooks collects callbacks registered during one outermost RunInTx.
type commitHooks struct {
	mu  sync.Mutex
	fns []func(context.Context)
}

// withHooks returns ctx carrying a hook list, plus a run func that is non-nil
// only when this call owns the list.
func withHooks(ctx context.Context) (context.Context, func(context.Context)) {
	if _, ok := ctx.Value(hooksKey).(*commitHooks); ok {
		return ctx, nil
	}
	h := &commitHooks{}
	return context.WithValue(ctx, hooksKey, h), func(ctx context.Context) {
		h.mu.Lock()
		fns := h.fns
		h.fns = nil
		h.mu.Unlock()
		for _, fn := range fns {
			fn(ctx)
		}
	}
}

// AfterCommit defers fn until the transaction in ctx commits. Hooks are
// dropped on rollback. Without a surrounding RunInTx fn runs at once.
func AfterCommit(ctx context.Context, fn func(ctx context.Context)) {
	h, ok := ctx.Value(hooksKey).(*commitHooks)
	if !ok {
		fn(ctx)
		return
	}
	h.mu.Lock()
	h.fns = append(h.fns, fn)
	h.mu.Unlock()
}

// Runner provides a transactional boundary for multi-store mutations.
// Stores participate by resolving their executor through From.
type Runner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SQLRunner runs fn inside a database transaction. Nested calls reuse the
// outer transaction.
type SQLRunner struct {
	db *sql.DB
}

func NewSQLRunner(db *sql.DB) *SQLRunner {
	return &SQLRunner{db: db}
}

func (r *SQLRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := From(ctx); ok {
		return fn(ctx)
	}
	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = sqlTx.Rollback()
		}
	}()
	hctx, runHooks := withHooks(ctx)
	if err = fn(WithTx(hctx, sqlTx)); err != nil {
		return err
	}
	if err = sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	if runHooks != nil {
		runHooks(ctx)
	}
	return nil
}

// LockRunner serializes fn under a mutex; used with in-memory stores.
type LockRunner struct {
	mu sync.Mutex
}

func NewLockRunner() *LockRunner {
	return &LockRunner{}
}

func (r *LockRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	hctx, runHooks := withHooks(ctx)
	if err := r.run(hctx, fn); err != nil {
		return err
	}
	// Hooks run after the unlock so they may enter the runner again.
	if runHooks != nil {
		runHooks(ctx)
	}
	return nil
}

func (r *LockRunner) run(ctx context.Context, fn func(ctx context.Context) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(ctx)
}
