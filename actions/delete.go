package actions

import (
	"context"

	"github.com/uptrace/bun"
)

// DeleteOptions are the parameters of one Delete invocation.
type DeleteOptions struct {
	// Select picks the record(s) to remove.
	Select Selection

	// Force bypasses bun soft deletes and removes rows permanently.
	Force bool
}

// DeleteAction removes the records matching the selection predicate and
// reports how many were affected.
type DeleteAction[T any] struct {
	Hooks[int]

	db   bun.IDB
	cfg  Config
	opts DeleteOptions
}

// NewDelete builds a DeleteAction over db with the given options.
func NewDelete[T any](db bun.IDB, cfg Config, opts DeleteOptions) *DeleteAction[T] {
	return &DeleteAction[T]{db: db, cfg: cfg, opts: opts}
}

// Delete constructs and runs a DeleteAction in one call.
func Delete[T any](ctx context.Context, db bun.IDB, cfg Config, opts DeleteOptions) (int, error) {
	return NewDelete[T](db, cfg, opts).Execute(ctx)
}

// Execute runs the action through the standard lifecycle.
func (a *DeleteAction[T]) Execute(ctx context.Context) (int, error) {
	return Run[int](ctx, a)
}

// CacheKeyFields implements KeySource.
func (a *DeleteAction[T]) CacheKeyFields() []any {
	return []any{a.opts}
}

// Handle implements Action.
func (a *DeleteAction[T]) Handle(ctx context.Context) (int, error) {
	if a.db == nil {
		return 0, errMissingDB("delete")
	}

	q, err := a.opts.Select.whereDelete(a.db.NewDelete().Model((*T)(nil)), "delete")
	if err != nil {
		return 0, err
	}
	if a.opts.Force {
		q = q.ForceDelete()
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return 0, err
	}
	return affected(res), nil
}

// affected reads the affected-row count, tolerating drivers that do not
// report one.
func affected(res interface{ RowsAffected() (int64, error) }) int {
	n, err := res.RowsAffected()
	if err != nil {
		return 0
	}
	return int(n)
}
