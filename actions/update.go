package actions

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
)

// UpdateOptions are the parameters of one Update invocation.
type UpdateOptions struct {
	// Select picks the record to update.
	Select Selection

	// Data maps column names to their new values. An empty payload returns
	// the matched record without issuing a write.
	Data map[string]any
}

// UpdateAction updates the first record matching the selection predicate and
// returns it re-read from the store. A selection that matches nothing is a
// NotFoundError.
type UpdateAction[T any] struct {
	Hooks[*T]

	db   bun.IDB
	cfg  Config
	opts UpdateOptions
}

// NewUpdate builds an UpdateAction over db with the given options.
func NewUpdate[T any](db bun.IDB, cfg Config, opts UpdateOptions) *UpdateAction[T] {
	return &UpdateAction[T]{db: db, cfg: cfg, opts: opts}
}

// Update constructs and runs an UpdateAction in one call.
func Update[T any](ctx context.Context, db bun.IDB, cfg Config, opts UpdateOptions) (*T, error) {
	return NewUpdate[T](db, cfg, opts).Execute(ctx)
}

// Execute runs the action through the standard lifecycle.
func (a *UpdateAction[T]) Execute(ctx context.Context) (*T, error) {
	return Run[*T](ctx, a)
}

// CacheKeyFields implements KeySource.
func (a *UpdateAction[T]) CacheKeyFields() []any {
	return []any{a.opts}
}

// Handle implements Action. The record is selected first so the update can
// target it by primary key; this keeps the operation correct even when the
// payload rewrites the selection column itself.
func (a *UpdateAction[T]) Handle(ctx context.Context) (*T, error) {
	if a.db == nil {
		return nil, errMissingDB("update")
	}

	record := new(T)
	q, err := a.opts.Select.whereSelect(a.db.NewSelect().Model(record), "update")
	if err != nil {
		return nil, err
	}
	q = applyOrder(q, "", "", a.cfg)

	if err := q.Limit(1).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{
				Entity: entityName[T](),
				Key:    a.opts.Select.key(),
				Value:  a.opts.Select.Value,
			}
		}
		return nil, err
	}

	if len(a.opts.Data) == 0 {
		return record, nil
	}

	uq := setSorted(a.db.NewUpdate().Model(record).WherePK(), a.opts.Data)
	if _, err := uq.Exec(ctx); err != nil {
		return nil, err
	}

	if err := a.db.NewSelect().Model(record).WherePK().Scan(ctx); err != nil {
		return nil, err
	}
	return record, nil
}
