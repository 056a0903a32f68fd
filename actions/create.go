package actions

import (
	"context"

	"github.com/uptrace/bun"
)

// CreateAction inserts one record of T and returns it with its primary key
// populated. The payload is the typed record itself; store validation errors
// propagate unchanged.
type CreateAction[T any] struct {
	Hooks[*T]

	db     bun.IDB
	cfg    Config
	record T
}

// NewCreate builds a CreateAction for record.
func NewCreate[T any](db bun.IDB, cfg Config, record T) *CreateAction[T] {
	return &CreateAction[T]{db: db, cfg: cfg, record: record}
}

// Create constructs and runs a CreateAction in one call.
func Create[T any](ctx context.Context, db bun.IDB, cfg Config, record T) (*T, error) {
	return NewCreate[T](db, cfg, record).Execute(ctx)
}

// Execute runs the action through the standard lifecycle.
func (a *CreateAction[T]) Execute(ctx context.Context) (*T, error) {
	return Run[*T](ctx, a)
}

// CacheKeyFields implements KeySource.
func (a *CreateAction[T]) CacheKeyFields() []any {
	return []any{a.record}
}

// Handle implements Action.
func (a *CreateAction[T]) Handle(ctx context.Context) (*T, error) {
	if a.db == nil {
		return nil, errMissingDB("create")
	}

	record := a.record
	if _, err := a.db.NewInsert().Model(&record).Exec(ctx); err != nil {
		return nil, err
	}
	return &record, nil
}
