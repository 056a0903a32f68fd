package actions

import (
	"context"

	"github.com/uptrace/bun"
)

// BulkDeleteOptions are the parameters of one BulkDelete invocation.
type BulkDeleteOptions struct {
	// IDs lists the identifiers to remove. An empty list is a no-op, not an
	// error: the action returns 0 without touching the store.
	IDs []any

	// Column is the identifier column. Defaults to "id".
	Column string

	// Force bypasses bun soft deletes and removes rows permanently.
	Force bool
}

// BulkDeleteAction removes the records whose identifier is in the list, as a
// single statement against the store.
type BulkDeleteAction[T any] struct {
	Hooks[int]

	db   bun.IDB
	cfg  Config
	opts BulkDeleteOptions
}

// NewBulkDelete builds a BulkDeleteAction over db with the given options.
func NewBulkDelete[T any](db bun.IDB, cfg Config, opts BulkDeleteOptions) *BulkDeleteAction[T] {
	return &BulkDeleteAction[T]{db: db, cfg: cfg, opts: opts}
}

// BulkDelete constructs and runs a BulkDeleteAction in one call.
func BulkDelete[T any](ctx context.Context, db bun.IDB, cfg Config, opts BulkDeleteOptions) (int, error) {
	return NewBulkDelete[T](db, cfg, opts).Execute(ctx)
}

// Execute runs the action through the standard lifecycle.
func (a *BulkDeleteAction[T]) Execute(ctx context.Context) (int, error) {
	return Run[int](ctx, a)
}

// CacheKeyFields implements KeySource.
func (a *BulkDeleteAction[T]) CacheKeyFields() []any {
	return []any{a.opts}
}

// Handle implements Action.
func (a *BulkDeleteAction[T]) Handle(ctx context.Context) (int, error) {
	if a.db == nil {
		return 0, errMissingDB("bulk delete")
	}
	if len(a.opts.IDs) == 0 {
		return 0, nil
	}

	q := a.db.NewDelete().Model((*T)(nil)).
		Where("? IN (?)", bun.Ident(idColumn(a.opts.Column)), bun.In(a.opts.IDs))
	if a.opts.Force {
		q = q.ForceDelete()
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return 0, err
	}
	return affected(res), nil
}

// BulkUpdateOptions are the parameters of one BulkUpdate invocation.
type BulkUpdateOptions struct {
	// IDs lists the identifiers to update. Empty IDs or an empty Data
	// payload make the action a no-op returning 0.
	IDs []any

	// Column is the identifier column. Defaults to "id".
	Column string

	// Data maps column names to their new values.
	Data map[string]any

	// AllowedColumns, when non-nil, drops payload entries whose column is
	// not listed before the update is issued.
	AllowedColumns []string

	// PrepareData post-processes the payload after the AllowedColumns
	// filter, so fields it injects (e.g. timestamps) are not stripped.
	PrepareData func(data map[string]any) map[string]any
}

// BulkUpdateAction applies one payload to every record whose identifier is
// in the list, as a single statement against the store.
type BulkUpdateAction[T any] struct {
	Hooks[int]

	db   bun.IDB
	cfg  Config
	opts BulkUpdateOptions
}

// NewBulkUpdate builds a BulkUpdateAction over db with the given options.
func NewBulkUpdate[T any](db bun.IDB, cfg Config, opts BulkUpdateOptions) *BulkUpdateAction[T] {
	return &BulkUpdateAction[T]{db: db, cfg: cfg, opts: opts}
}

// BulkUpdate constructs and runs a BulkUpdateAction in one call.
func BulkUpdate[T any](ctx context.Context, db bun.IDB, cfg Config, opts BulkUpdateOptions) (int, error) {
	return NewBulkUpdate[T](db, cfg, opts).Execute(ctx)
}

// Execute runs the action through the standard lifecycle.
func (a *BulkUpdateAction[T]) Execute(ctx context.Context) (int, error) {
	return Run[int](ctx, a)
}

// CacheKeyFields implements KeySource.
func (a *BulkUpdateAction[T]) CacheKeyFields() []any {
	return []any{a.opts}
}

// Handle implements Action.
func (a *BulkUpdateAction[T]) Handle(ctx context.Context) (int, error) {
	if a.db == nil {
		return 0, errMissingDB("bulk update")
	}
	if len(a.opts.IDs) == 0 || len(a.opts.Data) == 0 {
		return 0, nil
	}

	data := a.prepareData()
	if len(data) == 0 {
		return 0, nil
	}

	q := setSorted(a.db.NewUpdate().Model((*T)(nil)), data).
		Where("? IN (?)", bun.Ident(idColumn(a.opts.Column)), bun.In(a.opts.IDs))

	res, err := q.Exec(ctx)
	if err != nil {
		return 0, err
	}
	return affected(res), nil
}

// prepareData copies the payload, applies the allow-list, then hands the
// result to PrepareData. The copy keeps the caller's map untouched.
func (a *BulkUpdateAction[T]) prepareData() map[string]any {
	data := make(map[string]any, len(a.opts.Data))
	if a.opts.AllowedColumns != nil {
		allowed := make(map[string]struct{}, len(a.opts.AllowedColumns))
		for _, column := range a.opts.AllowedColumns {
			allowed[column] = struct{}{}
		}
		for key, value := range a.opts.Data {
			if _, ok := allowed[key]; ok {
				data[key] = value
			}
		}
	} else {
		for key, value := range a.opts.Data {
			data[key] = value
		}
	}

	if a.opts.PrepareData != nil {
		data = a.opts.PrepareData(data)
	}
	return data
}

func idColumn(column string) string {
	if column == "" {
		return "id"
	}
	return column
}
