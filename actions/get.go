package actions

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
)

// GetOptions are the parameters of one Get invocation. The zero value with a
// Value set retrieves the record whose id equals Value.
type GetOptions struct {
	// Select picks the record: column (default "id"), operator (default "="),
	// value.
	Select Selection

	// Required makes a missing record a NotFoundError instead of (nil, nil).
	Required bool

	// OrderBy / OrderDir break ties when the selection matches several
	// records; the default keeps most-recent-first behavior.
	OrderBy  string
	OrderDir string

	Columns        []string
	ExcludeColumns []string
	Relations      []string

	// Query is the custom-builder extension point, applied after the
	// selection predicate and before ordering.
	Query func(*bun.SelectQuery) *bun.SelectQuery
}

// GetAction retrieves a single record of T, or reports its absence.
type GetAction[T any] struct {
	Hooks[*T]

	db   bun.IDB
	cfg  Config
	opts GetOptions
}

// NewGet builds a GetAction over db with the given options.
func NewGet[T any](db bun.IDB, cfg Config, opts GetOptions) *GetAction[T] {
	return &GetAction[T]{db: db, cfg: cfg, opts: opts}
}

// Get constructs and runs a GetAction in one call.
func Get[T any](ctx context.Context, db bun.IDB, cfg Config, opts GetOptions) (*T, error) {
	return NewGet[T](db, cfg, opts).Execute(ctx)
}

// Execute runs the action through the standard lifecycle.
func (a *GetAction[T]) Execute(ctx context.Context) (*T, error) {
	return Run[*T](ctx, a)
}

// CacheKeyFields implements KeySource.
func (a *GetAction[T]) CacheKeyFields() []any {
	return []any{a.opts}
}

// Handle implements Action. A missing record is not an error unless
// Required is set.
func (a *GetAction[T]) Handle(ctx context.Context) (*T, error) {
	if a.db == nil {
		return nil, errMissingDB("get")
	}

	record := new(T)
	q := a.db.NewSelect().Model(record)

	q, err := a.opts.Select.whereSelect(q, "get")
	if err != nil {
		return nil, err
	}

	if len(a.opts.Columns) > 0 {
		q = q.Column(a.opts.Columns...)
	}
	for _, relation := range a.opts.Relations {
		q = q.Relation(relation)
	}
	if len(a.opts.ExcludeColumns) > 0 {
		q = q.ExcludeColumn(a.opts.ExcludeColumns...)
	}
	if a.opts.Query != nil {
		q = q.Apply(a.opts.Query)
	}
	q = applyOrder(q, a.opts.OrderBy, a.opts.OrderDir, a.cfg)

	if err := q.Limit(1).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if a.opts.Required {
				return nil, &NotFoundError{
					Entity: entityName[T](),
					Key:    a.opts.Select.key(),
					Value:  a.opts.Select.Value,
				}
			}
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}
