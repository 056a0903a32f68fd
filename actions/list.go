package actions

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-actions/filter"
)

// Page is the result of a List invocation: one ordered page of records plus
// pagination metadata. When ListOptions.All is set the page holds the full
// result set and LastPage is 1.
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PerPage  int `json:"per_page"`
	LastPage int `json:"last_page"`
}

// ListOptions are the parameters of one List invocation. The zero value
// lists the first page at the configured default size, ordered by the
// configured default column descending.
type ListOptions struct {
	// Page is the 1-based page number. Defaults to 1.
	Page int
	// PerPage overrides Config.DefaultPerPage.
	PerPage int
	// All disables pagination and returns the full result set.
	All bool

	// OrderBy / OrderDir override the configured default ordering. Ignored
	// when a Filter compositor is attached; the compositor owns ordering.
	OrderBy  string
	OrderDir string

	// Columns restricts the selected columns; ExcludeColumns drops columns
	// from the default selection. Relations names bun relations to eager
	// load.
	Columns        []string
	ExcludeColumns []string
	Relations      []string

	// Where adds equality (or IN, for list values) predicates per entry.
	Where map[string]any

	// Query is the custom-builder extension point. It runs after the
	// baseline predicates and before ordering, so caller-supplied
	// predicates compose with, never precede, the standard shape.
	Query func(*bun.SelectQuery) *bun.SelectQuery

	// Filter, when set, composes Filters onto the query in the custom-builder
	// slot and takes over ordering.
	Filter  *filter.Compositor
	Filters filter.Bag
}

// ListAction lists records of T as an ordered, optionally paginated page.
type ListAction[T any] struct {
	Hooks[*Page[T]]

	db   bun.IDB
	cfg  Config
	opts ListOptions
}

// NewList builds a ListAction over db with the given options.
func NewList[T any](db bun.IDB, cfg Config, opts ListOptions) *ListAction[T] {
	return &ListAction[T]{db: db, cfg: cfg, opts: opts}
}

// List constructs and runs a ListAction in one call.
func List[T any](ctx context.Context, db bun.IDB, cfg Config, opts ListOptions) (*Page[T], error) {
	return NewList[T](db, cfg, opts).Execute(ctx)
}

// Execute runs the action through the standard lifecycle.
func (a *ListAction[T]) Execute(ctx context.Context) (*Page[T], error) {
	return Run[*Page[T]](ctx, a)
}

// CacheKeyFields implements KeySource.
func (a *ListAction[T]) CacheKeyFields() []any {
	return []any{a.opts}
}

// Handle implements Action.
func (a *ListAction[T]) Handle(ctx context.Context) (*Page[T], error) {
	if a.db == nil {
		return nil, errMissingDB("list")
	}

	var records []T
	q := a.db.NewSelect().Model(&records)

	if len(a.opts.Columns) > 0 {
		q = q.Column(a.opts.Columns...)
	}
	q = applyWhereMap(q, a.opts.Where)
	for _, relation := range a.opts.Relations {
		q = q.Relation(relation)
	}
	if len(a.opts.ExcludeColumns) > 0 {
		q = q.ExcludeColumn(a.opts.ExcludeColumns...)
	}
	if a.opts.Query != nil {
		q = q.Apply(a.opts.Query)
	}
	if a.opts.Filter != nil {
		q = a.opts.Filter.Apply(q, a.opts.Filters)
	} else {
		q = applyOrder(q, a.opts.OrderBy, a.opts.OrderDir, a.cfg)
	}

	if a.opts.All {
		if err := q.Scan(ctx); err != nil {
			return nil, err
		}
		total := len(records)
		return &Page[T]{Items: records, Total: total, Page: 1, PerPage: total, LastPage: 1}, nil
	}

	perPage := a.opts.PerPage
	if perPage <= 0 {
		perPage = a.cfg.DefaultPerPage
	}
	page := a.opts.Page
	if page <= 0 {
		page = 1
	}

	total, err := q.Limit(perPage).Offset((page - 1) * perPage).ScanAndCount(ctx)
	if err != nil {
		return nil, err
	}

	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}
	return &Page[T]{Items: records, Total: total, Page: page, PerPage: perPage, LastPage: lastPage}, nil
}
