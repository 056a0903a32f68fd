package actions

import (
	"reflect"
	"sort"
	"strings"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-actions/filter"
)

// entityName returns the snake_cased model type name, used in error messages
// and cache key namespaces.
func entityName[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return toSnake(t.Name())
}

// Selection is the predicate that picks the record(s) a single-record
// operation targets: key, comparison operator, value. The zero value selects
// by id equality once a Value is supplied.
type Selection struct {
	// Key is the column compared against. Defaults to "id".
	Key string
	// Value is the right-hand side of the comparison.
	Value any
	// Operator is the comparison operator. Defaults to "=". Must be one of
	// the allow-listed operators; anything else is a ConfigurationError.
	Operator string
}

var allowedOperators = map[string]string{
	"=":     "=",
	"!=":    "!=",
	"<>":    "<>",
	"<":     "<",
	"<=":    "<=",
	">":     ">",
	">=":    ">=",
	"LIKE":  "LIKE",
	"ILIKE": "ILIKE",
}

// normalizeOperator validates op against the allow-list. Operators end up in
// the SQL text via bun.Safe, so anything outside the list is rejected.
func normalizeOperator(op, action string) (string, error) {
	if op == "" {
		return "=", nil
	}
	if normalized, ok := allowedOperators[strings.ToUpper(strings.TrimSpace(op))]; ok {
		return normalized, nil
	}
	return "", &ConfigurationError{Op: action, Message: "unsupported operator " + op}
}

func (s Selection) key() string {
	if s.Key == "" {
		return "id"
	}
	return s.Key
}

// whereSelect applies the selection predicate to a select query.
func (s Selection) whereSelect(q *bun.SelectQuery, action string) (*bun.SelectQuery, error) {
	op, err := normalizeOperator(s.Operator, action)
	if err != nil {
		return nil, err
	}
	return q.Where("? ? ?", bun.Ident(s.key()), bun.Safe(op), s.Value), nil
}

// whereDelete applies the selection predicate to a delete query.
func (s Selection) whereDelete(q *bun.DeleteQuery, action string) (*bun.DeleteQuery, error) {
	op, err := normalizeOperator(s.Operator, action)
	if err != nil {
		return nil, err
	}
	return q.Where("? ? ?", bun.Ident(s.key()), bun.Safe(op), s.Value), nil
}

// applyWhereMap adds one predicate per map entry, in sorted key order so the
// generated SQL is deterministic. Values follow the open filter channel
// semantics: absent values are skipped, list values become IN predicates.
func applyWhereMap(q *bun.SelectQuery, where map[string]any) *bun.SelectQuery {
	keys := make([]string, 0, len(where))
	for key := range where {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		q = filter.Equality(q, key, where[key])
	}
	return q
}

// applyOrder appends the baseline ordering, falling back to the configured
// default column and direction.
func applyOrder(q *bun.SelectQuery, column, direction string, cfg Config) *bun.SelectQuery {
	if column == "" {
		column = cfg.DefaultOrderColumn
	}
	if column == "" {
		return q
	}
	return q.OrderExpr("? ?", bun.Ident(column),
		bun.Safe(filter.Direction(direction, cfg.DefaultOrderDirection)))
}

// setSorted adds one SET clause per payload entry, in sorted key order.
func setSorted(q *bun.UpdateQuery, data map[string]any) *bun.UpdateQuery {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		q = q.Set("? = ?", bun.Ident(key), data[key])
	}
	return q
}
