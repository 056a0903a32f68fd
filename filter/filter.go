package filter

import (
	"reflect"
	"regexp"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/uptrace/bun"
)

// Reserved bag keys, listed in synonym order. The first key carrying a
// usable value wins; the remaining synonyms are ignored entirely rather than
// falling through to the open filter channel.
var (
	searchKeys    = []string{"search", "q"}
	sortKeys      = []string{"sort", "order_by"}
	directionKeys = []string{"direction", "order_dir"}
	dateFromKeys  = []string{"date_from", "from"}
	dateToKeys    = []string{"date_to", "to"}
)

// Bag is the caller-supplied key/value input driving the compositor,
// typically parsed request parameters. Keys are caller-controlled; nil and
// empty values are treated as absent.
type Bag map[string]any

// Relation describes how a related table joins back to the parent so dotted
// search columns ("profile.bio") can be expressed as EXISTS predicates.
type Relation struct {
	// Table is the related table name.
	Table string
	// ForeignColumn is the column on the related table referencing the parent.
	ForeignColumn string
	// ParentColumn is the parent key column. Defaults to "id".
	ParentColumn string
}

// Config declares which columns participate in search and what the sort
// defaults are.
type Config struct {
	// SearchColumns lists the columns the search term is matched against.
	// A column containing a "." is interpreted as "relation.column" and
	// resolved through Relations. Empty list disables search.
	SearchColumns []string

	// Relations maps relation names used in SearchColumns to join metadata.
	Relations map[string]Relation

	// DefaultSort is the column ordered by when the bag carries no sort key.
	// Empty means the compositor applies no ordering of its own.
	DefaultSort string

	// DefaultDirection is used when the bag carries no direction, or an
	// unrecognized one. Defaults to "desc".
	DefaultDirection string

	// DateColumn is the column the date_from/date_to range applies to.
	// Defaults to "created_at".
	DateColumn string
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.DefaultDirection,
			validation.In("", "asc", "desc", "ASC", "DESC")),
		validation.Field(&c.Relations, validation.By(validRelations)),
	)
}

func validRelations(value any) error {
	relations, _ := value.(map[string]Relation)
	for name, rel := range relations {
		if err := validation.ValidateStruct(&rel,
			validation.Field(&rel.Table, validation.Required),
			validation.Field(&rel.ForeignColumn, validation.Required),
		); err != nil {
			return validation.NewError("validation_relation",
				"relation "+name+" is incomplete")
		}
	}
	return nil
}

// Compositor translates a Bag into query predicates without the caller
// needing to know which keys are special. Reserved keys drive search, sort,
// and date-range handling; every other key becomes an equality (or IN, for
// list values) predicate against a column of the same name.
type Compositor struct {
	cfg Config
}

// New builds a Compositor, filling unset Config fields with defaults.
func New(cfg Config) *Compositor {
	if cfg.DefaultDirection == "" {
		cfg.DefaultDirection = "desc"
	}
	if cfg.DateColumn == "" {
		cfg.DateColumn = "created_at"
	}
	return &Compositor{cfg: cfg}
}

// Config returns a copy of the compositor configuration.
func (c *Compositor) Config() Config {
	return c.cfg
}

// Apply composes the bag onto q in fixed order: search, sort, date-from,
// date-to, open equality filters. Predicates combine with AND except inside
// the search OR-group.
func (c *Compositor) Apply(q *bun.SelectQuery, bag Bag) *bun.SelectQuery {
	q = c.applySearch(q, bag)
	q = c.applySort(q, bag)
	q = c.applyDateRange(q, bag)
	return c.applyOpenFilters(q, bag)
}

func (c *Compositor) applySearch(q *bun.SelectQuery, bag Bag) *bun.SelectQuery {
	term := asString(pick(bag, searchKeys))
	if term == "" || len(c.cfg.SearchColumns) == 0 {
		return q
	}

	pattern := "%" + term + "%"
	return q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
		for _, column := range c.cfg.SearchColumns {
			if name, related, ok := strings.Cut(column, "."); ok {
				q = c.searchRelation(q, name, related, pattern)
				continue
			}
			if !safeIdent(column) {
				continue
			}
			q = q.WhereOr("? LIKE ?", bun.Ident(column), pattern)
		}
		return q
	})
}

// searchRelation turns "relation.column" into a has-relation-matching
// predicate: EXISTS (SELECT 1 FROM related r WHERE r.fk = parent.pk AND
// r.column LIKE pattern). Unknown relations and unsafe column names are
// skipped so one bad entry cannot poison the whole group.
func (c *Compositor) searchRelation(q *bun.SelectQuery, name, column, pattern string) *bun.SelectQuery {
	rel, ok := c.cfg.Relations[name]
	if !ok || !safeIdent(column) || !safeIdent(name) {
		return q
	}
	parent := rel.ParentColumn
	if parent == "" {
		parent = "id"
	}
	return q.WhereOr(
		"EXISTS (SELECT 1 FROM ? AS ? WHERE ?.? = ?TableAlias.? AND ?.? LIKE ?)",
		bun.Ident(rel.Table), bun.Ident(name),
		bun.Ident(name), bun.Ident(rel.ForeignColumn),
		bun.Ident(parent),
		bun.Ident(name), bun.Ident(column),
		pattern,
	)
}

func (c *Compositor) applySort(q *bun.SelectQuery, bag Bag) *bun.SelectQuery {
	column := asString(pick(bag, sortKeys))
	if column == "" {
		column = c.cfg.DefaultSort
	}
	if column == "" || !safeIdent(column) {
		return q
	}
	direction := Direction(asString(pick(bag, directionKeys)), c.cfg.DefaultDirection)
	return q.OrderExpr("? ?", bun.Ident(column), bun.Safe(direction))
}

func (c *Compositor) applyDateRange(q *bun.SelectQuery, bag Bag) *bun.SelectQuery {
	if from := pick(bag, dateFromKeys); from != nil {
		q = q.Where("? >= ?", bun.Ident(c.cfg.DateColumn), from)
	}
	if to := pick(bag, dateToKeys); to != nil {
		q = q.Where("? <= ?", bun.Ident(c.cfg.DateColumn), to)
	}
	return q
}

func (c *Compositor) applyOpenFilters(q *bun.SelectQuery, bag Bag) *bun.SelectQuery {
	keys := make([]string, 0, len(bag))
	for key := range bag {
		if reservedKey(key) || !safeIdent(key) {
			continue
		}
		keys = append(keys, key)
	}
	// Sorted application keeps the generated SQL deterministic.
	sort.Strings(keys)

	for _, key := range keys {
		q = Equality(q, key, bag[key])
	}
	return q
}

// Equality applies a single open-channel predicate: IN for list values,
// plain equality otherwise. Absent values (nil, empty string, empty list)
// apply nothing.
func Equality(q *bun.SelectQuery, column string, value any) *bun.SelectQuery {
	if Absent(value) {
		return q
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		return q.Where("? IN (?)", bun.Ident(column), bun.In(value))
	}
	return q.Where("? = ?", bun.Ident(column), value)
}

// Absent reports whether a bag value should be treated as not supplied.
func Absent(value any) bool {
	if value == nil {
		return true
	}
	switch rv := reflect.ValueOf(value); rv.Kind() {
	case reflect.String:
		return rv.Len() == 0
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// Direction normalizes a caller-supplied sort direction. Any value other
// than case-insensitive asc/desc collapses to fallback, which itself
// defaults to DESC.
func Direction(value, fallback string) string {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "ASC":
		return "ASC"
	case "DESC":
		return "DESC"
	}
	switch strings.ToUpper(strings.TrimSpace(fallback)) {
	case "ASC":
		return "ASC"
	default:
		return "DESC"
	}
}

// pick returns the first non-absent value among the synonym keys.
func pick(bag Bag, keys []string) any {
	for _, key := range keys {
		if value, ok := bag[key]; ok && !Absent(value) {
			return value
		}
	}
	return nil
}

func reservedKey(key string) bool {
	for _, group := range [][]string{searchKeys, sortKeys, directionKeys, dateFromKeys, dateToKeys} {
		for _, reserved := range group {
			if key == reserved {
				return true
			}
		}
	}
	return false
}

func asString(value any) string {
	s, _ := value.(string)
	return strings.TrimSpace(s)
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// safeIdent guards against caller-controlled keys that are not plain column
// names. bun quotes identifiers, but rejecting them outright keeps junk out
// of the generated SQL.
func safeIdent(name string) bool {
	return identPattern.MatchString(name)
}
