// Package filter turns an untyped key/value bag, typically parsed request
// parameters, into ordered bun query predicates.
//
// Reserved keys drive search, sort, and date-range handling; synonyms
// resolve first-match-wins (search over q, sort over order_by, direction
// over order_dir, date_from over from, date_to over to). Every other key is
// the open channel: it becomes an equality predicate against a column of
// the same name, or an IN predicate when the value is a list. Unknown keys
// are deliberately not rejected.
//
// Composition order is fixed: search, sort, date-from, date-to, open
// filters, combined with AND except inside the search OR-group. Nil and
// empty values are treated as absent, never as "filter by empty".
//
// Search matches LIKE %term% across the configured searchable columns. A
// column spelled "relation.column" is resolved through Relation metadata
// into an EXISTS predicate against the related table, so "does this user
// have a profile whose bio matches" composes into the same OR-group as the
// plain columns.
//
//	comp := filter.New(filter.Config{
//		SearchColumns: []string{"name", "email", "profile.bio"},
//		Relations: map[string]filter.Relation{
//			"profile": {Table: "profiles", ForeignColumn: "user_id"},
//		},
//		DefaultSort: "created_at",
//	})
//	q = comp.Apply(q, filter.Bag{"search": "john", "status": "active"})
package filter
