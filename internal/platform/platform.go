// Package platform defines the data contract the application core uses to
// reach the relational store: select/insert/update verbs with equality
// filters, one-level relationship expansion, and order-by on a column.
// The core never talks to a database driver directly; it only speaks this
// contract, so store implementations can be swapped without touching the
// view-model layer.
package platform

import "context"

// Row is one record as returned by the store. Expanded relationships
// appear under their field name, either as a nested Row (to-one) or a
// collection of Rows. To-one expansions are allowed to arrive as a
// single-element collection; callers normalize.
type Row map[string]any

// Op is a filter comparison operator.
type Op int

const (
	// OpEq matches rows whose column equals the value.
	OpEq Op = iota
	// OpIn matches rows whose column is any of the values.
	OpIn
)

// Filter restricts a query to matching rows.
type Filter struct {
	Column string
	Op     Op
	Value  any
}

// Eq builds an equality filter.
func Eq(column string, value any) Filter {
	return Filter{Column: column, Op: OpEq, Value: value}
}

// In builds a set-membership filter.
func In(column string, values any) Filter {
	return Filter{Column: column, Op: OpIn, Value: values}
}

// Order describes the requested row ordering. Ties on equal values are
// store-defined and must not be relied upon.
type Order struct {
	Column     string
	Descending bool
}

// Expand requests a one-level relationship expansion under Field.
type Expand struct {
	// Field is the key the expanded records appear under in the Row.
	Field string
	// Columns limits the expanded record's columns; empty means all.
	Columns []string
	// ToOne marks the relationship as to-one. Stores may still serialize
	// it as a single-element collection.
	ToOne bool
	// Expand nests a further expansion inside the expanded records.
	Expand []Expand
}

// SelectQuery describes a read request against one relation.
type SelectQuery struct {
	Relation string
	Columns  []string
	Filters  []Filter
	Order    *Order
	Limit    int
	Expand   []Expand
}

// Returning asks an insert to return the full inserted representation,
// including server-generated id and timestamps, optionally expanded.
type Returning struct {
	Columns []string
	Expand  []Expand
}

// Store is the backend data contract. All calls are synchronous; the
// caller decides what to do with the response (or error) when it lands.
type Store interface {
	// Select returns the rows matching the query in the requested order.
	Select(ctx context.Context, q SelectQuery) ([]Row, error)
	// Insert creates one row. When ret is non-nil the full inserted
	// representation is returned; otherwise the returned Row may be nil.
	Insert(ctx context.Context, relation string, values Row, ret *Returning) (Row, error)
	// Update patches the row with the given id.
	Update(ctx context.Context, relation string, id string, values Row) error
}

// String reads a string column, tolerating missing or null values.
func (r Row) String(column string) string {
	if v, ok := r[column].(string); ok {
		return v
	}
	return ""
}

// Int reads an integer column, tolerating the numeric types stores and
// JSON decoders produce.
func (r Row) Int(column string) int {
	switch v := r[column].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
