// Package database builds parameterized list queries with sanitized identifiers.
package database

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ConditionType is a comparison operator.
type ConditionType string

const (
	Equal              ConditionType = "="
	NotEqual           ConditionType = "!="
	GreaterThanOrEqual ConditionType = ">="
	LessThan           ConditionType = "<"
	ILike              ConditionType = "ILIKE"
)

// Condition is one WHERE predicate joined with AND.
type Condition struct {
	Field string
	Type  ConditionType
	Value any
}

// WhereCond builds a Condition.
func WhereCond(field string, condType ConditionType, value any) Condition {
	return Condition{Field: field, Type: condType, Value: value}
}

// ListQueryOptions describes a SELECT over a single table.
type ListQueryOptions struct {
	Table      string
	Columns    []string
	Conditions []Condition
	// OrderBy holds "column DIR" pairs applied in order.
	OrderBy []string
	Limit   int
	Offset  int
}

// ListQueryOption mutates ListQueryOptions.
type ListQueryOption func(*ListQueryOptions)

// NewListQueryOptions creates options for table. Limit and Offset default to unset.
func NewListQueryOptions(table string, opts ...ListQueryOption) *ListQueryOptions {
	o := &ListQueryOptions{Table: table, Limit: -1, Offset: -1}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithColumns sets the columns to select.
func WithColumns(cols ...string) ListQueryOption {
	return func(o *ListQueryOptions) { o.Columns = cols }
}

// WithCondition adds a single condition.
func WithCondition(cond Condition) ListQueryOption {
	return func(o *ListQueryOptions) { o.Conditions = append(o.Conditions, cond) }
}

// WithOrderBy appends an ordering column. Direction other than ASC or DESC is dropped.
func WithOrderBy(column, direction string) ListQueryOption {
	return func(o *ListQueryOptions) {
		clause := sanitize(column)
		if d := strings.ToUpper(strings.TrimSpace(direction)); d == "ASC" || d == "DESC" {
			clause += " " + d
		}
		o.OrderBy = append(o.OrderBy, clause)
	}
}

// WithLimit sets the limit. Accepts 0.
func WithLimit(limit int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if limit >= 0 {
			o.Limit = limit
		}
	}
}

// WithOffset sets the offset. Accepts 0.
func WithOffset(offset int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if offset >= 0 {
			o.Offset = offset
		}
	}
}

// sanitize quotes a possibly qualified identifier such as "table.column".
func sanitize(ident string) string {
	return pgx.Identifier(strings.Split(ident, ".")).Sanitize()
}

// BuildListQuery constructs a SQL query string and arguments from options.
//
// Example:
//
//	q, args := BuildListQuery(NewListQueryOptions("violations",
//		WithColumns("id", "points"),
//		WithCondition(WhereCond("student_id", Equal, id)),
//		WithOrderBy("occurred_at", "DESC"),
//		WithLimit(50),
//	))
//	// SELECT "id", "points" FROM "violations" WHERE "student_id" = $1 ORDER BY "occurred_at" DESC LIMIT $2
func BuildListQuery(o *ListQueryOptions) (string, []any) {
	if o == nil {
		return "", nil
	}
	var b strings.Builder
	var args []any

	b.WriteString("SELECT ")
	if len(o.Columns) == 0 {
		b.WriteString("*")
	} else {
		cols := make([]string, len(o.Columns))
		for i, c := range o.Columns {
			cols[i] = sanitize(c)
		}
		b.WriteString(strings.Join(cols, ", "))
	}
	b.WriteString(" FROM ")
	b.WriteString(sanitize(o.Table))

	if len(o.Conditions) > 0 {
		parts := make([]string, 0, len(o.Conditions))
		for _, c := range o.Conditions {
			if c.Field == "" {
				continue
			}
			args = append(args, c.Value)
			parts = append(parts, fmt.Sprintf("%s %s $%d", sanitize(c.Field), c.Type, len(args)))
		}
		if len(parts) > 0 {
			b.WriteString(" WHERE ")
			b.WriteString(strings.Join(parts, " AND "))
		}
	}

	if len(o.OrderBy) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(o.OrderBy, ", "))
	}
	if o.Limit >= 0 {
		args = append(args, o.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	if o.Offset >= 0 {
		args = append(args, o.Offset)
		fmt.Fprintf(&b, " OFFSET $%d", len(args))
	}
	return b.String(), args
}
