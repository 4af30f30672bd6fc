// Package querybuilder renders postgres statements with positional
// placeholders. Values are always bound, never inlined.
package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// binder collects bound values and hands out $n placeholders in order.
type binder struct {
	values []any
}

func (b *binder) bind(v any) string {
	b.values = append(b.values, v)
	return "$" + strconv.Itoa(len(b.values))
}

// expand replaces each ? in expr with the next bound arg.
func (b *binder) expand(expr string, args []any) string {
	if len(args) == 0 {
		return expr
	}

	var out strings.Builder
	next := 0
	for _, r := range expr {
		if r == '?' && next < len(args) {
			out.WriteString(b.bind(args[next]))
			next++
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}

type Condition interface {
	render(b *binder) string
}

type compare struct {
	column string
	op     string
	value  any
}

func (c compare) render(b *binder) string {
	return c.column + " " + c.op + " " + b.bind(c.value)
}

func Eq(column string, value any) Condition {
	return compare{column: column, op: "=", value: value}
}

func Neq(column string, value any) Condition {
	return compare{column: column, op: "<>", value: value}
}

// Lte renders column <= value.
func Lte(column string, value any) Condition {
	return compare{column: column, op: "<=", value: value}
}

type in struct {
	column string
	values []any
}

// In renders column IN (...). An empty list matches nothing.
func In(column string, values []any) Condition {
	return in{column: column, values: values}
}

func (c in) render(b *binder) string {
	if len(c.values) == 0 {
		return "1=0"
	}
	placeholders := make([]string, len(c.values))
	for i, v := range c.values {
		placeholders[i] = b.bind(v)
	}
	return c.column + " IN (" + strings.Join(placeholders, ", ") + ")"
}

type expr struct {
	sql  string
	args []any
}

// Expr is a raw predicate whose ? markers are bound to args.
func Expr(sql string, args ...any) Condition {
	return expr{sql: sql, args: args}
}

func (c expr) render(b *binder) string {
	return b.expand(c.sql, c.args)
}

func whereClause(b *binder, conditions []Condition) string {
	if len(conditions) == 0 {
		return ""
	}
	parts := make([]string, len(conditions))
	for i, c := range conditions {
		parts[i] = c.render(b)
	}
	return " WHERE " + strings.Join(parts, " AND ")
}

type SelectBuilder struct {
	columns   []string
	table     string
	where     []Condition
	orderBy   []string
	forUpdate bool
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (s *SelectBuilder) From(table string) *SelectBuilder {
	s.table = table
	return s
}

func (s *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	s.where = append(s.where, conditions...)
	return s
}

func (s *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	s.orderBy = append(s.orderBy, parts...)
	return s
}

// ForUpdate locks the selected rows until the surrounding transaction ends.
func (s *SelectBuilder) ForUpdate() *SelectBuilder {
	s.forUpdate = true
	return s
}

func (s *SelectBuilder) ToSQL() (string, []any, error) {
	if len(s.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(s.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	var b binder
	query := "SELECT " + strings.Join(s.columns, ", ") + " FROM " + s.table + whereClause(&b, s.where)
	if len(s.orderBy) > 0 {
		query += " ORDER BY " + strings.Join(s.orderBy, ", ")
	}
	if s.forUpdate {
		query += " FOR UPDATE"
	}
	return query, b.values, nil
}

type assignment struct {
	column string
	value  any
}

type UpdateBuilder struct {
	table  string
	sets   []assignment
	where  []Condition
	suffix string
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (u *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	u.sets = append(u.sets, assignment{column: column, value: value})
	return u
}

func (u *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	u.where = append(u.where, conditions...)
	return u
}

// Suffix appends raw SQL such as RETURNING after the WHERE clause.
func (u *UpdateBuilder) Suffix(sql string) *UpdateBuilder {
	u.suffix = strings.TrimSpace(sql)
	return u
}

func (u *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(u.table) == "" {
		return "", nil, fmt.Errorf("update table is required")
	}
	if len(u.sets) == 0 {
		return "", nil, fmt.Errorf("update sets are required")
	}

	var b binder
	sets := make([]string, len(u.sets))
	for i, s := range u.sets {
		sets[i] = s.column + " = " + b.bind(s.value)
	}

	query := "UPDATE " + u.table + " SET " + strings.Join(sets, ", ") + whereClause(&b, u.where)
	if u.suffix != "" {
		query += " " + u.suffix
	}
	return query, b.values, nil
}

type DeleteBuilder struct {
	table string
	where []Condition
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (d *DeleteBuilder) Where(conditions ...Condition) *DeleteBuilder {
	d.where = append(d.where, conditions...)
	return d
}

// ToSQL refuses to build an unconditional delete.
func (d *DeleteBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(d.table) == "" {
		return "", nil, fmt.Errorf("delete table is required")
	}
	if len(d.where) == 0 {
		return "", nil, fmt.Errorf("delete conditions are required")
	}

	var b binder
	return "DELETE FROM " + d.table + whereClause(&b, d.where), b.values, nil
}

// insertRows renders a multi-row insert; every row must match columns.
func insertRows(table string, columns []string, rows [][]any, suffix string) (string, []any, error) {
	if strings.TrimSpace(table) == "" {
		return "", nil, fmt.Errorf("insert table is required")
	}
	if len(columns) == 0 {
		return "", nil, fmt.Errorf("insert columns are required")
	}
	if len(rows) == 0 {
		return "", nil, fmt.Errorf("insert values are required")
	}

	var b binder
	tuples := make([]string, len(rows))
	for i, row := range rows {
		if len(row) != len(columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", i, len(row), len(columns))
		}
		placeholders := make([]string, len(row))
		for j, v := range row {
			placeholders[j] = b.bind(v)
		}
		tuples[i] = "(" + strings.Join(placeholders, ", ") + ")"
	}

	query := "INSERT INTO " + table + " (" + strings.Join(columns, ", ") + ") VALUES " + strings.Join(tuples, ", ")
	if suffix = strings.TrimSpace(suffix); suffix != "" {
		query += " " + suffix
	}
	return query, b.values, nil
}
