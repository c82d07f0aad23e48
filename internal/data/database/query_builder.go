// Package database builds parameterized list queries with sanitized identifiers.
package database

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

type ConditionType string

const (
	Equal              ConditionType = "="
	NotEqual           ConditionType = "!="
	LessThan           ConditionType = "<"
	GreaterThan        ConditionType = ">"
	LessThanOrEqual    ConditionType = "<="
	GreaterThanOrEqual ConditionType = ">="
	ILike              ConditionType = "ILIKE"
	In                 ConditionType = "IN"
	IsNull             ConditionType = "IS NULL"
	Custom             ConditionType = "CUSTOM"
)

var placeholderRe = regexp.MustCompile(`\$(\d+)`)

// Condition is one WHERE predicate. Conditions are joined with AND.
type Condition struct {
	Field    string
	Type     ConditionType
	Value    any
	rawQuery string
}

// WhereCond builds a predicate comparing a column against a single bound value.
func WhereCond(field string, condType ConditionType, value any) Condition {
	if condType == Custom {
		//nolint:forbidigo // custom conditions must provide raw SQL via WhereRawCond.
		panic("Use WhereRawCond for Custom type")
	}
	return Condition{Field: field, Type: condType, Value: value}
}

// WhereNull builds a "column IS NULL" predicate.
func WhereNull(field string) Condition {
	return Condition{Field: field, Type: IsNull}
}

// WhereRawCond builds a predicate from raw SQL. Placeholders $1..$n refer to params
// and are renumbered when the query is assembled. The SQL itself is not sanitized.
func WhereRawCond(rawQuery string, params ...any) Condition {
	return Condition{Type: Custom, rawQuery: rawQuery, Value: params}
}

// ListQueryOptions describes a SELECT over one table.
type ListQueryOptions struct {
	Table      string
	Columns    []string
	Conditions []Condition
	OrderBy    []string
}

type ListQueryOption func(*ListQueryOptions)

func NewListQueryOptions(table string, opts ...ListQueryOption) *ListQueryOptions {
	o := &ListQueryOptions{Table: table}
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

// WithOrderBy appends an ORDER BY term. Direction must be ASC or DESC; anything else is dropped.
func WithOrderBy(column, direction string) ListQueryOption {
	return func(o *ListQueryOptions) {
		term := sanitizeIdentifier(column)
		if d := strings.ToUpper(direction); d == "ASC" || d == "DESC" {
			term += " " + d
		}
		o.OrderBy = append(o.OrderBy, term)
	}
}

func sanitizeIdentifier(ident string) string {
	return pgx.Identifier(strings.Split(ident, ".")).Sanitize()
}

// BuildListQuery constructs a SQL query string and arguments from options, sanitizing identifiers.
//
//	q, args := BuildListQuery(NewListQueryOptions("jobs",
//		WithColumns("id", "title"),
//		WithCondition(WhereCond("status", In, []string{"PENDING", "IN_PROGRESS"})),
//		WithOrderBy("created_at", "DESC"),
//	))
func BuildListQuery(options *ListQueryOptions) (string, []any) {
	if options == nil {
		return "", nil
	}

	var query strings.Builder
	query.WriteString("SELECT ")
	if len(options.Columns) == 0 {
		query.WriteString("*")
	} else {
		cols := make([]string, len(options.Columns))
		for i, c := range options.Columns {
			cols[i] = sanitizeIdentifier(c)
		}
		query.WriteString(strings.Join(cols, ", "))
	}
	query.WriteString(" FROM ")
	query.WriteString(sanitizeIdentifier(options.Table))

	where, args := buildWhereClause(options.Conditions)
	if where != "" {
		query.WriteString(" ")
		query.WriteString(where)
	}
	if len(options.OrderBy) > 0 {
		query.WriteString(" ORDER BY ")
		query.WriteString(strings.Join(options.OrderBy, ", "))
	}
	return query.String(), args
}

func buildWhereClause(conds []Condition) (string, []any) {
	parts := make([]string, 0, len(conds))
	args := []any{}
	for _, c := range conds {
		sqlPart, condArgs := processCondition(c, len(args)+1)
		if sqlPart == "" {
			continue
		}
		parts = append(parts, sqlPart)
		args = append(args, condArgs...)
	}
	if len(parts) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(parts, " AND "), args
}

func processCondition(c Condition, next int) (string, []any) {
	if c.Type == Custom {
		return handleCustomCondition(c, next)
	}
	if c.Field == "" {
		return "", nil
	}
	field := sanitizeIdentifier(c.Field)
	switch c.Type {
	case IsNull:
		return field + " IS NULL", nil
	case In:
		return handleInCondition(field, c.Value, next)
	case Equal, NotEqual, LessThan, GreaterThan, LessThanOrEqual, GreaterThanOrEqual, ILike:
		return fmt.Sprintf("%s %s $%d", field, c.Type, next), []any{c.Value}
	case Custom:
	}
	return "", nil
}

// handleInCondition accepts any slice type; an empty slice drops the condition.
func handleInCondition(field string, value any, next int) (string, []any) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice || rv.Len() == 0 {
		return "", nil
	}
	placeholders := make([]string, rv.Len())
	args := make([]any, rv.Len())
	for i := range rv.Len() {
		placeholders[i] = "$" + strconv.Itoa(next+i)
		args[i] = rv.Index(i).Interface()
	}
	return fmt.Sprintf("%s IN (%s)", field, strings.Join(placeholders, ", ")), args
}

func handleCustomCondition(c Condition, next int) (string, []any) {
	if c.rawQuery == "" {
		return "", nil
	}
	params, _ := c.Value.([]any)
	var args []any
	idxMap := make(map[int]int)
	out := placeholderRe.ReplaceAllStringFunc(c.rawQuery, func(m string) string {
		n, err := strconv.Atoi(m[1:])
		if err != nil || n < 1 || n > len(params) {
			return m
		}
		if _, ok := idxMap[n]; !ok {
			idxMap[n] = next + len(args)
			args = append(args, params[n-1])
		}
		return "$" + strconv.Itoa(idxMap[n])
	})
	return out, args
}
