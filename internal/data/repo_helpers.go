package data

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/target/jobops-api/internal/data/pgxutil"
	apperrors "github.com/target/jobops-api/internal/errors"
)

// setBuilder accumulates "column = $n" assignments for partial updates.
type setBuilder struct {
	parts []string
	args  []any
}

func newSetBuilder() *setBuilder {
	return &setBuilder{parts: make([]string, 0, 8), args: make([]any, 0, 8)}
}

func (b *setBuilder) add(column string, value any) {
	b.args = append(b.args, value)
	b.parts = append(b.parts, pgx.Identifier{column}.Sanitize()+" = $"+strconv.Itoa(len(b.args)))
}

// addIf evaluates value only when cond holds so callers can dereference optional fields.
func (b *setBuilder) addIf(cond bool, column string, value func() any) {
	if cond {
		b.add(column, value())
	}
}

// addRaw appends a literal assignment such as "assigned_to = NULL".
func (b *setBuilder) addRaw(expr string) {
	b.parts = append(b.parts, expr)
}

// placeholder binds value and returns its "$n" reference for use in addRaw expressions.
func (b *setBuilder) placeholder(value any) string {
	b.args = append(b.args, value)
	return "$" + strconv.Itoa(len(b.args))
}

func (b *setBuilder) clause() string {
	return strings.Join(b.parts, ", ")
}

func (b *setBuilder) empty() bool {
	return len(b.parts) == 0
}

func splitColumns(cols string) []string {
	parts := strings.Split(cols, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func ptrs[T any](rows []T) []*T {
	out := make([]*T, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out
}

// deleteByID executes a single-row delete and reports whether a row was removed.
func deleteByID(ctx context.Context, db *sql.DB, q, id string) (bool, error) {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, db, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, q, id)
		if err != nil {
			return err
		}
		affected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, apperrors.MapDBError(err)
	}
	return affected > 0, nil
}
