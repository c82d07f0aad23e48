// Package errors maps errors onto a small, bounded set of class names for metric tags.
package errors

import (
	"context"
	goerrors "errors"

	"github.com/jackc/pgx/v5/pgconn"
	apperrors "github.com/target/jobops-api/internal/errors"
)

// Class names reported for errors that carry no application code.
const (
	ClassCanceled = "canceled"
	ClassTimeout  = "timeout"
	ClassDatabase = "database"
	ClassUnknown  = "unknown"
)

// Classify returns the tag value for err. Application errors report their code,
// so label cardinality stays bounded by the ErrorCode set.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	if code := apperrors.GetCode(err); code != "" {
		return string(code)
	}

	switch {
	case goerrors.Is(err, context.Canceled):
		return ClassCanceled
	case goerrors.Is(err, context.DeadlineExceeded):
		return ClassTimeout
	}

	var pgErr *pgconn.PgError
	if goerrors.As(err, &pgErr) {
		return ClassDatabase
	}
	return ClassUnknown
}
