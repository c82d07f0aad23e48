package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// validationErrorPatterns holds request validation substrings that classify an
// untyped error as a 400 instead of a 500.
var validationErrorPatterns = []string{ //nolint:gochecknoglobals // read-only lookup
	"is required and cannot be empty",
	"cannot be empty",
	"cannot exceed",
	"at least one field must be updated",
	"must be one of",
	"must be >=",
	"is not a valid",
}

// isValidationError checks for common validation error patterns to decide 400 vs 5xx.
func isValidationError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, p := range validationErrorPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// queryError reports a malformed query parameter.
type queryError struct {
	key string
	err error
}

func (e *queryError) Error() string {
	return fmt.Sprintf("query parameter %q is not a valid value: %v", e.key, e.err)
}

func (e *queryError) Unwrap() error { return e.err }

// parseBoolQuery returns a pointer to the parsed bool, or nil when the key is absent.
func parseBoolQuery(r *http.Request, key string) (*bool, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, &queryError{key: key, err: err}
	}
	return &b, nil
}

// parseStringQuery returns a pointer to the trimmed value, or nil when the key is absent.
func parseStringQuery(r *http.Request, key string) *string {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return nil
	}
	return &v
}

// parseTimeQuery accepts RFC 3339 timestamps or YYYY-MM-DD dates (UTC midnight).
func parseTimeQuery(r *http.Request, key string) (*time.Time, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return nil, &queryError{key: key, err: errors.New("expected RFC 3339 or YYYY-MM-DD")}
	}
	return &t, nil
}

// splitCSV splits a comma-separated list and drops empty items.
func splitCSV(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
