package testutil

import (
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

func envBool(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

func requireRedis() bool { return envBool("TEST_REQUIRE_REDIS") || envBool("TEST_REQUIRE_INFRA") }

// TestTime is the fixed clock used by repository tests.
func TestTime() time.Time {
	return time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
}

// ConcurrentTestRunner fans functions out onto goroutines.
type ConcurrentTestRunner struct {
	t TestingTB
}

func NewConcurrentTestRunner(t TestingTB) *ConcurrentTestRunner {
	return &ConcurrentTestRunner{t: t}
}

// RunConcurrent starts every fn at once and returns their errors in argument order.
func (r *ConcurrentTestRunner) RunConcurrent(funcs ...func() error) []error {
	r.t.Helper()
	errs := make([]error, len(funcs))
	var g errgroup.Group
	for i, fn := range funcs {
		g.Go(func() error {
			errs[i] = fn()
			return nil
		})
	}
	_ = g.Wait()
	return errs
}

// AssertNoErrors fails the test on the first non-nil error.
func (r *ConcurrentTestRunner) AssertNoErrors(errs []error) {
	r.t.Helper()
	for i, err := range errs {
		if err != nil {
			r.t.Fatalf("concurrent operation %d failed: %v", i, err)
		}
	}
}

func StringPtr(s string) *string { return &s }

func BoolPtr(b bool) *bool { return &b }

func IntPtr(i int) *int { return &i }

func TimePtr(t time.Time) *time.Time { return &t }
