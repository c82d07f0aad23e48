package service

import (
	"sync"
	"time"

	domainauth "github.com/target/jobops-api/internal/domain/auth"
	"github.com/target/jobops-api/internal/observability/metrics"
)

var testNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

var (
	adminCaller = domainauth.Principal{UserID: "admin-1", Role: domainauth.RoleAdmin}
	salesCaller = domainauth.Principal{UserID: "sales-1", Role: domainauth.RoleSalesAgent}
	techCaller  = domainauth.Principal{UserID: "tech-1", Role: domainauth.RoleTechnician}
)

func strPtr(s string) *string { return &s }

// recordingSink captures counter totals keyed by metric name and result tag.
type recordingSink struct {
	mu     sync.Mutex
	counts map[string]int64
	tags   map[string][]map[string]string
}

func newRecordingSink() *recordingSink {
	return &recordingSink{counts: map[string]int64{}, tags: map[string][]map[string]string{}}
}

func (s *recordingSink) Count(name string, value int64, tags map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[name] += value
	s.tags[name] = append(s.tags[name], tags)
}

func (s *recordingSink) Gauge(string, float64, map[string]string)        {}
func (s *recordingSink) Timing(string, time.Duration, map[string]string) {}

func (s *recordingSink) lastTags(name string) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.tags[name]
	if len(all) == 0 {
		return nil
	}
	return all[len(all)-1]
}

var _ metrics.Sink = (*recordingSink)(nil)
