package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the HTTP API server.
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeSweep runs the scheduled overdue sweep.
	ServiceModeSweep ServiceMode = "sweep"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{ServiceModeHTTP, ServiceModeSweep}
}

// ParseServices parses a comma-delimited string of service names and returns the enabled services.
// It validates that all service names are valid and returns an error if any are invalid.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if servicesStr == "" {
		return services, errors.New("at least one service must be specified")
	}

	for _, part := range strings.Split(servicesStr, ",") {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeHTTP, ServiceModeSweep:
			services[mode] = true
		default:
			return nil, fmt.Errorf("invalid service name: %q (valid options: http, sweep)", serviceName)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}

	return services, nil
}

// SweepConfig controls the scheduled overdue sweep.
type SweepConfig struct {
	// Schedule is a five-field cron expression. The default runs daily at midnight.
	Schedule string `env:"SCHEDULE" envDefault:"0 0 * * *"`

	// Timezone is the IANA zone the schedule is evaluated in.
	Timezone string `env:"TIMEZONE" envDefault:"UTC"`

	// RunOnStart triggers one sweep as soon as the runner starts.
	RunOnStart bool `env:"RUN_ON_START" envDefault:"false"`

	// LockTTL bounds how long one replica holds the per-tick lock.
	LockTTL time.Duration `env:"LOCK_TTL" envDefault:"10m"`
}

// Sanitize applies guardrails to sweep configuration values.
func (s *SweepConfig) Sanitize() {
	s.Schedule = strings.TrimSpace(s.Schedule)
	if s.Schedule == "" {
		s.Schedule = "0 0 * * *"
	}
	s.Timezone = strings.TrimSpace(s.Timezone)
	if s.Timezone == "" {
		s.Timezone = "UTC"
	}
	if s.LockTTL <= 0 {
		s.LockTTL = 10 * time.Minute
	}
}

// Location resolves Timezone, falling back to UTC for unknown zones.
func (s *SweepConfig) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// EventsConfig controls publication of lifecycle events to RabbitMQ.
// Publishing is disabled when URL is empty.
type EventsConfig struct {
	URL      string `env:"AMQP_URL"`
	Exchange string `env:"EXCHANGE" envDefault:"jobops.events"`
	AppID    string `env:"APP_ID"   envDefault:"jobops-api"`
}

// Sanitize trims values and restores defaults.
func (e *EventsConfig) Sanitize() {
	e.URL = strings.TrimSpace(e.URL)
	if e.Exchange = strings.TrimSpace(e.Exchange); e.Exchange == "" {
		e.Exchange = "jobops.events"
	}
	if e.AppID = strings.TrimSpace(e.AppID); e.AppID == "" {
		e.AppID = "jobops-api"
	}
}

// Enabled reports whether a broker is configured.
func (e *EventsConfig) Enabled() bool { return e.URL != "" }
