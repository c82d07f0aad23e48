package metrics

import (
	"time"

	obserrors "github.com/target/jobops-api/internal/observability/errors"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
)

// Entity names used for the transition metric.
const (
	EntityJob  = "job"
	EntityTask = "task"
)

// TransitionMetric captures a status transition attempt for metric emission.
type TransitionMetric struct {
	Entity   string
	From     string
	To       string
	Result   string
	Duration time.Duration
	Err      error
}

// EmitTransition emits standardised status transition metrics.
func EmitTransition(sink Sink, in TransitionMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"entity":      in.Entity,
		"from":        in.From,
		"to":          in.To,
		"result":      in.Result,
		"error_class": "",
	}
	if in.Err != nil && in.Result == ResultError {
		tags["error_class"] = obserrors.Classify(in.Err)
	}

	sink.Count("lifecycle.transition", 1, tags)

	if in.Duration > 0 {
		sink.Timing("lifecycle.transition_duration", in.Duration, map[string]string{"entity": in.Entity})
	}
}

// SweepMetric captures one overdue sweep run.
type SweepMetric struct {
	Trigger  string
	Marked   int64
	Cleared  int64
	Duration time.Duration
	Err      error
}

// EmitSweep emits the overdue sweep counters and duration.
func EmitSweep(sink Sink, in SweepMetric) {
	if sink == nil {
		return
	}

	result := ResultSuccess
	switch {
	case in.Err != nil:
		result = ResultError
	case in.Marked == 0 && in.Cleared == 0:
		result = ResultNoop
	}
	sink.Count("sweep.run", 1, map[string]string{"trigger": in.Trigger, "result": result})
	if in.Err != nil {
		return
	}

	sink.Count("sweep.jobs_changed", in.Marked, map[string]string{"pass": "mark"})
	sink.Count("sweep.jobs_changed", in.Cleared, map[string]string{"pass": "clear"})
	if in.Duration > 0 {
		sink.Timing("sweep.duration", in.Duration, nil)
	}
}
