package health

import (
	"fmt"
	"time"
)

// EngineStatus is the slice of engine state the checks need. The
// sim.Engine satisfies it.
type EngineStatus interface {
	Running() bool
	IsPaused() bool
	LastStep() time.Time
}

// EngineRunningCheck reports unhealthy when the step loop is down
func EngineRunningCheck(e EngineStatus) CheckFunc {
	return func() Check {
		if !e.Running() {
			return Check{
				Name:    "engine_running",
				Status:  StatusUnhealthy,
				Message: "step loop is not running",
			}
		}
		return Check{Name: "engine_running", Status: StatusHealthy}
	}
}

// StepFreshnessCheck reports degraded when no step has been applied
// within maxAge. A paused engine is exempt; standing still is what
// it was asked to do.
func StepFreshnessCheck(e EngineStatus, maxAge time.Duration) CheckFunc {
	return func() Check {
		if e.IsPaused() {
			return Check{
				Name:    "step_freshness",
				Status:  StatusHealthy,
				Message: "paused",
			}
		}
		last := e.LastStep()
		if last.IsZero() {
			return Check{
				Name:    "step_freshness",
				Status:  StatusHealthy,
				Message: "no step applied yet",
			}
		}
		age := time.Since(last)
		if age > maxAge {
			return Check{
				Name:    "step_freshness",
				Status:  StatusDegraded,
				Message: fmt.Sprintf("last step %s ago", age.Round(time.Millisecond)),
			}
		}
		return Check{Name: "step_freshness", Status: StatusHealthy}
	}
}
