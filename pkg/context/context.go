// Package context threads run-scoped tracing values through the call
// chain so schedulers and executors never read process-global state.
package context

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// contextKey is unexported so no other package can collide with these
// keys. The name field keeps the keys distinct and aids debugging.
type contextKey struct{ name string }

// Context keys for run tracing and correlation
var (
	runIDKey     = &contextKey{"run-id"}
	taskNameKey  = &contextKey{"task"}
	phaseKey     = &contextKey{"phase"}
	startTimeKey = &contextKey{"start-time"}
)

// WithRunID adds a run ID to the context
func WithRunID(parent context.Context, runID string) context.Context {
	if runID == "" {
		runID = GenerateRunID()
	}
	return context.WithValue(parent, runIDKey, runID)
}

// GetRunID retrieves the run ID from context
func GetRunID(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok && id != "" {
		return id
	}
	return "unknown-run"
}

// WithTask adds the current task name to the context
func WithTask(parent context.Context, task string) context.Context {
	return context.WithValue(parent, taskNameKey, task)
}

// GetTask retrieves the current task name from context
func GetTask(ctx context.Context) string {
	if task, ok := ctx.Value(taskNameKey).(string); ok && task != "" {
		return task
	}
	return "unknown-task"
}

// WithPhase adds the scheduler phase to the context
func WithPhase(parent context.Context, phase string) context.Context {
	return context.WithValue(parent, phaseKey, phase)
}

// GetPhase retrieves the scheduler phase from context
func GetPhase(ctx context.Context) string {
	if phase, ok := ctx.Value(phaseKey).(string); ok && phase != "" {
		return phase
	}
	return "unknown-phase"
}

// WithStartTime records when the run began
func WithStartTime(parent context.Context, start time.Time) context.Context {
	return context.WithValue(parent, startTimeKey, start)
}

// GetDuration returns the elapsed time since the recorded start, or
// zero when no start time is present.
func GetDuration(ctx context.Context) time.Duration {
	if start, ok := ctx.Value(startTimeKey).(time.Time); ok {
		return time.Since(start)
	}
	return 0
}

// GenerateRunID creates a unique run identifier
func GenerateRunID() string {
	return uuid.New().String()
}
