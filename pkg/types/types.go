// Package types provides core types and configurations for the run orchestrator
package types

import (
	"context"
	"time"
)

// CommandKind tags the variant held by a task descriptor
type CommandKind string

const (
	CommandKindShell    CommandKind = "shell"
	CommandKindCallable CommandKind = "callable"
	CommandKindNoop     CommandKind = "noop"
)

// DefaultPriority is applied when a task omits its priority.
// Lower values run earlier; equal values form a concurrency group.
const DefaultPriority = 500

// LogLevel represents logging verbosity levels
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// TaskStatus represents the settled state of a single task within a run
type TaskStatus string

const (
	TaskStatusSucceeded TaskStatus = "succeeded"
	TaskStatusFailed    TaskStatus = "failed"
	TaskStatusSkipped   TaskStatus = "skipped"
)

// RunPhase represents the scheduler's progress through one invocation
type RunPhase string

const (
	RunPhaseSelecting RunPhase = "selecting"
	RunPhaseGrouping  RunPhase = "grouping"
	RunPhaseRunning   RunPhase = "running"
	RunPhaseSettled   RunPhase = "settled"
)

// CallableFunc is a task body invoked in-process with its parameter bag
type CallableFunc func(ctx context.Context, params map[string]interface{}) error

// Spec is one raw entry of an orchestration map as provided by a
// consumer module. Exactly one of ShellText and Callable is set for a
// runnable task; neither set means a no-op placeholder.
type Spec struct {
	ShellText string
	Callable  CallableFunc
	Priority  *int
	Options   map[string]interface{}
}

// At returns a copy of the spec pinned to an explicit priority
func (s Spec) At(priority int) Spec {
	s.Priority = &priority
	return s
}

// With returns a copy of the spec carrying a parameter bag for its
// callable. Ignored for shell-form tasks.
func (s Spec) With(options map[string]interface{}) Spec {
	s.Options = options
	return s
}

// Descriptor is a normalized task ready for scheduling
type Descriptor struct {
	Name     string
	Kind     CommandKind
	Shell    string
	Callable CallableFunc
	Priority int
	Options  map[string]interface{}
}

// ExecutionResult captures the outcome of one task execution
type ExecutionResult struct {
	ID       string        `json:"id"`
	Task     string        `json:"task"`
	Status   TaskStatus    `json:"status"`
	Output   string        `json:"output,omitempty"`
	ExitCode int           `json:"exitCode"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// Failed reports whether the task settled unsuccessfully
func (r ExecutionResult) Failed() bool {
	return r.Status == TaskStatusFailed
}

// RunOutcome aggregates per-task results for one orchestration call.
// Results are ordered by ascending priority group, launch order within
// a group.
type RunOutcome struct {
	ID       string            `json:"id"`
	Success  bool              `json:"success"`
	Results  []ExecutionResult `json:"results"`
	Failed   []string          `json:"failed,omitempty"`
	Skipped  []string          `json:"skipped,omitempty"`
	Duration time.Duration     `json:"duration"`
}

// SchedulingConfig represents scheduler tuning knobs
type SchedulingConfig struct {
	// MaxParallel bounds concurrent tasks within one priority group.
	// Zero means unbounded; the barrier semantics are unaffected.
	MaxParallel     int  `json:"maxParallel" yaml:"maxParallel"`
	DefaultPriority *int `json:"defaultPriority,omitempty" yaml:"defaultPriority,omitempty"`
}

// NotificationConfig represents notification preferences
type NotificationConfig struct {
	Enabled      *bool  `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	SuccessSound string `json:"successSound,omitempty" yaml:"successSound,omitempty"`
	FailureSound string `json:"failureSound,omitempty" yaml:"failureSound,omitempty"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	File  string   `json:"file" yaml:"file"`
	Level LogLevel `json:"level" yaml:"level"`
}

// WatchConfig represents watch-mode settings
type WatchConfig struct {
	Paths         []string `json:"paths,omitempty" yaml:"paths,omitempty"`
	SettlingDelay *int     `json:"settlingDelay,omitempty" yaml:"settlingDelay,omitempty"`
}

// RunConfig represents the main configuration
type RunConfig struct {
	Version       string              `json:"version" yaml:"version"`
	Scheduling    *SchedulingConfig   `json:"scheduling,omitempty" yaml:"scheduling,omitempty"`
	Logging       *LoggingConfig      `json:"logging,omitempty" yaml:"logging,omitempty"`
	Notifications *NotificationConfig `json:"notifications,omitempty" yaml:"notifications,omitempty"`
	Watch         *WatchConfig        `json:"watch,omitempty" yaml:"watch,omitempty"`
}

// EffectiveDefaultPriority returns the configured default priority,
// falling back to DefaultPriority.
func (c *SchedulingConfig) EffectiveDefaultPriority() int {
	if c != nil && c.DefaultPriority != nil {
		return *c.DefaultPriority
	}
	return DefaultPriority
}
