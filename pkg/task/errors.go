package task

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for task selection and normalization following Go
// best practices. These enable reliable error checking with errors.Is()
var (
	// ErrTaskNotFound indicates a selection name does not exist in the task map
	ErrTaskNotFound = errors.New("task not found")

	// ErrUnknownModule indicates no task module is registered under the requested name
	ErrUnknownModule = errors.New("unknown task module")

	// ErrUnknownBinding indicates a capability binding was requested that was never registered
	ErrUnknownBinding = errors.New("unknown capability binding")

	// ErrAmbiguousSpec indicates a task carries both shell text and a callable
	ErrAmbiguousSpec = errors.New("task defines both shell text and a callable")
)

// NoSelectionError is returned when an invocation names no tasks and
// carries no run-everything flag. The run fails closed rather than
// guessing, and reports what could have been selected.
type NoSelectionError struct {
	Available []string
}

func (e *NoSelectionError) Error() string {
	if len(e.Available) == 0 {
		return "no tasks selected and the task map is empty"
	}
	return fmt.Sprintf("no tasks selected; pass task names or --all (available: %s)",
		strings.Join(e.Available, ", "))
}
