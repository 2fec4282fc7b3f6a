// Package executor runs a single task and reduces the outcome to a
// uniform execution result, so the scheduler never needs to know which
// kind of task it ran.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ghostmind-dev/run/pkg/logger"
	"github.com/ghostmind-dev/run/pkg/types"
)

// ExecError carries the failure details of one task execution.
// It supports errors.As for callers that need the exit code or output.
type ExecError struct {
	Task     string
	ExitCode int
	Output   string
	Cause    error
}

func (e *ExecError) Error() string {
	if e.ExitCode != 0 {
		return fmt.Sprintf("task %q failed with exit code %d: %v", e.Task, e.ExitCode, e.Cause)
	}
	return fmt.Sprintf("task %q failed: %v", e.Task, e.Cause)
}

func (e *ExecError) Unwrap() error {
	return e.Cause
}

// Executor executes task descriptors against a fixed invocation
// snapshot. The environment and working directory are shared by
// reference across concurrently running tasks; two shell siblings that
// each change the process working directory race, which is documented
// behavior of the orchestration model.
type Executor struct {
	logger           logger.Logger
	workingDirectory string
	environment      map[string]string
}

// New creates an executor bound to the invocation's working directory
// and environment snapshot. A nil environment lets subprocesses inherit
// the parent environment; a non-nil snapshot replaces it entirely.
func New(log logger.Logger, workingDirectory string, environment map[string]string) *Executor {
	return &Executor{
		logger:           log,
		workingDirectory: workingDirectory,
		environment:      environment,
	}
}

// Execute runs one descriptor to completion and reports the result.
// Shell tasks spawn a subprocess; callable tasks run in-process.
func (e *Executor) Execute(ctx context.Context, desc types.Descriptor) types.ExecutionResult {
	result := types.ExecutionResult{
		ID:   uuid.New().String(),
		Task: desc.Name,
	}

	startTime := time.Now()

	var err error
	switch desc.Kind {
	case types.CommandKindShell:
		result.Output, result.ExitCode, err = e.runShell(ctx, desc)
	case types.CommandKindCallable:
		err = e.runCallable(ctx, desc)
	case types.CommandKindNoop:
		// Nothing to do; settles successfully.
	default:
		err = fmt.Errorf("unsupported command kind: %s", desc.Kind)
	}

	result.Duration = time.Since(startTime)
	result.Status = TaskStatusFor(err)

	if err != nil {
		result.Err = &ExecError{
			Task:     desc.Name,
			ExitCode: result.ExitCode,
			Output:   result.Output,
			Cause:    err,
		}
		if e.logger != nil {
			e.logger.WithTask(desc.Name).Error("Task failed",
				logger.WithField("error", err),
				logger.WithField("duration", result.Duration))
		}
		return result
	}

	if e.logger != nil {
		e.logger.WithTask(desc.Name).Success(fmt.Sprintf("Completed in %s", result.Duration))
	}
	return result
}

// TaskStatusFor maps an error to the settled task status
func TaskStatusFor(err error) types.TaskStatus {
	if err != nil {
		return types.TaskStatusFailed
	}
	return types.TaskStatusSucceeded
}

// runShell spawns a subprocess for the command text. Success is exit
// code zero; anything else fails carrying the exit code and the
// captured combined output.
func (e *Executor) runShell(ctx context.Context, desc types.Descriptor) (string, int, error) {
	cmd := e.createCommand(ctx, desc.Shell)
	cmd.Dir = e.workingDirectory

	// A nil snapshot inherits the parent environment; a non-nil one is
	// passed verbatim, even when empty.
	if e.environment != nil {
		env := make([]string, 0, len(e.environment))
		for k, v := range e.environment {
			env = append(env, fmt.Sprintf("%s=%s", k, v))
		}
		cmd.Env = env
	}

	var outputBuffer bytes.Buffer
	cmd.Stdout = &outputBuffer
	cmd.Stderr = &outputBuffer

	if e.logger != nil {
		e.logger.WithTask(desc.Name).Debug(fmt.Sprintf("Executing: %s", desc.Shell))
	}

	err := cmd.Run()
	output := outputBuffer.String()

	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return output, exitCode, fmt.Errorf("command failed: %w", err)
	}

	return output, 0, nil
}

// runCallable invokes the referenced function with its parameter bag.
// A panicking callable is recovered into a failure rather than
// crashing the run.
func (e *Executor) runCallable(ctx context.Context, desc types.Descriptor) (err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			if e.logger != nil {
				e.logger.WithTask(desc.Name).Error("Callable panic recovered",
					logger.WithField("panic", r),
					logger.WithField("stack_trace", string(stack)))
			}
			err = fmt.Errorf("callable panic: %v", r)
		}
	}()

	return desc.Callable(ctx, desc.Options)
}

// createCommand creates an exec.Cmd from a command string
func (e *Executor) createCommand(ctx context.Context, command string) *exec.Cmd {
	if strings.ContainsAny(command, "&|;<>$`\"'") {
		// Compound command line - let the shell interpret it
		return exec.CommandContext(ctx, "sh", "-c", command)
	}

	parts := strings.Fields(command)
	if len(parts) == 0 {
		return exec.CommandContext(ctx, "sh", "-c", command)
	}
	return exec.CommandContext(ctx, parts[0], parts[1:]...)
}
