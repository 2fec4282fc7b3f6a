// Package engine implements the task scheduler: priority grouping,
// same-priority concurrency with a completion barrier, and fail-fast
// across groups.
package engine

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	rctx "github.com/ghostmind-dev/run/pkg/context"
	"github.com/ghostmind-dev/run/pkg/invocation"
	"github.com/ghostmind-dev/run/pkg/logger"
	"github.com/ghostmind-dev/run/pkg/task"
	"github.com/ghostmind-dev/run/pkg/types"
)

// TaskExecutor runs one normalized descriptor to completion
type TaskExecutor interface {
	Execute(ctx context.Context, desc types.Descriptor) types.ExecutionResult
}

// Scheduler drives one orchestration call: normalize, select, group by
// priority, run groups in ascending order with a barrier between them.
// It holds no state between invocations.
type Scheduler struct {
	logger          logger.Logger
	executor        TaskExecutor
	maxParallel     int
	defaultPriority int
}

// NewScheduler creates a scheduler around an executor
func NewScheduler(log logger.Logger, exec TaskExecutor, cfg *types.SchedulingConfig) *Scheduler {
	maxParallel := 0
	if cfg != nil {
		maxParallel = cfg.MaxParallel
	}

	return &Scheduler{
		logger:          log,
		executor:        exec,
		maxParallel:     maxParallel,
		defaultPriority: cfg.EffectiveDefaultPriority(),
	}
}

// Start runs the orchestration map selected by the invocation.
//
// Selection and normalization errors surface before any task runs.
// When a group fails, the returned outcome carries every settled
// result plus the skipped task names, and the error is an *AbortError.
func (s *Scheduler) Start(ctx context.Context, inv *invocation.Context, tasks map[string]types.Spec) (*types.RunOutcome, error) {
	runID := rctx.GenerateRunID()
	ctx = rctx.WithRunID(ctx, runID)
	ctx = rctx.WithStartTime(ctx, time.Now())

	startTime := time.Now()

	if s.logger != nil {
		phaseCtx := rctx.WithPhase(ctx, string(types.RunPhaseSelecting))
		logger.WithContext(phaseCtx, s.logger).Debug("Selecting tasks",
			logger.WithField("defined", len(tasks)))
	}

	descriptors, err := task.Normalize(tasks, s.defaultPriority)
	if err != nil {
		return nil, err
	}

	selected, err := task.Select(inv, descriptors)
	if err != nil {
		return nil, err
	}

	groups, priorities := groupByPriority(selected)

	if s.logger != nil {
		phaseCtx := rctx.WithPhase(ctx, string(types.RunPhaseGrouping))
		logger.WithContext(phaseCtx, s.logger).Debug("Grouped tasks",
			logger.WithField("selected", len(selected)),
			logger.WithField("groups", len(priorities)))
	}

	outcome := &types.RunOutcome{
		ID:      runID,
		Success: true,
	}

	for i, priority := range priorities {
		group := groups[priority]

		if s.logger != nil {
			phaseCtx := rctx.WithPhase(ctx, string(types.RunPhaseRunning))
			logger.WithContext(phaseCtx, s.logger).Debug("Starting priority group",
				logger.WithField("priority", priority),
				logger.WithField("tasks", len(group)))
		}

		results := s.runGroup(ctx, group)
		outcome.Results = append(outcome.Results, results...)

		for _, r := range results {
			if r.Failed() {
				outcome.Success = false
				outcome.Failed = append(outcome.Failed, r.Task)
			}
		}

		// Barrier released; a failed group halts everything after it.
		if !outcome.Success {
			for _, later := range priorities[i+1:] {
				for _, d := range groups[later] {
					outcome.Skipped = append(outcome.Skipped, d.Name)
					outcome.Results = append(outcome.Results, types.ExecutionResult{
						ID:     uuid.New().String(),
						Task:   d.Name,
						Status: types.TaskStatusSkipped,
					})
				}
			}
			break
		}
	}

	outcome.Duration = time.Since(startTime)

	settledCtx := rctx.WithPhase(ctx, string(types.RunPhaseSettled))

	if !outcome.Success {
		if s.logger != nil {
			logger.WithContext(settledCtx, s.logger).Error("Run failed",
				logger.WithField("failed", outcome.Failed),
				logger.WithField("skipped", len(outcome.Skipped)))
		}
		return outcome, &AbortError{Failed: outcome.Failed, Skipped: outcome.Skipped}
	}

	if s.logger != nil {
		logger.WithContext(settledCtx, s.logger).Success("Run completed",
			logger.WithField("tasks", len(outcome.Results)),
			logger.WithField("duration", outcome.Duration))
	}
	return outcome, nil
}

// runGroup launches every task in the group concurrently and waits for
// all of them to settle. This is the hard synchronization barrier: no
// task outside the group starts before it returns, and a failing task
// never interrupts its siblings.
func (s *Scheduler) runGroup(ctx context.Context, group []types.Descriptor) []types.ExecutionResult {
	results := make([]types.ExecutionResult, len(group))

	sg := NewSafeGroup(s.logger)
	if s.maxParallel > 0 {
		sg.SetLimit(s.maxParallel)
	}

	for i, desc := range group {
		i, desc := i, desc
		sg.Go(func() error {
			results[i] = s.executor.Execute(rctx.WithTask(ctx, desc.Name), desc)
			return results[i].Err
		})
	}

	// Errors are already captured per result; Wait only enforces the barrier.
	_ = sg.Wait()

	return results
}

// groupByPriority partitions descriptors into priority groups and
// returns the distinct priorities in ascending order.
func groupByPriority(descriptors []types.Descriptor) (map[int][]types.Descriptor, []int) {
	groups := make(map[int][]types.Descriptor)
	for _, d := range descriptors {
		groups[d.Priority] = append(groups[d.Priority], d)
	}

	priorities := make([]int, 0, len(groups))
	for p := range groups {
		priorities = append(priorities, p)
	}
	sort.Ints(priorities)

	return groups, priorities
}
