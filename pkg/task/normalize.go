// Package task normalizes heterogeneous task definitions, selects the
// run-set for an invocation, and hosts the consumer module registry.
package task

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ghostmind-dev/run/pkg/invocation"
	"github.com/ghostmind-dev/run/pkg/types"
	"mvdan.cc/sh/v3/syntax"
)

// Shell builds a shell-form spec. The command text is executed as a
// subprocess at run time.
func Shell(text string) types.Spec {
	return types.Spec{ShellText: text}
}

// Call builds a callable-form spec invoked in-process
func Call(fn types.CallableFunc) types.Spec {
	return types.Spec{Callable: fn}
}

// Noop builds a placeholder spec that always succeeds without running anything
func Noop() types.Spec {
	return types.Spec{}
}

// Normalize converts a raw orchestration map into uniform descriptors.
// Entries are returned in name order so launch order within a priority
// group is deterministic. Shell text is syntax-checked here so a
// malformed command line fails before any task runs.
func Normalize(tasks map[string]types.Spec, defaultPriority int) ([]types.Descriptor, error) {
	names := make([]string, 0, len(tasks))
	for name := range tasks {
		names = append(names, name)
	}
	sort.Strings(names)

	parser := syntax.NewParser()
	descriptors := make([]types.Descriptor, 0, len(tasks))

	for _, name := range names {
		spec := tasks[name]

		if spec.ShellText != "" && spec.Callable != nil {
			return nil, fmt.Errorf("task %q: %w", name, ErrAmbiguousSpec)
		}

		desc := types.Descriptor{
			Name:     name,
			Priority: defaultPriority,
			Options:  spec.Options,
		}
		if spec.Priority != nil {
			desc.Priority = *spec.Priority
		}

		switch {
		case spec.ShellText != "":
			if _, err := parser.Parse(strings.NewReader(spec.ShellText), name); err != nil {
				return nil, fmt.Errorf("task %q: invalid shell command: %w", name, err)
			}
			desc.Kind = types.CommandKindShell
			desc.Shell = spec.ShellText
			// Parameter bags only apply to callables.
			desc.Options = nil
		case spec.Callable != nil:
			desc.Kind = types.CommandKindCallable
			desc.Callable = spec.Callable
		default:
			desc.Kind = types.CommandKindNoop
		}

		descriptors = append(descriptors, desc)
	}

	return descriptors, nil
}

// RunAllFlag is the invocation flag that selects every task in the map
const RunAllFlag = "all"

// Select decides the run-set for an invocation. Positional arguments
// naming tasks select exactly those tasks; the run-everything flag
// selects the whole map. With neither, selection fails closed and
// reports the available names. Priorities are kept intact for grouping.
func Select(inv *invocation.Context, descriptors []types.Descriptor) ([]types.Descriptor, error) {
	byName := make(map[string]types.Descriptor, len(descriptors))
	for _, d := range descriptors {
		byName[d.Name] = d
	}

	if names := inv.Positional(); len(names) > 0 {
		selected := make([]types.Descriptor, 0, len(names))
		seen := make(map[string]bool, len(names))
		for _, name := range names {
			d, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrTaskNotFound, name)
			}
			if seen[name] {
				continue
			}
			seen[name] = true
			selected = append(selected, d)
		}
		return selected, nil
	}

	if inv.Has(RunAllFlag) {
		out := make([]types.Descriptor, len(descriptors))
		copy(out, descriptors)
		return out, nil
	}

	available := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		available = append(available, d.Name)
	}
	return nil, &NoSelectionError{Available: available}
}
