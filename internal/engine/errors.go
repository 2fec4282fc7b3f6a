package engine

import (
	"fmt"
	"strings"
)

// AbortError reports that a priority group failed and the remaining
// groups were never entered. Every sibling of the failing task still
// settled before the abort was surfaced.
type AbortError struct {
	Failed  []string
	Skipped []string
}

func (e *AbortError) Error() string {
	msg := fmt.Sprintf("run aborted: task(s) failed: %s", strings.Join(e.Failed, ", "))
	if len(e.Skipped) > 0 {
		msg += fmt.Sprintf(" (%d task(s) skipped)", len(e.Skipped))
	}
	return msg
}
