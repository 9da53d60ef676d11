// Copyright (c) 2025 SiteSentry
// Licensed under the MIT License.

package runner

import (
	"errors"
	"fmt"
)

// ErrMaxIterationsExceeded is returned when an agent's model loop runs
// past its iteration cap without producing a final answer.
var ErrMaxIterationsExceeded = errors.New("max iterations exceeded")

// ErrMaxHandoffsExceeded is returned when a run chains more handoffs
// than the configured cap.
var ErrMaxHandoffsExceeded = errors.New("max handoffs exceeded")

// HandoffError signals that the model requested delegation to an agent
// that is not among the caller's handoff peers. This is fatal: the
// requested control transfer cannot be honored.
type HandoffError struct {
	Target string
}

func (e *HandoffError) Error() string {
	return fmt.Sprintf("handoff agent '%s' not found", e.Target)
}
