// Copyright (c) 2025 SiteSentry
// Licensed under the MIT License.

// Package tracing records per-agent execution traces: iterations, tool
// calls with timing, and handoff destinations. Traces survive across a
// handoff chain so a full run can be reported end to end.
package tracing

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ToolCallTrace records one tool invocation inside an agent run.
type ToolCallTrace struct {
	ToolName  string         `json:"tool_name"`
	Arguments map[string]any `json:"arguments,omitempty"`
	Result    string         `json:"result,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Duration  time.Duration  `json:"duration_ns"`
	Success   bool           `json:"success"`
	Err       string         `json:"error,omitempty"`
}

// AgentTrace records one agent's slice of a run.
type AgentTrace struct {
	ID          string          `json:"id"`
	AgentName   string          `json:"agent_name"`
	StartTime   time.Time       `json:"start_time"`
	EndTime     time.Time       `json:"end_time"`
	Duration    time.Duration   `json:"duration_ns"`
	Iterations  int             `json:"iterations"`
	ToolCalls   []ToolCallTrace `json:"tool_calls,omitempty"`
	HandoffTo   string          `json:"handoff_to,omitempty"`
	FinalOutput string          `json:"final_output,omitempty"`
}

// Recorder collects agent traces for a run. Safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	traces  []AgentTrace
	current *AgentTrace
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// StartAgent begins a trace for the named agent and returns its id.
func (r *Recorder) StartAgent(agentName string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = &AgentTrace{
		ID:        uuid.New().String(),
		AgentName: agentName,
		StartTime: time.Now(),
	}
	return r.current.ID
}

// SetIteration updates the iteration count on the active trace.
func (r *Recorder) SetIteration(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current != nil {
		r.current.Iterations = n
	}
}

// RecordToolCall appends a tool invocation to the active trace.
func (r *Recorder) RecordToolCall(tc ToolCallTrace) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current != nil {
		r.current.ToolCalls = append(r.current.ToolCalls, tc)
	}
}

// EndAgent closes the active trace with its output and optional handoff
// destination.
func (r *Recorder) EndAgent(output, handoffTo string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return
	}
	r.current.EndTime = time.Now()
	r.current.Duration = r.current.EndTime.Sub(r.current.StartTime)
	r.current.FinalOutput = output
	r.current.HandoffTo = handoffTo
	r.traces = append(r.traces, *r.current)
	r.current = nil
}

// Traces returns a copy of the completed traces.
func (r *Recorder) Traces() []AgentTrace {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]AgentTrace, len(r.traces))
	copy(out, r.traces)
	return out
}

// Reset discards all recorded traces.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.traces = nil
	r.current = nil
}

// Summary renders a human-readable report of the run.
func (r *Recorder) Summary() string {
	traces := r.Traces()

	var b strings.Builder
	b.WriteString("=== Execution Trace Summary ===\n")
	if len(traces) == 0 {
		b.WriteString("No agents executed.\n")
		return b.String()
	}

	var total time.Duration
	for i, tr := range traces {
		total += tr.Duration
		fmt.Fprintf(&b, "\n[%d] Agent: %s\n", i+1, tr.AgentName)
		fmt.Fprintf(&b, "    Duration: %s\n", tr.Duration.Round(time.Millisecond))
		fmt.Fprintf(&b, "    Iterations: %d\n", tr.Iterations)
		if len(tr.ToolCalls) > 0 {
			fmt.Fprintf(&b, "    Tool calls: %d\n", len(tr.ToolCalls))
			for _, tc := range tr.ToolCalls {
				status := "ok"
				if !tc.Success {
					status = "error"
				}
				fmt.Fprintf(&b, "      - %s (%s, %s)\n", tc.ToolName, status, tc.Duration.Round(time.Millisecond))
			}
		}
		if tr.HandoffTo != "" {
			fmt.Fprintf(&b, "    Handed off to: %s\n", tr.HandoffTo)
		}
	}
	fmt.Fprintf(&b, "\nAgents executed: %d\n", len(traces))
	fmt.Fprintf(&b, "Total duration: %s\n", total.Round(time.Millisecond))
	return b.String()
}
