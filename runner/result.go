// Copyright (c) 2025 SiteSentry
// Licensed under the MIT License.

package runner

import (
	"github.com/sitesentry/safety-agents-go/model"
	"github.com/sitesentry/safety-agents-go/tracing"
)

// Result is the outcome of one agent's run.
type Result struct {
	// Output is the agent's final text, or a handoff acknowledgement
	// when HandoffTo is set.
	Output string

	// AgentName is the agent that produced the result.
	AgentName string

	// Messages is the full conversation history after the run,
	// including tool call results.
	Messages []model.Message

	// ToolCalls are the tool invocations this agent made.
	ToolCalls []tracing.ToolCallTrace

	// HandoffTo names the agent control should transfer to. Empty when
	// the run finished normally.
	HandoffTo string
}
