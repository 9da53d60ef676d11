// Copyright (c) 2025 SiteSentry
// Licensed under the MIT License.

// Package agent defines agents: a name, instructions, model settings,
// the tools the agent can call, and the peers it can hand off to.
package agent

import (
	"strings"

	"github.com/sitesentry/safety-agents-go/tool"
)

// DefaultModel is the model used when an agent does not set one.
const DefaultModel = "nvidia/nvidia-nemotron-nano-9b-v2"

const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 2048
)

// Agent is a configured participant in a run. Agents are built once and
// treated as immutable while a run is in flight; per-call tool sets are
// derived, never written back.
type Agent struct {
	Name         string
	Instructions string

	Model       string
	Temperature float32
	MaxTokens   int

	Tools    []*tool.Tool
	Handoffs []*Agent

	// HandoffDescription tells a routing agent when to delegate here.
	// Agents without one cannot be handed off to.
	HandoffDescription string
}

// New creates an agent with default model settings.
func New(name, instructions string) *Agent {
	return &Agent{
		Name:         name,
		Instructions: instructions,
		Model:        DefaultModel,
		Temperature:  defaultTemperature,
		MaxTokens:    defaultMaxTokens,
	}
}

// WithModel sets the model name.
func (a *Agent) WithModel(model string) *Agent {
	a.Model = model
	return a
}

// WithTemperature sets the sampling temperature.
func (a *Agent) WithTemperature(temperature float32) *Agent {
	a.Temperature = temperature
	return a
}

// WithMaxTokens sets the completion token limit.
func (a *Agent) WithMaxTokens(maxTokens int) *Agent {
	a.MaxTokens = maxTokens
	return a
}

// WithHandoffDescription sets the description routing agents see.
func (a *Agent) WithHandoffDescription(description string) *Agent {
	a.HandoffDescription = description
	return a
}

// AddTool registers a tool on the agent.
func (a *Agent) AddTool(t *tool.Tool) *Agent {
	a.Tools = append(a.Tools, t)
	return a
}

// AddHandoffs registers peers this agent can delegate to.
func (a *Agent) AddHandoffs(agents ...*Agent) *Agent {
	a.Handoffs = append(a.Handoffs, agents...)
	return a
}

// GetTool returns the named tool, or nil.
func (a *Agent) GetTool(name string) *tool.Tool {
	for _, t := range a.Tools {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// GetHandoffAgent returns the handoff peer with the given name, matched
// case-insensitively, or nil.
func (a *Agent) GetHandoffAgent(name string) *Agent {
	for _, peer := range a.Handoffs {
		if strings.EqualFold(peer.Name, name) {
			return peer
		}
	}
	return nil
}
