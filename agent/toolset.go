// Copyright (c) 2025 SiteSentry
// Licensed under the MIT License.

package agent

import (
	"fmt"
	"strings"

	"github.com/sitesentry/safety-agents-go/model"
	"github.com/sitesentry/safety-agents-go/tool"
)

// handoffToolPrefix marks synthetic delegation tools on the wire. The
// prefix exists only at the model boundary; resolution happens against
// the agent graph, not by string parsing elsewhere.
const handoffToolPrefix = "handoff_to_"

// HandoffToolName returns the wire name of the synthetic tool that
// delegates to the named agent.
func HandoffToolName(agentName string) string {
	normalized := strings.ReplaceAll(strings.ToLower(agentName), " ", "_")
	return handoffToolPrefix + normalized
}

// IsHandoffToolName reports whether a tool call name uses the handoff
// naming convention.
func IsHandoffToolName(name string) bool {
	return strings.HasPrefix(name, handoffToolPrefix)
}

// HandoffTarget extracts the normalized target name from a handoff tool
// call name.
func HandoffTarget(name string) string {
	return strings.TrimPrefix(name, handoffToolPrefix)
}

// ToolKind distinguishes regular tools from delegation tools.
type ToolKind int

const (
	// KindTool is a regular function tool.
	KindTool ToolKind = iota
	// KindHandoff is a synthetic tool that transfers control to a peer.
	KindHandoff
)

// Resolved is the outcome of looking up a tool call name in a ToolSet.
type Resolved struct {
	Kind ToolKind

	// Tool is set for KindTool.
	Tool *tool.Tool

	// Target is the destination agent for KindHandoff.
	Target *Agent
}

// ToolSet is the immutable set of tools in effect for one model call.
// It is built fresh per call; agent configuration is never mutated to
// inject delegation tools.
type ToolSet struct {
	tools    []*tool.Tool
	handoffs map[string]*Agent
	defs     []model.ToolDefinition
}

// ToolSet returns the agent's own tools with no delegation tools
// advertised to the model. Handoff requests still resolve against the
// agent's peers so a delegation the model improvises anyway is honored
// rather than failed.
func (a *Agent) ToolSet() *ToolSet {
	ts := &ToolSet{
		tools:    a.Tools,
		handoffs: map[string]*Agent{},
	}
	for _, t := range a.Tools {
		ts.defs = append(ts.defs, t.Definition())
	}
	for _, peer := range a.Handoffs {
		ts.handoffs[HandoffToolName(peer.Name)] = peer
	}
	return ts
}

// ToolSetWithHandoffs returns the agent's tools plus one synthetic
// delegation tool per handoff peer that declares a HandoffDescription.
func (a *Agent) ToolSetWithHandoffs() *ToolSet {
	ts := a.ToolSet()
	for _, peer := range a.Handoffs {
		if peer.HandoffDescription == "" {
			continue
		}
		ts.defs = append(ts.defs, handoffToolDefinition(HandoffToolName(peer.Name), peer))
	}
	return ts
}

// Resolve maps a tool call name to a regular tool or a handoff target.
// The boolean is false when the name matches nothing in the set.
func (ts *ToolSet) Resolve(name string) (Resolved, bool) {
	if target, ok := ts.handoffs[name]; ok {
		return Resolved{Kind: KindHandoff, Target: target}, true
	}
	for _, t := range ts.tools {
		if t.Name == name {
			return Resolved{Kind: KindTool, Tool: t}, true
		}
	}
	return Resolved{}, false
}

// Definitions returns the wire-format definitions for every tool in the
// set, regular tools first.
func (ts *ToolSet) Definitions() []model.ToolDefinition {
	return ts.defs
}

func handoffToolDefinition(name string, target *Agent) model.ToolDefinition {
	description := fmt.Sprintf("Hand off the conversation to %s. %s", target.Name, target.HandoffDescription)
	schema := tool.NewSchema().String("reason", "Why this agent should take over", false)
	return model.ToolDefinition{
		Type: "function",
		Function: model.FunctionDefinition{
			Name:        name,
			Description: description,
			Parameters:  schema,
		},
	}
}

// HandoffAcknowledgement is the assistant-visible acknowledgement text
// recorded when a delegation tool fires.
func HandoffAcknowledgement(target *Agent, rawArgs string) string {
	reason := ""
	if args, err := tool.ParseArguments(rawArgs); err == nil {
		reason, _ = args["reason"].(string)
	}
	if reason != "" {
		return fmt.Sprintf("Handing off to %s: %s", target.Name, reason)
	}
	return fmt.Sprintf("Handing off to %s", target.Name)
}
