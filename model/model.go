// Copyright (c) 2025 SiteSentry
// Licensed under the MIT License.

// Package model defines the wire types exchanged with a chat-completion
// provider and the Provider call boundary the agent runner is built around.
package model

import (
	"context"
)

// Message represents one conversational turn.
type Message struct {
	// Role is one of system, user, assistant, tool.
	Role string `json:"role"`

	Content string `json:"content,omitempty"`

	// ToolCalls holds the tool invocations requested by an assistant turn.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// ToolCallID back-references the assistant tool call this tool turn
	// answers. Required when Role is tool.
	ToolCallID string `json:"tool_call_id,omitempty"`

	// Name is the tool identifier. Required when Role is tool.
	Name string `json:"name,omitempty"`
}

// ToolCall is a single tool invocation requested by the model.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// FunctionCall carries the requested function name and its raw JSON
// argument payload exactly as the model produced it.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolDefinition is a tool schema as advertised to the model.
type ToolDefinition struct {
	Type     string             `json:"type"`
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes one callable function to the model.
type FunctionDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Settings configures a single chat-completion call.
type Settings struct {
	// Model is the target model identifier.
	Model string

	// Temperature sets the sampling temperature.
	Temperature float32

	// MaxTokens bounds the completion length.
	MaxTokens int

	// Tools advertises the callable tool set for this call.
	Tools []ToolDefinition

	// ToolChoice controls tool selection ("auto" when tools are present).
	ToolChoice string
}

// Usage reports token consumption for one call.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Response is the model's answer to a single call: either assistant text
// or a batch of requested tool calls (carried on the Message).
type Response struct {
	Message Message
	Usage   Usage
}

// Provider is the single synchronous call boundary to a chat-completion
// endpoint. Any OpenAI-compatible backend can implement it.
type Provider interface {
	CreateChatCompletion(ctx context.Context, messages []Message, settings Settings) (*Response, error)
}
