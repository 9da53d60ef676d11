// Copyright (c) 2025 SiteSentry
// Licensed under the MIT License.

// Package conversation holds the ordered message history an agent run
// appends to. The history is the single source of truth for what the
// model has seen, including tool call results.
package conversation

import (
	"github.com/sitesentry/safety-agents-go/model"
)

// Context is an append-only conversation history plus free-form metadata.
// It is not safe for concurrent use.
type Context struct {
	messages []model.Message

	// Metadata carries run-scoped values that do not go to the model.
	Metadata map[string]any
}

// New creates an empty conversation context.
func New() *Context {
	return &Context{
		messages: []model.Message{},
		Metadata: map[string]any{},
	}
}

// NewFromMessages creates a context seeded with an existing history.
// The slice is copied so later appends do not alias the caller's slice.
func NewFromMessages(messages []model.Message) *Context {
	c := New()
	c.messages = append(c.messages, messages...)
	return c
}

// AddSystemMessage appends a system message.
func (c *Context) AddSystemMessage(content string) {
	c.messages = append(c.messages, model.Message{
		Role:    "system",
		Content: content,
	})
}

// AddUserMessage appends a user message.
func (c *Context) AddUserMessage(content string) {
	c.messages = append(c.messages, model.Message{
		Role:    "user",
		Content: content,
	})
}

// AddAssistantMessage appends an assistant message, optionally carrying
// tool calls the model requested.
func (c *Context) AddAssistantMessage(content string, toolCalls ...model.ToolCall) {
	msg := model.Message{
		Role:    "assistant",
		Content: content,
	}
	if len(toolCalls) > 0 {
		msg.ToolCalls = toolCalls
	}
	c.messages = append(c.messages, msg)
}

// AddToolMessage appends a tool result message linked to the tool call
// that produced it.
func (c *Context) AddToolMessage(toolCallID, name, content string) {
	c.messages = append(c.messages, model.Message{
		Role:       "tool",
		Content:    content,
		ToolCallID: toolCallID,
		Name:       name,
	})
}

// Messages returns a copy of the history.
func (c *Context) Messages() []model.Message {
	out := make([]model.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages in the history.
func (c *Context) Len() int {
	return len(c.messages)
}

// HasSystemMessage reports whether the history starts with a system
// message. Only the leading position counts; a system message buried
// mid-history does not suppress instruction seeding.
func (c *Context) HasSystemMessage() bool {
	return len(c.messages) > 0 && c.messages[0].Role == "system"
}

// Clone returns a context with a copied history and shared metadata values.
func (c *Context) Clone() *Context {
	clone := NewFromMessages(c.messages)
	for k, v := range c.Metadata {
		clone.Metadata[k] = v
	}
	return clone
}
