// Copyright (c) 2025 SiteSentry
// Licensed under the MIT License.

// Package tool defines function tools agents can expose to the model.
// Tools are registered explicitly with a JSON Schema; there is no
// reflection on Go function signatures.
package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sitesentry/safety-agents-go/model"
)

// Func is the handler a tool invokes. Arguments arrive as the decoded
// JSON object from the model's tool call.
type Func func(ctx context.Context, args map[string]any) (any, error)

// Tool is a callable function exposed to the model.
type Tool struct {
	Name        string
	Description string
	Parameters  Schema

	fn Func
}

// New creates a tool with an explicit parameter schema.
func New(name, description string, parameters Schema, fn Func) *Tool {
	if parameters == nil {
		parameters = NewSchema()
	}
	return &Tool{
		Name:        name,
		Description: description,
		Parameters:  parameters,
		fn:          fn,
	}
}

// Definition returns the wire-format tool definition sent to the model.
func (t *Tool) Definition() model.ToolDefinition {
	return model.ToolDefinition{
		Type: "function",
		Function: model.FunctionDefinition{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Parameters,
		},
	}
}

// Execute parses the raw JSON arguments and invokes the tool. The result
// is always a string suitable for a tool message: structured results are
// JSON-encoded, scalars are formatted, and handler errors become an
// "Error: ..." message rather than aborting the run.
func (t *Tool) Execute(ctx context.Context, rawArgs string) string {
	args, err := ParseArguments(rawArgs)
	if err != nil {
		args = map[string]any{}
	}

	result, err := t.fn(ctx, args)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	switch v := result.(type) {
	case string:
		return v
	case nil:
		return ""
	case map[string]any, []any:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("Error: failed to encode tool result: %v", err)
		}
		return string(encoded)
	default:
		encoded, err := json.Marshal(v)
		if err == nil {
			return string(encoded)
		}
		return fmt.Sprintf("%v", v)
	}
}

// ParseArguments decodes a tool call's raw JSON arguments. Empty input
// decodes to an empty object.
func ParseArguments(raw string) (map[string]any, error) {
	if raw == "" {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("invalid tool arguments: %w", err)
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}
