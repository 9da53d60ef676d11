// Copyright (c) 2025 SiteSentry
// Licensed under the MIT License.

// Package runner executes agents: it drives the model loop, dispatches
// tool calls, and chains handoffs between agents.
package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sitesentry/safety-agents-go/agent"
	"github.com/sitesentry/safety-agents-go/conversation"
	"github.com/sitesentry/safety-agents-go/logging"
	"github.com/sitesentry/safety-agents-go/model"
	"github.com/sitesentry/safety-agents-go/tool"
	"github.com/sitesentry/safety-agents-go/tracing"
)

const (
	// DefaultMaxIterations caps the model loop per agent.
	DefaultMaxIterations = 10

	// DefaultMaxHandoffs caps the number of control transfers per run.
	DefaultMaxHandoffs = 5
)

// Runner executes agents against a model provider.
type Runner struct {
	provider      model.Provider
	maxIterations int
	maxHandoffs   int
	logger        logging.Logger
	recorder      *tracing.Recorder
}

// Option configures a Runner.
type Option func(*Runner)

// WithMaxIterations overrides the per-agent iteration cap.
func WithMaxIterations(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxIterations = n
		}
	}
}

// WithMaxHandoffs overrides the handoff chain cap.
func WithMaxHandoffs(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxHandoffs = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithRecorder attaches a trace recorder.
func WithRecorder(recorder *tracing.Recorder) Option {
	return func(r *Runner) {
		r.recorder = recorder
	}
}

// New creates a runner with default caps.
func New(provider model.Provider, opts ...Option) *Runner {
	r := &Runner{
		provider:      provider,
		maxIterations: DefaultMaxIterations,
		maxHandoffs:   DefaultMaxHandoffs,
		logger:        logging.NewDefault(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes a single agent without handoff tools. The agent's peers,
// if any, are invisible to the model.
func (r *Runner) Run(ctx context.Context, a *agent.Agent, input string, conv *conversation.Context) (*Result, error) {
	return r.run(ctx, a, input, conv, a.ToolSet())
}

// RunWithHandoffs executes an agent and follows handoff requests to its
// peers, threading the full conversation history into each successor.
// Handoffs are single-level: only the direct peers of the agent that
// requested delegation are candidates.
func (r *Runner) RunWithHandoffs(ctx context.Context, a *agent.Agent, input string, conv *conversation.Context) (*Result, error) {
	current := a
	currentInput := input
	currentConv := conv

	for count := 0; count < r.maxHandoffs; {
		result, err := r.run(ctx, current, currentInput, currentConv, current.ToolSetWithHandoffs())
		if err != nil {
			return nil, err
		}
		if result.HandoffTo == "" {
			return result, nil
		}

		target := current.GetHandoffAgent(result.HandoffTo)
		if target == nil {
			// The destination was valid when the tool fired but is no
			// longer a peer. Surface the last result rather than guess.
			r.logger.Warn("handoff target vanished", "agent", current.Name, "target", result.HandoffTo)
			return result, nil
		}

		r.logger.Info("handing off",
			"from", current.Name,
			"to", target.Name,
		)

		count++
		currentConv = conversation.NewFromMessages(result.Messages)
		currentInput = fmt.Sprintf("[Continuing from %s]", current.Name)
		current = target
	}

	return nil, fmt.Errorf("handoff chain exceeded %d transfers: %w", r.maxHandoffs, ErrMaxHandoffsExceeded)
}

func (r *Runner) run(ctx context.Context, a *agent.Agent, input string, conv *conversation.Context, ts *agent.ToolSet) (*Result, error) {
	if conv == nil {
		conv = conversation.New()
	} else {
		conv = conv.Clone()
	}

	if !conv.HasSystemMessage() && a.Instructions != "" {
		conv.AddSystemMessage(a.Instructions)
	}
	if input != "" {
		conv.AddUserMessage(input)
	}

	if r.recorder != nil {
		r.recorder.StartAgent(a.Name)
	}

	var toolCalls []tracing.ToolCallTrace

	for iteration := 1; iteration <= r.maxIterations; iteration++ {
		if r.recorder != nil {
			r.recorder.SetIteration(iteration)
		}
		r.logger.Debug("model call", "agent", a.Name, "iteration", iteration)

		resp, err := r.callModel(ctx, a, conv, ts)
		if err != nil {
			if r.recorder != nil {
				r.recorder.EndAgent("", "")
			}
			return nil, fmt.Errorf("agent '%s' model call failed: %w", a.Name, err)
		}

		if len(resp.Message.ToolCalls) == 0 {
			if r.recorder != nil {
				r.recorder.EndAgent(resp.Message.Content, "")
			}
			conv.AddAssistantMessage(resp.Message.Content)
			return &Result{
				Output:    resp.Message.Content,
				AgentName: a.Name,
				Messages:  conv.Messages(),
				ToolCalls: toolCalls,
			}, nil
		}

		conv.AddAssistantMessage(resp.Message.Content, resp.Message.ToolCalls...)

		for _, tc := range resp.Message.ToolCalls {
			name := tc.Function.Name
			resolved, ok := ts.Resolve(name)
			if !ok {
				if agent.IsHandoffToolName(name) {
					if r.recorder != nil {
						r.recorder.EndAgent("", "")
					}
					return nil, &HandoffError{Target: agent.HandoffTarget(name)}
				}
				r.logger.Warn("unknown tool requested", "agent", a.Name, "tool", name)
				conv.AddToolMessage(tc.ID, name, fmt.Sprintf("Error: Tool '%s' not found", name))
				continue
			}

			if resolved.Kind == agent.KindHandoff {
				output := agent.HandoffAcknowledgement(resolved.Target, tc.Function.Arguments)
				if r.recorder != nil {
					r.recorder.EndAgent(output, resolved.Target.Name)
				}
				return &Result{
					Output:    output,
					AgentName: a.Name,
					Messages:  conv.Messages(),
					ToolCalls: toolCalls,
					HandoffTo: resolved.Target.Name,
				}, nil
			}

			trace := r.executeTool(ctx, resolved.Tool, tc)
			toolCalls = append(toolCalls, trace)
			if r.recorder != nil {
				r.recorder.RecordToolCall(trace)
			}
			conv.AddToolMessage(tc.ID, name, trace.Result)
		}
	}

	if r.recorder != nil {
		r.recorder.EndAgent("", "")
	}
	return nil, fmt.Errorf("agent '%s' exceeded %d iterations: %w", a.Name, r.maxIterations, ErrMaxIterationsExceeded)
}

func (r *Runner) callModel(ctx context.Context, a *agent.Agent, conv *conversation.Context, ts *agent.ToolSet) (*model.Response, error) {
	settings := model.Settings{
		Model:       a.Model,
		Temperature: a.Temperature,
		MaxTokens:   a.MaxTokens,
	}
	if defs := ts.Definitions(); len(defs) > 0 {
		settings.Tools = defs
		settings.ToolChoice = "auto"
	}
	return r.provider.CreateChatCompletion(ctx, conv.Messages(), settings)
}

func (r *Runner) executeTool(ctx context.Context, t *tool.Tool, tc model.ToolCall) tracing.ToolCallTrace {
	args, err := tool.ParseArguments(tc.Function.Arguments)
	start := time.Now()
	result := t.Execute(ctx, tc.Function.Arguments)
	duration := time.Since(start)

	trace := tracing.ToolCallTrace{
		ToolName:  tc.Function.Name,
		Arguments: args,
		Result:    result,
		Timestamp: start,
		Duration:  duration,
		Success:   !strings.HasPrefix(result, "Error"),
	}
	if err != nil {
		trace.Arguments = map[string]any{}
	}
	if !trace.Success {
		trace.Err = result
	}

	r.logger.Debug("tool executed",
		"tool", tc.Function.Name,
		"success", trace.Success,
		"duration", duration,
	)
	return trace
}
