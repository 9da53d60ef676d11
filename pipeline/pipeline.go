// Copyright (c) 2025 SiteSentry
// Licensed under the MIT License.

// Package pipeline chains video analysis and the safety agent system
// into a single video-in, assessment-out flow.
package pipeline

import (
	"context"
	"fmt"

	"github.com/sitesentry/safety-agents-go/logging"
	"github.com/sitesentry/safety-agents-go/model"
	"github.com/sitesentry/safety-agents-go/runner"
	"github.com/sitesentry/safety-agents-go/safety"
	"github.com/sitesentry/safety-agents-go/tracing"
	"github.com/sitesentry/safety-agents-go/vision"
)

const scenarioPreamble = "Analyze this construction site scenario for safety hazards:\n\n"

// VideoAnalyzer produces a safety event from raw video. Satisfied by
// vision.Analyzer.
type VideoAnalyzer interface {
	AnalyzeVideo(ctx context.Context, video []byte, videoID string) (*vision.Event, error)
}

// Outcome is the full result of processing one video.
type Outcome struct {
	Event  *vision.Event        `json:"event"`
	Output string               `json:"agent_output"`
	Traces []tracing.AgentTrace `json:"trace"`
}

// Pipeline runs video analysis followed by the agent system.
type Pipeline struct {
	analyzer VideoAnalyzer
	provider model.Provider
	agents   *safety.Agents
	logger   logging.Logger
	opts     []runner.Option
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithRunnerOptions passes extra options to each per-call runner.
func WithRunnerOptions(opts ...runner.Option) PipelineOption {
	return func(p *Pipeline) {
		p.opts = append(p.opts, opts...)
	}
}

// New creates a pipeline over an analyzer, a model provider, and the
// safety agent graph.
func New(analyzer VideoAnalyzer, provider model.Provider, agents *safety.Agents, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		analyzer: analyzer,
		provider: provider,
		agents:   agents,
		logger:   logging.NewDefault(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process analyzes a video and routes the resulting event through the
// agent system. Each call gets a fresh trace recorder.
func (p *Pipeline) Process(ctx context.Context, video []byte, videoID string) (*Outcome, error) {
	event, err := p.analyzer.AnalyzeVideo(ctx, video, videoID)
	if err != nil {
		return nil, fmt.Errorf("video analysis failed: %w", err)
	}

	eventJSON, err := event.JSON()
	if err != nil {
		return nil, err
	}

	output, traces, err := p.runAgents(ctx, eventJSON)
	if err != nil {
		return nil, err
	}

	p.logger.Info("pipeline complete",
		"video_id", videoID,
		"safety_status", event.SafetyStatus,
		"agents", len(traces),
	)

	return &Outcome{
		Event:  event,
		Output: output,
		Traces: traces,
	}, nil
}

// AnalyzeScenario routes a text scenario through the agent system
// without the vision stage.
func (p *Pipeline) AnalyzeScenario(ctx context.Context, scenario string) (string, []tracing.AgentTrace, error) {
	return p.runAgents(ctx, scenario)
}

func (p *Pipeline) runAgents(ctx context.Context, scenario string) (string, []tracing.AgentTrace, error) {
	recorder := tracing.NewRecorder()
	opts := append([]runner.Option{
		runner.WithLogger(p.logger),
		runner.WithRecorder(recorder),
	}, p.opts...)
	run := runner.New(p.provider, opts...)

	result, err := run.RunWithHandoffs(ctx, p.agents.Router, scenarioPreamble+scenario, nil)
	if err != nil {
		return "", nil, fmt.Errorf("agent system failed: %w", err)
	}
	return result.Output, recorder.Traces(), nil
}
