// Copyright (c) 2025 SiteSentry
// Licensed under the MIT License.

package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitesentry/safety-agents-go/logging"
	"github.com/sitesentry/safety-agents-go/model"
	"github.com/sitesentry/safety-agents-go/safety"
	"github.com/sitesentry/safety-agents-go/vision"
)

type stubAnalyzer struct {
	event *vision.Event
	err   error
}

func (s *stubAnalyzer) AnalyzeVideo(ctx context.Context, video []byte, videoID string) (*vision.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	event := *s.event
	event.VideoID = videoID
	return &event, nil
}

type scriptedProvider struct {
	responses []model.Response
	index     int
	requests  []model.Settings
	messages  [][]model.Message
}

func (s *scriptedProvider) CreateChatCompletion(ctx context.Context, messages []model.Message, settings model.Settings) (*model.Response, error) {
	s.requests = append(s.requests, settings)
	s.messages = append(s.messages, messages)
	if s.index >= len(s.responses) {
		return nil, errors.New("no scripted responses left")
	}
	resp := s.responses[s.index]
	s.index++
	return &resp, nil
}

func textTurn(content string) model.Response {
	return model.Response{Message: model.Message{Role: "assistant", Content: content}}
}

func toolTurn(id, name, args string) model.Response {
	return model.Response{Message: model.Message{
		Role: "assistant",
		ToolCalls: []model.ToolCall{{
			ID:   id,
			Type: "function",
			Function: model.FunctionCall{Name: name, Arguments: args},
		}},
	}}
}

func testEvent() *vision.Event {
	return &vision.Event{
		VideoID:          "unset",
		SafetyStatus:     vision.StatusHigh,
		SceneDescription: "Worker unconscious near the generator",
		Predictions: vision.Prediction{
			Probability:  0.9,
			IncidentType: "Person Down/Injured",
		},
		SafetyResponse: "Dispatch medical assistance immediately.",
	}
}

func newTestPipeline(provider model.Provider, analyzer VideoAnalyzer) *Pipeline {
	agents := safety.BuildAgents(safety.NewNotifier(safety.WithLogger(logging.NopLogger{})))
	return New(analyzer, provider, agents, WithLogger(logging.NopLogger{}))
}

func TestProcessRoutesEventThroughAgents(t *testing.T) {
	provider := &scriptedProvider{responses: []model.Response{
		// Router hands off to EMS.
		toolTurn("call_1", "handoff_to_ems_safety_agent", `{"reason":"worker down"}`),
		// EMS agent calls its detection tool, then concludes.
		toolTurn("call_2", "detect_ems_hazard", `{"description":"Worker unconscious near the generator"}`),
		textTurn("911 dispatched. First aid responder assigned."),
	}}

	p := newTestPipeline(provider, &stubAnalyzer{event: testEvent()})
	outcome, err := p.Process(context.Background(), []byte("fake video"), "video_42")
	require.NoError(t, err)

	assert.Equal(t, "video_42", outcome.Event.VideoID)
	assert.Equal(t, "911 dispatched. First aid responder assigned.", outcome.Output)

	require.Len(t, outcome.Traces, 2)
	assert.Equal(t, "Safety Router Agent", outcome.Traces[0].AgentName)
	assert.Equal(t, "EMS Safety Agent", outcome.Traces[0].HandoffTo)
	assert.Equal(t, "EMS Safety Agent", outcome.Traces[1].AgentName)
	require.Len(t, outcome.Traces[1].ToolCalls, 1)
	assert.Equal(t, "detect_ems_hazard", outcome.Traces[1].ToolCalls[0].ToolName)

	// The router's first message carries the event JSON.
	first := provider.messages[0]
	require.NotEmpty(t, first)
	userMsg := first[len(first)-1]
	assert.Equal(t, "user", userMsg.Role)
	assert.True(t, strings.HasPrefix(userMsg.Content, "Analyze this construction site scenario for safety hazards:"))
	assert.Contains(t, userMsg.Content, "Worker unconscious near the generator")
}

func TestProcessAnalyzerFailure(t *testing.T) {
	p := newTestPipeline(&scriptedProvider{}, &stubAnalyzer{err: errors.New("gemini unavailable")})
	_, err := p.Process(context.Background(), []byte("fake video"), "video_1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "video analysis failed")
}

func TestAnalyzeScenarioTextOnly(t *testing.T) {
	provider := &scriptedProvider{responses: []model.Response{
		textTurn("No hazards detected. Continue normal operations."),
	}}

	p := newTestPipeline(provider, &stubAnalyzer{event: testEvent()})
	output, traces, err := p.AnalyzeScenario(context.Background(), "Quiet site, routine work.")
	require.NoError(t, err)

	assert.Equal(t, "No hazards detected. Continue normal operations.", output)
	require.Len(t, traces, 1)
	assert.Equal(t, "Safety Router Agent", traces[0].AgentName)
}
