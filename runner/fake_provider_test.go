// Copyright (c) 2025 SiteSentry
// Licensed under the MIT License.

package runner

import (
	"context"
	"fmt"
	"sync"

	"github.com/sitesentry/safety-agents-go/model"
)

// FakeProvider is a scripted model provider for tests. Each call pops
// the next queued response; the last response repeats once the queue
// is exhausted.
type FakeProvider struct {
	mu        sync.Mutex
	responses []model.Response
	index     int

	// CallCount is the number of completions requested.
	CallCount int

	// Requests records the messages and settings of every call.
	Requests []FakeRequest

	// Err, when set, is returned by every call.
	Err error
}

type FakeRequest struct {
	Messages []model.Message
	Settings model.Settings
}

func NewFakeProvider() *FakeProvider {
	return &FakeProvider{}
}

// QueueResponse appends a scripted response.
func (f *FakeProvider) QueueResponse(resp model.Response) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, resp)
}

// QueueTextResponse appends a plain assistant text turn.
func (f *FakeProvider) QueueTextResponse(content string) {
	f.QueueResponse(model.Response{
		Message: model.Message{Role: "assistant", Content: content},
	})
}

// QueueToolCallResponse appends an assistant turn carrying tool calls.
func (f *FakeProvider) QueueToolCallResponse(calls ...model.ToolCall) {
	f.QueueResponse(model.Response{
		Message: model.Message{Role: "assistant", ToolCalls: calls},
	})
}

func (f *FakeProvider) CreateChatCompletion(ctx context.Context, messages []model.Message, settings model.Settings) (*model.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.CallCount++
	f.Requests = append(f.Requests, FakeRequest{Messages: messages, Settings: settings})

	if f.Err != nil {
		return nil, f.Err
	}
	if len(f.responses) == 0 {
		return nil, fmt.Errorf("fake provider has no scripted responses")
	}

	resp := f.responses[f.index]
	if f.index < len(f.responses)-1 {
		f.index++
	}
	return &resp, nil
}

// fakeCall builds a function tool call for scripting.
func fakeCall(id, name, arguments string) model.ToolCall {
	return model.ToolCall{
		ID:   id,
		Type: "function",
		Function: model.FunctionCall{
			Name:      name,
			Arguments: arguments,
		},
	}
}
