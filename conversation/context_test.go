// Copyright (c) 2025 SiteSentry
// Licensed under the MIT License.

package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sitesentry/safety-agents-go/model"
)

func TestNewContext(t *testing.T) {
	c := New()
	assert.Equal(t, 0, c.Len())
	assert.NotNil(t, c.Metadata)
	assert.False(t, c.HasSystemMessage())
}

func TestAddMessages(t *testing.T) {
	c := New()
	c.AddSystemMessage("You are a safety router.")
	c.AddUserMessage("Worker collapsed near the crane.")
	c.AddAssistantMessage("Checking for hazards.")
	c.AddToolMessage("call_1", "detect_ems_hazard", "score: 12")

	msgs := c.Messages()
	assert.Len(t, msgs, 4)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Equal(t, "user", msgs[1].Role)
	assert.Equal(t, "assistant", msgs[2].Role)
	assert.Equal(t, "tool", msgs[3].Role)
	assert.Equal(t, "call_1", msgs[3].ToolCallID)
	assert.Equal(t, "detect_ems_hazard", msgs[3].Name)
}

func TestAddAssistantMessageWithToolCalls(t *testing.T) {
	c := New()
	c.AddAssistantMessage("", model.ToolCall{
		ID:   "call_1",
		Type: "function",
		Function: model.FunctionCall{
			Name:      "detect_fire_hazard",
			Arguments: `{"scene_description":"sparks near fuel"}`,
		},
	})

	msgs := c.Messages()
	assert.Len(t, msgs, 1)
	assert.Len(t, msgs[0].ToolCalls, 1)
	assert.Equal(t, "detect_fire_hazard", msgs[0].ToolCalls[0].Function.Name)
}

func TestHasSystemMessage(t *testing.T) {
	c := New()
	c.AddUserMessage("hello")
	c.AddSystemMessage("instructions")
	assert.False(t, c.HasSystemMessage(), "system message not in leading position")

	c2 := New()
	c2.AddSystemMessage("instructions")
	c2.AddUserMessage("hello")
	assert.True(t, c2.HasSystemMessage())
}

func TestMessagesReturnsCopy(t *testing.T) {
	c := New()
	c.AddUserMessage("original")

	msgs := c.Messages()
	msgs[0].Content = "mutated"

	assert.Equal(t, "original", c.Messages()[0].Content)
}

func TestNewFromMessagesCopies(t *testing.T) {
	seed := []model.Message{
		{Role: "system", Content: "instructions"},
		{Role: "user", Content: "input"},
	}
	c := NewFromMessages(seed)
	assert.Equal(t, 2, c.Len())
	assert.True(t, c.HasSystemMessage())

	seed[0].Content = "mutated"
	assert.Equal(t, "instructions", c.Messages()[0].Content)
}

func TestClone(t *testing.T) {
	c := New()
	c.AddUserMessage("hello")
	c.Metadata["video_id"] = "vid_1"

	clone := c.Clone()
	clone.AddUserMessage("more")
	clone.Metadata["video_id"] = "vid_2"

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 2, clone.Len())
	assert.Equal(t, "vid_1", c.Metadata["video_id"])
}
