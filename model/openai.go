// Copyright (c) 2025 SiteSentry
// Licensed under the MIT License.

package model

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sashabaranov/go-openai"
)

// DefaultBaseURL is the NVIDIA OpenAI-compatible endpoint the demo targets.
const DefaultBaseURL = "https://integrate.api.nvidia.com/v1"

// ErrAPIKeyRequired is returned when no API key is configured. There is no
// embedded fallback: the provider fails closed.
var ErrAPIKeyRequired = errors.New("API key is required: set NVIDIA_API_KEY or pass OpenAIConfig.APIKey")

// OpenAIConfig configures the OpenAI-compatible provider.
type OpenAIConfig struct {
	// APIKey authenticates against the endpoint. Falls back to the
	// NVIDIA_API_KEY environment variable; an empty key is an error.
	APIKey string

	// BaseURL overrides the endpoint. Defaults to DefaultBaseURL.
	BaseURL string

	// Organization is the optional organization identifier.
	Organization string
}

// OpenAIProvider implements Provider against any OpenAI-compatible
// chat-completion endpoint.
type OpenAIProvider struct {
	config OpenAIConfig
	client *openai.Client
}

// NewOpenAIProvider creates a provider from config. The API key must be
// supplied explicitly or via NVIDIA_API_KEY.
func NewOpenAIProvider(config OpenAIConfig) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		config.APIKey = os.Getenv("NVIDIA_API_KEY")
	}
	if config.APIKey == "" {
		return nil, ErrAPIKeyRequired
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = config.BaseURL
	if config.Organization != "" {
		clientConfig.OrgID = config.Organization
	}

	return &OpenAIProvider{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
	}, nil
}

// NewDefaultOpenAIProvider creates a provider using NVIDIA_API_KEY from the
// environment and the default endpoint.
func NewDefaultOpenAIProvider() (*OpenAIProvider, error) {
	return NewOpenAIProvider(OpenAIConfig{})
}

func (p *OpenAIProvider) CreateChatCompletion(ctx context.Context, messages []Message, settings Settings) (*Response, error) {
	request := openai.ChatCompletionRequest{
		Model:       settings.Model,
		Messages:    toOpenAIMessages(messages),
		Temperature: settings.Temperature,
		MaxTokens:   settings.MaxTokens,
	}

	if len(settings.Tools) > 0 {
		request.Tools = toOpenAITools(settings.Tools)
		if settings.ToolChoice != "" {
			request.ToolChoice = settings.ToolChoice
		}
	}

	result, err := p.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("chat completion call failed: %w", err)
	}
	if len(result.Choices) == 0 {
		return nil, errors.New("no choices in chat completion response")
	}

	choice := result.Choices[0]

	return &Response{
		Message: Message{
			Role:      choice.Message.Role,
			Content:   choice.Message.Content,
			ToolCalls: fromOpenAIToolCalls(choice.Message.ToolCalls),
		},
		Usage: Usage{
			PromptTokens:     result.Usage.PromptTokens,
			CompletionTokens: result.Usage.CompletionTokens,
			TotalTokens:      result.Usage.TotalTokens,
		},
	}, nil
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		result[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
		if msg.Name != "" {
			result[i].Name = msg.Name
		}
		if msg.ToolCallID != "" {
			result[i].ToolCallID = msg.ToolCallID
		}
		if len(msg.ToolCalls) > 0 {
			calls := make([]openai.ToolCall, len(msg.ToolCalls))
			for j, tc := range msg.ToolCalls {
				calls[j] = openai.ToolCall{
					ID:   tc.ID,
					Type: openai.ToolType(tc.Type),
					Function: openai.FunctionCall{
						Name:      tc.Function.Name,
						Arguments: tc.Function.Arguments,
					},
				}
			}
			result[i].ToolCalls = calls
		}
	}
	return result
}

func toOpenAITools(defs []ToolDefinition) []openai.Tool {
	tools := make([]openai.Tool, len(defs))
	for i, def := range defs {
		tools[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        def.Function.Name,
				Description: def.Function.Description,
				Parameters:  def.Function.Parameters,
			},
		}
	}
	return tools
}

func fromOpenAIToolCalls(calls []openai.ToolCall) []ToolCall {
	if len(calls) == 0 {
		return nil
	}
	result := make([]ToolCall, 0, len(calls))
	for _, tc := range calls {
		result = append(result, ToolCall{
			ID:   tc.ID,
			Type: "function",
			Function: FunctionCall{
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			},
		})
	}
	return result
}
