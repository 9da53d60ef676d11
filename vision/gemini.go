// Copyright (c) 2025 SiteSentry
// Licensed under the MIT License.

package vision

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/sitesentry/safety-agents-go/logging"
)

// GeminiModelVersion is the vision model used for video analysis.
const GeminiModelVersion = "gemini-2.5-pro"

const videoMIMEType = "video/mp4"

// ErrGeminiKeyRequired is returned when no Gemini API key is configured.
var ErrGeminiKeyRequired = errors.New("Gemini API key is required: set GEMINI_API_KEY")

const videoSafetyPrompt = `Analyze this construction site or workplace safety video and identify any safety hazards or incidents.

Provide a detailed analysis including:
1. Scene description: What is happening in the video
2. Safety status: SAFE, LOW, MEDIUM, HIGH, or EXTREME based on severity
3. Incident type: Choose the most relevant incident type from the available categories
4. Probability: How likely (0.0 to 1.0) this incident will result in injury or damage
5. Safety response: Recommended immediate actions to address the hazard

Focus on:
- Worker safety and PPE compliance
- Equipment hazards and moving machinery
- Fall hazards and height work
- Fire, electrical, and environmental hazards
- Medical emergencies or injured workers
- Unsafe behaviors or working conditions

Respond with a JSON object with fields: video_id, safety_status, scene_description, predictions {probability, incident_type}, safety_response.`

// Analyzer runs the vision model over raw video bytes and returns
// structured safety events.
type Analyzer struct {
	client *genai.Client
	model  string
	logger logging.Logger
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithModel overrides the vision model version.
func WithModel(model string) AnalyzerOption {
	return func(a *Analyzer) {
		a.model = model
	}
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// NewAnalyzer creates an analyzer. The API key must be supplied
// explicitly or via GEMINI_API_KEY; an empty key is an error.
func NewAnalyzer(ctx context.Context, apiKey string, opts ...AnalyzerOption) (*Analyzer, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, ErrGeminiKeyRequired
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	a := &Analyzer{
		client: client,
		model:  GeminiModelVersion,
		logger: logging.NewDefault(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// AnalyzeVideo sends the video to the vision model and returns the
// parsed safety event. The returned event carries the given video id
// regardless of what the model put in its response.
func (a *Analyzer) AnalyzeVideo(ctx context.Context, video []byte, videoID string) (*Event, error) {
	model := a.client.GenerativeModel(a.model)
	model.ResponseMIMEType = "application/json"

	a.logger.Info("analyzing video", "video_id", videoID, "bytes", len(video))

	resp, err := model.GenerateContent(ctx,
		genai.Blob{MIMEType: videoMIMEType, Data: video},
		genai.Text(videoSafetyPrompt),
	)
	if err != nil {
		return nil, fmt.Errorf("vision model call failed: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}

	event, err := ParseEvent([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("vision model returned malformed event: %w", err)
	}
	event.VideoID = videoID

	a.logger.Info("video analyzed",
		"video_id", videoID,
		"safety_status", event.SafetyStatus,
		"incident_type", event.Predictions.IncidentType,
	)
	return event, nil
}

// Close releases the underlying client.
func (a *Analyzer) Close() error {
	return a.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("vision model returned no candidates")
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			return string(text), nil
		}
	}
	return "", errors.New("vision model returned no text part")
}
