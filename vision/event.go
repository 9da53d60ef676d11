// Copyright (c) 2025 SiteSentry
// Licensed under the MIT License.

// Package vision analyzes construction site video and produces safety
// events for the agent system to act on.
package vision

import (
	"encoding/json"
	"fmt"
)

// SafetyStatus is the overall severity assessment of a scene.
type SafetyStatus string

const (
	StatusSafe    SafetyStatus = "SAFE"
	StatusLow     SafetyStatus = "LOW"
	StatusMedium  SafetyStatus = "MEDIUM"
	StatusHigh    SafetyStatus = "HIGH"
	StatusExtreme SafetyStatus = "EXTREME"
)

// Valid reports whether the status is one of the known levels.
func (s SafetyStatus) Valid() bool {
	switch s {
	case StatusSafe, StatusLow, StatusMedium, StatusHigh, StatusExtreme:
		return true
	}
	return false
}

// Prediction is the model's incident forecast for a scene.
type Prediction struct {
	Probability  float64 `json:"probability"`
	IncidentType string  `json:"incident_type"`
}

// Event is a structured safety assessment of one video.
type Event struct {
	VideoID          string       `json:"video_id"`
	SafetyStatus     SafetyStatus `json:"safety_status"`
	SceneDescription string       `json:"scene_description"`
	Predictions      Prediction   `json:"predictions"`
	SafetyResponse   string       `json:"safety_response"`
}

// ParseEvent decodes and validates an event from JSON.
func ParseEvent(data []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("invalid event JSON: %w", err)
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	return &event, nil
}

// Validate checks the event against the schema constraints the agent
// system relies on.
func (e *Event) Validate() error {
	if !e.SafetyStatus.Valid() {
		return fmt.Errorf("invalid safety status %q", e.SafetyStatus)
	}
	if e.SceneDescription == "" {
		return fmt.Errorf("scene description is empty")
	}
	if e.Predictions.Probability < 0 || e.Predictions.Probability > 1 {
		return fmt.Errorf("prediction probability %v out of range [0, 1]", e.Predictions.Probability)
	}
	return nil
}

// JSON encodes the event for handing to the agent system.
func (e *Event) JSON() (string, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("encoding event: %w", err)
	}
	return string(data), nil
}
