// Copyright (c) 2025 SiteSentry
// Licensed under the MIT License.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitesentry/safety-agents-go/logging"
	"github.com/sitesentry/safety-agents-go/pipeline"
	"github.com/sitesentry/safety-agents-go/tracing"
	"github.com/sitesentry/safety-agents-go/vision"
)

type stubProcessor struct {
	outcome *pipeline.Outcome
	err     error
	gotID   string
	gotLen  int
}

func (s *stubProcessor) Process(ctx context.Context, video []byte, videoID string) (*pipeline.Outcome, error) {
	s.gotID = videoID
	s.gotLen = len(video)
	if s.err != nil {
		return nil, s.err
	}
	return s.outcome, nil
}

func newTestServer(p Processor) *Server {
	fixed := time.Date(2025, 6, 15, 14, 30, 45, 0, time.UTC)
	return NewServer(p,
		WithLogger(logging.NopLogger{}),
		WithClock(func() time.Time { return fixed }),
	)
}

func multipartVideo(t *testing.T, fieldContentType string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="site.mp4"`)
	header.Set("Content-Type", fieldContentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("fake video bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestRootEndpoint(t *testing.T) {
	server := newTestServer(&stubProcessor{})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "online", body["status"])
	assert.Equal(t, "Construction Safety Agent API", body["service"])
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(&stubProcessor{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAnalyzeSuccess(t *testing.T) {
	processor := &stubProcessor{outcome: &pipeline.Outcome{
		Event: &vision.Event{
			VideoID:          "api_20250615_143045",
			SafetyStatus:     vision.StatusHigh,
			SceneDescription: "scene",
			Predictions:      vision.Prediction{Probability: 0.8, IncidentType: "Fall Hazard (Height)"},
		},
		Output: "Work stopped, fall protection required.",
		Traces: []tracing.AgentTrace{{AgentName: "Safety Router Agent"}},
	}}
	server := newTestServer(processor)

	body, contentType := multipartVideo(t, "video/mp4")
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "api_20250615_143045", processor.gotID)
	assert.Equal(t, len("fake video bytes"), processor.gotLen)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp["status"])
	assert.Equal(t, "api_20250615_143045", resp["video_id"])
	assert.Equal(t, "Work stopped, fall protection required.", resp["agent_output"])
	assert.NotNil(t, resp["event"])
	assert.NotNil(t, resp["trace"])
}

func TestAnalyzeRejectsNonVideo(t *testing.T) {
	server := newTestServer(&stubProcessor{})

	body, contentType := multipartVideo(t, "application/pdf")
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid file type")
}

func TestAnalyzeMissingFile(t *testing.T) {
	server := newTestServer(&stubProcessor{})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("other", "value"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing 'file' upload field")
}

func TestAnalyzeProcessorFailure(t *testing.T) {
	server := newTestServer(&stubProcessor{err: errors.New("model quota exceeded")})

	body, contentType := multipartVideo(t, "video/mp4")
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Analysis failed")
	// Internal detail never reaches the client.
	assert.NotContains(t, rec.Body.String(), "quota")
}
