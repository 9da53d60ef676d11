// Copyright (c) 2025 SiteSentry
// Licensed under the MIT License.

// Package api exposes the safety pipeline over HTTP.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/sitesentry/safety-agents-go/logging"
	"github.com/sitesentry/safety-agents-go/pipeline"
)

const maxUploadBytes = 256 << 20 // 256 MiB

// Processor runs the video pipeline. Satisfied by pipeline.Pipeline.
type Processor interface {
	Process(ctx context.Context, video []byte, videoID string) (*pipeline.Outcome, error)
}

// Server is the HTTP front end for video analysis.
type Server struct {
	processor Processor
	logger    logging.Logger
	router    *mux.Router
	now       func() time.Time
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) ServerOption {
	return func(s *Server) {
		s.now = now
	}
}

// NewServer creates the HTTP server around a processor.
func NewServer(processor Processor, opts ...ServerOption) *Server {
	s := &Server{
		processor: processor,
		logger:    logging.NewDefault(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/analyze", s.handleAnalyze).Methods(http.MethodPost)
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs the server on addr until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("listening", "addr", addr)
	server := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server.ListenAndServe()
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "online",
		"service": "Construction Safety Agent API",
		"version": "1.0.0",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"status": "healthy"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Missing 'file' upload field.")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "video/") {
		s.writeError(w, http.StatusBadRequest, "Invalid file type. Please upload a video file.")
		return
	}

	video, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Failed to read upload.")
		return
	}

	videoID := fmt.Sprintf("api_%s", s.now().Format("20060102_150405"))
	s.logger.Info("analyze request", "video_id", videoID, "filename", header.Filename, "bytes", len(video))

	outcome, err := s.processor.Process(r.Context(), video, videoID)
	if err != nil {
		s.logger.Error("analysis failed", "video_id", videoID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "Analysis failed.")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":       "success",
		"video_id":     videoID,
		"event":        outcome.Event,
		"agent_output": outcome.Output,
		"trace":        outcome.Traces,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, map[string]any{"detail": detail})
}
