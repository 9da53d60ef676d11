// Copyright (c) 2025 SiteSentry
// Licensed under the MIT License.

// safety-api serves the construction site safety pipeline over HTTP.
//
// Configuration comes from the environment (a .env file is loaded when
// present):
//
//	NVIDIA_API_KEY  key for the agent model endpoint (required)
//	GEMINI_API_KEY  key for the vision model (required)
//	ADDR            listen address, default :8080
//	INCIDENT_DB     SQLite path for incident reports, default incidents.db
package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/sitesentry/safety-agents-go/api"
	"github.com/sitesentry/safety-agents-go/logging"
	"github.com/sitesentry/safety-agents-go/model"
	"github.com/sitesentry/safety-agents-go/pipeline"
	"github.com/sitesentry/safety-agents-go/safety"
	"github.com/sitesentry/safety-agents-go/vision"
)

func main() {
	_ = godotenv.Load()
	logger := logging.NewDefault()

	addr := envOr("ADDR", ":8080")
	dbPath := envOr("INCIDENT_DB", "incidents.db")

	provider, err := model.NewDefaultOpenAIProvider()
	if err != nil {
		logger.Error("provider setup failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	analyzer, err := vision.NewAnalyzer(ctx, "", vision.WithLogger(logger))
	if err != nil {
		logger.Error("vision setup failed", "error", err)
		os.Exit(1)
	}
	defer analyzer.Close()

	store, err := safety.OpenIncidentStore(dbPath)
	if err != nil {
		logger.Error("incident store setup failed", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	notifier := safety.NewNotifier(
		safety.WithLogger(logger),
		safety.WithStore(store),
	)
	agents := safety.BuildAgents(notifier)

	p := pipeline.New(analyzer, provider, agents, pipeline.WithLogger(logger))
	server := api.NewServer(p, api.WithLogger(logger))

	if err := server.ListenAndServe(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
