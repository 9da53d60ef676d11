// Copyright (c) 2025 SiteSentry
// Licensed under the MIT License.

package safety

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Incident is one persisted safety incident report.
type Incident struct {
	ID           int64     `json:"id"`
	IncidentID   string    `json:"incident_id"`
	IncidentType string    `json:"incident_type"`
	Severity     string    `json:"severity"`
	Details      string    `json:"details"`
	ReportedAt   time.Time `json:"reported_at"`
}

// IncidentStore persists incident reports to SQLite.
type IncidentStore struct {
	db *sql.DB
}

// OpenIncidentStore opens or creates the incident database at path.
// Use ":memory:" for an ephemeral store.
func OpenIncidentStore(path string) (*IncidentStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening incident database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS incidents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		incident_id TEXT NOT NULL,
		incident_type TEXT NOT NULL,
		severity TEXT NOT NULL,
		details TEXT,
		reported_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_incidents_reported_at ON incidents(reported_at);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating incident schema: %w", err)
	}

	return &IncidentStore{db: db}, nil
}

// Insert records a new incident.
func (s *IncidentStore) Insert(incident Incident) error {
	_, err := s.db.Exec(
		`INSERT INTO incidents (incident_id, incident_type, severity, details, reported_at)
		 VALUES (?, ?, ?, ?, ?)`,
		incident.IncidentID,
		incident.IncidentType,
		incident.Severity,
		incident.Details,
		incident.ReportedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting incident %s: %w", incident.IncidentID, err)
	}
	return nil
}

// Recent returns the most recent incidents, newest first.
func (s *IncidentStore) Recent(limit int) ([]Incident, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, incident_id, incident_type, severity, details, reported_at
		 FROM incidents ORDER BY reported_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying incidents: %w", err)
	}
	defer rows.Close()

	var incidents []Incident
	for rows.Next() {
		var inc Incident
		if err := rows.Scan(&inc.ID, &inc.IncidentID, &inc.IncidentType, &inc.Severity, &inc.Details, &inc.ReportedAt); err != nil {
			return nil, fmt.Errorf("scanning incident row: %w", err)
		}
		incidents = append(incidents, inc)
	}
	return incidents, rows.Err()
}

// Close closes the underlying database.
func (s *IncidentStore) Close() error {
	return s.db.Close()
}
