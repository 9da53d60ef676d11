// Copyright (c) 2025 SiteSentry
// Licensed under the MIT License.

// Package safety implements the construction site safety agents: the
// router and its specialist peers, their hazard detection tools, and
// the mock emergency notification channels behind them.
package safety

import (
	"fmt"
	"strings"
	"time"

	"github.com/sitesentry/safety-agents-go/logging"
)

const timestampFormat = "20060102-150405"

// DispatchResponse is the confirmation of a mock 911 call.
type DispatchResponse struct {
	CallID           string   `json:"call_id"`
	Status           string   `json:"status"`
	EstimatedArrival string   `json:"estimated_arrival"`
	UnitsDispatched  []string `json:"units_dispatched"`
	DispatcherNotes  string   `json:"dispatcher_notes"`
	Timestamp        string   `json:"timestamp"`
}

// IncidentResponse is the confirmation of a mock safety system report.
type IncidentResponse struct {
	IncidentID        string   `json:"incident_id"`
	Status            string   `json:"status"`
	Severity          string   `json:"severity"`
	NotificationsSent []string `json:"notifications_sent"`
	ActionsTriggered  []string `json:"actions_triggered"`
	Timestamp         string   `json:"timestamp"`
}

// SMSResponse is the confirmation of a mock site-wide text blast.
type SMSResponse struct {
	BatchID    string         `json:"batch_id"`
	TotalSent  int            `json:"total_sent"`
	Urgency    string         `json:"urgency"`
	Message    string         `json:"message"`
	Recipients []SMSRecipient `json:"recipients"`
	Timestamp  string         `json:"timestamp"`
}

// SMSRecipient is one delivery in a text blast.
type SMSRecipient struct {
	Name   string `json:"recipient"`
	Role   string `json:"role"`
	Phone  string `json:"phone"`
	Status string `json:"status"`
}

type person struct {
	name     string
	role     string
	phone    string
	priority int
}

// Mock site personnel roster. Priority 1 is management and first aid,
// 2 is supervisors and leads, 3 is operators.
var sitePersonnel = []person{
	{"John Smith", "Safety Manager", "+1-555-0101", 1},
	{"Maria Garcia", "Site Supervisor", "+1-555-0102", 1},
	{"David Chen", "Foreman - Zone A", "+1-555-0103", 2},
	{"Sarah Johnson", "Foreman - Zone B", "+1-555-0104", 2},
	{"Robert Williams", "Equipment Operator", "+1-555-0105", 3},
	{"Lisa Anderson", "First Aid Responder", "+1-555-0106", 1},
	{"Michael Brown", "Security Officer", "+1-555-0107", 2},
	{"Jennifer Martinez", "Quality Inspector", "+1-555-0108", 3},
	{"James Davis", "Crane Operator", "+1-555-0109", 2},
	{"Patricia Wilson", "Electrical Lead", "+1-555-0110", 2},
}

// Notifier provides the mock emergency channels the detection tools
// use. All channels are simulations; nothing leaves the process except
// incident rows written to the optional store.
type Notifier struct {
	store  *IncidentStore
	logger logging.Logger
	now    func() time.Time
}

// NotifierOption configures a Notifier.
type NotifierOption func(*Notifier)

// WithStore persists reported incidents to the given store.
func WithStore(store *IncidentStore) NotifierOption {
	return func(n *Notifier) {
		n.store = store
	}
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) NotifierOption {
	return func(n *Notifier) {
		n.logger = logger
	}
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) NotifierOption {
	return func(n *Notifier) {
		n.now = now
	}
}

// NewNotifier creates a notifier. Without a store, incidents are only
// logged.
func NewNotifier(opts ...NotifierOption) *Notifier {
	n := &Notifier{
		logger: logging.NewDefault(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Dispatch911 simulates a 911 emergency call.
func (n *Notifier) Dispatch911(location, emergencyType, description string) DispatchResponse {
	now := n.now()
	units := []string{"Ambulance 42"}
	if strings.Contains(strings.ToLower(emergencyType), "fire") {
		units = []string{"Ambulance 42", "Fire Engine 7"}
	}

	resp := DispatchResponse{
		CallID:           fmt.Sprintf("911-%s", now.Format(timestampFormat)),
		Status:           "dispatched",
		EstimatedArrival: "8-12 minutes",
		UnitsDispatched:  units,
		DispatcherNotes:  fmt.Sprintf("Emergency at %s. %s", location, description),
		Timestamp:        now.Format(time.RFC3339),
	}

	n.logger.Info("mock 911 call",
		"call_id", resp.CallID,
		"type", emergencyType,
		"location", location,
		"units", strings.Join(units, ", "),
	)
	return resp
}

// SafetyAPICall simulates reporting an incident to the site safety
// system and persists it when a store is configured.
func (n *Notifier) SafetyAPICall(incidentType, severity, details string) IncidentResponse {
	now := n.now()

	notifications := []string{"Safety Manager", "Site Supervisor"}
	actions := []string{"Safety alert issued"}
	if severity == "CRITICAL" {
		notifications = append(notifications, "OSHA Compliance Officer")
		actions = []string{"Work stoppage order issued"}
	}
	actions = append(actions, "Incident report generated", "Photo documentation requested")

	resp := IncidentResponse{
		IncidentID:        fmt.Sprintf("INC-%s", now.Format(timestampFormat)),
		Status:            "logged",
		Severity:          severity,
		NotificationsSent: notifications,
		ActionsTriggered:  actions,
		Timestamp:         now.Format(time.RFC3339),
	}

	if n.store != nil {
		if err := n.store.Insert(Incident{
			IncidentID:   resp.IncidentID,
			IncidentType: incidentType,
			Severity:     severity,
			Details:      details,
			ReportedAt:   now,
		}); err != nil {
			n.logger.Error("failed to persist incident", "incident_id", resp.IncidentID, "error", err)
		}
	}

	n.logger.Info("mock safety API call",
		"incident_id", resp.IncidentID,
		"type", incidentType,
		"severity", severity,
	)
	return resp
}

// SMSBlast simulates a text alert to site personnel. Urgency selects
// recipients: CRITICAL reaches everyone, HIGH reaches supervisors and
// leads, anything else reaches management only.
func (n *Notifier) SMSBlast(message, urgency, incidentType string) SMSResponse {
	now := n.now()

	var recipients []SMSRecipient
	for _, p := range sitePersonnel {
		switch urgency {
		case "CRITICAL":
			// everyone
		case "HIGH":
			if p.priority > 2 {
				continue
			}
		default:
			if p.priority != 1 {
				continue
			}
		}
		recipients = append(recipients, SMSRecipient{
			Name:   p.name,
			Role:   p.role,
			Phone:  p.phone,
			Status: "delivered",
		})
	}

	prefix := map[string]string{
		"CRITICAL": "EMERGENCY",
		"HIGH":     "URGENT",
		"MODERATE": "ALERT",
		"LOW":      "NOTICE",
	}[urgency]
	if prefix == "" {
		prefix = "NOTICE"
	}

	resp := SMSResponse{
		BatchID:    fmt.Sprintf("SMS-%s", now.Format(timestampFormat)),
		TotalSent:  len(recipients),
		Urgency:    urgency,
		Message:    fmt.Sprintf("%s %s: %s", prefix, incidentType, message),
		Recipients: recipients,
		Timestamp:  now.Format(time.RFC3339),
	}

	n.logger.Info("mock SMS blast",
		"batch_id", resp.BatchID,
		"urgency", urgency,
		"recipients", resp.TotalSent,
	)
	return resp
}
