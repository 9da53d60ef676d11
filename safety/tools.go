// Copyright (c) 2025 SiteSentry
// Licensed under the MIT License.

package safety

import (
	"context"
	"fmt"
	"strings"

	"github.com/sitesentry/safety-agents-go/tool"
)

// weightedKeyword pairs a hazard phrase with its severity weight.
// Keywords are scanned in declaration order so tool output is stable.
type weightedKeyword struct {
	phrase string
	weight int
}

var emsKeywords = []weightedKeyword{
	{"chest pain", 10},
	{"heart attack", 10},
	{"unconscious", 10},
	{"not breathing", 10},
	{"severe bleeding", 9},
	{"seizure", 9},
	{"allergic reaction", 8},
	{"heat stroke", 8},
	{"diabetic emergency", 7},
	{"laceration", 7},
	{"arterial bleed", 10},
	{"sweating heavily", 6},
	{"confusion", 6},
	{"pale", 5},
}

var fireKeywords = []weightedKeyword{
	{"fire", 10},
	{"flames", 10},
	{"gas leak", 10},
	{"explosion", 10},
	{"smoke visible", 9},
	{"battery thermal", 9},
	{"fuel", 8},
	{"electrical overload", 8},
	{"ignition", 8},
	{"smoldering", 8},
	{"combustible", 7},
	{"oily rags", 7},
	{"sparks", 6},
	{"welding", 5},
}

var complianceKeywords = []weightedKeyword{
	{"no harness", 10},
	{"no fall protection", 10},
	{"no hard hat", 9},
	{"missing hard hat", 9},
	{"without hard hat", 9},
	{"no high-vis", 8},
	{"no vest", 8},
	{"no respirator", 8},
	{"no safety glasses", 7},
	{"no hearing protection", 6},
	{"improper ppe", 6},
}

var heatKeywords = []weightedKeyword{
	{"heat stroke", 10},
	{"unconscious", 10},
	{"not sweating", 9},
	{"dry skin", 9},
	{"confused", 8},
	{"dizzy", 7},
	{"sweating heavily", 7},
	{"exhaustion", 7},
	{"nausea", 6},
	{"cramping", 6},
	{"temperature", 5},
	{"hot", 4},
	{"sun", 3},
}

var fallKeywords = []weightedKeyword{
	{"no guardrail", 10},
	{"missing guardrail", 10},
	{"no harness", 10},
	{"no fall protection", 10},
	{"30 feet", 10},
	{"20 feet", 9},
	{"unprotected edge", 9},
	{"unstable ladder", 9},
	{"floor opening", 9},
	{"15 feet", 8},
	{"skylight", 8},
	{"10 feet", 7},
	{"scaffold", 7},
	{"roof", 7},
	{"aerial lift", 6},
}

func scoreKeywords(description string, keywords []weightedKeyword) (int, []string) {
	lower := strings.ToLower(description)
	score := 0
	var detected []string
	for _, kw := range keywords {
		if strings.Contains(lower, kw.phrase) {
			score += kw.weight
			detected = append(detected, kw.phrase)
		}
	}
	return score, detected
}

func tierSeverity(score, criticalAt, highAt int) string {
	switch {
	case score >= criticalAt:
		return "CRITICAL"
	case score >= highAt:
		return "HIGH"
	default:
		return "MODERATE"
	}
}

func descriptionArg(args map[string]any) string {
	desc, _ := args["description"].(string)
	return desc
}

func sceneSchema() tool.Schema {
	return tool.NewSchema().String("description", "Scene description to analyze", true)
}

// DetectEMSHazard scores a scene for medical emergencies and dispatches
// 911 when severity warrants it.
func DetectEMSHazard(n *Notifier) *tool.Tool {
	return tool.New("detect_ems_hazard",
		"Detect EMS emergencies and dispatch emergency services if needed",
		sceneSchema(),
		func(ctx context.Context, args map[string]any) (any, error) {
			score, conditions := scoreKeywords(descriptionArg(args), emsKeywords)
			if score == 0 {
				return "No immediate medical emergency detected. Continue routine health monitoring.", nil
			}
			severity := tierSeverity(score, 15, 8)

			var b strings.Builder
			fmt.Fprintf(&b, "MEDICAL EMERGENCY DETECTED - Severity: %s\n", severity)
			fmt.Fprintf(&b, "Conditions identified: %s\n", strings.Join(conditions, ", "))

			if severity == "CRITICAL" || severity == "HIGH" {
				call := n.Dispatch911(
					"Construction Site - GPS coordinates logged",
					"Medical Emergency",
					fmt.Sprintf("Worker showing signs of: %s", strings.Join(conditions, ", ")),
				)
				fmt.Fprintf(&b, "\n911 DISPATCHED - Call ID: %s\n", call.CallID)
				fmt.Fprintf(&b, "ETA: %s\n", call.EstimatedArrival)
				fmt.Fprintf(&b, "Units: %s\n", strings.Join(call.UnitsDispatched, ", "))

				incident := n.SafetyAPICall("Medical Emergency", severity, strings.Join(conditions, ", "))
				fmt.Fprintf(&b, "\nIncident logged: %s\n", incident.IncidentID)
			}

			b.WriteString("\nIMMEDIATE ACTIONS:\n")
			b.WriteString("1. Do not move the worker unless immediate danger present\n")
			b.WriteString("2. Assign first aid responder to stay with worker\n")
			b.WriteString("3. Clear area and prepare for EMS arrival\n")
			b.WriteString("4. Have worker's medical info/medications ready")
			return b.String(), nil
		})
}

// DetectFireHazard scores a scene for fire risks and notifies the fire
// department when severity warrants it.
func DetectFireHazard(n *Notifier) *tool.Tool {
	return tool.New("detect_fire_hazard",
		"Detect fire hazards and alert fire services if needed",
		sceneSchema(),
		func(ctx context.Context, args map[string]any) (any, error) {
			score, hazards := scoreKeywords(descriptionArg(args), fireKeywords)
			if score == 0 {
				return "No active fire hazards detected. Maintain fire prevention protocols.", nil
			}
			severity := tierSeverity(score, 15, 8)

			var b strings.Builder
			fmt.Fprintf(&b, "FIRE HAZARD DETECTED - Risk Level: %s\n", severity)
			fmt.Fprintf(&b, "Hazards identified: %s\n", strings.Join(hazards, ", "))

			if severity == "CRITICAL" || severity == "HIGH" {
				call := n.Dispatch911(
					"Construction Site - Building/zone coordinates logged",
					"Fire Emergency",
					fmt.Sprintf("Fire hazard: %s", strings.Join(hazards, ", ")),
				)
				fmt.Fprintf(&b, "\nFIRE DEPARTMENT DISPATCHED - Call ID: %s\n", call.CallID)
				fmt.Fprintf(&b, "ETA: %s\n", call.EstimatedArrival)

				incident := n.SafetyAPICall("Fire Hazard", severity, strings.Join(hazards, ", "))
				fmt.Fprintf(&b, "\nFire incident logged: %s\n", incident.IncidentID)
			}

			b.WriteString("\nIMMEDIATE ACTIONS:\n")
			b.WriteString("1. EVACUATE immediate area\n")
			b.WriteString("2. Use fire extinguisher only if safe and trained\n")
			b.WriteString("3. Activate fire alarm system\n")
			b.WriteString("4. Account for all personnel at muster point\n")
			b.WriteString("5. Shut off utilities if safe to do so")
			return b.String(), nil
		})
}

// DetectComplianceViolation scores a scene for PPE violations and
// issues a work stoppage for critical cases.
func DetectComplianceViolation(n *Notifier) *tool.Tool {
	return tool.New("detect_compliance_violation",
		"Detect PPE violations and enforce compliance",
		sceneSchema(),
		func(ctx context.Context, args map[string]any) (any, error) {
			score, violations := scoreKeywords(descriptionArg(args), complianceKeywords)
			if score == 0 {
				return "PPE compliance satisfactory. Continue monitoring.", nil
			}
			severity := tierSeverity(score, 9, 6)

			var b strings.Builder
			fmt.Fprintf(&b, "PPE VIOLATION DETECTED - Severity: %s\n", severity)
			fmt.Fprintf(&b, "Violations: %s\n", strings.Join(violations, ", "))

			incident := n.SafetyAPICall("PPE Compliance Violation", severity, strings.Join(violations, ", "))
			fmt.Fprintf(&b, "\nViolation logged: %s\n", incident.IncidentID)

			if severity == "CRITICAL" {
				b.WriteString("\nWORK STOPPAGE ISSUED\n")
				b.WriteString("Site supervisor and safety manager notified\n")
			}

			b.WriteString("\nCOMPLIANCE ACTIONS:\n")
			b.WriteString("1. Stop worker - no entry to hazard area\n")
			b.WriteString("2. Provide required PPE immediately\n")
			b.WriteString("3. Document violation in worker file\n")
			b.WriteString("4. Retrain on PPE requirements\n")
			b.WriteString("5. Verify PPE fit and proper use before resuming work")
			return b.String(), nil
		})
}

// DetectHeatHazard scores a scene for heat illness symptoms and starts
// the cooling protocol. Critical cases also dispatch EMS.
func DetectHeatHazard(n *Notifier) *tool.Tool {
	return tool.New("detect_heat_hazard",
		"Detect heat illness risks and initiate cooling protocols",
		sceneSchema(),
		func(ctx context.Context, args map[string]any) (any, error) {
			score, symptoms := scoreKeywords(descriptionArg(args), heatKeywords)
			if score == 0 {
				return "Heat conditions manageable. Maintain hydration protocols.", nil
			}
			severity := tierSeverity(score, 15, 8)

			var b strings.Builder
			fmt.Fprintf(&b, "HEAT HAZARD DETECTED - Severity: %s\n", severity)
			fmt.Fprintf(&b, "Symptoms/conditions: %s\n", strings.Join(symptoms, ", "))

			if severity == "CRITICAL" {
				call := n.Dispatch911(
					"Construction Site",
					"Heat Stroke Emergency",
					fmt.Sprintf("Worker showing severe heat illness: %s", strings.Join(symptoms, ", ")),
				)
				fmt.Fprintf(&b, "\nEMS DISPATCHED - Call ID: %s\n", call.CallID)
			}

			incident := n.SafetyAPICall("Heat Illness", severity, strings.Join(symptoms, ", "))
			fmt.Fprintf(&b, "\nHeat incident logged: %s\n", incident.IncidentID)

			b.WriteString("\nCOOLING PROTOCOL:\n")
			b.WriteString("1. Move worker to shade/air conditioning immediately\n")
			b.WriteString("2. Remove excess clothing and PPE\n")
			b.WriteString("3. Apply cool wet towels to neck, armpits, groin\n")
			b.WriteString("4. Provide water if conscious and able to drink\n")
			b.WriteString("5. Monitor vital signs every 5 minutes\n")
			b.WriteString("6. Do NOT return to work until cleared by medical")
			return b.String(), nil
		})
}

// DetectFallHazard scores a scene for fall risks and requires fall
// protection measures.
func DetectFallHazard(n *Notifier) *tool.Tool {
	return tool.New("detect_fall_hazard",
		"Detect fall hazards and require immediate protection measures",
		sceneSchema(),
		func(ctx context.Context, args map[string]any) (any, error) {
			score, hazards := scoreKeywords(descriptionArg(args), fallKeywords)
			if score == 0 {
				return "No active fall hazards detected. Maintain height safety protocols.", nil
			}
			severity := tierSeverity(score, 15, 8)

			var b strings.Builder
			fmt.Fprintf(&b, "FALL HAZARD DETECTED - Severity: %s\n", severity)
			fmt.Fprintf(&b, "Hazards identified: %s\n", strings.Join(hazards, ", "))

			incident := n.SafetyAPICall("Fall Hazard", severity, strings.Join(hazards, ", "))
			fmt.Fprintf(&b, "\nFall hazard logged: %s\n", incident.IncidentID)

			if severity == "CRITICAL" || severity == "HIGH" {
				b.WriteString("\nWORK STOPPAGE REQUIRED\n")
				b.WriteString("No personnel allowed in fall zone until corrected\n")
			}

			b.WriteString("\nREQUIRED PROTECTION:\n")
			b.WriteString("1. Install guardrail system immediately (top rail, mid rail, toeboard)\n")
			b.WriteString("2. Provide personal fall arrest systems for all workers\n")
			b.WriteString("3. Inspect anchor points - minimum 5000 lb capacity\n")
			b.WriteString("4. Cover or barricade all floor openings\n")
			b.WriteString("5. Ensure ladder extends 3 feet above landing\n")
			b.WriteString("6. Verify 100% tie-off compliance above 6 feet")
			return b.String(), nil
		})
}

// SendSiteAlert sends a mock text blast to site personnel.
func SendSiteAlert(n *Notifier) *tool.Tool {
	schema := tool.NewSchema().
		String("alert_message", "The safety alert message to send", true).
		StringEnum("urgency_level", "Alert urgency", []string{"CRITICAL", "HIGH", "MODERATE", "LOW"}, false)

	return tool.New("send_site_alert",
		"Send SMS text notification to all site personnel about safety hazard",
		schema,
		func(ctx context.Context, args map[string]any) (any, error) {
			message, _ := args["alert_message"].(string)
			urgency, _ := args["urgency_level"].(string)
			if urgency == "" {
				urgency = "HIGH"
			}

			sms := n.SMSBlast(message, urgency, "SITE SAFETY ALERT")

			var b strings.Builder
			b.WriteString("SITE-WIDE ALERT SENT\n")
			fmt.Fprintf(&b, "Batch ID: %s\n", sms.BatchID)
			fmt.Fprintf(&b, "Total Recipients: %d personnel\n", sms.TotalSent)
			b.WriteString("Delivery Status: ALL DELIVERED\n")
			fmt.Fprintf(&b, "\nMessage sent: %q", message)
			return b.String(), nil
		})
}
