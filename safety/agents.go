// Copyright (c) 2025 SiteSentry
// Licensed under the MIT License.

package safety

import (
	"github.com/sitesentry/safety-agents-go/agent"
)

// Agents is the construction site safety agent graph. The router
// delegates to exactly one specialist; specialists do not hand off
// further.
type Agents struct {
	Router     *agent.Agent
	EMS        *agent.Agent
	Fire       *agent.Agent
	Compliance *agent.Agent
}

// BuildAgents wires the safety agent graph against the given notifier.
func BuildAgents(n *Notifier) *Agents {
	ems := agent.New("EMS Safety Agent",
		"You are an emergency medical services safety specialist. You detect and respond to medical emergencies "+
			"on construction sites including chest pain, heat stroke, severe lacerations, allergic reactions, "+
			"and diabetic emergencies. Provide immediate action steps and determine if 911 should be called. "+
			"Be specific about symptoms observed and urgency level.").
		WithHandoffDescription("Use for medical emergencies, worker health issues, injuries requiring immediate medical attention").
		AddTool(DetectEMSHazard(n)).
		AddTool(DetectHeatHazard(n)).
		AddTool(SendSiteAlert(n))

	fire := agent.New("Fire Safety Agent",
		"You are a fire safety specialist. You identify fire hazards including spontaneous combustion risks, "+
			"welding sparks near combustibles, electrical overloads, fuel storage violations, and battery thermal "+
			"runaway. Provide fire prevention steps and emergency response procedures. Be specific about ignition "+
			"sources and combustible materials present.").
		WithHandoffDescription("Use for fire hazards, welding operations, electrical issues, combustible material storage").
		AddTool(DetectFireHazard(n)).
		AddTool(SendSiteAlert(n))

	compliance := agent.New("PPE Compliance Agent",
		"You are a PPE compliance specialist. You identify workers not wearing required personal protective "+
			"equipment including hard hats, high-visibility clothing, fall protection harnesses, hearing "+
			"protection, and respirators. Enforce PPE requirements and stop work if violations create imminent danger. "+
			"Be specific about what PPE is missing and why it's required.").
		WithHandoffDescription("Use for PPE violations, safety equipment issues, compliance enforcement").
		AddTool(DetectComplianceViolation(n)).
		AddTool(DetectFallHazard(n)).
		AddTool(SendSiteAlert(n))

	router := agent.New("Safety Router Agent",
		"You are the main safety coordinator. Analyze construction site scenarios and determine which "+
			"type of hazard is present. Route to the appropriate specialist agent:\n"+
			"- EMS Agent: Medical emergencies, worker health issues, heat-related illness\n"+
			"- Fire Agent: Fire hazards, ignition sources, combustibles\n"+
			"- PPE Compliance Agent: Missing or improper safety equipment\n\n"+
			"If multiple hazards exist, prioritize: EMS = Fire > Compliance").
		AddHandoffs(ems, fire, compliance)

	return &Agents{
		Router:     router,
		EMS:        ems,
		Fire:       fire,
		Compliance: compliance,
	}
}
