// Copyright (c) 2025 SiteSentry
// Licensed under the MIT License.

package safety

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitesentry/safety-agents-go/agent"
	"github.com/sitesentry/safety-agents-go/logging"
)

func TestBuildAgentsGraph(t *testing.T) {
	agents := BuildAgents(NewNotifier(WithLogger(logging.NopLogger{})))

	require.NotNil(t, agents.Router)
	require.Len(t, agents.Router.Handoffs, 3)
	assert.Empty(t, agents.Router.Tools, "the router delegates, it does not detect")

	assert.Equal(t, agents.EMS, agents.Router.GetHandoffAgent("EMS Safety Agent"))
	assert.Equal(t, agents.Fire, agents.Router.GetHandoffAgent("fire safety agent"))
	assert.Equal(t, agents.Compliance, agents.Router.GetHandoffAgent("PPE Compliance Agent"))

	// Specialists do not hand off further.
	assert.Empty(t, agents.EMS.Handoffs)
	assert.Empty(t, agents.Fire.Handoffs)
	assert.Empty(t, agents.Compliance.Handoffs)
}

func TestBuildAgentsTools(t *testing.T) {
	agents := BuildAgents(NewNotifier(WithLogger(logging.NopLogger{})))

	assert.NotNil(t, agents.EMS.GetTool("detect_ems_hazard"))
	assert.NotNil(t, agents.EMS.GetTool("detect_heat_hazard"))
	assert.NotNil(t, agents.EMS.GetTool("send_site_alert"))

	assert.NotNil(t, agents.Fire.GetTool("detect_fire_hazard"))
	assert.NotNil(t, agents.Fire.GetTool("send_site_alert"))

	assert.NotNil(t, agents.Compliance.GetTool("detect_compliance_violation"))
	assert.NotNil(t, agents.Compliance.GetTool("detect_fall_hazard"))
	assert.NotNil(t, agents.Compliance.GetTool("send_site_alert"))
}

func TestRouterExposesHandoffTools(t *testing.T) {
	agents := BuildAgents(NewNotifier(WithLogger(logging.NopLogger{})))

	ts := agents.Router.ToolSetWithHandoffs()
	names := map[string]bool{}
	for _, def := range ts.Definitions() {
		names[def.Function.Name] = true
	}
	assert.True(t, names[agent.HandoffToolName("EMS Safety Agent")])
	assert.True(t, names[agent.HandoffToolName("Fire Safety Agent")])
	assert.True(t, names[agent.HandoffToolName("PPE Compliance Agent")])
}
