package schema

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xela07ax/bizdash/internal/domain"
)

const agentID = "9b2d7a3e-1c4f-4e8a-b6d5-0f1e2a3b4c5d"

func validAgent() map[string]any {
	return map[string]any{
		"id":             agentID,
		"name":           "Faturamento Bot",
		"role":           "invoicing",
		"status":         "working",
		"last_heartbeat": "2026-10-16T09:30:00Z",
		"health_score":   0.87,
	}
}

func TestParseAgentHealthScoreBounds(t *testing.T) {
	tests := []struct {
		name    string
		score   any
		wantErr string
	}{
		{name: "lower bound", score: float64(0)},
		{name: "upper bound", score: float64(1)},
		{name: "inside", score: 0.5},
		{name: "above", score: 1.5, wantErr: "Number must be less than or equal to 1"},
		{name: "below", score: -0.01, wantErr: "Number must be greater than or equal to 0"},
		{name: "string", score: "0.5", wantErr: "Expected number, received string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validAgent()
			in["health_score"] = tt.score

			agent, err := ParseAgent(in)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.score, agent.HealthScore)
				return
			}
			vErr := requireIssues(t, err)
			require.Len(t, vErr.Issues, 1)
			assert.Equal(t, "health_score", vErr.Issues[0].Field())
			assert.Equal(t, tt.wantErr, vErr.Issues[0].Message)
		})
	}
}

func TestParseAgentFields(t *testing.T) {
	agent, err := ParseAgent(validAgent())
	require.NoError(t, err)
	assert.Equal(t, domain.AgentWorking, agent.Status)
	assert.Equal(t, time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC), agent.LastHeartbeat.UTC())
	assert.True(t, agent.Healthy(0.8))

	in := validAgent()
	in["id"] = "agent-1"
	in["name"] = ""
	in["status"] = "sleeping"
	in["last_heartbeat"] = "2026-10-16"
	delete(in, "role")

	_, err = ParseAgent(in)
	vErr := requireIssues(t, err)
	assert.Equal(t, map[string][]string{
		"id":             {"Invalid uuid"},
		"name":           {"String must contain at least 1 character(s)"},
		"role":           {"Required"},
		"status":         {"Invalid enum value. Expected 'idle' | 'working' | 'error' | 'offline', received 'sleeping'"},
		"last_heartbeat": {"Invalid datetime"},
	}, vErr.FieldErrors())
}

func validKpi() map[string]any {
	return map[string]any{
		"id":     "kpi-orders-open",
		"module": "orders",
		"name":   "Pedidos em aberto",
		"value":  float64(128),
	}
}

func TestParseKpiModule(t *testing.T) {
	kpi, err := ParseKpi(validKpi())
	require.NoError(t, err)
	assert.Equal(t, domain.ModuleOrders, kpi.Module)
	assert.False(t, kpi.Trend.IsSet())
	assert.False(t, kpi.Unit.IsSet())

	in := validKpi()
	in["module"] = "unknown_module"
	_, err = ParseKpi(in)
	vErr := requireIssues(t, err)
	require.Len(t, vErr.Issues, 1)
	assert.Equal(t, CodeInvalidEnumValue, vErr.Issues[0].Code)
	assert.Equal(t, "module", vErr.Issues[0].Field())

	// Модули исполнительного уровня не входят в набор обычных KPI.
	in["module"] = "purchasing"
	_, err = ParseKpi(in)
	requireIssues(t, err)
}

func TestParseKpiValueUnion(t *testing.T) {
	in := validKpi()
	in["value"] = "R$ 1,2 mi"
	in["trend"] = -3.5
	in["unit"] = "BRL"

	kpi, err := ParseKpi(in)
	require.NoError(t, err)
	text, ok := kpi.Value.Text()
	require.True(t, ok)
	assert.Equal(t, "R$ 1,2 mi", text)
	assert.Equal(t, -3.5, kpi.Trend.OrElse(0))
	assert.Equal(t, domain.Some("BRL"), kpi.Unit)

	in["value"] = true
	_, err = ParseKpi(in)
	vErr := requireIssues(t, err)
	assert.Equal(t, CodeInvalidUnion, vErr.Issues[0].Code)

	in["value"] = float64(10)
	in["trend"] = nil
	_, err = ParseKpi(in)
	vErr = requireIssues(t, err)
	assert.Equal(t, []string{"Expected number, received null"}, vErr.Messages())
}

func TestParseExecutiveKpi(t *testing.T) {
	in := map[string]any{
		"id":     "exec-margin",
		"module": "financial",
		"name":   "Margem bruta",
		"value":  0.42,
		"trend":  1.2,
		"period": "2026-Q3",
	}
	kpi, err := ParseExecutiveKpi(in)
	require.NoError(t, err)
	assert.Equal(t, 1.2, kpi.Trend)
	assert.Equal(t, "2026-Q3", kpi.Period)

	delete(in, "trend")
	delete(in, "period")
	in["module"] = "marketing"
	_, err = ParseExecutiveKpi(in)
	vErr := requireIssues(t, err)
	assert.Equal(t, []string{"module", "trend", "period"}, fields(vErr))
}

func TestParseAIInsight(t *testing.T) {
	in := map[string]any{
		"id":           "ins-1",
		"module":       "ai_insights",
		"type":         "risk",
		"insight":      "Estoque de insumos abaixo do mínimo em 3 plantas",
		"period":       "2026-10",
		"generated_at": "2026-10-16T08:00:00.123-03:00",
	}
	insight, err := ParseAIInsight(in)
	require.NoError(t, err)
	assert.Equal(t, domain.InsightRisk, insight.Type)
	assert.Equal(t, 123*time.Millisecond, time.Duration(insight.GeneratedAt.Nanosecond()))

	in["type"] = "neutral"
	in["generated_at"] = "yesterday"
	_, err = ParseAIInsight(in)
	vErr := requireIssues(t, err)
	assert.Equal(t, []string{"type", "generated_at"}, fields(vErr))
	assert.Equal(t, CodeInvalidEnumValue, vErr.Issues[0].Code)
}

func TestParseSyncLog(t *testing.T) {
	in := map[string]any{
		"id":         agentID,
		"agent_name": "estoque-sync",
		"action":     "pull_inventory",
		"status":     "success",
		"timestamp":  "2026-10-16T10:00:00Z",
		"metadata":   map[string]any{"rows": float64(42), "tags": []any{"erp", "nightly"}},
	}
	log, err := ParseSyncLog(in)
	require.NoError(t, err)
	assert.False(t, log.Module.IsSet())
	assert.Equal(t, map[string]any{"rows": float64(42), "tags": []any{"erp", "nightly"}}, log.Metadata.Raw())

	delete(in, "metadata")
	log, err = ParseSyncLog(in)
	require.NoError(t, err)
	assert.True(t, log.Metadata.IsAbsent())

	in["status"] = "done"
	in["agent_name"] = ""
	in["module"] = float64(3)
	_, err = ParseSyncLog(in)
	vErr := requireIssues(t, err)
	assert.Equal(t, []string{"agent_name", "module", "status"}, fields(vErr))
}

func TestParseReportKeepsConfigOpaque(t *testing.T) {
	report, err := ParseReport(map[string]any{
		"id":     "r1",
		"name":   "Vendas por região",
		"config": []any{"anything", float64(1), nil},
	})
	require.NoError(t, err)
	assert.Equal(t, []any{"anything", float64(1), nil}, report.Config.Raw())

	_, err = ParseReport(map[string]any{"config": "x"})
	vErr := requireIssues(t, err)
	assert.Equal(t, []string{"id", "name"}, fields(vErr))
}

func fields(vErr *ValidationError) []string {
	out := make([]string, len(vErr.Issues))
	for i, issue := range vErr.Issues {
		out[i] = issue.Field()
	}
	return out
}

func TestHugeNumbersStayOnTheirField(t *testing.T) {
	kpi, err := Decode([]byte(`{"id":"k1","module":"sales","name":"Receita","value":1e400,"trend":2}`))
	require.NoError(t, err)
	_, err = ParseKpi(kpi)
	vErr := requireIssues(t, err)
	assert.Equal(t, []string{"value"}, fields(vErr))
	assert.Equal(t, CodeTooBig, vErr.Issues[0].Code)

	log, err := Decode([]byte(`{"id":"` + agentID + `","agent_name":"","action":"pull","status":"info",` +
		`"timestamp":"2026-10-16T10:00:00Z","metadata":{"rows":1e400}}`))
	require.NoError(t, err)
	_, err = ParseSyncLog(log)
	vErr = requireIssues(t, err)
	assert.Equal(t, []string{"agent_name", "metadata"}, fields(vErr))

	agent := validAgent()
	agent["health_score"] = json.Number("1e400")
	_, err = ParseAgent(agent)
	vErr = requireIssues(t, err)
	assert.Equal(t, []string{"health_score"}, fields(vErr))
	assert.Equal(t, "Number must be finite", vErr.Issues[0].Message)
}
