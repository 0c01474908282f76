package schema

import "github.com/xela07ax/bizdash/internal/domain"

// ParseAgent проверяет состояние агента, health_score в пределах [0, 1].
func ParseAgent(input any) (domain.Agent, error) {
	return run(EntityAgent, input, parseAgent)
}

func parseAgent(c *checker, path Path, v any) domain.Agent {
	o, ok := c.object(path, v)
	if !ok {
		return domain.Agent{}
	}
	return domain.Agent{
		ID:            o.uuidField("id", ""),
		Name:          o.str("name", minLen(1)),
		Role:          o.str("role"),
		Status:        enum(o, "status", domain.AgentStatuses),
		LastHeartbeat: o.datetime("last_heartbeat"),
		HealthScore:   o.num("health_score", gte(0, ""), lte(1, "")),
	}
}
