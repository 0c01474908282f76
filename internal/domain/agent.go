package domain

import (
	"time"

	"github.com/google/uuid"
)

type AgentStatus string

const (
	AgentIdle    AgentStatus = "idle"
	AgentWorking AgentStatus = "working"
	AgentError   AgentStatus = "error"
	AgentOffline AgentStatus = "offline"
)

var AgentStatuses = []AgentStatus{AgentIdle, AgentWorking, AgentError, AgentOffline}

// Agent: состояние агента автоматизации, как его видит дашборд.
type Agent struct {
	ID            uuid.UUID   `json:"id"`
	Name          string      `json:"name"`
	Role          string      `json:"role"`
	Status        AgentStatus `json:"status"`
	LastHeartbeat time.Time   `json:"last_heartbeat"`
	HealthScore   float64     `json:"health_score"` // [0, 1] включительно
}

// Healthy: агент на связи и его оценка не ниже порога.
func (a Agent) Healthy(threshold float64) bool {
	if a.Status == AgentError || a.Status == AgentOffline {
		return false
	}
	return a.HealthScore >= threshold
}
