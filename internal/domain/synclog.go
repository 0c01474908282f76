package domain

import (
	"time"

	"github.com/google/uuid"
)

type SyncStatus string

const (
	SyncRunning SyncStatus = "running"
	SyncSuccess SyncStatus = "success"
	SyncError   SyncStatus = "error"
	SyncInfo    SyncStatus = "info"
)

var SyncStatuses = []SyncStatus{SyncRunning, SyncSuccess, SyncError, SyncInfo}

// SyncLog: запись операционного журнала синхронизации агентов.
type SyncLog struct {
	ID        uuid.UUID        `json:"id"`
	AgentName string           `json:"agent_name"`
	Module    Optional[string] `json:"module,omitzero"`
	Action    string           `json:"action"`
	Status    SyncStatus       `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Metadata  Value            `json:"metadata,omitzero"` // Произвольная структура
}
