package schema

import "github.com/xela07ax/bizdash/internal/domain"

// ParseSyncLog проверяет запись журнала синхронизации; metadata не разбирается.
func ParseSyncLog(input any) (domain.SyncLog, error) {
	return run(EntitySyncLog, input, parseSyncLog)
}

func parseSyncLog(c *checker, path Path, v any) domain.SyncLog {
	o, ok := c.object(path, v)
	if !ok {
		return domain.SyncLog{}
	}
	return domain.SyncLog{
		ID:        o.uuidField("id", ""),
		AgentName: o.str("agent_name", minLen(1)),
		Module:    o.optStr("module"),
		Action:    o.str("action"),
		Status:    enum(o, "status", domain.SyncStatuses),
		Timestamp: o.datetime("timestamp"),
		Metadata:  o.opaque("metadata"),
	}
}
