package domain

// Report: конверт конфигурации отчёта. Форма config пока не зафиксирована.
type Report struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Config Value  `json:"config,omitzero"`
}
