package domain

import "time"

// InsightType: окраска AI-инсайта.
type InsightType string

const (
	InsightOpportunity InsightType = "opportunity"
	InsightPositive    InsightType = "positive"
	InsightRisk        InsightType = "risk"
)

var InsightTypes = []InsightType{InsightOpportunity, InsightPositive, InsightRisk}

// AIInsight: сгенерированный моделью вывод по модулю за период.
type AIInsight struct {
	ID          string      `json:"id"`
	Module      Module      `json:"module"`
	Type        InsightType `json:"type"`
	Insight     string      `json:"insight"`
	Period      string      `json:"period"`
	GeneratedAt time.Time   `json:"generated_at"`
}
