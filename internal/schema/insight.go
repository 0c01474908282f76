package schema

import "github.com/xela07ax/bizdash/internal/domain"

// ParseAIInsight проверяет сгенерированный инсайт.
func ParseAIInsight(input any) (domain.AIInsight, error) {
	return run(EntityAIInsight, input, parseAIInsight)
}

func parseAIInsight(c *checker, path Path, v any) domain.AIInsight {
	o, ok := c.object(path, v)
	if !ok {
		return domain.AIInsight{}
	}
	return domain.AIInsight{
		ID:          o.str("id"),
		Module:      enum(o, "module", domain.ExecutiveModules),
		Type:        enum(o, "type", domain.InsightTypes),
		Insight:     o.str("insight"),
		Period:      o.str("period"),
		GeneratedAt: o.datetime("generated_at"),
	}
}
