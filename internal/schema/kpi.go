package schema

import "github.com/xela07ax/bizdash/internal/domain"

// ParseKpi проверяет метрику операционного дашборда.
func ParseKpi(input any) (domain.Kpi, error) {
	return run(EntityKpi, input, parseKpi)
}

// ParseExecutiveKpi проверяет метрику руководителя: trend и period обязательны.
func ParseExecutiveKpi(input any) (domain.ExecutiveKpi, error) {
	return run(EntityExecutiveKpi, input, parseExecutiveKpi)
}

func parseKpi(c *checker, path Path, v any) domain.Kpi {
	o, ok := c.object(path, v)
	if !ok {
		return domain.Kpi{}
	}
	return domain.Kpi{
		ID:          o.str("id"),
		Module:      enum(o, "module", domain.KpiModules),
		Name:        o.str("name"),
		Value:       o.kpiValue("value"),
		Trend:       o.optNum("trend"),
		Unit:        o.optStr("unit"),
		Description: o.optStr("description"),
	}
}

func parseExecutiveKpi(c *checker, path Path, v any) domain.ExecutiveKpi {
	o, ok := c.object(path, v)
	if !ok {
		return domain.ExecutiveKpi{}
	}
	return domain.ExecutiveKpi{
		ID:          o.str("id"),
		Module:      enum(o, "module", domain.ExecutiveModules),
		Name:        o.str("name"),
		Value:       o.kpiValue("value"),
		Trend:       o.num("trend"),
		Period:      o.str("period"),
		Unit:        o.optStr("unit"),
		Description: o.optStr("description"),
	}
}

// kpiValue: объединение string | number.
func (o object) kpiValue(key string) domain.KpiValue {
	v, ok := o.lookup(key, true)
	if !ok {
		return domain.KpiValue{}
	}
	if s, isStr := v.(string); isStr {
		return domain.TextValue(s)
	}
	if f, isNum := asNumber(v); isNum {
		if !o.finite(o.path.With(key), f) {
			return domain.KpiValue{}
		}
		return domain.NumberValue(f)
	}
	o.c.add(o.path.With(key), CodeInvalidUnion, "Invalid input")
	return domain.KpiValue{}
}
