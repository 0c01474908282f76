package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// KpiValue: значение метрики: либо строка ("R$ 1,2 mi"), либо число.
type KpiValue struct {
	text     string
	number   float64
	isNumber bool
}

func TextValue(s string) KpiValue {
	return KpiValue{text: s}
}

func NumberValue(f float64) KpiValue {
	return KpiValue{number: f, isNumber: true}
}

func (v KpiValue) IsNumber() bool {
	return v.isNumber
}

// Number возвращает число и false, если значение строковое.
func (v KpiValue) Number() (float64, bool) {
	return v.number, v.isNumber
}

// Text возвращает строку и false, если значение числовое.
func (v KpiValue) Text() (string, bool) {
	return v.text, !v.isNumber
}

func (v KpiValue) String() string {
	if v.isNumber {
		return strconv.FormatFloat(v.number, 'f', -1, 64)
	}
	return v.text
}

func (v KpiValue) MarshalJSON() ([]byte, error) {
	if v.isNumber {
		return json.Marshal(v.number)
	}
	return json.Marshal(v.text)
}

func (v *KpiValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case string:
		*v = TextValue(t)
	case float64:
		*v = NumberValue(t)
	default:
		return fmt.Errorf("kpi value: expected string or number, got %T", raw)
	}
	return nil
}

// Kpi: метрика операционного дашборда.
type Kpi struct {
	ID          string            `json:"id"`
	Module      Module            `json:"module"`
	Name        string            `json:"name"`
	Value       KpiValue          `json:"value"`
	Trend       Optional[float64] `json:"trend,omitzero"`
	Unit        Optional[string]  `json:"unit,omitzero"`
	Description Optional[string]  `json:"description,omitzero"`
}

// ExecutiveKpi: метрика для руководства: trend и period обязательны.
type ExecutiveKpi struct {
	ID          string           `json:"id"`
	Module      Module           `json:"module"`
	Name        string           `json:"name"`
	Value       KpiValue         `json:"value"`
	Trend       float64          `json:"trend"`
	Period      string           `json:"period"`
	Unit        Optional[string] `json:"unit,omitzero"`
	Description Optional[string] `json:"description,omitzero"`
}
