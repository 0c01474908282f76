package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Имена сущностей: используются в путях API, каналах Redis и метках метрик.
const (
	EntityOrderItem    = "order_item"
	EntityCreateOrder  = "create_order"
	EntityKpi          = "kpi"
	EntityExecutiveKpi = "executive_kpi"
	EntityAIInsight    = "ai_insight"
	EntityAgent        = "agent"
	EntitySyncLog      = "sync_log"
	EntityReport       = "report"
)

// Parser: нетипизированная форма Parse* для диспетчеризации по имени.
type Parser func(input any) (any, error)

func erase[T any](parse func(any) (T, error)) Parser {
	return func(input any) (any, error) {
		v, err := parse(input)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

var entities = []string{
	EntityOrderItem,
	EntityCreateOrder,
	EntityKpi,
	EntityExecutiveKpi,
	EntityAIInsight,
	EntityAgent,
	EntitySyncLog,
	EntityReport,
}

var parsers = map[string]Parser{
	EntityOrderItem:    erase(ParseOrderItem),
	EntityCreateOrder:  erase(ParseCreateOrder),
	EntityKpi:          erase(ParseKpi),
	EntityExecutiveKpi: erase(ParseExecutiveKpi),
	EntityAIInsight:    erase(ParseAIInsight),
	EntityAgent:        erase(ParseAgent),
	EntitySyncLog:      erase(ParseSyncLog),
	EntityReport:       erase(ParseReport),
}

// Lookup возвращает парсер сущности по имени.
func Lookup(entity string) (Parser, bool) {
	p, ok := parsers[entity]
	return p, ok
}

// Entities: имена всех сущностей в стабильном порядке.
func Entities() []string {
	out := make([]string, len(entities))
	copy(out, entities)
	return out
}

// Decode разбирает JSON в нетипизированное дерево, сохраняя числа как json.Number.
// Хвост после первого значения считается ошибкой.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("schema: decode json: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("schema: decode json: unexpected data after top-level value")
	}
	return v, nil
}
