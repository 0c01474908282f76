package domain

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Value: непрозрачное структурированное значение (config отчёта, metadata лога).
// Внутри всегда дерево из nil, bool, float64, string, []any и map[string]any.
// Форма намеренно не фиксируется.
type Value struct {
	tree    any
	present bool
}

// NewValue нормализует произвольное значение в дерево примитивов.
func NewValue(v any) (Value, error) {
	tree, err := normalize(v)
	if err != nil {
		return Value{}, err
	}
	return Value{tree: tree, present: true}, nil
}

// Raw отдаёт нормализованное дерево. Для отсутствующего значения: nil.
func (v Value) Raw() any {
	return v.tree
}

// IsAbsent: поле не было передано вовсе (в отличие от явного null).
func (v Value) IsAbsent() bool {
	return !v.present
}

func (v Value) IsZero() bool {
	return !v.present
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.tree)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = Value{tree: raw, present: true}
	return nil
}

func normalize(v any) (any, error) {
	switch t := v.(type) {
	case nil, bool, string, float64:
		return t, nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("value: bad number %q: %w", t.String(), err)
		}
		return f, nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			n, err := normalize(item)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			n, err := normalize(item)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case Value:
		return t.tree, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.Float32:
		return rv.Float(), nil
	}

	// Всё остальное (структуры, типизированные мапы и срезы) прогоняем через JSON.
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("value: unsupported %T: %w", v, err)
	}
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("value: decode %T: %w", v, err)
	}
	return tree, nil
}
