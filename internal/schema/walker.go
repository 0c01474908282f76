package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xela07ax/bizdash/internal/domain"
)

// maxSafeInteger: наибольшее целое, точно представимое во float64.
const maxSafeInteger = 1<<53 - 1

// checker накапливает нарушения за один проход.
type checker struct {
	issues []Issue
}

func (c *checker) add(path Path, code Code, msg string) {
	c.issues = append(c.issues, Issue{Code: code, Path: path, Message: msg})
}

func (c *checker) err(entity string) error {
	if len(c.issues) == 0 {
		return nil
	}
	return &ValidationError{Entity: entity, Issues: c.issues}
}

// run: общий каркас Parse*: приводит ввод к дереву JSON и вызывает разбор корня.
func run[T any](entity string, input any, parse func(c *checker, path Path, v any) T) (T, error) {
	var zero T
	c := &checker{}
	tree, err := plain(input)
	if err != nil {
		c.add(Path{}, CodeInvalidType, "Expected object, received unknown")
		return zero, c.err(entity)
	}
	out := parse(c, Path{}, tree)
	if err := c.err(entity); err != nil {
		return zero, err
	}
	return out, nil
}

// plain приводит Go-значения к виду encoding/json (map[string]any, []any,
// json.Number). Числа не разбираются: слишком большое число станет ошибкой
// только того поля, которое его читает.
func plain(v any) (any, error) {
	switch t := v.(type) {
	case nil, bool, string, float64, json.Number:
		return t, nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			n, err := plain(item)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			n, err := plain(item)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case domain.Value:
		return t.Raw(), nil
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

	// Структуры, типизированные мапы и срезы
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("schema: unsupported input %T: %w", v, err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("schema: decode %T: %w", v, err)
	}
	return tree, nil
}

// object: представление JSON-объекта для постраничной проверки полей.
type object struct {
	c      *checker
	path   Path
	fields map[string]any
}

func (c *checker) object(path Path, v any) (object, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		c.add(path, CodeInvalidType, expected("object", v))
		return object{}, false
	}
	return object{c: c, path: path, fields: m}, true
}

// lookup различает «нет ключа» и «ключ есть». Для обязательных полей отсутствие: "Required".
func (o object) lookup(key string, required bool) (any, bool) {
	v, ok := o.fields[key]
	if !ok && required {
		o.c.add(o.path.With(key), CodeInvalidType, "Required")
	}
	return v, ok
}

// stringRule проверяет уже извлечённую строку.
type stringRule func(s string) (Code, string, bool)

func minLen(n int) stringRule {
	return func(s string) (Code, string, bool) {
		if len([]rune(s)) >= n {
			return "", "", true
		}
		return CodeTooSmall, fmt.Sprintf("String must contain at least %d character(s)", n), false
	}
}

// uuidFormat: канонический вид 8-4-4-4-12, регистр не важен.
func uuidFormat(msg string) stringRule {
	return func(s string) (Code, string, bool) {
		if isCanonicalUUID(s) {
			return "", "", true
		}
		return CodeInvalidString, orDefault(msg, "Invalid uuid"), false
	}
}

func datetimeFormat(msg string) stringRule {
	return func(s string) (Code, string, bool) {
		if _, err := parseDatetime(s); err == nil {
			return "", "", true
		}
		return CodeInvalidString, orDefault(msg, "Invalid datetime"), false
	}
}

func (o object) checkString(key string, v any, rules []stringRule) (string, bool) {
	path := o.path.With(key)
	s, ok := v.(string)
	if !ok {
		o.c.add(path, CodeInvalidType, expected("string", v))
		return "", false
	}
	valid := true
	for _, rule := range rules {
		if code, msg, ok := rule(s); !ok {
			o.c.add(path, code, msg)
			valid = false
		}
	}
	return s, valid
}

func (o object) str(key string, rules ...stringRule) string {
	v, ok := o.lookup(key, true)
	if !ok {
		return ""
	}
	s, _ := o.checkString(key, v, rules)
	return s
}

func (o object) optStr(key string, rules ...stringRule) domain.Optional[string] {
	v, ok := o.lookup(key, false)
	if !ok {
		return domain.None[string]()
	}
	s, valid := o.checkString(key, v, rules)
	if !valid {
		return domain.None[string]()
	}
	return domain.Some(s)
}

func (o object) uuidField(key, msg string) uuid.UUID {
	v, ok := o.lookup(key, true)
	if !ok {
		return uuid.Nil
	}
	s, valid := o.checkString(key, v, []stringRule{uuidFormat(msg)})
	if !valid {
		return uuid.Nil
	}
	return uuid.MustParse(s)
}

func (o object) datetime(key string) time.Time {
	v, ok := o.lookup(key, true)
	if !ok {
		return time.Time{}
	}
	s, valid := o.checkString(key, v, []stringRule{datetimeFormat("")})
	if !valid {
		return time.Time{}
	}
	t, _ := parseDatetime(s)
	return t
}

// numberRule проверяет уже извлечённое число.
type numberRule func(f float64) (Code, string, bool)

func gte(min float64, msg string) numberRule {
	return func(f float64) (Code, string, bool) {
		if f >= min {
			return "", "", true
		}
		return CodeTooSmall, orDefault(msg, "Number must be greater than or equal to "+formatNumber(min)), false
	}
}

func lte(max float64, msg string) numberRule {
	return func(f float64) (Code, string, bool) {
		if f <= max {
			return "", "", true
		}
		return CodeTooBig, orDefault(msg, "Number must be less than or equal to "+formatNumber(max)), false
	}
}

func (o object) checkNumber(key string, v any, rules []numberRule) (float64, bool) {
	path := o.path.With(key)
	f, ok := asNumber(v)
	if !ok {
		o.c.add(path, CodeInvalidType, expected("number", v))
		return 0, false
	}
	if !o.finite(path, f) {
		return 0, false
	}
	valid := true
	for _, rule := range rules {
		if code, msg, ok := rule(f); !ok {
			o.c.add(path, code, msg)
			valid = false
		}
	}
	return f, valid
}

func (o object) num(key string, rules ...numberRule) float64 {
	v, ok := o.lookup(key, true)
	if !ok {
		return 0
	}
	f, _ := o.checkNumber(key, v, rules)
	return f
}

func (o object) optNum(key string, rules ...numberRule) domain.Optional[float64] {
	v, ok := o.lookup(key, false)
	if !ok {
		return domain.None[float64]()
	}
	f, valid := o.checkNumber(key, v, rules)
	if !valid {
		return domain.None[float64]()
	}
	return domain.Some(f)
}

// finite отсекает числа, не помещающиеся во float64 (1e400 в JSON).
func (o object) finite(path Path, f float64) bool {
	switch {
	case math.IsInf(f, 1):
		o.c.add(path, CodeTooBig, "Number must be finite")
		return false
	case math.IsInf(f, -1):
		o.c.add(path, CodeTooSmall, "Number must be finite")
		return false
	}
	return true
}

// integer: число без дробной части в пределах безопасного диапазона.
// Дробное значение всё равно проходит через rules, чтобы показать все нарушения.
func (o object) integer(key string, rules ...numberRule) int {
	v, ok := o.lookup(key, true)
	if !ok {
		return 0
	}
	path := o.path.With(key)
	f, isNum := asNumber(v)
	if !isNum {
		o.c.add(path, CodeInvalidType, expected("number", v))
		return 0
	}
	if !o.finite(path, f) {
		return 0
	}
	whole := math.Trunc(f) == f
	if !whole {
		o.c.add(path, CodeInvalidType, "Expected integer, received float")
	}
	if f > maxSafeInteger {
		o.c.add(path, CodeTooBig, "Number must be less than or equal to "+formatNumber(maxSafeInteger))
		return 0
	}
	if f < -maxSafeInteger {
		o.c.add(path, CodeTooSmall, "Number must be greater than or equal to "+formatNumber(-maxSafeInteger))
		return 0
	}
	for _, rule := range rules {
		if code, msg, ok := rule(f); !ok {
			o.c.add(path, code, msg)
		}
	}
	if !whole {
		return 0
	}
	return int(f)
}

// enum проверяет принадлежность закрытому набору.
func enum[T ~string](o object, key string, allowed []T) T {
	v, ok := o.lookup(key, true)
	if !ok {
		return ""
	}
	path := o.path.With(key)
	quoted := make([]string, len(allowed))
	for i, a := range allowed {
		quoted[i] = "'" + string(a) + "'"
	}
	s, isStr := v.(string)
	if !isStr {
		o.c.add(path, CodeInvalidType, fmt.Sprintf("Expected %s, received %s", strings.Join(quoted, " | "), typeName(v)))
		return ""
	}
	for _, a := range allowed {
		if string(a) == s {
			return a
		}
	}
	o.c.add(path, CodeInvalidEnumValue,
		fmt.Sprintf("Invalid enum value. Expected %s, received '%s'", strings.Join(quoted, " | "), s))
	return ""
}

// opaque принимает что угодно, включая отсутствие поля.
func (o object) opaque(key string) domain.Value {
	v, ok := o.lookup(key, false)
	if !ok {
		return domain.Value{}
	}
	val, err := domain.NewValue(v)
	if err != nil {
		// После plain сюда доходит только число вне float64
		o.c.add(o.path.With(key), CodeTooBig, "Number must be finite")
		return domain.Value{}
	}
	return val
}

// array возвращает элементы массива; путь элемента строится от возвращённого Path.
func (o object) array(key string, minItems int, msg string) ([]any, Path) {
	path := o.path.With(key)
	v, ok := o.lookup(key, true)
	if !ok {
		return nil, path
	}
	items, isArr := v.([]any)
	if !isArr {
		o.c.add(path, CodeInvalidType, expected("array", v))
		return nil, path
	}
	if len(items) < minItems {
		o.c.add(path, CodeTooSmall, orDefault(msg, fmt.Sprintf("Array must contain at least %d element(s)", minItems)))
	}
	return items, path
}

func isCanonicalUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// parseDatetime принимает дату-время ISO-8601 с обязательной зоной (Z или смещение).
func parseDatetime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func asNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	case json.Number:
		// Переполнение даёт ±Inf, его отдельно ловит finite
		parsed, err := strconv.ParseFloat(string(n), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func typeName(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case float64:
		if math.IsNaN(t) {
			return "nan"
		}
		return "number"
	}
	if _, ok := asNumber(v); ok {
		return "number"
	}
	return "unknown"
}

func expected(want string, got any) string {
	return fmt.Sprintf("Expected %s, received %s", want, typeName(got))
}

func formatNumber(f float64) string {
	return domain.NumberValue(f).String()
}

func orDefault(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}
