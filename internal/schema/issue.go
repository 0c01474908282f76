// Package schema проверяет недоверенный ввод (обычно разобранный JSON) на
// соответствие контрактам сущностей дашборда и возвращает типизированные значения.
//
// Каждая функция Parse* чистая: без состояния, без I/O, безопасна для
// конкурентного вызова. Ошибка всегда *ValidationError со списком всех
// нарушений, найденных за один проход.
package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Code: машинно-читаемый вид нарушения.
type Code string

const (
	CodeInvalidType      Code = "invalid_type"
	CodeInvalidString    Code = "invalid_string"
	CodeInvalidEnumValue Code = "invalid_enum_value"
	CodeInvalidUnion     Code = "invalid_union"
	CodeTooSmall         Code = "too_small"
	CodeTooBig           Code = "too_big"
)

// Path: путь до поля: строки для ключей объекта, int для индексов массива.
type Path []any

// String склеивает путь через точку: items.0.quantity
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, seg := range p {
		switch s := seg.(type) {
		case string:
			parts[i] = s
		case int:
			parts[i] = strconv.Itoa(s)
		default:
			parts[i] = fmt.Sprint(s)
		}
	}
	return strings.Join(parts, ".")
}

// With возвращает новый путь; исходный срез не меняется.
func (p Path) With(seg any) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// Issue: одно нарушение контракта.
type Issue struct {
	Code    Code   `json:"code"`
	Path    Path   `json:"path"`
	Message string `json:"message"`
}

func (i Issue) Field() string {
	return i.Path.String()
}

func (i Issue) String() string {
	if len(i.Path) == 0 {
		return i.Message
	}
	return i.Path.String() + ": " + i.Message
}

// ValidationError: единственный вид ошибки слоя валидации.
// Issues никогда не пуст и упорядочен по порядку объявления полей.
type ValidationError struct {
	Entity string  `json:"entity"`
	Issues []Issue `json:"issues"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	noun := "issues"
	if len(e.Issues) == 1 {
		noun = "issue"
	}
	return fmt.Sprintf("%s: %d validation %s: %s", e.Entity, len(e.Issues), noun, strings.Join(parts, "; "))
}

// FieldErrors группирует сообщения по пути поля. Ошибки корня идут под ключом "".
func (e *ValidationError) FieldErrors() map[string][]string {
	out := make(map[string][]string, len(e.Issues))
	for _, issue := range e.Issues {
		key := issue.Field()
		out[key] = append(out[key], issue.Message)
	}
	return out
}

// Messages: плоский список сообщений в исходном порядке.
func (e *ValidationError) Messages() []string {
	out := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		out[i] = issue.Message
	}
	return out
}

// AsValidationError достаёт *ValidationError из цепочки ошибок.
func AsValidationError(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}
