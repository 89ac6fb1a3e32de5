package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ID - идентификатор, который upstream присылает то числом, то строкой.
// Сравнивать идентификаторы нужно только через Canonical.
type ID string

// Canonical возвращает каноническую строковую форму идентификатора
func (id ID) Canonical() string {
	s := strings.TrimSpace(string(id))
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}
	if d, err := decimal.NewFromString(s); err == nil && d.IsInteger() {
		return d.String()
	}
	return s
}

// IDFromInt builds an ID from a numeric key
func IDFromInt(n int64) ID {
	return ID(strconv.FormatInt(n, 10))
}

// UnmarshalJSON поддерживает id как строкой, так и числом
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	*id = ID(data)
	return nil
}

// Scan implements sql.Scanner
func (id *ID) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*id = ""
	case int64:
		*id = IDFromInt(v)
	case []byte:
		*id = ID(v)
	case string:
		*id = ID(v)
	default:
		return fmt.Errorf("unsupported id type %T", src)
	}
	return nil
}

// Value implements driver.Valuer
func (id ID) Value() (driver.Value, error) {
	if id == "" {
		return nil, nil
	}
	return id.Canonical(), nil
}

// RawNumber - числовое значение, пришедшее числом или строкой.
// Разбор никогда не завершается ошибкой: мусор превращается в ноль.
type RawNumber struct {
	raw     string
	text    bool
	present bool
}

// NumberFromString wraps a value that arrived as a string
func NumberFromString(s string) RawNumber {
	return RawNumber{raw: s, text: true, present: true}
}

// NumberFromInt wraps a value that arrived as a JSON/SQL number
func NumberFromInt(n int64) RawNumber {
	return RawNumber{raw: strconv.FormatInt(n, 10), present: true}
}

// NumberFromFloat wraps a value that arrived as a JSON/SQL number
func NumberFromFloat(f float64) RawNumber {
	return RawNumber{raw: strconv.FormatFloat(f, 'f', -1, 64), present: true}
}

// NumberFromDecimal wraps a decimal amount
func NumberFromDecimal(d decimal.Decimal) RawNumber {
	return RawNumber{raw: d.String(), present: true}
}

// IsPresent reports whether any value arrived at all
func (n RawNumber) IsPresent() bool {
	return n.present
}

// IsText reports whether the value arrived as a string
func (n RawNumber) IsText() bool {
	return n.text
}

func (n RawNumber) String() string {
	return n.raw
}

var floatPrefix = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// Decimal разбирает значение как десятичное число. Строки разбираются по
// префиксу, как parseFloat. ok=false означает NaN или бесконечность: значение
// не годится для сумм.
func (n RawNumber) Decimal() (decimal.Decimal, bool) {
	if !n.present {
		return decimal.Zero, false
	}
	s := n.raw
	if n.text {
		s = floatPrefix.FindString(strings.TrimLeft(s, " \t\r\n"))
		if s == "" {
			return decimal.Zero, false
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	// за пределами float64 parseFloat дает Infinity
	if f, _ := d.Float64(); math.IsInf(f, 0) {
		return decimal.Zero, false
	}
	return d, true
}

// Int разбирает значение как целое по основанию 10 (как parseInt).
// Отсутствующее, нераспознанное или отрицательное значение дает 0.
func (n RawNumber) Int() int64 {
	if !n.present {
		return 0
	}
	if !n.text {
		d, err := decimal.NewFromString(n.raw)
		if err != nil || d.IsNegative() {
			return 0
		}
		return d.IntPart()
	}

	s := strings.TrimLeft(n.raw, " \t\r\n")
	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 || negative {
		return 0
	}
	v, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// UnmarshalJSON принимает число, строку или null
func (n *RawNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*n = RawNumber{}
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumberFromString(s)
	default:
		// Любой другой литерал сохраняем как есть, разбор отложен до Decimal/Int.
		*n = RawNumber{raw: string(data), present: true}
	}
	return nil
}

// MarshalJSON keeps the original representation
func (n RawNumber) MarshalJSON() ([]byte, error) {
	if !n.present {
		return []byte("null"), nil
	}
	if n.text {
		return json.Marshal(n.raw)
	}
	if _, err := decimal.NewFromString(n.raw); err != nil {
		return json.Marshal(n.raw)
	}
	return []byte(n.raw), nil
}

// Scan implements sql.Scanner
func (n *RawNumber) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*n = RawNumber{}
	case int64:
		*n = NumberFromInt(v)
	case float64:
		*n = NumberFromFloat(v)
	case []byte:
		*n = NumberFromString(string(v))
	case string:
		*n = NumberFromString(v)
	default:
		return fmt.Errorf("unsupported numeric type %T", src)
	}
	return nil
}

// Value implements driver.Valuer
func (n RawNumber) Value() (driver.Value, error) {
	if !n.present {
		return nil, nil
	}
	return n.raw, nil
}

// HealthResponse - ответ /health
type HealthResponse struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Version  string `json:"version"`
	Database string `json:"database,omitempty"`
}

// ErrorResponse - тело ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}
