package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"dialdesk/internal/platform/net/http/bind"

	"github.com/shopspring/decimal"
)

const maxEmailLen = 254

// parse converts raw to the field kind, on failure it returns a hint for the caller
func (s *Schema) parse(f Field, raw string) (any, string, bool) {
	switch f.Kind {
	case KindPhone:
		v, err := s.phone.Normalize(raw)
		if err != nil {
			return nil, "international format, e.g. +919876543210", false
		}
		return v, "", true

	case KindEmail:
		v := strings.ToLower(raw)
		if len(v) > maxEmailLen || bind.Var(v, "email") != nil {
			return nil, "a valid email address", false
		}
		return v, "", true

	case KindDecimal:
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, decimalHint(f), false
		}
		d = d.Round(f.Scale)
		if f.Min.Valid && d.LessThan(f.Min.Decimal) {
			return nil, decimalHint(f), false
		}
		return d, "", true

	case KindInteger:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || (f.Min.Valid && decimal.NewFromInt(n).LessThan(f.Min.Decimal)) {
			return nil, integerHint(f), false
		}
		return n, "", true

	case KindEnum:
		for _, e := range f.Enum {
			if strings.EqualFold(raw, e) {
				return e, "", true
			}
		}
		return nil, "one of: " + strings.Join(f.Enum, ", "), false

	default:
		if f.MaxLen > 0 && utf8.RuneCountInString(raw) > f.MaxLen {
			return nil, fmt.Sprintf("at most %d characters", f.MaxLen), false
		}
		return raw, "", true
	}
}

func decimalHint(f Field) string {
	h := fmt.Sprintf("a number with up to %d decimal places", f.Scale)
	if f.Min.Valid {
		h += ", at least " + f.Min.Decimal.String()
	}
	return h
}

func integerHint(f Field) string {
	if f.Min.Valid {
		return "a whole number, at least " + f.Min.Decimal.String()
	}
	return "a whole number"
}

// scalar renders a decoded JSON value as text, objects, arrays and bools are refused
func scalar(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x), true
	case json.Number:
		return x.String(), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	}
	return "", false
}
