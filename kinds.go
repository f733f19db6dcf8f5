package param

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateFormat is the fixed interchange encoding for date values. It is an
// RFC 3339 timestamp with nanosecond precision retained when present.
const DateFormat = time.RFC3339Nano

// IntegerKind holds integer values, optionally constrained to Bounds.
type IntegerKind struct {
	Bounds *Bounds
}

func (IntegerKind) Tag() string { return "integer" }

func (k IntegerKind) Validate(field string, value any) error {
	n, ok := asInt(value)
	if !ok {
		return validationErr(field, "value must be an integer", value)
	}
	if !k.Bounds.Contains(float64(n)) {
		return validationErr(field, fmt.Sprintf("value must lie in %s", k.Bounds), value)
	}
	return nil
}

func (IntegerKind) Encode(field string, value any) (any, error) {
	n, ok := asInt(value)
	if !ok {
		return nil, validationErr(field, "value must be an integer", value)
	}
	return n, nil
}

func (IntegerKind) Decode(field string, raw any) (any, error) {
	num, ok := raw.(json.Number)
	if !ok {
		return nil, validationErr(field, "encoded value must be a number", raw)
	}
	n, err := num.Int64()
	if err != nil {
		return nil, validationErr(field, "encoded value must be an integer", raw)
	}
	return int(n), nil
}

func (k IntegerKind) Schema(string) (map[string]any, error) {
	fragment := map[string]any{"type": "integer"}
	k.Bounds.schemaInto(fragment)
	return fragment, nil
}

func (IntegerKind) CheckRoundTrip(string) error { return nil }

// NumberKind holds float values, optionally constrained to Bounds.
type NumberKind struct {
	Bounds *Bounds
}

func (NumberKind) Tag() string { return "number" }

func (k NumberKind) Validate(field string, value any) error {
	f, ok := asFloat(value)
	if !ok {
		return validationErr(field, "value must be a number", value)
	}
	if !k.Bounds.Contains(f) {
		return validationErr(field, fmt.Sprintf("value must lie in %s", k.Bounds), value)
	}
	return nil
}

func (NumberKind) Encode(field string, value any) (any, error) {
	f, ok := asFloat(value)
	if !ok {
		return nil, validationErr(field, "value must be a number", value)
	}
	return f, nil
}

func (NumberKind) Decode(field string, raw any) (any, error) {
	num, ok := raw.(json.Number)
	if !ok {
		return nil, validationErr(field, "encoded value must be a number", raw)
	}
	f, err := num.Float64()
	if err != nil {
		return nil, validationErr(field, "encoded value must be a number", raw)
	}
	return f, nil
}

func (k NumberKind) Schema(string) (map[string]any, error) {
	fragment := map[string]any{"type": "number"}
	k.Bounds.schemaInto(fragment)
	return fragment, nil
}

func (NumberKind) CheckRoundTrip(string) error { return nil }

// StringKind holds string values.
type StringKind struct{}

func (StringKind) Tag() string { return "string" }

func (StringKind) Validate(field string, value any) error {
	if _, ok := value.(string); !ok {
		return validationErr(field, "value must be a string", value)
	}
	return nil
}

func (StringKind) Encode(field string, value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, validationErr(field, "value must be a string", value)
	}
	return s, nil
}

func (StringKind) Decode(field string, raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, validationErr(field, "encoded value must be a string", raw)
	}
	return s, nil
}

func (StringKind) Schema(string) (map[string]any, error) {
	return map[string]any{"type": "string"}, nil
}

func (StringKind) CheckRoundTrip(string) error { return nil }

// BoolKind holds boolean values.
type BoolKind struct{}

func (BoolKind) Tag() string { return "boolean" }

func (BoolKind) Validate(field string, value any) error {
	if _, ok := value.(bool); !ok {
		return validationErr(field, "value must be a boolean", value)
	}
	return nil
}

func (BoolKind) Encode(field string, value any) (any, error) {
	b, ok := value.(bool)
	if !ok {
		return nil, validationErr(field, "value must be a boolean", value)
	}
	return b, nil
}

func (BoolKind) Decode(field string, raw any) (any, error) {
	b, ok := raw.(bool)
	if !ok {
		return nil, validationErr(field, "encoded value must be a boolean", raw)
	}
	return b, nil
}

func (BoolKind) Schema(string) (map[string]any, error) {
	return map[string]any{"type": "boolean"}, nil
}

func (BoolKind) CheckRoundTrip(string) error { return nil }

// DateKind holds time.Time values, encoded as RFC 3339 strings.
type DateKind struct{}

func (DateKind) Tag() string { return "date" }

func (DateKind) Validate(field string, value any) error {
	if _, ok := value.(time.Time); !ok {
		return validationErr(field, "value must be a date", value)
	}
	return nil
}

func (DateKind) Encode(field string, value any) (any, error) {
	t, ok := value.(time.Time)
	if !ok {
		return nil, validationErr(field, "value must be a date", value)
	}
	return t.Format(DateFormat), nil
}

func (DateKind) Decode(field string, raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, validationErr(field, "encoded value must be a date string", raw)
	}
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return nil, validationErr(field, fmt.Sprintf("encoded value must match %s", DateFormat), raw)
	}
	return t, nil
}

func (DateKind) Schema(string) (map[string]any, error) {
	return map[string]any{"type": "string", "format": "date-time"}, nil
}

func (DateKind) CheckRoundTrip(string) error { return nil }

func asInt(value any) (int, bool) {
	switch n := value.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case int32:
		return int(n), true
	default:
		return 0, false
	}
}

func asFloat(value any) (float64, bool) {
	switch f := value.(type) {
	case float64:
		return f, true
	case float32:
		return float64(f), true
	case int:
		return float64(f), true
	case int64:
		return float64(f), true
	default:
		return 0, false
	}
}

// decodeCell converts one raw JSON scalar into its runtime form for
// containers that carry no element kind: integral numbers become int,
// fractional ones float64.
func decodeCell(field string, raw any) (any, error) {
	switch v := raw.(type) {
	case nil, string, bool:
		return v, nil
	case json.Number:
		if !strings.ContainsAny(v.String(), ".eE") {
			if n, err := v.Int64(); err == nil {
				return int(n), nil
			}
		}
		f, err := v.Float64()
		if err != nil {
			return nil, validationErr(field, "encoded cell must be a number", raw)
		}
		return f, nil
	default:
		return nil, validationErr(field, "encoded cell must be a scalar", raw)
	}
}
