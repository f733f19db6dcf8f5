package param

import (
	"fmt"
	"strconv"
	"strings"
)

// Field declares one named, typed, constrained attribute of a Type. The
// declaration is shared by every instance of the type; instances only
// store explicit overrides.
type Field struct {
	Name    string
	Kind    Kind
	Default any
	Doc     string

	// AllowNone permits a null value in addition to the kind's domain.
	AllowNone bool
	// SkipSnapshot omits the field from snapshot blobs; decoded
	// instances fall back to the type-level default.
	SkipSnapshot bool
	// PerInstance marks the default as instance-owned: it is deep-copied
	// into every new instance, and the regeneration emitter always
	// includes the field because equality against a shared default is
	// not meaningful.
	PerInstance bool
	// Expr, when set, is a dynamic default: reading an unset field
	// evaluates the expression instead of returning Default.
	Expr string
}

// Validate checks value against the field's kind and constraints. A nil
// value passes only when AllowNone is set.
func (f *Field) Validate(value any) error {
	if value == nil {
		if f.AllowNone {
			return nil
		}
		return validationErr(f.Name, "null is not allowed", value)
	}
	return f.Kind.Validate(f.Name, value)
}

func (f *Field) encode(value any) (any, error) {
	if value == nil {
		if f.AllowNone {
			return nil, nil
		}
		return nil, validationErr(f.Name, "null is not allowed", value)
	}
	return f.Kind.Encode(f.Name, value)
}

func (f *Field) decode(raw any) (any, error) {
	if raw == nil {
		if f.AllowNone {
			return nil, nil
		}
		return nil, validationErr(f.Name, "null is not allowed", raw)
	}
	value, err := f.Kind.Decode(f.Name, raw)
	if err != nil {
		return nil, err
	}
	if err := f.Kind.Validate(f.Name, value); err != nil {
		return nil, err
	}
	return value, nil
}

// Kind is one member of the closed set of field kinds. Each kind owns the
// validate/encode/decode/schema rules for its values; constraints
// (bounds, element kinds) live on the kind value itself so kinds compose.
type Kind interface {
	// Tag returns the stable kind identifier used in schemas and errors.
	Tag() string
	// Validate checks a runtime value against the kind's constraints.
	Validate(field string, value any) error
	// Encode converts a runtime value into a JSON-encodable shape.
	Encode(field string, value any) (any, error)
	// Decode inverts Encode for a raw JSON-decoded value (numbers arrive
	// as json.Number). Decode does not validate; callers follow up with
	// Validate.
	Decode(field string, raw any) (any, error)
	// Schema returns a JSON-Schema properties fragment for the kind.
	Schema(field string) (map[string]any, error)
	// CheckRoundTrip reports whether every value of this kind is
	// guaranteed to survive Encode then Decode unchanged.
	CheckRoundTrip(field string) error
}

// Bounds constrains a numeric domain with per-end inclusivity. A nil
// *Bounds means unbounded; a nil endpoint leaves that end open.
type Bounds struct {
	Lo, Hi       *float64
	IncLo, IncHi bool
}

// Closed returns the inclusive interval [lo, hi].
func Closed(lo, hi float64) *Bounds {
	return &Bounds{Lo: &lo, Hi: &hi, IncLo: true, IncHi: true}
}

// HalfOpen returns the interval [lo, hi).
func HalfOpen(lo, hi float64) *Bounds {
	return &Bounds{Lo: &lo, Hi: &hi, IncLo: true}
}

// AtLeast returns the interval [lo, +inf).
func AtLeast(lo float64) *Bounds {
	return &Bounds{Lo: &lo, IncLo: true}
}

// Contains reports whether v lies inside the bounds.
func (b *Bounds) Contains(v float64) bool {
	if b == nil {
		return true
	}
	if b.Lo != nil {
		if v < *b.Lo || (v == *b.Lo && !b.IncLo) {
			return false
		}
	}
	if b.Hi != nil {
		if v > *b.Hi || (v == *b.Hi && !b.IncHi) {
			return false
		}
	}
	return true
}

// String renders the bounds in interval notation, e.g. "[2, 30)".
func (b *Bounds) String() string {
	if b == nil {
		return "(-inf, +inf)"
	}
	var sb strings.Builder
	if b.Lo != nil && b.IncLo {
		sb.WriteByte('[')
	} else {
		sb.WriteByte('(')
	}
	sb.WriteString(boundText(b.Lo, "-inf"))
	sb.WriteString(", ")
	sb.WriteString(boundText(b.Hi, "+inf"))
	if b.Hi != nil && b.IncHi {
		sb.WriteByte(']')
	} else {
		sb.WriteByte(')')
	}
	return sb.String()
}

func boundText(v *float64, open string) string {
	if v == nil {
		return open
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

func (b *Bounds) schemaInto(fragment map[string]any) {
	if b == nil {
		return
	}
	if b.Lo != nil {
		if b.IncLo {
			fragment["minimum"] = *b.Lo
		} else {
			fragment["exclusiveMinimum"] = *b.Lo
		}
	}
	if b.Hi != nil {
		if b.IncHi {
			fragment["maximum"] = *b.Hi
		} else {
			fragment["exclusiveMaximum"] = *b.Hi
		}
	}
}

// Span is the value form of a range field: an ordered pair of endpoints.
type Span struct {
	Lo, Hi float64
}

// Table is the value form of a tabular field: column labels plus
// row-major cells. Cells hold scalars (int, float64, string, bool, nil).
type Table struct {
	Columns []string
	Rows    [][]any
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out := &Table{Columns: append([]string(nil), t.Columns...)}
	out.Rows = make([][]any, len(t.Rows))
	for i, row := range t.Rows {
		out.Rows[i] = append([]any(nil), row...)
	}
	return out
}

// Function is a callable registered against evaluators and usable as a
// Callable field value.
type Function func(args ...any) (any, error)

// Callable is the value form of a callable field: a function paired with
// the registry name that identifies it across processes.
type Callable struct {
	Name string
	Fn   Function
}

func (c Callable) String() string {
	return fmt.Sprintf("callable(%s)", c.Name)
}
