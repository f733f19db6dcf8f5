package param

import (
	"encoding/json"
	"fmt"

	"github.com/majidaldo/param/internal/hydrate"
)

// InterchangeOption configures Serialize, Deserialize and Schema.
type InterchangeOption func(*interchangeConfig)

type interchangeConfig struct {
	subset []string
	safe   bool
}

// WithSubset restricts the processed fields to the named ones. Unknown
// names fail with *UnknownFieldError before any encoding work begins.
func WithSubset(names ...string) InterchangeOption {
	return func(cfg *interchangeConfig) {
		cfg.subset = append(cfg.subset, names...)
	}
}

// WithSafe makes Schema verify that every processed field is guaranteed
// to round-trip through the interchange encoding, failing otherwise.
func WithSafe() InterchangeOption {
	return func(cfg *interchangeConfig) {
		cfg.safe = true
	}
}

func applyInterchangeOptions(opts []InterchangeOption) interchangeConfig {
	cfg := interchangeConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// selectFields resolves a subset against the type, preserving field
// declaration order. A nil subset selects every declared field.
func selectFields(t *Type, subset []string) ([]*Field, error) {
	if subset == nil {
		return t.Fields(), nil
	}
	wanted := make(map[string]bool, len(subset))
	for _, name := range subset {
		if _, ok := t.Field(name); !ok {
			return nil, &UnknownFieldError{Type: t.Path(), Field: name}
		}
		wanted[name] = true
	}
	fields := make([]*Field, 0, len(wanted))
	for _, f := range t.Fields() {
		if wanted[f.Name] {
			fields = append(fields, f)
		}
	}
	return fields, nil
}

// Serialize encodes the instance's field values as a JSON object, one
// per-kind encoded value per field: the explicit value when set, else
// the type default. Fields whose kind has no interchange encoding fail
// with *UnsupportedFieldError unless excluded via WithSubset.
func Serialize(inst *Instance, opts ...InterchangeOption) ([]byte, error) {
	cfg := applyInterchangeOptions(opts)
	fields, err := selectFields(inst.Type(), cfg.subset)
	if err != nil {
		return nil, err
	}
	doc := make(map[string]any, len(fields))
	for _, f := range fields {
		value, err := inst.Get(f.Name)
		if err != nil {
			return nil, err
		}
		encoded, err := f.encode(value)
		if err != nil {
			return nil, err
		}
		doc[f.Name] = encoded
	}
	return json.Marshal(doc)
}

// Deserialize decodes a JSON interchange document into a field-to-value
// mapping directed by the type's declared kinds: a two-element array
// becomes a Span for a range field, not a list, and every decoded value
// is validated against the field's constraints before it is returned.
// Callers construct an instance with Type.New on the result. Document
// keys not declared on the type are rejected; declared keys outside the
// subset are ignored.
func Deserialize(t *Type, data []byte, opts ...InterchangeOption) (map[string]any, error) {
	cfg := applyInterchangeOptions(opts)
	fields, err := selectFields(t, cfg.subset)
	if err != nil {
		return nil, err
	}
	doc, err := hydrate.Document(data)
	if err != nil {
		return nil, err
	}
	for name := range doc {
		if _, ok := t.Field(name); !ok {
			return nil, &UnknownFieldError{Type: t.Path(), Field: name}
		}
	}
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		raw, present := doc[f.Name]
		if !present {
			continue
		}
		value, err := f.decode(raw)
		if err != nil {
			return nil, err
		}
		out[f.Name] = value
	}
	return out, nil
}

// Schema emits one JSON-Schema properties-compatible fragment per
// processed field: type tag, bounds with exclusivity, nullability and
// element constraints. With WithSafe it additionally verifies each
// field's kind and declared default are guaranteed to round-trip.
func Schema(t *Type, opts ...InterchangeOption) (map[string]map[string]any, error) {
	cfg := applyInterchangeOptions(opts)
	fields, err := selectFields(t, cfg.subset)
	if err != nil {
		return nil, err
	}
	out := make(map[string]map[string]any, len(fields))
	for _, f := range fields {
		fragment, err := FieldSchema(f)
		if err != nil {
			return nil, err
		}
		if cfg.safe {
			if err := checkFieldRoundTrip(f); err != nil {
				return nil, err
			}
		}
		out[f.Name] = fragment
	}
	return out, nil
}

// FieldSchema emits the JSON-Schema properties fragment for one field
// declaration: the kind's fragment plus nullability, documentation and
// the encoded default.
func FieldSchema(f *Field) (map[string]any, error) {
	fragment, err := f.Kind.Schema(f.Name)
	if err != nil {
		return nil, err
	}
	if f.AllowNone {
		if tag, ok := fragment["type"].(string); ok {
			fragment["type"] = []any{tag, "null"}
		}
	}
	if f.Doc != "" {
		fragment["description"] = f.Doc
	}
	if f.Default != nil && f.Expr == "" {
		encoded, err := f.Kind.Encode(f.Name, f.Default)
		if err == nil {
			fragment["default"] = encoded
		}
	}
	return fragment, nil
}

// checkFieldRoundTrip verifies the kind guarantees lossless round-trips
// and that the declared default actually encodes.
func checkFieldRoundTrip(f *Field) error {
	if err := f.Kind.CheckRoundTrip(f.Name); err != nil {
		return err
	}
	if f.Default == nil {
		if !f.AllowNone && f.Expr == "" {
			return fmt.Errorf("param: field %q: default is not representable", f.Name)
		}
		return nil
	}
	if _, err := f.Kind.Encode(f.Name, f.Default); err != nil {
		return err
	}
	return nil
}
