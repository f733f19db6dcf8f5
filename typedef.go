package param

import (
	"encoding/json"
	"fmt"

	"github.com/majidaldo/param/internal/hydrate"
)

// ParseTypeDefs reads a JSON type-definition document and returns a
// registry holding every declared type. The document shape is:
//
//	{
//	  "types": [
//	    {
//	      "name": "P",
//	      "namespace": "sim",
//	      "doc": "...",
//	      "fields": [
//	        {"name": "a", "kind": "integer", "default": 5,
//	         "bounds": {"lo": 2, "hi": 30, "inclusive_hi": false}},
//	        {"name": "m", "kind": "string", "default": "baz", "allow_none": true}
//	      ]
//	    }
//	  ]
//	}
//
// Field defaults use the interchange encoding for their kind, so a range
// default is written as a two-element array. Object fields reference
// earlier declarations in the same document by qualified path via "of".
func ParseTypeDefs(data []byte) (*TypeRegistry, error) {
	doc, err := hydrate.Document(data)
	if err != nil {
		return nil, err
	}

	rawTypes, ok := doc["types"].([]any)
	if !ok || len(rawTypes) == 0 {
		return nil, fmt.Errorf("param: typedef document must declare a non-empty %q array", "types")
	}

	registry, err := NewTypeRegistry()
	if err != nil {
		return nil, err
	}
	for i, rawType := range rawTypes {
		decl, ok := rawType.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("param: typedef entry %d is not an object", i)
		}
		t, err := parseTypeDecl(decl, registry)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(t); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func parseTypeDecl(decl map[string]any, resolved *TypeRegistry) (*Type, error) {
	name, _ := decl["name"].(string)
	if name == "" {
		return nil, fmt.Errorf("param: typedef entry requires a %q string", "name")
	}

	var opts []TypeOption
	if ns, ok := decl["namespace"].(string); ok && ns != "" {
		opts = append(opts, WithNamespace(ns))
	}
	if doc, ok := decl["doc"].(string); ok && doc != "" {
		opts = append(opts, WithDoc(doc))
	}

	rawFields, ok := decl["fields"].([]any)
	if !ok || len(rawFields) == 0 {
		return nil, fmt.Errorf("param: typedef %q requires a non-empty %q array", name, "fields")
	}
	fields := make([]*Field, 0, len(rawFields))
	for _, rawField := range rawFields {
		fieldDecl, ok := rawField.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("param: typedef %q has a malformed field entry", name)
		}
		f, err := parseFieldDecl(name, fieldDecl, resolved)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return NewType(name, fields, opts...)
}

func parseFieldDecl(typeName string, decl map[string]any, resolved *TypeRegistry) (*Field, error) {
	name, _ := decl["name"].(string)
	if name == "" {
		return nil, fmt.Errorf("param: typedef %q has a field without a name", typeName)
	}

	kind, err := parseKindDecl(typeName, name, decl, resolved)
	if err != nil {
		return nil, err
	}

	f := &Field{Name: name, Kind: kind}
	if doc, ok := decl["doc"].(string); ok {
		f.Doc = doc
	}
	if v, ok := decl["allow_none"].(bool); ok {
		f.AllowNone = v
	}
	if v, ok := decl["skip_snapshot"].(bool); ok {
		f.SkipSnapshot = v
	}
	if v, ok := decl["per_instance"].(bool); ok {
		f.PerInstance = v
	}
	if expr, ok := decl["expr"].(string); ok {
		f.Expr = expr
	}

	if raw, ok := decl["default"]; ok && raw != nil {
		value, err := kind.Decode(name, raw)
		if err != nil {
			return nil, fmt.Errorf("param: typedef %q field %q: default: %w", typeName, name, err)
		}
		f.Default = value
	}
	return f, nil
}

func parseKindDecl(typeName, fieldName string, decl map[string]any, resolved *TypeRegistry) (Kind, error) {
	tag, _ := decl["kind"].(string)
	switch tag {
	case "integer":
		bounds, err := parseBoundsDecl(decl)
		if err != nil {
			return nil, err
		}
		return IntegerKind{Bounds: bounds}, nil
	case "number":
		bounds, err := parseBoundsDecl(decl)
		if err != nil {
			return nil, err
		}
		return NumberKind{Bounds: bounds}, nil
	case "string":
		return StringKind{}, nil
	case "boolean":
		return BoolKind{}, nil
	case "date":
		return DateKind{}, nil
	case "range":
		bounds, err := parseBoundsDecl(decl)
		if err != nil {
			return nil, err
		}
		return RangeKind{Bounds: bounds}, nil
	case "list":
		if rawElem, ok := decl["elem"].(map[string]any); ok {
			elem, err := parseKindDecl(typeName, fieldName, rawElem, resolved)
			if err != nil {
				return nil, err
			}
			return ListKind{Elem: elem}, nil
		}
		return ListKind{}, nil
	case "tuple":
		rawElems, ok := decl["elems"].([]any)
		if !ok || len(rawElems) == 0 {
			return nil, fmt.Errorf("param: typedef %q field %q: tuple requires %q", typeName, fieldName, "elems")
		}
		elems := make([]Kind, 0, len(rawElems))
		for _, rawElem := range rawElems {
			elemDecl, ok := rawElem.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("param: typedef %q field %q: malformed tuple element", typeName, fieldName)
			}
			elem, err := parseKindDecl(typeName, fieldName, elemDecl, resolved)
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
		}
		return TupleKind{Elems: elems}, nil
	case "table":
		return TableKind{}, nil
	case "object":
		of, _ := decl["of"].(string)
		if of == "" {
			return nil, fmt.Errorf("param: typedef %q field %q: object requires %q", typeName, fieldName, "of")
		}
		target, err := resolved.Resolve(of)
		if err != nil {
			return nil, err
		}
		return ObjectKind{Of: target}, nil
	case "callable":
		return CallableKind{}, nil
	case "":
		return nil, fmt.Errorf("param: typedef %q field %q requires a %q string", typeName, fieldName, "kind")
	default:
		return nil, fmt.Errorf("param: typedef %q field %q: unknown kind %q", typeName, fieldName, tag)
	}
}

func parseBoundsDecl(decl map[string]any) (*Bounds, error) {
	raw, ok := decl["bounds"].(map[string]any)
	if !ok {
		return nil, nil
	}
	b := &Bounds{IncLo: true, IncHi: true}
	if lo, ok := raw["lo"]; ok {
		f, err := boundNumber(lo)
		if err != nil {
			return nil, err
		}
		b.Lo = &f
	}
	if hi, ok := raw["hi"]; ok {
		f, err := boundNumber(hi)
		if err != nil {
			return nil, err
		}
		b.Hi = &f
	}
	if v, ok := raw["inclusive_lo"].(bool); ok {
		b.IncLo = v
	}
	if v, ok := raw["inclusive_hi"].(bool); ok {
		b.IncHi = v
	}
	return b, nil
}

func boundNumber(raw any) (float64, error) {
	num, ok := raw.(json.Number)
	if !ok {
		return 0, fmt.Errorf("param: typedef bound must be a number, got %T", raw)
	}
	return num.Float64()
}
