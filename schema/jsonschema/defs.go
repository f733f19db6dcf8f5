package jsonschema

import (
	"fmt"
	"sort"
	"strings"

	param "github.com/majidaldo/param"
)

// defRegistry collects the $defs entries produced while walking nested
// structured-object fields. Names are registered before their schemas
// are built so reference cycles terminate in a $ref instead of
// recursing forever.
type defRegistry struct {
	names     map[*param.Type]string
	defs      map[string]map[string]any
	usedNames map[string]struct{}
}

func newDefRegistry() *defRegistry {
	return &defRegistry{
		names:     map[*param.Type]string{},
		defs:      map[string]map[string]any{},
		usedNames: map[string]struct{}{},
	}
}

func (r *defRegistry) objectSchema(t *param.Type) (map[string]any, error) {
	properties := map[string]any{}
	for _, f := range t.Fields() {
		fragment, err := r.fieldSchema(f)
		if err != nil {
			return nil, err
		}
		properties[f.Name] = fragment
	}
	schema := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if t.Doc() != "" {
		schema["description"] = t.Doc()
	}
	return schema, nil
}

func (r *defRegistry) fieldSchema(f *param.Field) (map[string]any, error) {
	object, ok := f.Kind.(param.ObjectKind)
	if !ok {
		return param.FieldSchema(f)
	}
	if object.Of == nil {
		return nil, fmt.Errorf("jsonschema: field %q: nested object field has no declared type", f.Name)
	}
	ref, err := r.ref(object.Of)
	if err != nil {
		return nil, err
	}
	fragment := map[string]any{"$ref": ref}
	if f.AllowNone {
		fragment = map[string]any{
			"oneOf": []any{
				map[string]any{"$ref": ref},
				map[string]any{"type": "null"},
			},
		}
	}
	if f.Doc != "" {
		fragment["description"] = f.Doc
	}
	return fragment, nil
}

func (r *defRegistry) ref(t *param.Type) (string, error) {
	if name, ok := r.names[t]; ok {
		return "#/$defs/" + name, nil
	}
	name := r.uniqueName(t)
	r.names[t] = name
	schema, err := r.objectSchema(t)
	if err != nil {
		return "", err
	}
	r.defs[name] = schema
	return "#/$defs/" + name, nil
}

func (r *defRegistry) uniqueName(t *param.Type) string {
	candidates := []string{t.Name(), sanitizeName(t.Path())}
	for _, candidate := range candidates {
		if _, taken := r.usedNames[candidate]; !taken {
			r.usedNames[candidate] = struct{}{}
			return candidate
		}
	}
	base := sanitizeName(t.Path())
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s_%d", base, i)
		if _, taken := r.usedNames[candidate]; !taken {
			r.usedNames[candidate] = struct{}{}
			return candidate
		}
	}
}

func (r *defRegistry) defsMap() map[string]any {
	if len(r.defs) == 0 {
		return nil
	}
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make(map[string]any, len(names))
	for _, name := range names {
		out[name] = r.defs[name]
	}
	return out
}

func sanitizeName(path string) string {
	var sb strings.Builder
	for _, r := range path {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}
