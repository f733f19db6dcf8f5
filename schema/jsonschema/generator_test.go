package jsonschema_test

import (
	"testing"

	param "github.com/majidaldo/param"
	"github.com/majidaldo/param/schema/jsonschema"
)

func childType(t *testing.T) *param.Type {
	t.Helper()
	child, err := param.NewType("Child", []*param.Field{
		{Name: "n", Kind: param.IntegerKind{}, Default: 1},
	}, param.WithNamespace("sim"))
	if err != nil {
		t.Fatalf("child type: %v", err)
	}
	return child
}

func parentType(t *testing.T) *param.Type {
	t.Helper()
	child := childType(t)
	parent, err := param.NewType("Parent", []*param.Field{
		{Name: "a", Kind: param.IntegerKind{Bounds: param.HalfOpen(2, 30)}, Default: 5},
		{Name: "kid", Kind: param.ObjectKind{Of: child}, AllowNone: true},
		{Name: "twin", Kind: param.ObjectKind{Of: child}, AllowNone: true},
	}, param.WithNamespace("sim"), param.WithDoc("owns a child"))
	if err != nil {
		t.Fatalf("parent type: %v", err)
	}
	return parent
}

func TestGenerateDocumentShape(t *testing.T) {
	document, err := jsonschema.Generate(parentType(t))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if got := document["$schema"]; got != "https://json-schema.org/draft/2020-12/schema" {
		t.Fatalf("$schema = %v", got)
	}
	if got := document["title"]; got != "Parent" {
		t.Fatalf("title = %v", got)
	}
	if got := document["type"]; got != "object" {
		t.Fatalf("type = %v", got)
	}
	if got := document["additionalProperties"]; got != false {
		t.Fatalf("additionalProperties = %v", got)
	}
	if got := document["description"]; got != "owns a child" {
		t.Fatalf("description = %v", got)
	}

	properties, ok := document["properties"].(map[string]any)
	if !ok {
		t.Fatalf("properties missing: %#v", document["properties"])
	}
	a, ok := properties["a"].(map[string]any)
	if !ok {
		t.Fatalf("property a missing")
	}
	if a["type"] != "integer" || a["minimum"] != 2.0 || a["exclusiveMaximum"] != 30.0 {
		t.Fatalf("property a = %#v", a)
	}
}

func TestGenerateNestedDefs(t *testing.T) {
	document, err := jsonschema.Generate(parentType(t))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	defs, ok := document["$defs"].(map[string]any)
	if !ok {
		t.Fatalf("$defs missing")
	}
	if len(defs) != 1 {
		t.Fatalf("expected one shared def, got %d", len(defs))
	}
	child, ok := defs["Child"].(map[string]any)
	if !ok {
		t.Fatalf("def Child missing: %#v", defs)
	}
	if child["type"] != "object" {
		t.Fatalf("child def = %#v", child)
	}

	properties := document["properties"].(map[string]any)
	for _, name := range []string{"kid", "twin"} {
		fragment, ok := properties[name].(map[string]any)
		if !ok {
			t.Fatalf("property %s missing", name)
		}
		oneOf, ok := fragment["oneOf"].([]any)
		if !ok || len(oneOf) != 2 {
			t.Fatalf("property %s should be oneOf ref/null: %#v", name, fragment)
		}
		ref := oneOf[0].(map[string]any)
		if ref["$ref"] != "#/$defs/Child" {
			t.Fatalf("property %s ref = %v", name, ref["$ref"])
		}
		null := oneOf[1].(map[string]any)
		if null["type"] != "null" {
			t.Fatalf("property %s null arm = %#v", name, null)
		}
	}
}

func TestGenerateOptions(t *testing.T) {
	document, err := jsonschema.Generate(childType(t),
		jsonschema.WithID("https://example.com/schemas/child.json"),
		jsonschema.WithTitle("Child Parameters"),
		jsonschema.WithDialect("https://json-schema.org/draft/2019-09/schema"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if document["$id"] != "https://example.com/schemas/child.json" {
		t.Fatalf("$id = %v", document["$id"])
	}
	if document["title"] != "Child Parameters" {
		t.Fatalf("title = %v", document["title"])
	}
	if document["$schema"] != "https://json-schema.org/draft/2019-09/schema" {
		t.Fatalf("$schema = %v", document["$schema"])
	}
	if _, ok := document["$defs"]; ok {
		t.Fatalf("flat type should not emit $defs")
	}
}

func TestGeneratorInterface(t *testing.T) {
	gen := jsonschema.NewGenerator(jsonschema.WithTitle("Kid"))
	doc, err := gen.Generate(childType(t))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if doc.Format != param.SchemaFormatJSONSchema {
		t.Fatalf("format = %v", doc.Format)
	}
	body, ok := doc.Document.(map[string]any)
	if !ok {
		t.Fatalf("document = %T", doc.Document)
	}
	if body["title"] != "Kid" {
		t.Fatalf("title = %v", body["title"])
	}
	if _, err := jsonschema.Generate(nil); err == nil {
		t.Fatalf("nil type should fail")
	}
}
