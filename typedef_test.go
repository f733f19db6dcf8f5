package param

import (
	"reflect"
	"testing"
)

const typedefFixture = `{
  "types": [
    {
      "name": "Child",
      "namespace": "sim",
      "fields": [
        {"name": "n", "kind": "integer", "default": 1}
      ]
    },
    {
      "name": "P",
      "namespace": "sim",
      "doc": "experiment parameters",
      "fields": [
        {"name": "a", "kind": "integer", "default": 5,
         "bounds": {"lo": 2, "hi": 30, "inclusive_hi": false}},
        {"name": "m", "kind": "string", "default": "baz", "allow_none": true},
        {"name": "window", "kind": "range", "default": [1.1, 2.3]},
        {"name": "xs", "kind": "list", "elem": {"kind": "integer"},
         "default": [1, 2], "per_instance": true},
        {"name": "pair", "kind": "tuple", "default": [1, "x"],
         "elems": [{"kind": "integer"}, {"kind": "string"}]},
        {"name": "kid", "kind": "object", "of": "sim.Child", "allow_none": true},
        {"name": "b", "kind": "integer", "expr": "a * 2"}
      ]
    }
  ]
}`

func TestParseTypeDefs(t *testing.T) {
	registry, err := ParseTypeDefs([]byte(typedefFixture))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	typ, err := registry.Resolve("sim.P")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if typ.Doc() != "experiment parameters" {
		t.Fatalf("doc = %q", typ.Doc())
	}

	a, ok := typ.Field("a")
	if !ok {
		t.Fatalf("missing field a")
	}
	if a.Default != 5 {
		t.Fatalf("a default = %v (%T)", a.Default, a.Default)
	}
	kind, ok := a.Kind.(IntegerKind)
	if !ok {
		t.Fatalf("a kind = %T", a.Kind)
	}
	if kind.Bounds.Contains(30) || !kind.Bounds.Contains(2) {
		t.Fatalf("a bounds = %s", kind.Bounds)
	}

	window, _ := typ.Field("window")
	if window.Default != (Span{Lo: 1.1, Hi: 2.3}) {
		t.Fatalf("window default = %#v", window.Default)
	}

	xs, _ := typ.Field("xs")
	if !xs.PerInstance {
		t.Fatalf("xs should be per-instance")
	}
	if !reflect.DeepEqual(xs.Default, []any{1, 2}) {
		t.Fatalf("xs default = %#v", xs.Default)
	}

	kid, _ := typ.Field("kid")
	objectKind, ok := kid.Kind.(ObjectKind)
	if !ok {
		t.Fatalf("kid kind = %T", kid.Kind)
	}
	if objectKind.Of.Path() != "sim.Child" {
		t.Fatalf("kid references %q", objectKind.Of.Path())
	}

	b, _ := typ.Field("b")
	if b.Expr != "a * 2" {
		t.Fatalf("b expr = %q", b.Expr)
	}

	// The parsed declaration behaves like a hand-written one.
	inst, err := typ.New(map[string]any{"a": 7})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	value, err := inst.Get("b")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if value != 14 {
		t.Fatalf("b = %v, want 14", value)
	}
}

func TestParseTypeDefsErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "empty document", doc: `{}`},
		{name: "missing name", doc: `{"types":[{"fields":[{"name":"a","kind":"integer"}]}]}`},
		{name: "missing kind", doc: `{"types":[{"name":"P","fields":[{"name":"a"}]}]}`},
		{name: "unknown kind", doc: `{"types":[{"name":"P","fields":[{"name":"a","kind":"quantum"}]}]}`},
		{name: "invalid default", doc: `{"types":[{"name":"P","fields":[{"name":"a","kind":"integer","default":"five"}]}]}`},
		{name: "out-of-bounds default", doc: `{"types":[{"name":"P","fields":[{"name":"a","kind":"integer","default":30,"bounds":{"lo":2,"hi":30,"inclusive_hi":false}}]}]}`},
		{name: "unresolved object ref", doc: `{"types":[{"name":"P","fields":[{"name":"kid","kind":"object","of":"sim.Missing"}]}]}`},
		{name: "duplicate type path", doc: `{"types":[{"name":"P","fields":[{"name":"a","kind":"integer","default":1}]},{"name":"P","fields":[{"name":"a","kind":"integer","default":1}]}]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseTypeDefs([]byte(tc.doc)); err == nil {
				t.Fatalf("expected parse failure")
			}
		})
	}
}
