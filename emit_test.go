package param

import (
	"errors"
	"strings"
	"testing"
)

func emitFixture(t *testing.T) *Type {
	t.Helper()
	return MustType("P", []*Field{
		{Name: "a", Kind: IntegerKind{Bounds: HalfOpen(2, 30)}, Default: 5},
		{Name: "m", Kind: StringKind{}, Default: "baz", AllowNone: true},
	}, WithNamespace("sim"))
}

func TestEmitSuppressesDefaults(t *testing.T) {
	typ := emitFixture(t)
	inst, err := typ.New(map[string]any{"a": 7})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	text, err := NewEmitter(nil).Emit(inst)
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	want := "import sim\n\nsim.P(a=7)"
	if text != want {
		t.Fatalf("emit = %q, want %q", text, want)
	}
}

func TestEmitFullMode(t *testing.T) {
	typ := emitFixture(t)
	inst, err := typ.New(map[string]any{"a": 7})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	text, err := NewEmitter(nil).Emit(inst,
		WithSuppressDefaults(false),
		WithShowImports(false),
	)
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	want := "sim.P(a=7,\n    m=\"baz\")"
	if text != want {
		t.Fatalf("emit = %q, want %q", text, want)
	}
}

func TestEmitBareName(t *testing.T) {
	typ := emitFixture(t)
	inst, err := typ.New(map[string]any{"a": 7})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	text, err := NewEmitter(nil).Emit(inst, WithQualify(false))
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if text != "P(a=7)" {
		t.Fatalf("emit = %q", text)
	}
}

func TestEmitPerInstanceAlwaysIncluded(t *testing.T) {
	typ := MustType("P", []*Field{
		{Name: "xs", Kind: ListKind{Elem: IntegerKind{}}, Default: []any{1, 2}, PerInstance: true},
	})
	inst, err := typ.New(nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	text, err := NewEmitter(nil).Emit(inst)
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if text != "P(xs=[1, 2])" {
		t.Fatalf("emit = %q", text)
	}
}

func TestEmitNestedInstances(t *testing.T) {
	child := MustType("Child", []*Field{
		{Name: "n", Kind: IntegerKind{}, Default: 1},
	}, WithNamespace("sim"))
	parent := MustType("Parent", []*Field{
		{Name: "kid", Kind: ObjectKind{Of: child}, AllowNone: true},
		{Name: "a", Kind: IntegerKind{}, Default: 5},
	}, WithNamespace("sim"))

	kid, err := child.New(map[string]any{"n": 42})
	if err != nil {
		t.Fatalf("child: %v", err)
	}
	inst, err := parent.New(map[string]any{"kid": kid, "a": 7})
	if err != nil {
		t.Fatalf("parent: %v", err)
	}

	text, err := NewEmitter(nil).Emit(inst, WithShowImports(false))
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	want := "sim.Parent(kid=sim.Child(n=42),\n    a=7)"
	if text != want {
		t.Fatalf("emit = %q, want %q", text, want)
	}
}

func TestEmitDeterminism(t *testing.T) {
	typ := emitFixture(t)
	inst, err := typ.New(map[string]any{"a": 7, "m": "qux"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	emitter := NewEmitter(nil)
	first, err := emitter.Emit(inst)
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	second, err := emitter.Emit(inst)
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if first != second {
		t.Fatalf("emit not deterministic:\n%q\n%q", first, second)
	}
}

func TestEmitUnknownValuePolicies(t *testing.T) {
	typ := MustType("P", []*Field{
		{Name: "a", Kind: IntegerKind{}, Default: 5},
	})
	inst, err := typ.New(map[string]any{"a": 7})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	// An empty registry leaves every value without a renderer.
	silent := NewEmitter(&RendererRegistry{})
	text, err := silent.Emit(inst, WithShowImports(false))
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if text != "P()" {
		t.Fatalf("omit policy emit = %q", text)
	}

	// Verbatim policy substitutes the supplied text.
	text, err = silent.Emit(inst, WithShowImports(false), UnknownText("<opaque>"))
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if text != "P(a=<opaque>)" {
		t.Fatalf("verbatim policy emit = %q", text)
	}

	// Error policy fails with the typed error.
	var unrepresentable *UnrepresentableValueError
	if _, err := silent.Emit(inst, UnknownError()); !errors.As(err, &unrepresentable) {
		t.Fatalf("expected UnrepresentableValueError, got %v", err)
	}
	if unrepresentable.Field != "a" {
		t.Fatalf("unrepresentable field = %q", unrepresentable.Field)
	}

	// The built-in registry renders the same instance without trouble.
	text, err = NewEmitter(nil).Emit(inst, WithShowImports(false))
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if text != "P(a=7)" {
		t.Fatalf("emit = %q", text)
	}
}

func TestEmitImportAccumulation(t *testing.T) {
	typ := emitFixture(t)
	first, err := typ.New(map[string]any{"a": 7})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	other := MustType("Q", []*Field{
		{Name: "b", Kind: IntegerKind{}, Default: 1},
	}, WithNamespace("lab"))
	second, err := other.New(map[string]any{"b": 2})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	var imports []string
	emitter := NewEmitter(nil)
	if _, err := emitter.Emit(first, WithImports(&imports), WithShowImports(false)); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if _, err := emitter.Emit(second, WithImports(&imports), WithShowImports(false)); err != nil {
		t.Fatalf("emit: %v", err)
	}

	text, err := emitter.Emit(first, WithImports(&imports))
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if !strings.HasPrefix(text, "import sim\nimport lab\n\n") {
		t.Fatalf("accumulated imports not in first-reference order: %q", text)
	}
}
