package param

import (
	"errors"
	"testing"
)

func TestNewTypeValidatesDefaults(t *testing.T) {
	_, err := NewType("P", []*Field{
		{Name: "a", Kind: IntegerKind{Bounds: HalfOpen(2, 30)}, Default: 30},
	})
	if err == nil {
		t.Fatalf("expected declaration failure for out-of-bounds default")
	}

	_, err = NewType("P", []*Field{
		{Name: "a", Kind: IntegerKind{}, Default: 1},
		{Name: "a", Kind: StringKind{}, Default: "x"},
	})
	if err == nil {
		t.Fatalf("expected declaration failure for duplicate field")
	}

	// A dynamic default with no static default skips eager validation.
	if _, err := NewType("P", []*Field{
		{Name: "b", Kind: IntegerKind{}, Expr: "2 + 2"},
	}); err != nil {
		t.Fatalf("expr-only field should not require a static default: %v", err)
	}
}

func TestInstanceSetRejectsInvalid(t *testing.T) {
	typ := MustType("P", []*Field{
		{Name: "a", Kind: IntegerKind{Bounds: HalfOpen(2, 30)}, Default: 5},
	})
	inst, err := typ.New(nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	var vErr *ValidationError
	if err := inst.Set("a", 30); !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if err := inst.Set("a", "7"); !errors.As(err, &vErr) {
		t.Fatalf("string must not coerce to integer, got %v", err)
	}
	// The rejected assignments left the previous value in place.
	got, err := inst.Get("a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != 5 {
		t.Fatalf("a = %v, want untouched default", got)
	}

	var unknown *UnknownFieldError
	if err := inst.Set("zz", 1); !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownFieldError, got %v", err)
	}
}

func TestInstanceUnsetRevertsToDefault(t *testing.T) {
	typ := MustType("P", []*Field{
		{Name: "a", Kind: IntegerKind{}, Default: 5},
	})
	inst, err := typ.New(map[string]any{"a": 9})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if !inst.Has("a") {
		t.Fatalf("expected explicit value")
	}
	if err := inst.Unset("a"); err != nil {
		t.Fatalf("unset: %v", err)
	}
	if inst.Has("a") {
		t.Fatalf("expected value cleared")
	}
	got, err := inst.Get("a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != 5 {
		t.Fatalf("a = %v, want default", got)
	}
}

func TestPerInstanceDefaultIsolation(t *testing.T) {
	typ := MustType("P", []*Field{
		{Name: "xs", Kind: ListKind{Elem: IntegerKind{}}, Default: []any{1, 2}, PerInstance: true},
	})

	first, err := typ.New(nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	second, err := typ.New(nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	xs, err := first.Get("xs")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	xs.([]any)[0] = 99

	other, err := second.Get("xs")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if other.([]any)[0] != 1 {
		t.Fatalf("shared default mutated across instances: %v", other)
	}

	f, _ := typ.Field("xs")
	if f.Default.([]any)[0] != 1 {
		t.Fatalf("type-level default mutated: %v", f.Default)
	}
}

func TestPerInstanceDefaultSurvivesUnset(t *testing.T) {
	typ := MustType("P", []*Field{
		{Name: "xs", Kind: ListKind{Elem: IntegerKind{}}, Default: []any{1, 2}, PerInstance: true},
	})

	inst, err := typ.New(nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := inst.Unset("xs"); err != nil {
		t.Fatalf("unset: %v", err)
	}

	xs, err := inst.Get("xs")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	xs.([]any)[0] = 99

	fresh, err := typ.New(nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	got, err := fresh.Get("xs")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.([]any)[0] != 1 {
		t.Fatalf("type-level default mutated through an unset read: %v", got)
	}
}

func TestTypePathQualification(t *testing.T) {
	bare := MustType("P", []*Field{{Name: "a", Kind: IntegerKind{}, Default: 1}})
	if bare.Path() != "P" {
		t.Fatalf("path = %q", bare.Path())
	}
	qualified := MustType("P", []*Field{{Name: "a", Kind: IntegerKind{}, Default: 1}}, WithNamespace("sim"))
	if qualified.Path() != "sim.P" {
		t.Fatalf("path = %q", qualified.Path())
	}
}

func TestValueMapIncludesDefaults(t *testing.T) {
	typ := MustType("P", []*Field{
		{Name: "a", Kind: IntegerKind{}, Default: 5},
		{Name: "m", Kind: StringKind{}, Default: "baz"},
	})
	inst, err := typ.New(map[string]any{"a": 7})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	values, err := inst.ValueMap()
	if err != nil {
		t.Fatalf("value map: %v", err)
	}
	if values["a"] != 7 || values["m"] != "baz" {
		t.Fatalf("values = %v", values)
	}
}
