package param

import (
	"errors"
	"testing"
)

func TestDynamicDefaultEvaluation(t *testing.T) {
	typ := MustType("P", []*Field{
		{Name: "a", Kind: IntegerKind{}, Default: 3},
		{Name: "b", Kind: IntegerKind{}, Expr: "a * 2"},
	})
	inst, err := typ.New(map[string]any{"a": 4})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	b, err := inst.Get("b")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if b != 8 {
		t.Fatalf("b = %v, want 8", b)
	}

	// Explicit assignment wins over the expression.
	if err := inst.Set("b", 100); err != nil {
		t.Fatalf("set: %v", err)
	}
	b, err = inst.Get("b")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if b != 100 {
		t.Fatalf("b = %v, want explicit 100", b)
	}
}

func TestDynamicDefaultValidatesResult(t *testing.T) {
	typ := MustType("P", []*Field{
		{Name: "a", Kind: IntegerKind{}, Default: 20},
		{Name: "b", Kind: IntegerKind{Bounds: HalfOpen(2, 30)}, Expr: "a * 2"},
	})
	inst, err := typ.New(map[string]any{"a": 20})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	var vErr *ValidationError
	if _, err := inst.Get("b"); !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for out-of-bounds result, got %v", err)
	}
}

func TestDynamicDefaultErrorCarriesMetadata(t *testing.T) {
	typ := MustType("P", []*Field{
		{Name: "b", Kind: IntegerKind{}, Expr: "1 +"},
	})
	inst, err := typ.New(nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	var evalErr *EvalError
	if _, err := inst.Get("b"); !errors.As(err, &evalErr) {
		t.Fatalf("expected EvalError, got %v", err)
	}
	if evalErr.Expr != "1 +" || evalErr.Field != "b" {
		t.Fatalf("metadata = %+v", evalErr)
	}
}

func TestDynamicDefaultLogsEvaluations(t *testing.T) {
	var events []EvalEvent
	typ := MustType("P", []*Field{
		{Name: "b", Kind: IntegerKind{}, Expr: "2 + 2"},
	}, WithEvalLogger(EvalLoggerFunc(func(event EvalEvent) {
		events = append(events, event)
	})))
	inst, err := typ.New(nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, err := inst.Get("b"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected one logged evaluation, got %d", len(events))
	}
	event := events[0]
	if event.Engine != "expr" || event.Expr != "2 + 2" || event.Field != "b" || event.Err != nil {
		t.Fatalf("event = %+v", event)
	}
}

func TestCELEvaluator(t *testing.T) {
	evaluator := NewCELEvaluator()
	got, err := evaluator.Evaluate(EvalContext{Values: map[string]any{"a": 4}}, "a * 2")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got != int64(8) {
		t.Fatalf("result = %v (%T), want int64 8", got, got)
	}

	if _, err := evaluator.Evaluate(EvalContext{}, ""); err == nil {
		t.Fatalf("empty expression should fail")
	}
}

func TestCELEvaluatorRegistryCall(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("scale", func(args ...any) (any, error) {
		factor, ok := args[0].(int64)
		if !ok {
			return nil, errors.New("scale expects an integer")
		}
		return factor * 3, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	evaluator := NewCELEvaluator(CELWithFunctionRegistry(registry))
	got, err := evaluator.Evaluate(EvalContext{}, `call("scale", [7])`)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got != int64(21) {
		t.Fatalf("result = %v (%T), want int64 21", got, got)
	}
}

func TestDynamicDefaultRegistryFunctions(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("base", func(args ...any) (any, error) {
		return 21, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	typ := MustType("P", []*Field{
		{Name: "b", Kind: IntegerKind{}, Expr: "base() * 2"},
	}, WithEvaluator(NewExprEvaluator(ExprWithFunctionRegistry(registry))))
	inst, err := typ.New(nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	b, err := inst.Get("b")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if b != 42 {
		t.Fatalf("b = %v, want 42", b)
	}
}
