package param

import (
	"fmt"
	"time"
)

// EvalContext carries inputs needed when evaluating a dynamic-default
// expression: the instance's current field values, the field being
// defaulted, and optional caller arguments.
type EvalContext struct {
	Values map[string]any
	Field  string
	Now    *time.Time
	Args   map[string]any
}

func (ctx EvalContext) withDefaults() EvalContext {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Values == nil {
		ctx.Values = map[string]any{}
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	return ctx
}

func (ctx EvalContext) timestamp() time.Time {
	ctx = ctx.withDefaults()
	return *ctx.Now
}

func (ctx EvalContext) fieldLabel() string {
	if ctx.Field == "" {
		return "unknown"
	}
	return ctx.Field
}

// Evaluator executes dynamic-default expressions against a context.
type Evaluator interface {
	Evaluate(ctx EvalContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledExpr, error)
}

// CompiledExpr represents a reusable expression program.
type CompiledExpr interface {
	Evaluate(ctx EvalContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

// evalDefault computes the dynamic default for f on inst: the Expr is
// evaluated against the instance's explicit values and the result is
// validated like any other assignment.
func (t *Type) evalDefault(inst *Instance, f *Field) (any, error) {
	evaluator := t.evaluatorOrDefault()
	ctx := EvalContext{
		Values: explicitValues(inst),
		Field:  f.Name,
	}.withDefaults()
	engine := evaluatorEngineName(evaluator)
	start := time.Now()
	value, evalErr := evaluator.Evaluate(ctx, f.Expr)
	duration := time.Since(start)
	evalErr = wrapEvaluationError("", f.Expr, ctx.fieldLabel(), evalErr)
	t.evalLogger().LogEvaluation(EvalEvent{
		Engine:   engine,
		Expr:     f.Expr,
		Field:    ctx.fieldLabel(),
		Duration: duration,
		Err:      evalErr,
	})
	if evalErr != nil {
		return nil, evalErr
	}
	value = normalizeEvalResult(value)
	if err := f.Validate(value); err != nil {
		return nil, err
	}
	return value, nil
}

func explicitValues(inst *Instance) map[string]any {
	values := make(map[string]any, len(inst.values))
	for name, value := range inst.values {
		values[name] = value
	}
	return values
}

// normalizeEvalResult maps engine-native numeric results onto field
// value conventions: integral numbers become int so integer fields
// accept them without coercion inside the kind itself.
func normalizeEvalResult(value any) any {
	switch v := value.(type) {
	case int64:
		return int(v)
	case int32:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		if v == float64(int(v)) {
			return int(v)
		}
		return v
	default:
		return value
	}
}

func (t *Type) evaluatorOrDefault() Evaluator {
	if t.evaluator != nil {
		return t.evaluator
	}
	t.evaluator = NewExprEvaluator()
	return t.evaluator
}

func (t *Type) evalLogger() EvalLogger {
	if t.logger != nil {
		return t.logger
	}
	return noopEvalLogger{}
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*param.exprEvaluator":
		return "expr"
	case "*param.celEvaluator":
		return "cel"
	case "*param.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}
