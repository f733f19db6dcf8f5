package param

import (
	"errors"
	"fmt"
	"strings"
)

// EvalError captures evaluator metadata alongside the originating error.
type EvalError struct {
	Engine string
	Expr   string
	Field  string
	Err    error
}

func (e *EvalError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("param: %s evaluator %s field=%s: %v", e.Engine, describeExpression(e.Expr), e.Field, e.Err)
}

func (e *EvalError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvalError
	if errors.As(err, &evalErr) {
		return err
	}

	if strings.HasPrefix(err.Error(), "param:") {
		return err
	}
	return fmt.Errorf("param: %s evaluator: %w", engine, err)
}

func wrapEvaluationError(engine, expr, field string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvalError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		if evalErr.Field == "" {
			evalErr.Field = field
		}
		return evalErr
	}

	return &EvalError{
		Engine: engine,
		Expr:   expr,
		Field:  field,
		Err:    err,
	}
}
