package param

import "fmt"

// TypeResolutionError reports a snapshot decode that recorded a type or
// callable path which no registry entry resolves.
type TypeResolutionError struct {
	Path string
	What string // "type" or "callable"
}

func (e *TypeResolutionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	what := e.What
	if what == "" {
		what = "type"
	}
	return fmt.Sprintf("param: cannot resolve %s path %q", what, e.Path)
}

// ValidationError reports a value that violates a field's declared
// constraint. Constraint names the rule that failed, not the mechanism.
type ValidationError struct {
	Field      string
	Constraint string
	Value      any
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("param: field %q: %s (got %v)", e.Field, e.Constraint, e.Value)
}

// UnsupportedFieldError reports a field kind the interchange codec has no
// encoding for. Excluding the field via WithSubset avoids the error.
type UnsupportedFieldError struct {
	Field string
	Kind  string
}

func (e *UnsupportedFieldError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("param: field %q: kind %q has no interchange encoding", e.Field, e.Kind)
}

// UnknownFieldError reports a subset name not declared on the type. It is
// raised before any encoding work begins.
type UnknownFieldError struct {
	Type  string
	Field string
}

func (e *UnknownFieldError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("param: type %q has no field %q", e.Type, e.Field)
}

// UnrepresentableValueError reports a value the regeneration emitter has
// no renderer for while the unknown-value policy forbids skipping it.
type UnrepresentableValueError struct {
	Field string
	Value any
}

func (e *UnrepresentableValueError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("param: field %q: no renderer for value of type %T", e.Field, e.Value)
}

func validationErr(field, constraint string, value any) error {
	return &ValidationError{Field: field, Constraint: constraint, Value: value}
}
