package param

import (
	"fmt"
	"sort"
)

// State is the field-name (or attribute-name) to value mapping exchanged
// with snapshot hooks.
type State map[string]any

// CaptureStateFunc lets a type substitute custom state during snapshot
// encode. The hook receives the default capture with SkipSnapshot fields
// already removed; whatever it returns is what gets encoded. State it
// does not touch flows through unchanged.
type CaptureStateFunc func(inst *Instance, state State) (State, error)

// RestoreStateFunc lets a type consume custom state during snapshot
// decode. It runs before default field assignment and returns the
// remaining state for the default mechanism to apply.
type RestoreStateFunc func(inst *Instance, state State) (State, error)

// Type declares a named structured-object type: an ordered set of Field
// declarations plus optional snapshot hooks and a dynamic-default
// evaluator. Types are immutable after construction.
type Type struct {
	name   string
	ns     string
	doc    string
	fields []*Field
	index  map[string]*Field

	capture   CaptureStateFunc
	restore   RestoreStateFunc
	evaluator Evaluator
	logger    EvalLogger
}

// TypeOption configures a Type at construction.
type TypeOption func(*Type)

// WithNamespace sets the namespace path qualifying the type name, e.g.
// "example.com/geo". Snapshot blobs and qualified regeneration output
// use the combined path.
func WithNamespace(ns string) TypeOption {
	return func(t *Type) { t.ns = ns }
}

// WithDoc attaches a documentation string to the type.
func WithDoc(doc string) TypeOption {
	return func(t *Type) { t.doc = doc }
}

// WithCaptureState installs a snapshot encode hook.
func WithCaptureState(fn CaptureStateFunc) TypeOption {
	return func(t *Type) { t.capture = fn }
}

// WithRestoreState installs a snapshot decode hook.
func WithRestoreState(fn RestoreStateFunc) TypeOption {
	return func(t *Type) { t.restore = fn }
}

// WithEvaluator sets the evaluator used for Expr dynamic defaults. When
// absent, an expr-lang evaluator is constructed on first use.
func WithEvaluator(e Evaluator) TypeOption {
	return func(t *Type) { t.evaluator = e }
}

// WithEvalLogger attaches an observer for dynamic-default evaluations.
func WithEvalLogger(logger EvalLogger) TypeOption {
	return func(t *Type) { t.logger = logger }
}

// NewType constructs a Type from ordered field declarations. Defaults
// are validated eagerly so a malformed declaration fails at startup, not
// at first use.
func NewType(name string, fields []*Field, opts ...TypeOption) (*Type, error) {
	if name == "" {
		return nil, fmt.Errorf("param: type name must not be empty")
	}
	t := &Type{
		name:   name,
		fields: make([]*Field, 0, len(fields)),
		index:  make(map[string]*Field, len(fields)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	for _, f := range fields {
		if f == nil {
			return nil, fmt.Errorf("param: type %q: nil field declaration", name)
		}
		if f.Name == "" {
			return nil, fmt.Errorf("param: type %q: field name must not be empty", name)
		}
		if f.Kind == nil {
			return nil, fmt.Errorf("param: type %q: field %q has no kind", name, f.Name)
		}
		if _, dup := t.index[f.Name]; dup {
			return nil, fmt.Errorf("param: type %q: duplicate field %q", name, f.Name)
		}
		if f.Expr == "" || f.Default != nil {
			if err := f.Validate(f.Default); err != nil {
				return nil, fmt.Errorf("param: type %q: default: %w", name, err)
			}
		}
		t.fields = append(t.fields, f)
		t.index[f.Name] = f
	}
	return t, nil
}

// MustType is NewType for declarations known correct at compile time.
func MustType(name string, fields []*Field, opts ...TypeOption) *Type {
	t, err := NewType(name, fields, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the bare type name.
func (t *Type) Name() string { return t.name }

// Namespace returns the namespace path, possibly empty.
func (t *Type) Namespace() string { return t.ns }

// Doc returns the type-level documentation string.
func (t *Type) Doc() string { return t.doc }

// Path returns the qualified identifier recorded in snapshots, e.g.
// "example.com/geo.Point", or the bare name for unqualified types.
func (t *Type) Path() string {
	if t.ns == "" {
		return t.name
	}
	return t.ns + "." + t.name
}

// Fields returns the field declarations in declaration order. The slice
// is shared; callers must not mutate it.
func (t *Type) Fields() []*Field { return t.fields }

// Field looks up a declaration by name.
func (t *Type) Field(name string) (*Field, bool) {
	f, ok := t.index[name]
	return f, ok
}

// New constructs an instance with overrides layered over type defaults.
// Every override is validated before assignment; unknown names fail with
// *UnknownFieldError.
func (t *Type) New(overrides map[string]any) (*Instance, error) {
	inst := &Instance{
		typ:    t,
		values: make(map[string]any, len(overrides)),
	}
	for _, f := range t.fields {
		if f.PerInstance {
			inst.values[f.Name] = DeepCopy(f.Default)
		}
	}
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := inst.Set(name, overrides[name]); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// Instance is one structured object: explicit field values layered over
// the type's defaults, plus arbitrary extra attributes.
type Instance struct {
	typ    *Type
	values map[string]any
	attrs  map[string]any
}

// Type returns the instance's declaring type.
func (in *Instance) Type() *Type { return in.typ }

// Has reports whether the field holds an explicit per-instance value.
func (in *Instance) Has(name string) bool {
	_, ok := in.values[name]
	return ok
}

// Get returns the field's current value: the explicit value when set,
// the evaluated Expr for dynamic defaults, else the declared default.
func (in *Instance) Get(name string) (any, error) {
	f, ok := in.typ.index[name]
	if !ok {
		return nil, &UnknownFieldError{Type: in.typ.Path(), Field: name}
	}
	if value, ok := in.values[name]; ok {
		return value, nil
	}
	if f.Expr != "" {
		return in.typ.evalDefault(in, f)
	}
	if f.PerInstance {
		// Never hand out the shared declaration value: a caller mutating
		// the returned container must not corrupt the type-level default.
		return DeepCopy(f.Default), nil
	}
	return f.Default, nil
}

// Set validates value against the field's constraints and assigns it.
// Out-of-constraint values are rejected, never coerced.
func (in *Instance) Set(name string, value any) error {
	f, ok := in.typ.index[name]
	if !ok {
		return &UnknownFieldError{Type: in.typ.Path(), Field: name}
	}
	if err := f.Validate(value); err != nil {
		return err
	}
	in.values[name] = value
	return nil
}

// Unset removes the explicit value so the field reverts to its default.
func (in *Instance) Unset(name string) error {
	if _, ok := in.typ.index[name]; !ok {
		return &UnknownFieldError{Type: in.typ.Path(), Field: name}
	}
	delete(in.values, name)
	return nil
}

// ValueMap returns the complete field-to-value view, defaults included.
func (in *Instance) ValueMap() (map[string]any, error) {
	out := make(map[string]any, len(in.typ.fields))
	for _, f := range in.typ.fields {
		value, err := in.Get(f.Name)
		if err != nil {
			return nil, err
		}
		out[f.Name] = value
	}
	return out, nil
}

// SetAttr stores an extra attribute held directly on the instance.
// Attributes bypass field validation and are captured by snapshots.
func (in *Instance) SetAttr(name string, value any) {
	if in.attrs == nil {
		in.attrs = make(map[string]any)
	}
	in.attrs[name] = value
}

// Attr returns an extra attribute by name.
func (in *Instance) Attr(name string) (any, bool) {
	value, ok := in.attrs[name]
	return value, ok
}

// Attrs returns a copy of the extra attribute mapping.
func (in *Instance) Attrs() map[string]any {
	out := make(map[string]any, len(in.attrs))
	for name, value := range in.attrs {
		out[name] = value
	}
	return out
}
