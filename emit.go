package param

import (
	"reflect"
	"strings"
)

type unknownPolicy int

const (
	unknownOmit unknownPolicy = iota
	unknownText
	unknownFail
)

type emitConfig struct {
	suppressDefaults bool
	qualify          bool
	prefix           string
	separator        string
	showImports      bool
	imports          *[]string
	unknown          unknownPolicy
	unknownVerbatim  string
}

// EmitOption adjusts a single Emit call.
type EmitOption func(*emitConfig)

// WithSuppressDefaults toggles default suppression. When on (the
// default) a field is emitted only if its value differs from the type
// default; per-instance fields are always emitted because no reliable
// default comparison exists for them.
func WithSuppressDefaults(on bool) EmitOption {
	return func(c *emitConfig) { c.suppressDefaults = on }
}

// WithQualify controls whether emitted type names carry their namespace
// path. Defaults to true.
func WithQualify(on bool) EmitOption {
	return func(c *emitConfig) { c.qualify = on }
}

// WithPrefix sets the argument continuation text. Defaults to a newline
// plus four spaces; nested constructor calls add one indent unit per
// level.
func WithPrefix(prefix string) EmitOption {
	return func(c *emitConfig) { c.prefix = prefix }
}

// WithSeparator sets the line separator used for the import block.
// Defaults to a newline.
func WithSeparator(sep string) EmitOption {
	return func(c *emitConfig) { c.separator = sep }
}

// WithShowImports controls whether import lines for referenced
// namespaces are prepended to the output. Defaults to true.
func WithShowImports(on bool) EmitOption {
	return func(c *emitConfig) { c.showImports = on }
}

// WithImports supplies an accumulator: namespace paths discovered during
// this call are appended to it, deduplicated against its existing
// entries, so several Emit calls can pool their imports before a final
// call renders the whole set.
func WithImports(acc *[]string) EmitOption {
	return func(c *emitConfig) { c.imports = acc }
}

// UnknownOmit silently drops arguments whose values have no renderer.
// This is the default policy.
func UnknownOmit() EmitOption {
	return func(c *emitConfig) { c.unknown = unknownOmit }
}

// UnknownText emits the given text verbatim for values with no renderer.
func UnknownText(verbatim string) EmitOption {
	return func(c *emitConfig) {
		c.unknown = unknownText
		c.unknownVerbatim = verbatim
	}
}

// UnknownError makes Emit fail with *UnrepresentableValueError when a
// value has no renderer.
func UnknownError() EmitOption {
	return func(c *emitConfig) { c.unknown = unknownFail }
}

// Emitter regenerates constructor-call source text for instances. The
// renderer registry is fixed at construction so emission stays free of
// global state.
type Emitter struct {
	renderers *RendererRegistry
}

// NewEmitter builds an emitter over the given registry; nil means the
// built-in renderer set.
func NewEmitter(renderers *RendererRegistry) *Emitter {
	if renderers == nil {
		renderers = NewRendererRegistry()
	}
	return &Emitter{renderers: renderers}
}

// EmitContext carries per-call emit state to renderers.
type EmitContext struct {
	emitter *Emitter
	cfg     emitConfig
	depth   int
	field   string
	seen    map[string]bool
	order   []string
}

// Render produces argument text for value using the registry, falling
// through to the recursive constructor renderer for instances and to the
// unknown-value policy for everything else. An empty string with a nil
// error means the argument is omitted.
func (ctx *EmitContext) Render(value any) (string, error) {
	if value == nil {
		return "null", nil
	}
	if inst, ok := value.(*Instance); ok {
		ctx.depth++
		text, err := ctx.renderInstance(inst)
		ctx.depth--
		return text, err
	}
	if fn, ok := ctx.emitter.renderers.lookup(value); ok {
		return fn(ctx, value)
	}
	switch ctx.cfg.unknown {
	case unknownText:
		return ctx.cfg.unknownVerbatim, nil
	case unknownFail:
		return "", &UnrepresentableValueError{Field: ctx.field, Value: value}
	}
	return "", nil
}

func (ctx *EmitContext) addImport(path string) {
	if path == "" || ctx.seen[path] {
		return
	}
	ctx.seen[path] = true
	ctx.order = append(ctx.order, path)
}

// indentUnit is the prefix with its leading line breaks stripped, so
// nested levels indent by one extra unit under the same break.
func (ctx *EmitContext) argJoiner() string {
	unit := strings.TrimLeft(ctx.cfg.prefix, "\r\n")
	return "," + ctx.cfg.prefix + strings.Repeat(unit, ctx.depth)
}

func (ctx *EmitContext) renderInstance(inst *Instance) (string, error) {
	t := inst.Type()
	name := t.Name()
	if ctx.cfg.qualify && t.Namespace() != "" {
		name = t.Namespace() + "." + name
		ctx.addImport(t.Namespace())
	}

	var args []string
	for _, f := range t.Fields() {
		value, err := inst.Get(f.Name)
		if err != nil {
			return "", err
		}
		if ctx.cfg.suppressDefaults && !f.PerInstance && equalValues(value, f.Default) {
			continue
		}
		ctx.field = f.Name
		text, err := ctx.Render(value)
		if err != nil {
			return "", err
		}
		if text == "" {
			continue
		}
		args = append(args, f.Name+"="+text)
	}
	return name + "(" + strings.Join(args, ctx.argJoiner()) + ")", nil
}

// Emit renders the constructor-call expression reconstructing inst,
// optionally preceded by import lines for every namespace the text
// references. Field order follows declaration order, so output is
// byte-identical across calls on an unmodified instance.
func (e *Emitter) Emit(inst *Instance, opts ...EmitOption) (string, error) {
	cfg := emitConfig{
		suppressDefaults: true,
		qualify:          true,
		prefix:           "\n    ",
		separator:        "\n",
		showImports:      true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	ctx := &EmitContext{emitter: e, cfg: cfg, seen: make(map[string]bool)}
	if cfg.imports != nil {
		for _, path := range *cfg.imports {
			ctx.seen[path] = true
		}
	}
	body, err := ctx.renderInstance(inst)
	if err != nil {
		return "", err
	}
	if cfg.imports != nil {
		*cfg.imports = append(*cfg.imports, ctx.order...)
	}
	if !cfg.showImports {
		return body, nil
	}

	paths := ctx.order
	if cfg.imports != nil {
		paths = *cfg.imports
	}
	if len(paths) == 0 {
		return body, nil
	}
	lines := make([]string, 0, len(paths))
	for _, path := range dedupFirstSeen(paths) {
		lines = append(lines, "import "+path)
	}
	return strings.Join(lines, cfg.separator) + cfg.separator + cfg.separator + body, nil
}

// dedupFirstSeen keeps each path's first occurrence, so import lines
// come out in first-reference order.
func dedupFirstSeen(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// equalValues compares a current value to the declared default.
// Pointer-shaped values like tables compare structurally.
func equalValues(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
