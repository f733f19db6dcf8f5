package param

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ModuleRef is a reference to a namespace path, emitted verbatim and
// recorded in the emit import set.
type ModuleRef string

// Renderer turns one runtime value into argument text. Renderers recurse
// through ctx.Render so containers compose with user registrations.
type Renderer func(ctx *EmitContext, value any) (string, error)

// RendererRegistry maps concrete value types to renderers. Registration
// is expected to happen at startup, before emission begins; structured
// instances always use the recursive constructor renderer and cannot be
// overridden here.
type RendererRegistry struct {
	mu     sync.RWMutex
	byType map[reflect.Type]Renderer
}

// NewRendererRegistry returns a registry pre-seeded with the built-in
// renderers for scalars, sequences, pairs, tables, dates, callables and
// namespace references.
func NewRendererRegistry() *RendererRegistry {
	r := &RendererRegistry{byType: make(map[reflect.Type]Renderer)}
	r.Register(int(0), renderInt)
	r.Register(int64(0), renderInt)
	r.Register(float64(0), renderFloat)
	r.Register("", renderString)
	r.Register(false, renderBool)
	r.Register(time.Time{}, renderTime)
	r.Register(Span{}, renderSpan)
	r.Register([]any(nil), renderList)
	r.Register((*Table)(nil), renderTable)
	r.Register(Callable{}, renderCallable)
	r.Register(ModuleRef(""), renderModuleRef)
	return r
}

// Register installs fn as the renderer for sample's concrete type,
// replacing any previous registration.
func (r *RendererRegistry) Register(sample any, fn Renderer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byType[reflect.TypeOf(sample)] = fn
}

func (r *RendererRegistry) lookup(value any) (Renderer, bool) {
	if r == nil || value == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.byType[reflect.TypeOf(value)]
	return fn, ok
}

func renderInt(_ *EmitContext, value any) (string, error) {
	switch v := value.(type) {
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	}
	return "", fmt.Errorf("param: render: not an integer: %T", value)
}

func renderFloat(_ *EmitContext, value any) (string, error) {
	f, ok := value.(float64)
	if !ok {
		return "", fmt.Errorf("param: render: not a float: %T", value)
	}
	text := strconv.FormatFloat(f, 'g', -1, 64)
	// Keep floats recognizable as floats when they happen to be integral.
	if !strings.ContainsAny(text, ".eE") {
		text += ".0"
	}
	return text, nil
}

func renderString(_ *EmitContext, value any) (string, error) {
	return strconv.Quote(value.(string)), nil
}

func renderBool(_ *EmitContext, value any) (string, error) {
	if value.(bool) {
		return "true", nil
	}
	return "false", nil
}

func renderTime(_ *EmitContext, value any) (string, error) {
	return strconv.Quote(value.(time.Time).Format(DateFormat)), nil
}

func renderSpan(ctx *EmitContext, value any) (string, error) {
	s := value.(Span)
	lo, err := renderFloat(ctx, s.Lo)
	if err != nil {
		return "", err
	}
	hi, err := renderFloat(ctx, s.Hi)
	if err != nil {
		return "", err
	}
	return "(" + lo + ", " + hi + ")", nil
}

func renderList(ctx *EmitContext, value any) (string, error) {
	items := value.([]any)
	parts := make([]string, len(items))
	for i, item := range items {
		text, err := ctx.Render(item)
		if err != nil {
			return "", err
		}
		parts[i] = text
	}
	return "[" + strings.Join(parts, ", ") + "]", nil
}

func renderTable(ctx *EmitContext, value any) (string, error) {
	t := value.(*Table)
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = strconv.Quote(c)
	}
	rows := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			text, err := ctx.Render(cell)
			if err != nil {
				return "", err
			}
			cells[j] = text
		}
		rows[i] = "[" + strings.Join(cells, ", ") + "]"
	}
	return fmt.Sprintf("Table(columns=[%s], rows=[%s])",
		strings.Join(cols, ", "), strings.Join(rows, ", ")), nil
}

func renderCallable(_ *EmitContext, value any) (string, error) {
	c := value.(Callable)
	if c.Name == "" {
		return "", fmt.Errorf("param: render: unnamed callable")
	}
	return c.Name, nil
}

func renderModuleRef(ctx *EmitContext, value any) (string, error) {
	ref := string(value.(ModuleRef))
	if i := strings.LastIndex(ref, "."); i > 0 {
		ctx.addImport(ref[:i])
	}
	return ref, nil
}
