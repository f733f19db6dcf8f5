package param

import (
	"fmt"
	"time"

	cbor "github.com/fxamacker/cbor/v2"
)

// SnapshotOption configures a SnapshotCodec.
type SnapshotOption func(*SnapshotCodec)

// SnapshotWithFunctions wires the registry used to resolve Callable
// values at decode time.
func SnapshotWithFunctions(registry *FunctionRegistry) SnapshotOption {
	return func(c *SnapshotCodec) {
		c.functions = registry
	}
}

// SnapshotCodec encodes an instance's complete runtime state into an
// opaque CBOR blob and restores it. Blobs record qualified type and
// callable paths, never code; decoding resolves them through the
// registries supplied here, so a path with no registered declaration
// fails with *TypeResolutionError.
type SnapshotCodec struct {
	types     *TypeRegistry
	functions *FunctionRegistry
	enc       cbor.EncMode
	dec       cbor.DecMode
}

// NewSnapshotCodec constructs a codec resolving types through registry.
// Encoding is canonical so identical state yields identical blobs.
func NewSnapshotCodec(types *TypeRegistry, opts ...SnapshotOption) (*SnapshotCodec, error) {
	if types == nil {
		return nil, fmt.Errorf("param: snapshot codec requires a type registry")
	}
	encOpts := cbor.CanonicalEncOptions()
	// Canonical mode defaults to unix-seconds time encoding, which would
	// truncate sub-second date values on a round trip.
	encOpts.Time = cbor.TimeRFC3339Nano
	em, err := encOpts.EncMode()
	if err != nil {
		return nil, err
	}
	dm, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return nil, err
	}
	c := &SnapshotCodec{types: types, enc: em, dec: dm}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// wireInstance is the blob envelope: one qualified type path plus the
// captured state. Field and attribute entries share the namespace;
// decode routes each entry by whether the resolved type declares it.
type wireInstance struct {
	Type  string               `cbor:"type"`
	State map[string]wireValue `cbor:"state"`
}

// wireValue is a self-describing state node so extra attributes
// round-trip without declarations.
type wireValue struct {
	Kind string               `cbor:"k"`
	Int  int64                `cbor:"i,omitempty"`
	Num  float64              `cbor:"f,omitempty"`
	Str  string               `cbor:"s,omitempty"`
	Bool bool                 `cbor:"b,omitempty"`
	Time time.Time            `cbor:"t,omitempty"`
	Pair []float64            `cbor:"p,omitempty"`
	List []wireValue          `cbor:"l,omitempty"`
	Cols []string             `cbor:"c,omitempty"`
	Rows [][]wireValue        `cbor:"r,omitempty"`
	Map  map[string]wireValue `cbor:"m,omitempty"`
	Path string               `cbor:"y,omitempty"`
	Inst *wireInstance        `cbor:"o,omitempty"`
}

// Encode captures the instance graph reachable from inst: every
// explicitly held field value except SkipSnapshot fields, plus every
// extra attribute. Unset fields are not recorded; they resolve against
// the type default again at decode time.
func (c *SnapshotCodec) Encode(inst *Instance) ([]byte, error) {
	envelope, err := c.encodeInstance(inst)
	if err != nil {
		return nil, err
	}
	return c.enc.Marshal(envelope)
}

func (c *SnapshotCodec) encodeInstance(inst *Instance) (*wireInstance, error) {
	if inst == nil {
		return nil, fmt.Errorf("param: cannot snapshot a nil instance")
	}
	t := inst.Type()

	// SkipSnapshot filtering runs before the capture hook: hooks observe
	// the already-filtered state and may add or replace entries.
	state := make(State)
	for _, f := range t.Fields() {
		if f.SkipSnapshot {
			continue
		}
		if value, ok := inst.values[f.Name]; ok {
			state[f.Name] = value
		}
	}
	for name, value := range inst.attrs {
		state[name] = value
	}
	if t.capture != nil {
		replaced, err := t.capture(inst, state)
		if err != nil {
			return nil, fmt.Errorf("param: type %q: capture hook: %w", t.Path(), err)
		}
		if replaced != nil {
			state = replaced
		}
	}

	wire := make(map[string]wireValue, len(state))
	for name, value := range state {
		node, err := c.encodeValue(value)
		if err != nil {
			return nil, fmt.Errorf("param: snapshot of %q: %w", name, err)
		}
		wire[name] = node
	}
	return &wireInstance{Type: t.Path(), State: wire}, nil
}

func (c *SnapshotCodec) encodeValue(value any) (wireValue, error) {
	switch v := value.(type) {
	case nil:
		return wireValue{Kind: "nil"}, nil
	case int:
		return wireValue{Kind: "int", Int: int64(v)}, nil
	case int32:
		return wireValue{Kind: "int", Int: int64(v)}, nil
	case int64:
		return wireValue{Kind: "int", Int: v}, nil
	case float64:
		return wireValue{Kind: "float", Num: v}, nil
	case float32:
		return wireValue{Kind: "float", Num: float64(v)}, nil
	case string:
		return wireValue{Kind: "string", Str: v}, nil
	case bool:
		return wireValue{Kind: "bool", Bool: v}, nil
	case time.Time:
		return wireValue{Kind: "time", Time: v}, nil
	case Span:
		return wireValue{Kind: "span", Pair: []float64{v.Lo, v.Hi}}, nil
	case []any:
		list := make([]wireValue, len(v))
		for i, item := range v {
			node, err := c.encodeValue(item)
			if err != nil {
				return wireValue{}, err
			}
			list[i] = node
		}
		return wireValue{Kind: "list", List: list}, nil
	case map[string]any:
		m := make(map[string]wireValue, len(v))
		for key, item := range v {
			node, err := c.encodeValue(item)
			if err != nil {
				return wireValue{}, err
			}
			m[key] = node
		}
		return wireValue{Kind: "map", Map: m}, nil
	case *Table:
		rows := make([][]wireValue, len(v.Rows))
		for i, row := range v.Rows {
			cells := make([]wireValue, len(row))
			for j, cell := range row {
				node, err := c.encodeValue(cell)
				if err != nil {
					return wireValue{}, err
				}
				cells[j] = node
			}
			rows[i] = cells
		}
		return wireValue{Kind: "table", Cols: append([]string(nil), v.Columns...), Rows: rows}, nil
	case Callable:
		if v.Name == "" {
			return wireValue{}, fmt.Errorf("unnamed callable cannot be recorded")
		}
		return wireValue{Kind: "callable", Path: v.Name}, nil
	case *Instance:
		nested, err := c.encodeInstance(v)
		if err != nil {
			return wireValue{}, err
		}
		return wireValue{Kind: "instance", Inst: nested}, nil
	default:
		return wireValue{}, fmt.Errorf("unsupported value type %T", value)
	}
}

// Decode resolves the recorded type path and rebuilds the instance.
// Declared field entries are validated on assignment; everything else
// becomes an extra attribute again.
func (c *SnapshotCodec) Decode(blob []byte) (*Instance, error) {
	var envelope wireInstance
	if err := c.dec.Unmarshal(blob, &envelope); err != nil {
		return nil, fmt.Errorf("param: decode snapshot: %w", err)
	}
	return c.decodeInstance(&envelope)
}

func (c *SnapshotCodec) decodeInstance(envelope *wireInstance) (*Instance, error) {
	t, err := c.types.Resolve(envelope.Type)
	if err != nil {
		return nil, err
	}

	state := make(State, len(envelope.State))
	for name, node := range envelope.State {
		value, err := c.decodeValue(node)
		if err != nil {
			return nil, err
		}
		state[name] = value
	}

	inst, err := t.New(nil)
	if err != nil {
		return nil, err
	}
	if t.restore != nil {
		remaining, err := t.restore(inst, state)
		if err != nil {
			return nil, fmt.Errorf("param: type %q: restore hook: %w", t.Path(), err)
		}
		if remaining != nil {
			state = remaining
		}
	}
	for name, value := range state {
		if _, declared := t.Field(name); declared {
			if err := inst.Set(name, value); err != nil {
				return nil, err
			}
			continue
		}
		inst.SetAttr(name, value)
	}
	return inst, nil
}

func (c *SnapshotCodec) decodeValue(node wireValue) (any, error) {
	switch node.Kind {
	case "nil":
		return nil, nil
	case "int":
		return int(node.Int), nil
	case "float":
		return node.Num, nil
	case "string":
		return node.Str, nil
	case "bool":
		return node.Bool, nil
	case "time":
		return node.Time, nil
	case "span":
		if len(node.Pair) != 2 {
			return nil, fmt.Errorf("param: decode snapshot: malformed span node")
		}
		return Span{Lo: node.Pair[0], Hi: node.Pair[1]}, nil
	case "list":
		list := make([]any, len(node.List))
		for i, item := range node.List {
			value, err := c.decodeValue(item)
			if err != nil {
				return nil, err
			}
			list[i] = value
		}
		return list, nil
	case "map":
		m := make(map[string]any, len(node.Map))
		for key, item := range node.Map {
			value, err := c.decodeValue(item)
			if err != nil {
				return nil, err
			}
			m[key] = value
		}
		return m, nil
	case "table":
		table := &Table{Columns: append([]string(nil), node.Cols...)}
		table.Rows = make([][]any, len(node.Rows))
		for i, cells := range node.Rows {
			row := make([]any, len(cells))
			for j, cell := range cells {
				value, err := c.decodeValue(cell)
				if err != nil {
					return nil, err
				}
				row[j] = value
			}
			table.Rows[i] = row
		}
		return table, nil
	case "callable":
		return c.functions.Callable(node.Path)
	case "instance":
		if node.Inst == nil {
			return nil, fmt.Errorf("param: decode snapshot: malformed instance node")
		}
		return c.decodeInstance(node.Inst)
	default:
		return nil, fmt.Errorf("param: decode snapshot: unknown node kind %q", node.Kind)
	}
}
