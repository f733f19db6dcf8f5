package param

import (
	"fmt"
)

// RangeKind holds a Span value: an ordered pair of numeric endpoints.
// Bounds, when set, constrain both endpoints.
type RangeKind struct {
	Bounds *Bounds
}

func (RangeKind) Tag() string { return "range" }

func (k RangeKind) Validate(field string, value any) error {
	span, ok := value.(Span)
	if !ok {
		return validationErr(field, "value must be a range", value)
	}
	if span.Lo > span.Hi {
		return validationErr(field, "range endpoints must be ordered", value)
	}
	if !k.Bounds.Contains(span.Lo) || !k.Bounds.Contains(span.Hi) {
		return validationErr(field, fmt.Sprintf("range endpoints must lie in %s", k.Bounds), value)
	}
	return nil
}

func (RangeKind) Encode(field string, value any) (any, error) {
	span, ok := value.(Span)
	if !ok {
		return nil, validationErr(field, "value must be a range", value)
	}
	return []any{span.Lo, span.Hi}, nil
}

func (RangeKind) Decode(field string, raw any) (any, error) {
	pair, ok := raw.([]any)
	if !ok || len(pair) != 2 {
		return nil, validationErr(field, "encoded range must be a two-element array", raw)
	}
	var span Span
	for i, target := range []*float64{&span.Lo, &span.Hi} {
		cell, err := decodeCell(field, pair[i])
		if err != nil {
			return nil, err
		}
		f, ok := asFloat(cell)
		if !ok {
			return nil, validationErr(field, "encoded range endpoints must be numbers", raw)
		}
		*target = f
	}
	return span, nil
}

func (k RangeKind) Schema(string) (map[string]any, error) {
	items := map[string]any{"type": "number"}
	k.Bounds.schemaInto(items)
	return map[string]any{
		"type":     "array",
		"items":    items,
		"minItems": 2,
		"maxItems": 2,
	}, nil
}

func (RangeKind) CheckRoundTrip(string) error { return nil }

// ListKind holds an ordered sequence. Elem, when set, constrains and
// directs encoding of every element; a nil Elem leaves the list
// unconstrained, which forfeits the round-trip guarantee.
type ListKind struct {
	Elem Kind
}

func (ListKind) Tag() string { return "list" }

func (k ListKind) Validate(field string, value any) error {
	items, ok := value.([]any)
	if !ok {
		return validationErr(field, "value must be a list", value)
	}
	if k.Elem == nil {
		return nil
	}
	for _, item := range items {
		if err := k.Elem.Validate(field, item); err != nil {
			return err
		}
	}
	return nil
}

func (k ListKind) Encode(field string, value any) (any, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, validationErr(field, "value must be a list", value)
	}
	out := make([]any, len(items))
	for i, item := range items {
		var (
			enc any
			err error
		)
		if k.Elem != nil {
			enc, err = k.Elem.Encode(field, item)
		} else {
			enc, err = encodeCell(field, item)
		}
		if err != nil {
			return nil, err
		}
		out[i] = enc
	}
	return out, nil
}

func (k ListKind) Decode(field string, raw any) (any, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, validationErr(field, "encoded list must be an array", raw)
	}
	out := make([]any, len(items))
	for i, item := range items {
		var (
			dec any
			err error
		)
		if k.Elem != nil {
			dec, err = k.Elem.Decode(field, item)
		} else {
			dec, err = decodeCell(field, item)
		}
		if err != nil {
			return nil, err
		}
		out[i] = dec
	}
	return out, nil
}

func (k ListKind) Schema(field string) (map[string]any, error) {
	fragment := map[string]any{"type": "array"}
	if k.Elem != nil {
		items, err := k.Elem.Schema(field)
		if err != nil {
			return nil, err
		}
		fragment["items"] = items
	}
	return fragment, nil
}

func (k ListKind) CheckRoundTrip(field string) error {
	if k.Elem == nil {
		return fmt.Errorf("param: field %q: unconstrained list has no round-trip guarantee", field)
	}
	return k.Elem.CheckRoundTrip(field)
}

// TupleKind holds a fixed-size sequence with one kind per slot. A nil
// slot kind admits any scalar but forfeits the round-trip guarantee.
type TupleKind struct {
	Elems []Kind
}

func (TupleKind) Tag() string { return "tuple" }

func (k TupleKind) Validate(field string, value any) error {
	items, ok := value.([]any)
	if !ok {
		return validationErr(field, "value must be a tuple", value)
	}
	if len(items) != len(k.Elems) {
		return validationErr(field, fmt.Sprintf("tuple must have %d elements", len(k.Elems)), value)
	}
	for i, elem := range k.Elems {
		if elem == nil {
			continue
		}
		if err := elem.Validate(field, items[i]); err != nil {
			return err
		}
	}
	return nil
}

func (k TupleKind) Encode(field string, value any) (any, error) {
	items, ok := value.([]any)
	if !ok || len(items) != len(k.Elems) {
		return nil, validationErr(field, fmt.Sprintf("tuple must have %d elements", len(k.Elems)), value)
	}
	out := make([]any, len(items))
	for i, item := range items {
		var (
			enc any
			err error
		)
		if k.Elems[i] != nil {
			enc, err = k.Elems[i].Encode(field, item)
		} else {
			enc, err = encodeCell(field, item)
		}
		if err != nil {
			return nil, err
		}
		out[i] = enc
	}
	return out, nil
}

func (k TupleKind) Decode(field string, raw any) (any, error) {
	items, ok := raw.([]any)
	if !ok || len(items) != len(k.Elems) {
		return nil, validationErr(field, fmt.Sprintf("encoded tuple must be an array of %d elements", len(k.Elems)), raw)
	}
	out := make([]any, len(items))
	for i, item := range items {
		var (
			dec any
			err error
		)
		if k.Elems[i] != nil {
			dec, err = k.Elems[i].Decode(field, item)
		} else {
			dec, err = decodeCell(field, item)
		}
		if err != nil {
			return nil, err
		}
		out[i] = dec
	}
	return out, nil
}

func (k TupleKind) Schema(field string) (map[string]any, error) {
	slots := make([]any, len(k.Elems))
	for i, elem := range k.Elems {
		if elem == nil {
			slots[i] = map[string]any{}
			continue
		}
		fragment, err := elem.Schema(field)
		if err != nil {
			return nil, err
		}
		slots[i] = fragment
	}
	return map[string]any{
		"type":        "array",
		"prefixItems": slots,
		"minItems":    len(k.Elems),
		"maxItems":    len(k.Elems),
	}, nil
}

func (k TupleKind) CheckRoundTrip(field string) error {
	for i, elem := range k.Elems {
		if elem == nil {
			return fmt.Errorf("param: field %q: tuple slot %d has no declared kind", field, i)
		}
		if err := elem.CheckRoundTrip(field); err != nil {
			return err
		}
	}
	return nil
}

// TableKind holds tabular data: column labels plus row-major scalar
// cells. Equality across a round-trip is value-based for numeric cells.
type TableKind struct{}

func (TableKind) Tag() string { return "table" }

func (TableKind) Validate(field string, value any) error {
	table, ok := value.(*Table)
	if !ok || table == nil {
		return validationErr(field, "value must be a table", value)
	}
	for _, row := range table.Rows {
		if len(row) != len(table.Columns) {
			return validationErr(field, fmt.Sprintf("every row must have %d cells", len(table.Columns)), value)
		}
		for _, cell := range row {
			switch cell.(type) {
			case nil, int, int64, float64, string, bool:
			default:
				return validationErr(field, "table cells must be scalar", cell)
			}
		}
	}
	return nil
}

func (TableKind) Encode(field string, value any) (any, error) {
	table, ok := value.(*Table)
	if !ok || table == nil {
		return nil, validationErr(field, "value must be a table", value)
	}
	rows := make([]any, len(table.Rows))
	for i, row := range table.Rows {
		cells := make([]any, len(row))
		for j, cell := range row {
			enc, err := encodeCell(field, cell)
			if err != nil {
				return nil, err
			}
			cells[j] = enc
		}
		rows[i] = cells
	}
	columns := make([]any, len(table.Columns))
	for i, col := range table.Columns {
		columns[i] = col
	}
	return map[string]any{"columns": columns, "rows": rows}, nil
}

func (TableKind) Decode(field string, raw any) (any, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, validationErr(field, "encoded table must be an object with columns and rows", raw)
	}
	rawColumns, ok := obj["columns"].([]any)
	if !ok {
		return nil, validationErr(field, "encoded table must carry a columns array", raw)
	}
	table := &Table{Columns: make([]string, len(rawColumns))}
	for i, col := range rawColumns {
		s, ok := col.(string)
		if !ok {
			return nil, validationErr(field, "table column labels must be strings", col)
		}
		table.Columns[i] = s
	}
	rawRows, ok := obj["rows"].([]any)
	if !ok {
		return nil, validationErr(field, "encoded table must carry a rows array", raw)
	}
	table.Rows = make([][]any, len(rawRows))
	for i, rawRow := range rawRows {
		cells, ok := rawRow.([]any)
		if !ok {
			return nil, validationErr(field, "encoded table rows must be arrays", rawRow)
		}
		row := make([]any, len(cells))
		for j, cell := range cells {
			dec, err := decodeCell(field, cell)
			if err != nil {
				return nil, err
			}
			row[j] = dec
		}
		table.Rows[i] = row
	}
	return table, nil
}

func (TableKind) Schema(string) (map[string]any, error) {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"columns": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"rows":    map[string]any{"type": "array", "items": map[string]any{"type": "array"}},
		},
		"required": []any{"columns", "rows"},
	}, nil
}

func (TableKind) CheckRoundTrip(string) error { return nil }

// ObjectKind holds a nested structured-object reference. The interchange
// codec rejects it: the concrete type of the nested instance cannot be
// recovered from interchange text alone. The snapshot codec and the
// regeneration emitter both support it.
type ObjectKind struct {
	Of *Type
}

func (ObjectKind) Tag() string { return "object" }

func (k ObjectKind) Validate(field string, value any) error {
	inst, ok := value.(*Instance)
	if !ok || inst == nil {
		return validationErr(field, "value must be a structured object", value)
	}
	if k.Of != nil && inst.Type() != k.Of {
		return validationErr(field, fmt.Sprintf("value must be an instance of %s", k.Of.Path()), value)
	}
	return nil
}

func (k ObjectKind) Encode(field string, _ any) (any, error) {
	return nil, &UnsupportedFieldError{Field: field, Kind: k.Tag()}
}

func (k ObjectKind) Decode(field string, _ any) (any, error) {
	return nil, &UnsupportedFieldError{Field: field, Kind: k.Tag()}
}

func (k ObjectKind) Schema(field string) (map[string]any, error) {
	return nil, &UnsupportedFieldError{Field: field, Kind: k.Tag()}
}

func (k ObjectKind) CheckRoundTrip(field string) error {
	return &UnsupportedFieldError{Field: field, Kind: k.Tag()}
}

// CallableKind holds a Callable value. Like ObjectKind it has no
// interchange encoding; snapshots record the registry name.
type CallableKind struct{}

func (CallableKind) Tag() string { return "callable" }

func (CallableKind) Validate(field string, value any) error {
	c, ok := value.(Callable)
	if !ok || c.Fn == nil || c.Name == "" {
		return validationErr(field, "value must be a named callable", value)
	}
	return nil
}

func (k CallableKind) Encode(field string, _ any) (any, error) {
	return nil, &UnsupportedFieldError{Field: field, Kind: k.Tag()}
}

func (k CallableKind) Decode(field string, _ any) (any, error) {
	return nil, &UnsupportedFieldError{Field: field, Kind: k.Tag()}
}

func (k CallableKind) Schema(field string) (map[string]any, error) {
	return nil, &UnsupportedFieldError{Field: field, Kind: k.Tag()}
}

func (k CallableKind) CheckRoundTrip(field string) error {
	return &UnsupportedFieldError{Field: field, Kind: k.Tag()}
}

// encodeCell passes through one scalar for containers without a declared
// element kind.
func encodeCell(field string, value any) (any, error) {
	switch v := value.(type) {
	case nil, int, int64, float64, string, bool:
		return v, nil
	default:
		return nil, validationErr(field, "cell values must be scalar", value)
	}
}
