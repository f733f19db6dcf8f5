package hydrate

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestDocumentPreservesNumbers(t *testing.T) {
	doc, err := Document([]byte(`{"a": 5, "x": 1.25}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	a, ok := doc["a"].(json.Number)
	if !ok {
		t.Fatalf("expected json.Number for a, got %T", doc["a"])
	}
	if n, err := a.Int64(); err != nil || n != 5 {
		t.Fatalf("a = %v (%v)", n, err)
	}

	x, ok := doc["x"].(json.Number)
	if !ok {
		t.Fatalf("expected json.Number for x, got %T", doc["x"])
	}
	if f, err := x.Float64(); err != nil || f != 1.25 {
		t.Fatalf("x = %v (%v)", f, err)
	}
}

func TestDocumentRejectsNonObject(t *testing.T) {
	if _, err := Document([]byte(`[1, 2]`)); err == nil {
		t.Fatalf("expected error for array document")
	}
	if _, err := Document([]byte(`{"a": 1} {"b": 2}`)); err == nil {
		t.Fatalf("expected error for trailing data")
	}
}

func TestDocumentPreHooks(t *testing.T) {
	unwrap := func(doc map[string]any) (map[string]any, error) {
		if inner, ok := doc["values"].(map[string]any); ok {
			return inner, nil
		}
		return doc, nil
	}

	doc, err := Document([]byte(`{"values": {"a": 1}}`), WithPreHook(unwrap))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := doc["a"]; !ok {
		t.Fatalf("expected unwrapped document, got %v", doc)
	}

	boom := func(map[string]any) (map[string]any, error) {
		return nil, fmt.Errorf("malformed envelope")
	}
	_, err = Document([]byte(`{}`), WithPreHook(boom))
	if err == nil || !strings.Contains(err.Error(), "malformed envelope") {
		t.Fatalf("expected hook error, got %v", err)
	}
}

func TestDocumentDecoderConfig(t *testing.T) {
	strict := func(dec *json.Decoder) { dec.DisallowUnknownFields() }
	// DisallowUnknownFields has no effect on map targets; the hook must
	// still be applied without breaking decoding.
	doc, err := Document([]byte(`{"a": 1}`), WithDecoderConfig(strict))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc) != 1 {
		t.Fatalf("unexpected document: %v", doc)
	}
}
