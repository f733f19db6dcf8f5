// Package hydrate decodes raw JSON documents into the generic map form
// the kind-directed codecs consume. Numbers are preserved as
// json.Number so integer constraints can reject fractional input
// exactly instead of accepting a lossy float conversion.
package hydrate

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Option configures document decoding.
type Option func(*decoder)

// PreHook lets callers normalise the decoded document before it is
// returned, e.g. to strip envelope keys.
type PreHook func(map[string]any) (map[string]any, error)

// WithPreHook applies hook after decoding.
func WithPreHook(hook PreHook) Option {
	return func(d *decoder) {
		d.preHooks = append(d.preHooks, hook)
	}
}

// WithDecoderConfig allows callers to configure the json.Decoder
// directly, in addition to the UseNumber default.
func WithDecoderConfig(configure func(*json.Decoder)) Option {
	return func(d *decoder) {
		if configure != nil {
			d.configureDec = append(d.configureDec, configure)
		}
	}
}

type decoder struct {
	preHooks     []PreHook
	configureDec []func(*json.Decoder)
}

// Document decodes data into a string-keyed map. The top-level value
// must be a JSON object.
func Document(data []byte, opts ...Option) (map[string]any, error) {
	d := &decoder{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	for _, configure := range d.configureDec {
		configure(dec)
	}

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("hydrate: decode document: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("hydrate: trailing data after document")
	}

	for _, hook := range d.preHooks {
		if hook == nil {
			continue
		}
		next, err := hook(doc)
		if err != nil {
			return nil, fmt.Errorf("hydrate: pre-hook failed: %w", err)
		}
		if next != nil {
			doc = next
		}
	}
	return doc, nil
}
