// Package jsonschema renders a complete JSON Schema document for a type
// declaration. Unlike the flat per-field fragments of param.Schema, the
// document form follows nested structured-object fields into $defs, so
// a whole type tree can be published as one schema.
package jsonschema

import (
	"fmt"

	param "github.com/majidaldo/param"
)

const defaultDialect = "https://json-schema.org/draft/2020-12/schema"

type generatorConfig struct {
	dialect string
	id      string
	title   string
}

func defaultGeneratorConfig() generatorConfig {
	return generatorConfig{
		dialect: defaultDialect,
	}
}

// GeneratorOption configures the JSON Schema generator behaviour.
type GeneratorOption func(*generatorConfig)

// WithDialect overrides the $schema dialect URI (default: draft 2020-12).
func WithDialect(dialect string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if dialect == "" {
			return
		}
		cfg.dialect = dialect
	}
}

// WithID sets the $id of the generated document.
func WithID(id string) GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.id = id
	}
}

// WithTitle overrides the document title (default: the type name).
func WithTitle(title string) GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.title = title
	}
}

type generator struct {
	cfg generatorConfig
}

// NewGenerator constructs a whole-document schema generator.
func NewGenerator(opts ...GeneratorOption) param.SchemaGenerator {
	cfg := defaultGeneratorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return generator{cfg: cfg}
}

func (g generator) Generate(t *param.Type) (param.SchemaDocument, error) {
	document, err := Generate(t, func(cfg *generatorConfig) { *cfg = g.cfg })
	if err != nil {
		return param.SchemaDocument{}, err
	}
	return param.SchemaDocument{
		Format:   param.SchemaFormatJSONSchema,
		Document: document,
	}, nil
}

// Generate builds the JSON Schema document for t.
func Generate(t *param.Type, opts ...GeneratorOption) (map[string]any, error) {
	if t == nil {
		return nil, fmt.Errorf("jsonschema: type must not be nil")
	}
	cfg := defaultGeneratorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	defs := newDefRegistry()
	root, err := defs.objectSchema(t)
	if err != nil {
		return nil, err
	}

	document := map[string]any{
		"$schema": cfg.dialect,
	}
	if cfg.id != "" {
		document["$id"] = cfg.id
	}
	title := cfg.title
	if title == "" {
		title = t.Name()
	}
	document["title"] = title
	for key, value := range root {
		document[key] = value
	}
	if defsMap := defs.defsMap(); defsMap != nil {
		document["$defs"] = defsMap
	}
	return document, nil
}
