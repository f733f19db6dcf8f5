package param

// SchemaFormat identifies the representation a schema document encodes.
type SchemaFormat string

const (
	// SchemaFormatProperties represents the flat per-field fragment map
	// produced by Schema.
	SchemaFormatProperties SchemaFormat = "properties"
	// SchemaFormatJSONSchema represents a complete JSON Schema document.
	SchemaFormatJSONSchema SchemaFormat = "jsonschema"
)

// SchemaDocument encapsulates a generated schema output alongside its
// format identifier. Implementations must ensure Document is
// JSON-serialisable.
type SchemaDocument struct {
	Format   SchemaFormat
	Document any
}

// SchemaGenerator transforms a type declaration into a schema document.
// Implementations must be safe for concurrent use.
type SchemaGenerator interface {
	Generate(t *Type) (SchemaDocument, error)
}

// DefaultSchemaGenerator returns the built-in per-field fragment
// generator, the document form of Schema. Interchange options (field
// subsets, safe mode) apply to every Generate call.
func DefaultSchemaGenerator(opts ...InterchangeOption) SchemaGenerator {
	return propertiesGenerator{opts: opts}
}

type propertiesGenerator struct {
	opts []InterchangeOption
}

func (g propertiesGenerator) Generate(t *Type) (SchemaDocument, error) {
	properties, err := Schema(t, g.opts...)
	if err != nil {
		return SchemaDocument{}, err
	}
	return SchemaDocument{
		Format:   SchemaFormatProperties,
		Document: properties,
	}, nil
}
