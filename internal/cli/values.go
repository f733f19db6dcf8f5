package cli

import (
	"os"

	param "github.com/majidaldo/param"
)

// loadValues reads a JSON values document for t, optionally layering it
// over a defaults document: explicit settings in the values document win,
// missing ones fall through to the defaults. Either path may be empty.
func loadValues(t *param.Type, valuesPath, defaultsPath string, opts ...param.InterchangeOption) (map[string]any, error) {
	defaults, err := readDocument(t, defaultsPath, opts)
	if err != nil {
		return nil, err
	}
	values, err := readDocument(t, valuesPath, opts)
	if err != nil {
		return nil, err
	}
	switch {
	case defaults == nil:
		return values, nil
	case values == nil:
		return defaults, nil
	}
	return param.MergeLayers(values, defaults), nil
}

func readDocument(t *param.Type, path string, opts []param.InterchangeOption) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return param.Deserialize(t, data, opts...)
}
