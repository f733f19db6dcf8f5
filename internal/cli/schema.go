package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	param "github.com/majidaldo/param"
	"github.com/majidaldo/param/schema/jsonschema"
)

func schemaCmd(v *viper.Viper) *cobra.Command {
	var safe bool
	var flat bool

	c := &cobra.Command{
		Use:   "schema",
		Short: "Print the schema for a declared type",
		RunE: func(_ *cobra.Command, _ []string) error {
			log := newLogger(v)
			defer log.Sync()

			t, _, err := loadType(v, log)
			if err != nil {
				return err
			}

			var gen param.SchemaGenerator
			if flat {
				var opts []param.InterchangeOption
				if safe {
					opts = append(opts, param.WithSafe())
				}
				gen = param.DefaultSchemaGenerator(opts...)
			} else {
				gen = jsonschema.NewGenerator()
			}
			doc, err := gen.Generate(t)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(doc.Document, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}

	c.Flags().BoolVar(&safe, "safe", false, "verify every field value is guaranteed round-trippable (flat mode only)")
	c.Flags().BoolVar(&flat, "flat", false, "emit per-field constraint fragments instead of a full JSON-Schema document")
	return c
}
