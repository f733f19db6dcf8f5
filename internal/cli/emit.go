package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	param "github.com/majidaldo/param"
)

func emitCmd(v *viper.Viper) *cobra.Command {
	var full bool
	var bare bool
	var noImports bool
	var defaultsPath string

	c := &cobra.Command{
		Use:   "emit [values.json]",
		Short: "Regenerate constructor-call source from a values document",
		Long: "Builds an instance of the declared type from the given JSON values " +
			"document (or pure defaults when omitted) and prints the constructor-call " +
			"expression that reconstructs it.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			log := newLogger(v)
			defer log.Sync()

			t, _, err := loadType(v, log)
			if err != nil {
				return err
			}

			valuesPath := ""
			if len(args) == 1 {
				valuesPath = args[0]
			}
			values, err := loadValues(t, valuesPath, defaultsPath)
			if err != nil {
				return err
			}
			inst, err := t.New(values)
			if err != nil {
				return err
			}

			opts := []param.EmitOption{param.UnknownError()}
			if full {
				opts = append(opts, param.WithSuppressDefaults(false))
			}
			if bare {
				opts = append(opts, param.WithQualify(false))
			}
			if noImports {
				opts = append(opts, param.WithShowImports(false))
			}
			text, err := param.NewEmitter(nil).Emit(inst, opts...)
			if err != nil {
				return err
			}

			fmt.Println(text)
			return nil
		},
	}

	c.Flags().BoolVar(&full, "full", false, "include every field, even those equal to their defaults")
	c.Flags().BoolVar(&bare, "bare", false, "emit the bare type name without its namespace path")
	c.Flags().BoolVar(&noImports, "no-imports", false, "suppress the import lines")
	c.Flags().StringVar(&defaultsPath, "defaults", "", "JSON defaults document layered under the values document")
	return c
}
