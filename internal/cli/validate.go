package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	param "github.com/majidaldo/param"
)

func validateCmd(v *viper.Viper) *cobra.Command {
	var subset []string
	var defaultsPath string

	c := &cobra.Command{
		Use:   "validate <values.json>",
		Short: "Check a JSON values document against a declared type",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			log := newLogger(v)
			defer log.Sync()

			t, _, err := loadType(v, log)
			if err != nil {
				return err
			}

			var opts []param.InterchangeOption
			if len(subset) > 0 {
				opts = append(opts, param.WithSubset(subset...))
			}
			values, err := loadValues(t, args[0], defaultsPath, opts...)
			if err != nil {
				return err
			}
			log.Debug("document valid",
				zap.String("type", t.Path()),
				zap.Int("fields", len(values)))

			fmt.Println("OK")
			return nil
		},
	}

	c.Flags().StringSliceVar(&subset, "field", nil, "restrict validation to the named fields (repeatable)")
	c.Flags().StringVar(&defaultsPath, "defaults", "", "JSON defaults document layered under the values document")
	return c
}
