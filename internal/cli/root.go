package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	param "github.com/majidaldo/param"
)

// Execute runs the paramctl command tree.
func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var configFile string

	cmd := &cobra.Command{
		Use:           "paramctl",
		Short:         "Inspect, validate and regenerate parameterized type documents",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(v, cmd, configFile)
		},
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default paramctl.yaml in the working directory)")
	cmd.PersistentFlags().String("typedef", "", "path to the JSON type-definition document (required)")
	cmd.PersistentFlags().String("type", "", "qualified type path to operate on (defaults to the only declared type)")
	cmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	cmd.PersistentFlags().String("log-format", "console", "log format: console or json")

	cmd.AddCommand(schemaCmd(v))
	cmd.AddCommand(validateCmd(v))
	cmd.AddCommand(emitCmd(v))
	return cmd
}

// initConfig layers configuration: flags override environment variables
// (PARAMCTL_*), which override the config file.
func initConfig(v *viper.Viper, cmd *cobra.Command, configFile string) error {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if err := v.BindPFlags(cmd.Root().PersistentFlags()); err != nil {
		return err
	}
	v.SetEnvPrefix("PARAMCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %q: %w", configFile, err)
		}
		return nil
	}
	v.SetConfigName("paramctl")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}
	return nil
}

func newLogger(v *viper.Viper) *zap.Logger {
	return setupLogger(v.GetString("log-level"), v.GetString("log-format"))
}

// loadType parses the typedef document and selects the requested type,
// defaulting to the sole declaration when --type is omitted.
func loadType(v *viper.Viper, log *zap.Logger) (*param.Type, *param.TypeRegistry, error) {
	path := v.GetString("typedef")
	if path == "" {
		return nil, nil, fmt.Errorf("--typedef is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	registry, err := param.ParseTypeDefs(data)
	if err != nil {
		return nil, nil, err
	}

	typePath := v.GetString("type")
	if typePath == "" {
		paths := registry.Paths()
		if len(paths) != 1 {
			return nil, nil, fmt.Errorf("--type is required when the document declares %d types", len(paths))
		}
		typePath = paths[0]
	}
	t, err := registry.Resolve(typePath)
	if err != nil {
		return nil, nil, err
	}
	log.Debug("typedef loaded", zap.String("path", path), zap.String("type", t.Path()))
	return t, registry, nil
}
