package cli

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// setupLogger builds a zap logger for CLI diagnostics. Output goes to
// stderr so piped command output stays clean.
func setupLogger(level, format string) *zap.Logger {
	atomic := zap.NewAtomicLevel()
	switch strings.ToLower(level) {
	case "debug":
		atomic.SetLevel(zap.DebugLevel)
	case "info":
		atomic.SetLevel(zap.InfoLevel)
	case "warn", "warning":
		atomic.SetLevel(zap.WarnLevel)
	case "error":
		atomic.SetLevel(zap.ErrorLevel)
	default:
		atomic.SetLevel(zap.InfoLevel)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var encoder zapcore.Encoder
	if strings.ToLower(format) == "json" {
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), atomic)
	return zap.New(core)
}
