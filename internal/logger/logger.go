// Package logger builds the zap logger shared by the server.
package logger

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a console logger at the named level ("debug", "info", "warn",
// "error"). Development environments get colored level names.
func New(level, environment string, meta ...zap.Field) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, errors.Wrapf(err, "parse log level %q", level)
	}

	instance, err := configure(lvl, environment == "development").Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return instance.With(meta...), nil
}

func configure(level zapcore.Level, color bool) zap.Config {
	encoder := zap.NewProductionEncoderConfig()
	encoder.TimeKey = "timestamp"
	encoder.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder.EncodeLevel = zapcore.CapitalLevelEncoder
	if color {
		encoder.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	encoder.EncodeCaller = zapcore.ShortCallerEncoder
	encoder.EncodeDuration = zapcore.StringDurationEncoder
	encoder.CallerKey = "caller"
	return zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       false,
		DisableCaller:     false,
		DisableStacktrace: true,
		Encoding:          "console",
		EncoderConfig:     encoder,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
	}
}
