// Package logging builds the process-wide zap logger.
package logging

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	// Mode is "production" (JSON) or "development" (console, debug level).
	Mode string
	// File, when set, additionally writes JSON logs there with rotation.
	File string
}

// New builds a logger and installs it as the zap global.
func New(opts Options) (*zap.Logger, error) {
	var zapConfig zap.Config
	if opts.Mode == "development" {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	var (
		logger *zap.Logger
		err    error
	)
	if opts.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
		}
		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(rotator),
				zapConfig.Level,
			),
			zapcore.NewCore(
				stdoutEncoder(zapConfig),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller())
	} else {
		logger, err = zapConfig.Build(zap.AddCaller())
		if err != nil {
			return nil, errors.Wrap(err, "build logger")
		}
	}

	zap.ReplaceGlobals(logger)
	return logger, nil
}

// stdoutEncoder returns the encoder zapConfig.Build would use, so stdout looks
// the same whether or not a log file is configured.
func stdoutEncoder(zapConfig zap.Config) zapcore.Encoder {
	if zapConfig.Encoding == "console" {
		return zapcore.NewConsoleEncoder(zapConfig.EncoderConfig)
	}
	return zapcore.NewJSONEncoder(zapConfig.EncoderConfig)
}
