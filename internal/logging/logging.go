// Package logging builds the process logger.
package logging

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Supported output formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New returns a zap logger writing to stderr at the given level. The json
// format uses the production encoder; console is the human-readable
// development encoder.
func New(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "log level %q", level)
	}

	var cfg zap.Config
	switch format {
	case "", FormatJSON:
		cfg = zap.NewProductionConfig()
	case FormatConsole:
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, errors.Errorf("unknown log format %q", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return logger, nil
}
