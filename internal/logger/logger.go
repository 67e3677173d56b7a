package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ZanzyTHEbar/jobcore/internal/config"
)

// New builds the root logger from the system configuration and installs it as the
// global zerolog logger. Console output is used unless JSON is requested.
func New(cfg config.SystemConfig, out io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Nop(), err
	}
	if out == nil {
		out = os.Stderr
	}

	zerolog.TimeFieldFormat = time.RFC3339
	w := out
	if !cfg.LogJSON {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}

	logger := zerolog.New(w).Level(level).With().Timestamp().Str("service", "jobcore").Logger()
	log.Logger = logger
	return logger, nil
}
