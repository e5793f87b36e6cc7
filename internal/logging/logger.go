package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger. The returned closer releases
// the log file, if one was opened.
func Init(level, format, file string) (io.Closer, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	var out io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
		out, closer = f, f
	}

	log.Logger = New(out, lvl, format)
	zerolog.SetGlobalLevel(lvl)
	return closer, nil
}

// New builds a logger writing to out. format "json" emits one JSON object
// per line; anything else uses the human-readable console writer.
func New(out io.Writer, lvl zerolog.Level, format string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	if format == "json" {
		return zerolog.New(out).
			Level(lvl).
			With().
			Timestamp().
			Str("app", "feedbackloop").
			Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.Kitchen,
		NoColor:    out != os.Stderr,
	}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
