// Package zlog sets up zkenc's structured logger: zerolog writing JSON
// to a log file (if configured) and a human-readable, TTY-aware console
// stream, adapted from the auction daemon's hand-rolled level/file/audit
// Logger into zerolog's leveled event API.
package zlog

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// EnvLevel is the environment variable the CLI checks when no --log-level
// flag is given.
const EnvLevel = "ZKENC_LOG_LEVEL"

// New builds a zerolog.Logger writing to stderr (colorized if stderr is a
// TTY, plain JSON otherwise) and, if logFile is non-empty, additionally to
// that file as newline-delimited JSON.
func New(level string, logFile string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	var console io.Writer
	if isatty.IsTerminal(os.Stderr.Fd()) {
		console = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	} else {
		console = os.Stderr
	}

	writers := []io.Writer{console}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Logger{}, err
		}
		writers = append(writers, f)
	}

	multi := zerolog.MultiLevelWriter(writers...)
	logger := zerolog.New(multi).Level(lvl).With().Timestamp().Logger()
	return logger, nil
}

// LevelFromEnv returns $ZKENC_LOG_LEVEL, or "" if unset, for New's level
// argument when the CLI's --log-level flag was not given explicitly.
func LevelFromEnv() string {
	return os.Getenv(EnvLevel)
}
