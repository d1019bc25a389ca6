// Package logging configures the process logger. The TUI owns the terminal,
// so logs only go anywhere when a log file is configured.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Setup builds the root logger. With an empty file path all output is
// discarded. Format is "text" (console writer without colors) or "json".
func Setup(file, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var out io.Writer = io.Discard
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
		if format != "json" {
			out = zerolog.ConsoleWriter{Out: f, NoColor: true}
		}
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}
