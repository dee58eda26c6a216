// Package logging monta o zerolog.Logger da aplicação.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New: JSON no stdout; pretty=true usa o ConsoleWriter (desenvolvimento).
// Nível desconhecido cai para info.
func New(level string, pretty bool) zerolog.Logger {
	return NewWithWriter(os.Stdout, level, pretty)
}

func NewWithWriter(w io.Writer, level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
