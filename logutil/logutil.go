// Package logutil - slog-Setup fuer CLI und Server
package logutil

import (
	"io"
	"log/slog"
	"path/filepath"
)

// LevelTrace liegt unter Debug und wird ueber AEFORGE_DEBUG=2 aktiviert
const LevelTrace slog.Level = -8

// NewLogger erstellt einen Text-Logger mit Quellangabe fuer das gegebene Level.
// Quelldateien werden auf den Dateinamen gekuerzt.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				if lvl, ok := attr.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					attr.Value = slog.StringValue("TRACE")
				}
			case slog.SourceKey:
				if source, ok := attr.Value.Any().(*slog.Source); ok {
					source.File = filepath.Base(source.File)
				}
			}
			return attr
		},
	}))
}
