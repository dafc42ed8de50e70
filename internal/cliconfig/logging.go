package cliconfig

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/bft-labs/xnew/pkg/log"
)

// NewLogger builds the CLI logger from LogLevel and LogFormat.
// Call Validate first; an unparsable level falls back to info.
func (c Config) NewLogger(out io.Writer) *log.ZerologAdapter {
	if out == nil {
		out = os.Stderr
	}
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if c.LogFormat == "json" {
		return log.NewJSONAdapter(out, level)
	}
	return log.NewConsoleAdapter(out, level)
}
