// Package logging initializes the process-wide zerolog logger, grounded on
// the teacher pack's MCP-server logging idiom (console writer, isatty color
// detection) but stripped of rotating file output and dotenv loading: the
// planner is a one-shot CLI invocation, not a long-running daemon, so a
// single stderr sink is sufficient.
package logging

import (
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init sets the global zerolog logger. verbose raises the level to debug;
// otherwise info.
func Init(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	isTerminal := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	writer := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal,
	}

	log.Logger = zerolog.New(writer).With().Timestamp().Logger()
}
