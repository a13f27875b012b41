// Command planner runs the sliding-window production and distribution
// planner, grounded on the teacher's cmd/mrp/main.go entrypoint but
// delegating to a cobra command tree instead of stdlib flag parsing
// (spec.md §6 "CLI entrypoint").
package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/breadnet/planner/pkg/interfaces/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		log.Error().Err(err).Msg("planner exited with an error")
		os.Exit(1)
	}
}
