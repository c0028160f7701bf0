// Package tui renders run outcomes for terminal users, with colors when the
// terminal supports them.
package tui

import (
	"github.com/muesli/termenv"

	"github.com/aretw0/armature/pkg/domain"
)

// RenderOutcome returns a one-line, optionally colored summary of how a run
// ended, phrased the way the user should read it: a stop is quiet, a
// disconnect and a safety stop are actionable, a failure is an error.
func RenderOutcome(outcome domain.Outcome) string {
	profile := termenv.ColorProfile()

	style := func(s, color string) string {
		return termenv.String(s).Foreground(profile.Color(color)).String()
	}

	switch outcome {
	case domain.OutcomeCompleted:
		return style("program completed", "2")
	case domain.OutcomeAborted:
		return style("program stopped", "3")
	case domain.OutcomeDisconnected:
		return style("robot disconnected: check the connection and run again", "1")
	case domain.OutcomeLimited:
		return style("safety limit reached: reduce loop counts or program size", "1")
	default:
		return style("program failed unexpectedly: see the log", "1")
	}
}
