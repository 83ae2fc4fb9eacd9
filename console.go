package logan

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/merijjeyn/logan/event"
)

// consoleOut is where fallback rendering goes when no viewer is running.
var consoleOut io.Writer = os.Stderr

var severityColors = map[event.Severity]*color.Color{
	event.SeverityInfo:    color.New(color.FgCyan),
	event.SeverityWarning: color.New(color.FgYellow),
	event.SeverityError:   color.New(color.FgRed, color.Bold),
	event.SeverityDebug:   color.New(color.FgHiBlack),
}

// renderConsole writes one event in a compact terminal form. Used when
// log calls happen before (or without) Init.
func renderConsole(w io.Writer, ev event.Event) {
	sevColor, ok := severityColors[ev.Severity]
	if !ok {
		sevColor = color.New(color.FgWhite)
	}

	fmt.Fprintf(w, "%s %s [%s] %s\n",
		ev.Timestamp.Format("15:04:05.000"),
		sevColor.Sprintf("%-7s", string(ev.Severity)),
		ev.Namespace,
		ev.Message,
	)

	if ev.Exception != nil {
		for _, line := range ev.Exception.Traceback {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
}
