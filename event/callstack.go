package event

import (
	"runtime"
	"strings"
)

// Packages whose frames never belong in a captured callstack: the logan
// library itself plus the slog machinery the bridge handler sits behind.
var hiddenPackages = map[string]bool{
	"github.com/merijjeyn/logan":       true,
	"github.com/merijjeyn/logan/event": true,
	"log/slog":                         true,
}

const maxCallstackDepth = 64

// Capture walks the calling stack and returns it innermost caller first,
// with the library's own frames and runtime plumbing excluded. skip counts
// additional frames to drop on top of Capture itself.
func Capture(skip int) []Frame {
	pcs := make([]uintptr, maxCallstackDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	var stack []Frame
	for {
		frame, more := frames.Next()
		if frame.Function != "" && !hiddenFrame(frame.Function) {
			stack = append(stack, Frame{
				File:     frame.File,
				Line:     frame.Line,
				Function: frame.Function,
			})
		}
		if !more {
			break
		}
	}
	return stack
}

func hiddenFrame(function string) bool {
	if strings.HasPrefix(function, "runtime.") {
		return true
	}
	return hiddenPackages[packageOf(function)]
}

// packageOf extracts the import path from a fully qualified function
// name such as "github.com/merijjeyn/logan/event.Capture" or
// "github.com/merijjeyn/logan.(*Viewer).Log".
func packageOf(function string) string {
	slash := strings.LastIndex(function, "/")
	dot := strings.Index(function[slash+1:], ".")
	if dot < 0 {
		return function
	}
	return function[:slash+1+dot]
}
