package event_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merijjeyn/logan/event"
)

func TestCapture_CallerIsInnermost(t *testing.T) {
	stack := event.Capture(0)
	require.NotEmpty(t, stack)

	assert.Contains(t, stack[0].Function, "TestCapture_CallerIsInnermost")
	assert.Contains(t, stack[0].File, "callstack_test.go")
	assert.Positive(t, stack[0].Line)
}

func TestCapture_ExcludesLibraryAndRuntimeFrames(t *testing.T) {
	stack := captureThroughHelper()
	require.NotEmpty(t, stack)

	for _, frame := range stack {
		assert.False(t, strings.HasPrefix(frame.Function, "runtime."), frame.Function)
		assert.NotContains(t, frame.Function, "logan/event.", frame.Function)
	}

	// The helper itself is visible; it lives in the test package, not
	// the library.
	assert.Contains(t, stack[0].Function, "captureThroughHelper")
}

func captureThroughHelper() []event.Frame {
	return event.Capture(0)
}

func TestCapture_SkipDropsFrames(t *testing.T) {
	direct := captureThroughHelper()
	skipped := captureWithSkip()
	require.NotEmpty(t, direct)
	require.NotEmpty(t, skipped)

	// skip=1 removes the helper, so the test function is innermost.
	assert.Contains(t, skipped[0].Function, "TestCapture_SkipDropsFrames")
}

func captureWithSkip() []event.Frame {
	return event.Capture(1)
}
