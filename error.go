package wisp

import "fmt"

// RenderError wraps a failure that happened mid-render: a sink write that
// returned an error, or a lazy value/format callback that panicked
// (recovered at the Environment.RenderTemplate boundary — the rendering
// core itself never recovers its own panics).
type RenderError struct {
	Template string
	Cause    error
}

func (e *RenderError) Error() string {
	if e.Template != "" {
		return fmt.Sprintf("wisp: rendering %q: %v", e.Template, e.Cause)
	}
	return fmt.Sprintf("wisp: rendering: %v", e.Cause)
}

func (e *RenderError) Unwrap() error { return e.Cause }
