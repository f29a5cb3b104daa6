package sandbox

import "time"

// ExecutionResult is the outcome of running code or a shell command.
// Tool callers receive it as a value; failures never surface as Go errors.
type ExecutionResult struct {
	Success     bool
	Stdout      string
	Stderr      string
	ReturnValue any
	Elapsed     time.Duration
	Cancelled   bool
	Error       string
}
