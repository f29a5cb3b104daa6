package sandbox

import (
	"fmt"
	"strings"
	"time"

	starjson "go.starlark.net/lib/json"
	starmath "go.starlark.net/lib/math"
	startime "go.starlark.net/lib/time"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.starlark.net/syntax"

	"github.com/borgo-ai/borgo/src/safety"
)

// CodeSandbox runs snippets in an embedded Starlark interpreter. The
// interpreter has no filesystem, network or process access of its own, so
// the only capabilities a snippet ever gets are the predeclared modules
// below. The guard still screens every snippet first; the sandbox is the
// second wall, not the first.
type CodeSandbox struct {
	Timeout  time.Duration
	MaxSteps uint64
	guard    *safety.CodeGuard
	fileOpts *syntax.FileOptions
}

const (
	defaultCodeTimeout  = 10 * time.Second
	defaultMaxExecSteps = 10_000_000
)

// sandboxModules are the only modules a snippet can reach, both as
// predeclared names and as load() targets. The set must match the guard's
// load() allow-list.
var sandboxModules = map[string]*starlarkstruct.Module{
	"math": starmath.Module,
	"time": startime.Module,
	"json": starjson.Module,
}

// loadModule serves load() statements from sandboxModules: the module itself
// plus its members, so both load("math", "math") and load("math", "sqrt")
// bind.
func loadModule(_ *starlark.Thread, module string) (starlark.StringDict, error) {
	mod, ok := sandboxModules[module]
	if !ok {
		return nil, fmt.Errorf("module %s is not available", module)
	}
	globals := starlark.StringDict{mod.Name: mod}
	for name, member := range mod.Members {
		globals[name] = member
	}
	return globals, nil
}

func NewCodeSandbox() *CodeSandbox {
	return &CodeSandbox{
		Timeout:  defaultCodeTimeout,
		MaxSteps: defaultMaxExecSteps,
		guard:    safety.NewCodeGuard(),
		fileOpts: &syntax.FileOptions{
			Set:             true,
			While:           true,
			TopLevelControl: true,
			GlobalReassign:  true,
		},
	}
}

// Check exposes the guard verdict without executing anything.
func (cs *CodeSandbox) Check(code string) (bool, string) {
	return cs.guard.Check(code)
}

// Execute runs code and captures output, the `_result` global and timing.
// A guard rejection, runtime error or timeout is reported inside the
// result; Execute itself never returns an error.
func (cs *CodeSandbox) Execute(code string) ExecutionResult {
	if ok, reason := cs.guard.Check(code); !ok {
		return ExecutionResult{Stderr: reason, Error: reason}
	}

	var stdout strings.Builder
	thread := &starlark.Thread{
		Name: "sandbox",
		Print: func(_ *starlark.Thread, msg string) {
			stdout.WriteString(msg)
			stdout.WriteString("\n")
		},
		Load: loadModule,
	}
	if cs.MaxSteps > 0 {
		thread.SetMaxExecutionSteps(cs.MaxSteps)
	}

	timeout := cs.Timeout
	if timeout <= 0 {
		timeout = defaultCodeTimeout
	}
	watchdog := time.AfterFunc(timeout, func() {
		thread.Cancel("Timeout")
	})
	defer watchdog.Stop()

	predeclared := make(starlark.StringDict, len(sandboxModules))
	for name, mod := range sandboxModules {
		predeclared[name] = mod
	}

	start := time.Now()
	globals, err := starlark.ExecFileOptions(cs.fileOpts, thread, "snippet.star", code, predeclared)
	elapsed := time.Since(start)

	if err != nil {
		msg := evalErrorMessage(err)
		if strings.Contains(msg, "Timeout") {
			return ExecutionResult{
				Stdout:  stdout.String(),
				Stderr:  fmt.Sprintf("Code timed out after %s", timeout),
				Elapsed: elapsed,
				Error:   "Timeout",
			}
		}
		return ExecutionResult{
			Stdout:  stdout.String(),
			Stderr:  msg,
			Elapsed: elapsed,
			Error:   msg,
		}
	}

	var returnValue any
	if v, ok := globals["_result"]; ok {
		returnValue = fromStarlarkValue(v)
	}

	return ExecutionResult{
		Success:     true,
		Stdout:      stdout.String(),
		ReturnValue: returnValue,
		Elapsed:     elapsed,
	}
}

// evalErrorMessage flattens interpreter errors to a "Kind: message" line.
func evalErrorMessage(err error) string {
	if evalErr, ok := err.(*starlark.EvalError); ok {
		return fmt.Sprintf("EvalError: %s", evalErr.Msg)
	}
	return err.Error()
}

// fromStarlarkValue converts interpreter values to plain Go values so tool
// results serialise cleanly.
func fromStarlarkValue(v starlark.Value) any {
	switch v := v.(type) {
	case starlark.NoneType:
		return nil
	case starlark.Bool:
		return bool(v)
	case starlark.String:
		return string(v)
	case starlark.Int:
		if i, ok := v.Int64(); ok {
			return i
		}
		return v.String()
	case starlark.Float:
		return float64(v)
	case *starlark.List:
		out := make([]any, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			out = append(out, fromStarlarkValue(v.Index(i)))
		}
		return out
	case starlark.Tuple:
		out := make([]any, 0, len(v))
		for _, item := range v {
			out = append(out, fromStarlarkValue(item))
		}
		return out
	case *starlark.Dict:
		out := make(map[string]any, v.Len())
		for _, item := range v.Items() {
			key, ok := starlark.AsString(item[0])
			if !ok {
				key = item[0].String()
			}
			out[key] = fromStarlarkValue(item[1])
		}
		return out
	default:
		return v.String()
	}
}
