package sandbox

import (
	"context"
	"fmt"
	"strings"
)

// Executor is the unified entry point for running model-produced code. It
// detects the language, strips markdown fences and routes to the sandbox
// or the shell runner.
type Executor struct {
	Code  *CodeSandbox
	Shell *ShellRunner
}

func NewExecutor() *Executor {
	return &Executor{
		Code:  NewCodeSandbox(),
		Shell: NewShellRunner(),
	}
}

var (
	codeIndicators  = []string{"def ", "lambda ", "load(", "print(", "_result", "range("}
	shellIndicators = []string{"echo ", "ls ", "cd ", "mkdir ", "grep ", "cat ", "wget ", "curl "}
)

// DetectLanguage classifies a snippet as "code" or "shell". Fence labels and
// shebangs win; otherwise simple indicator counting decides, defaulting to
// code.
func (e *Executor) DetectLanguage(snippet string) string {
	s := strings.TrimSpace(snippet)

	switch {
	case strings.HasPrefix(s, "```python"), strings.HasPrefix(s, "```starlark"),
		strings.HasPrefix(s, "#!/usr/bin/env python"):
		return "code"
	case strings.HasPrefix(s, "```bash"), strings.HasPrefix(s, "```sh"),
		strings.HasPrefix(s, "#!/bin/bash"), strings.HasPrefix(s, "#!/bin/sh"):
		return "shell"
	}

	codeScore, shellScore := 0, 0
	for _, ind := range codeIndicators {
		if strings.Contains(s, ind) {
			codeScore++
		}
	}
	for _, ind := range shellIndicators {
		if strings.Contains(s, ind) {
			shellScore++
		}
	}
	if shellScore > codeScore {
		return "shell"
	}
	return "code"
}

// CleanCode strips a surrounding markdown code fence if present.
func (e *Executor) CleanCode(snippet string) string {
	s := strings.TrimSpace(snippet)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	lines = lines[1:]
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// ExecuteCode runs an interpreted snippet in the sandbox.
func (e *Executor) ExecuteCode(code string) ExecutionResult {
	return e.Code.Execute(e.CleanCode(code))
}

// CheckShell reports whether a shell command would pass the safety guard.
func (e *Executor) CheckShell(command string) (bool, string) {
	return e.Shell.Check(e.CleanCode(command))
}

// ExecuteShell runs a shell command, honouring the approval gate.
func (e *Executor) ExecuteShell(ctx context.Context, command string, approved bool) ExecutionResult {
	return e.Shell.Execute(ctx, e.CleanCode(command), approved)
}

// Execute routes a snippet by language. An empty language triggers
// detection.
func (e *Executor) Execute(ctx context.Context, snippet, language string, shellApproved bool) ExecutionResult {
	if language == "" {
		language = e.DetectLanguage(snippet)
	}
	switch language {
	case "code", "python", "starlark":
		return e.ExecuteCode(snippet)
	case "shell", "bash", "sh":
		return e.ExecuteShell(ctx, snippet, shellApproved)
	default:
		msg := fmt.Sprintf("Unsupported language: %s", language)
		return ExecutionResult{Stderr: msg, Error: msg}
	}
}
