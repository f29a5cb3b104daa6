package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"

	"github.com/borgo-ai/borgo/src/safety"
)

// ShellRunner executes shell commands that have already been approved by
// the user. The guard verdict is checked again here so a runner can never
// be talked into executing a blocked command, approved or not.
type ShellRunner struct {
	Timeout time.Duration
	Dir     string
	guard   *safety.ShellGuard
}

const defaultShellTimeout = 30 * time.Second

func NewShellRunner() *ShellRunner {
	return &ShellRunner{
		Timeout: defaultShellTimeout,
		guard:   safety.NewShellGuard(),
	}
}

// Check exposes the guard verdict without executing anything.
func (sr *ShellRunner) Check(command string) (bool, string) {
	return sr.guard.Check(command)
}

// Execute runs the command through `sh -c` under a deadline. Without
// approval no process is spawned and the result is marked cancelled. The
// process exit code is the return value.
func (sr *ShellRunner) Execute(ctx context.Context, command string, approved bool) ExecutionResult {
	if ok, reason := sr.guard.Check(command); !ok {
		return ExecutionResult{Stderr: reason, Error: reason}
	}

	if !approved {
		return ExecutionResult{
			Cancelled: true,
			Error:     "Command requires user approval",
		}
	}

	timeout := sr.Timeout
	if timeout <= 0 {
		timeout = defaultShellTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "sh", "-c", command)
	cmd.Dir = sr.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Run the shell in its own process group and kill the whole group on
	// cancellation, so backgrounded children cannot outlive the deadline.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	// Backstop for the output pipes in case a group escapee keeps them open.
	cmd.WaitDelay = time.Second

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if runCtx.Err() == context.DeadlineExceeded {
		return ExecutionResult{
			Stderr:  fmt.Sprintf("Command timed out after %s", timeout),
			Elapsed: timeout,
			Error:   "Timeout",
		}
	}

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			return ExecutionResult{
				Stderr:  err.Error(),
				Elapsed: elapsed,
				Error:   err.Error(),
			}
		}
	}

	return ExecutionResult{
		Success:     exitCode == 0,
		Stdout:      stdout.String(),
		Stderr:      stderr.String(),
		ReturnValue: exitCode,
		Elapsed:     elapsed,
	}
}
