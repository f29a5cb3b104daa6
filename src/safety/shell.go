package safety

import (
	"fmt"
	"regexp"
	"strings"
)

// ShellGuard screens shell commands before they reach the approval prompt.
// Passing the guard does not run anything; it only means the command is
// eligible to be shown to the user for confirmation.
type ShellGuard struct{}

// blockedCommands are matched as lowercase substrings of the command.
var blockedCommands = []string{
	"rm -rf /",
	"rm -rf ~",
	"rm -rf *",
	"mkfs",
	"dd if=",
	":(){:|:&};:",
	"> /dev/sda",
	"chmod -r 777 /",
	"wget -o- | sh",
	"curl | sh",
	"curl | bash",
	"wget | bash",
}

var blockedShellPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\brm\s+-rf\s+/`),
	regexp.MustCompile(`(?i)\bsudo\s+rm\b`),
	regexp.MustCompile(`(?i)\bmkfs\b`),
	regexp.MustCompile(`(?i)\bdd\s+if=`),
	regexp.MustCompile(`(?i)>\s*/dev/`),
	regexp.MustCompile(`(?i)\bshutdown\b`),
	regexp.MustCompile(`(?i)\breboot\b`),
	regexp.MustCompile(`(?i)\binit\s+0\b`),
	regexp.MustCompile(`(?i)\bchmod\s+-R\s+777\s+/`),
}

// networkRestrictions limits curl and wget to plain GET requests. Any flag
// that would send a body or change the method is rejected.
var networkRestrictions = map[string][]string{
	"curl": {"-X POST", "-X PUT", "-X DELETE", "-X PATCH", "--data", "-d ", "--upload-file", "-T "},
	"wget": {"--post-data", "--post-file", "--method=POST"},
}

func NewShellGuard() *ShellGuard {
	return &ShellGuard{}
}

// Check reports whether the command may be offered for execution. A false
// result carries the reason; approval can never override it.
func (g *ShellGuard) Check(command string) (bool, string) {
	lower := strings.ToLower(command)

	for _, blocked := range blockedCommands {
		if strings.Contains(lower, blocked) {
			return false, "Blocked: Dangerous command pattern"
		}
	}

	for _, pattern := range blockedShellPatterns {
		if pattern.MatchString(command) {
			return false, "Blocked: Dangerous command pattern"
		}
	}

	for tool, blockedArgs := range networkRestrictions {
		if !strings.Contains(lower, tool) {
			continue
		}
		for _, arg := range blockedArgs {
			if strings.Contains(lower, strings.ToLower(arg)) {
				return false, fmt.Sprintf("Blocked: Only GET requests allowed (%s not permitted)", strings.TrimSpace(arg))
			}
		}
	}

	return true, ""
}
