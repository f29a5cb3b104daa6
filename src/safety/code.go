package safety

import (
	"fmt"
	"regexp"
	"strings"

	"go.starlark.net/syntax"
)

// CodeGuard decides whether a snippet may run in the code sandbox.
//
// Two independent checks must both pass: a regex denylist over the raw
// source, and a structural walk of the parsed syntax tree. The regex pass
// catches dangerous text even when it is unreachable or quoted into clever
// shapes the parser normalises away; the structural pass catches constructs
// the regexes cannot see, such as aliased loads. Code that fails to parse is
// rejected outright.
type CodeGuard struct {
	fileOpts *syntax.FileOptions
}

// safeLoadModules is the load() allow-list. Everything else is rejected at
// classification time, before the sandbox is ever entered.
var safeLoadModules = map[string]bool{
	"math": true,
	"time": true,
	"json": true,
}

// bannedIdentifiers are names whose mere presence marks a snippet unsafe.
// None of them resolve inside the sandbox, but probing for them is a
// reliable signal of hostile or confused code.
var bannedIdentifiers = map[string]bool{
	"exec":       true,
	"eval":       true,
	"compile":    true,
	"open":       true,
	"input":      true,
	"getattr":    true,
	"setattr":    true,
	"delattr":    true,
	"globals":    true,
	"locals":     true,
	"vars":       true,
	"breakpoint": true,
	"__import__": true,
}

var dangerousCodePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bimport\s+os\b`),
	regexp.MustCompile(`(?i)\bimport\s+sys\b`),
	regexp.MustCompile(`(?i)\bimport\s+subprocess\b`),
	regexp.MustCompile(`(?i)\bimport\s+shutil\b`),
	regexp.MustCompile(`(?i)\bimport\s+pathlib\b`),
	regexp.MustCompile(`(?i)\bimport\s+socket\b`),
	regexp.MustCompile(`(?i)\bimport\s+requests\b`),
	regexp.MustCompile(`(?i)\bimport\s+urllib\b`),
	regexp.MustCompile(`(?i)\bimport\s+http\b`),
	regexp.MustCompile(`(?i)\bfrom\s+os\b`),
	regexp.MustCompile(`(?i)\bfrom\s+sys\b`),
	regexp.MustCompile(`(?i)\b__import__\b`),
	regexp.MustCompile(`(?i)\bexec\s*\(`),
	regexp.MustCompile(`(?i)\beval\s*\(`),
	regexp.MustCompile(`(?i)\bcompile\s*\(`),
	regexp.MustCompile(`(?i)\bopen\s*\(`),
	regexp.MustCompile(`(?i)\bos\.`),
	regexp.MustCompile(`(?i)\bsys\.`),
	regexp.MustCompile(`(?i)\bsubprocess\.`),
	regexp.MustCompile(`(?i)\.system\s*\(`),
	regexp.MustCompile(`(?i)\.popen\s*\(`),
}

// NewCodeGuard returns a guard using the sandbox's dialect: set statements,
// while loops, top-level control flow and global reassignment are all legal
// input. The options here must match the sandbox's exactly, or the guard
// would certify code the interpreter then refuses.
func NewCodeGuard() *CodeGuard {
	return &CodeGuard{
		fileOpts: &syntax.FileOptions{
			Set:             true,
			While:           true,
			TopLevelControl: true,
			GlobalReassign:  true,
		},
	}
}

// Check reports whether code is safe to execute. When it is not, the second
// return value names the first violation found.
func (g *CodeGuard) Check(code string) (bool, string) {
	for _, pattern := range dangerousCodePatterns {
		if pattern.MatchString(code) {
			return false, fmt.Sprintf("Blocked: Dangerous pattern detected (%s)", pattern.String())
		}
	}

	file, err := g.fileOpts.Parse("snippet.star", code, 0)
	if err != nil {
		return false, fmt.Sprintf("Syntax error: %v", err)
	}

	var reason string
	syntax.Walk(file, func(n syntax.Node) bool {
		if reason != "" {
			return false
		}
		switch node := n.(type) {
		case *syntax.LoadStmt:
			module, _ := node.Module.Value.(string)
			module = strings.Trim(module, `"'`)
			if !safeLoadModules[module] {
				reason = fmt.Sprintf("Blocked: Import of '%s' not allowed", module)
				return false
			}
		case *syntax.Ident:
			if bannedIdentifiers[node.Name] {
				reason = fmt.Sprintf("Blocked: Use of '%s' not allowed", node.Name)
				return false
			}
		}
		return true
	})
	if reason != "" {
		return false, reason
	}

	return true, ""
}
