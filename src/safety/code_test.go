package safety

import (
	"strings"
	"testing"
)

func TestCodeGuardAllowsSafeCode(t *testing.T) {
	guard := NewCodeGuard()
	snippets := []string{
		`print(1 + 2)`,
		"x = [i * i for i in range(10)]\n_result = sum(x)",
		`load("math", "sqrt")` + "\n" + `_result = sqrt(2)`,
		"total = 0\nwhile total < 10:\n    total += 1\n_result = total",
		`load("json", "encode")` + "\n" + `print(encode({"a": 1}))`,
	}
	for _, code := range snippets {
		ok, reason := guard.Check(code)
		if !ok {
			t.Errorf("expected safe, got %q for:\n%s", reason, code)
		}
	}
}

func TestCodeGuardBlocksDangerousPatterns(t *testing.T) {
	guard := NewCodeGuard()
	cases := []struct {
		code string
		want string
	}{
		{"import os\nos.listdir('.')", "Dangerous pattern"},
		{"eval('1+1')", "Dangerous pattern"},
		{"open('/etc/passwd')", "Dangerous pattern"},
		{"x = subprocess.run", "Dangerous pattern"},
		{"__import__('socket')", "Dangerous pattern"},
	}
	for _, tc := range cases {
		ok, reason := guard.Check(tc.code)
		if ok {
			t.Errorf("expected block for:\n%s", tc.code)
			continue
		}
		if !strings.Contains(reason, tc.want) {
			t.Errorf("reason %q does not mention %q", reason, tc.want)
		}
	}
}

func TestCodeGuardBlocksUnknownLoads(t *testing.T) {
	guard := NewCodeGuard()
	ok, reason := guard.Check(`load("net", "dial")`)
	if ok {
		t.Fatal("expected unknown load module to be blocked")
	}
	if !strings.Contains(reason, "'net'") {
		t.Errorf("reason %q should name the module", reason)
	}
}

func TestCodeGuardBlocksBannedIdentifiers(t *testing.T) {
	guard := NewCodeGuard()
	ok, reason := guard.Check("x = getattr")
	if ok {
		t.Fatal("expected banned identifier to be blocked")
	}
	if !strings.Contains(reason, "getattr") {
		t.Errorf("reason %q should name the identifier", reason)
	}
}

func TestCodeGuardRejectsSyntaxErrors(t *testing.T) {
	guard := NewCodeGuard()
	ok, reason := guard.Check("def broken(:\n    pass")
	if ok {
		t.Fatal("expected unparseable code to be rejected")
	}
	if !strings.Contains(reason, "Syntax error") {
		t.Errorf("reason %q should mention the parse failure", reason)
	}
}
