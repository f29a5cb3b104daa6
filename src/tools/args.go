package tools

import (
	"fmt"
	"strconv"
	"strings"
)

// stringArg returns the first non-empty string under any of the keys.
// Inline directives deliver free text under "input", so most tools list
// their primary key first and "input" last.
func stringArg(args map[string]any, keys ...string) string {
	for _, key := range keys {
		v, ok := args[key]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case string:
			if strings.TrimSpace(t) != "" {
				return t
			}
		case float64, int, int64, bool:
			return fmt.Sprint(t)
		}
	}
	return ""
}

// intArg returns the integer under key, accepting JSON numbers and numeric
// strings, or def when absent or unparseable.
func intArg(args map[string]any, key string, def int) int {
	v, ok := args[key]
	if !ok {
		return def
	}
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case int64:
		return int(t)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n
		}
	}
	return def
}

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "\n... [truncated]"
}
