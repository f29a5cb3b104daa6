package borgo

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ParsedResponse holds whichever grammar sections a completion contained.
// Every field is independently optional; absent sections stay zero.
type ParsedResponse struct {
	Thought     string
	Action      string
	Args        map[string]any
	FinalAnswer string
	HasFinal    bool
}

var (
	thoughtPattern = regexp.MustCompile(`(?s)THOUGHT:\s*(.+?)(?:ACTION:|FINAL_ANSWER:|$)`)
	finalPattern   = regexp.MustCompile(`(?s)FINAL_ANSWER:\s*(.+)$`)
	actionPattern  = regexp.MustCompile(`ACTION:\s*(\w+)`)
	argsPattern    = regexp.MustCompile(`(?s)ARGS:\s*(\{.+?\})`)
)

// ParseResponse extracts the THOUGHT/ACTION/ARGS/FINAL_ANSWER sections from
// a completion. It never fails: missing sections yield empty fields and
// malformed ARGS JSON yields an empty argument map.
func ParseResponse(response string) ParsedResponse {
	parsed := ParsedResponse{Args: map[string]any{}}

	if m := thoughtPattern.FindStringSubmatch(response); m != nil {
		parsed.Thought = strings.TrimSpace(m[1])
	}

	if m := finalPattern.FindStringSubmatch(response); m != nil {
		parsed.FinalAnswer = strings.TrimSpace(m[1])
		parsed.HasFinal = true
		return parsed
	}

	if m := actionPattern.FindStringSubmatch(response); m != nil {
		parsed.Action = strings.TrimSpace(m[1])
	}

	if m := argsPattern.FindStringSubmatch(response); m != nil {
		var args map[string]any
		if err := json.Unmarshal([]byte(m[1]), &args); err == nil {
			parsed.Args = args
		}
	}

	return parsed
}
