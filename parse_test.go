package borgo

import "testing"

func TestParseResponseActionWithArgs(t *testing.T) {
	parsed := ParseResponse("THOUGHT: need the weather\nACTION: search_web\nARGS: {\"query\": \"weather rome\"}")
	if parsed.Thought != "need the weather" {
		t.Errorf("thought = %q", parsed.Thought)
	}
	if parsed.Action != "search_web" {
		t.Errorf("action = %q", parsed.Action)
	}
	if parsed.Args["query"] != "weather rome" {
		t.Errorf("args = %v", parsed.Args)
	}
	if parsed.HasFinal {
		t.Error("no final answer expected")
	}
}

func TestParseResponseFinalAnswer(t *testing.T) {
	parsed := ParseResponse("THOUGHT: I know enough\nFINAL_ANSWER: It is sunny.")
	if !parsed.HasFinal {
		t.Fatal("final answer expected")
	}
	if parsed.FinalAnswer != "It is sunny." {
		t.Errorf("answer = %q", parsed.FinalAnswer)
	}
}

func TestParseResponseFinalAnswerWinsOverAction(t *testing.T) {
	parsed := ParseResponse("THOUGHT: done\nACTION: search_web\nARGS: {\"query\": \"x\"}\nFINAL_ANSWER: 42")
	if !parsed.HasFinal {
		t.Fatal("final answer expected")
	}
	if parsed.Action != "" {
		t.Errorf("action %q should be ignored once a final answer is present", parsed.Action)
	}
}

func TestParseResponseMalformedArgs(t *testing.T) {
	parsed := ParseResponse("THOUGHT: hm\nACTION: calculate\nARGS: {not json}")
	if parsed.Action != "calculate" {
		t.Errorf("action = %q", parsed.Action)
	}
	if len(parsed.Args) != 0 {
		t.Errorf("args = %v, want empty map", parsed.Args)
	}
	if parsed.Args == nil {
		t.Error("args must be a non-nil empty map")
	}
}

func TestParseResponseMissingSections(t *testing.T) {
	parsed := ParseResponse("just some prose with no grammar at all")
	if parsed.Thought != "" || parsed.Action != "" || parsed.HasFinal {
		t.Errorf("parsed = %+v, want all-empty", parsed)
	}
}

func TestParseResponseMultilineFinalAnswer(t *testing.T) {
	parsed := ParseResponse("THOUGHT: summarizing\nFINAL_ANSWER: line one\nline two")
	if parsed.FinalAnswer != "line one\nline two" {
		t.Errorf("answer = %q", parsed.FinalAnswer)
	}
}
