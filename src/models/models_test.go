package models

import (
	"context"
	"strings"
	"testing"
)

func TestDummyLLMEchoesLastUserTurn(t *testing.T) {
	llm := NewDummyLLM("")
	out, err := llm.Chat(context.Background(), []Message{
		{Role: RoleSystem, Content: "be helpful"},
		{Role: RoleUser, Content: "first"},
		{Role: RoleAssistant, Content: "ok"},
		{Role: RoleUser, Content: "second question"},
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if !strings.Contains(out, "second question") {
		t.Errorf("output %q should echo the last user turn", out)
	}
}

func TestDummyLLMStream(t *testing.T) {
	llm := NewDummyLLM("")
	ch, err := llm.ChatStream(context.Background(), []Message{{Role: RoleUser, Content: "hello world"}})
	if err != nil {
		t.Fatalf("ChatStream: %v", err)
	}

	var deltas strings.Builder
	var final StreamChunk
	for chunk := range ch {
		if chunk.Done {
			final = chunk
			continue
		}
		deltas.WriteString(chunk.Delta)
	}
	if !final.Done {
		t.Fatal("stream must end with a Done chunk")
	}
	if deltas.String() != final.FullText {
		t.Errorf("deltas %q != full text %q", deltas.String(), final.FullText)
	}
}

func TestScriptedLLMReplaysInOrder(t *testing.T) {
	llm := NewScriptedLLM("one", "two")
	ctx := context.Background()

	for i, want := range []string{"one", "two", "two"} {
		got, err := llm.Chat(ctx, []Message{{Role: RoleUser, Content: "x"}})
		if err != nil {
			t.Fatalf("Chat %d: %v", i, err)
		}
		if got != want {
			t.Errorf("call %d = %q, want %q", i, got, want)
		}
	}
	if llm.Calls() != 3 {
		t.Errorf("calls = %d, want 3", llm.Calls())
	}
}

func TestNormalizeMIME(t *testing.T) {
	cases := []struct {
		name, mime, want string
	}{
		{"photo.jpg", "", "image/jpeg"},
		{"photo.bin", "image/jpg", "image/jpeg"},
		{"notes.md", "", "text/markdown"},
		{"data", "application/json; charset=utf-8", "application/json"},
		{"clip.mov", "", "video/quicktime"},
	}
	for _, tc := range cases {
		if got := normalizeMIME(tc.name, tc.mime); got != tc.want {
			t.Errorf("normalizeMIME(%q, %q) = %q, want %q", tc.name, tc.mime, got, tc.want)
		}
	}
}

func TestCombinePromptWithFiles(t *testing.T) {
	out := combinePromptWithFiles("summarize this", []File{
		{Name: "notes.txt", MIME: "text/plain", Data: []byte("alpha beta")},
		{Name: "photo.png", MIME: "image/png", Data: []byte{1, 2, 3}},
	})
	if !strings.Contains(out, "alpha beta") {
		t.Error("text attachment should be inlined")
	}
	if !strings.Contains(out, "[Non-text attachment] photo.png") {
		t.Error("binary attachment should be referenced by name")
	}
}
