package engine

import "testing"

func TestRenderChatPrompt(t *testing.T) {
	got := renderChatPrompt([]Message{
		{Role: "system", Content: "Be brief."},
		{Role: "user", Content: "Hello"},
	})
	want := "system: Be brief.\nuser: Hello\nassistant:"
	if got != want {
		t.Fatalf("unexpected prompt:\n%q\nwant:\n%q", got, want)
	}
}

func TestRenderChatPromptDefaultsRole(t *testing.T) {
	got := renderChatPrompt([]Message{{Content: "hi"}})
	if got != "user: hi\nassistant:" {
		t.Fatalf("unexpected prompt: %q", got)
	}
}
