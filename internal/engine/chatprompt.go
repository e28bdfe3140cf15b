package engine

import "strings"

// renderChatPrompt flattens a conversation into a single prompt for runtimes
// without a native chat entry point. Plain role-tagged transcript ending with
// an open assistant turn.
func renderChatPrompt(messages []Message) string {
	var b strings.Builder
	for _, m := range messages {
		role := m.Role
		if role == "" {
			role = "user"
		}
		b.WriteString(role)
		b.WriteString(": ")
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	b.WriteString("assistant:")
	return b.String()
}
