package digest

import (
	"fmt"
	"strings"

	"github.com/gophertribe/notesync/pkg/notes"
)

// CollectionPrompt builds the summarization prompt for the user's current
// note collection. Pinned notes are listed first and flagged so the model
// weighs them accordingly.
func CollectionPrompt(list []notes.Note) string {
	var pinned, rest []string
	for _, n := range list {
		line := fmt.Sprintf("- %s: %s", n.Title, firstLine(n.Content))
		if len(n.Tags) > 0 {
			line += fmt.Sprintf(" (tags: %s)", strings.Join(n.Tags, ", "))
		}
		if n.IsPinned {
			pinned = append(pinned, line)
		} else {
			rest = append(rest, line)
		}
	}

	var sb strings.Builder
	sb.WriteString("You are a note-taking assistant. Summarize the state of my notes.\n\n")
	if len(pinned) > 0 {
		sb.WriteString("Pinned notes (most important):\n")
		sb.WriteString(strings.Join(pinned, "\n"))
		sb.WriteString("\n\n")
	}
	if len(rest) > 0 {
		sb.WriteString("Other notes:\n")
		sb.WriteString(strings.Join(rest, "\n"))
		sb.WriteString("\n\n")
	}
	sb.WriteString("Instructions:\n")
	sb.WriteString("1. Give a two-sentence overview of what these notes cover.\n")
	sb.WriteString("2. List up to 3 themes or follow-ups that stand out.\n")
	sb.WriteString("Output as plain text, no markdown headers.\n")
	return sb.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 120 {
		s = s[:120] + "..."
	}
	return s
}
