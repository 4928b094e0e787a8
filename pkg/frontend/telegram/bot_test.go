package telegram

import (
	"strings"
	"testing"

	"github.com/gophertribe/notesync/pkg/notes"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		in       string
		cmd, arg string
	}{
		{"/notes", "/notes", ""},
		{"/search meeting notes", "/search", "meeting notes"},
		{"/add milk | buy 2 liters", "/add", "milk | buy 2 liters"},
		{"/pin  n1 ", "/pin", "n1"},
		{"plain text", "", "plain text"},
	}
	for _, c := range cases {
		cmd, arg := ParseCommand(c.in)
		if cmd != c.cmd || arg != c.arg {
			t.Errorf("ParseCommand(%q) = %q, %q; want %q, %q", c.in, cmd, arg, c.cmd, c.arg)
		}
	}
}

func TestSplitTitleContent(t *testing.T) {
	title, content := SplitTitleContent("milk | buy 2 liters")
	if title != "milk" || content != "buy 2 liters" {
		t.Errorf("got %q, %q", title, content)
	}

	title, content = SplitTitleContent("just a thought")
	if title != "just a thought" || content != "just a thought" {
		t.Errorf("got %q, %q", title, content)
	}
}

func TestFormatList(t *testing.T) {
	if got := FormatList(nil); got != "No notes found." {
		t.Errorf("empty list = %q", got)
	}

	got := FormatList([]notes.Note{
		{ID: "n1", Title: "Pinned one", IsPinned: true},
		{ID: "n2", Title: "Plain one"},
	})
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %v", lines)
	}
	if !strings.HasPrefix(lines[0], "*") {
		t.Errorf("pinned note should carry a marker: %q", lines[0])
	}
	if strings.HasPrefix(lines[1], "*") {
		t.Errorf("unpinned note should not carry a marker: %q", lines[1])
	}
}
