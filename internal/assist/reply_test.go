package assist

import (
	"errors"
	"strings"
	"testing"
)

func TestParseReply(t *testing.T) {
	data := []byte(`{
		"Explanation": "Lists block devices.",
		"Command": "lsblk",
		"Notes": "Add -f for filesystem info."
	}`)

	r, err := ParseReply(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if r.Command != "lsblk" {
		t.Errorf("command = %q", r.Command)
	}
	if r.Explanation == "" || r.Notes == "" {
		t.Error("fields dropped")
	}
}

func TestParseReplyRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `lsblk is the command you want`},
		{"missing command", `{"Explanation": "words"}`},
		{"missing explanation", `{"Command": "lsblk"}`},
		{"whitespace only", `{"Explanation": "  ", "Command": "\t"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReply([]byte(tt.data))
			if !errors.Is(err, ErrBadReply) {
				t.Errorf("expected ErrBadReply, got %v", err)
			}
		})
	}
}

func TestParseReplyNotesOptional(t *testing.T) {
	r, err := ParseReply([]byte(`{"Explanation": "x", "Command": "true"}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if r.Notes != "" {
		t.Errorf("notes = %q", r.Notes)
	}
}

func TestWrapText(t *testing.T) {
	long := strings.Repeat("word ", 30)
	lines := WrapText(strings.TrimSpace(long), 20)
	for _, line := range lines {
		if len(line) > 20 {
			t.Errorf("line %q exceeds width", line)
		}
	}
	if got := strings.Join(lines, " "); got != strings.TrimSpace(long) {
		t.Error("wrapping lost or reordered words")
	}
}

func TestWrapTextShortAndEmpty(t *testing.T) {
	if lines := WrapText("short", 80); len(lines) != 1 || lines[0] != "short" {
		t.Errorf("short input = %q", lines)
	}
	if lines := WrapText("", 80); len(lines) != 1 || lines[0] != "" {
		t.Errorf("empty input = %q", lines)
	}
}

func TestWrapTextUnbreakable(t *testing.T) {
	lines := WrapText(strings.Repeat("x", 25), 10)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lines[0] != strings.Repeat("x", 10) || lines[2] != strings.Repeat("x", 5) {
		t.Errorf("hard split wrong: %q", lines)
	}
}

func TestWrapTextKeepsParagraphs(t *testing.T) {
	lines := WrapText("first\n\nsecond", 80)
	want := []string{"first", "", "second"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d", len(lines), len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestParseOSRelease(t *testing.T) {
	content := `NAME="Ubuntu"
VERSION="24.04.1 LTS (Noble Numbat)"
ID=ubuntu
VERSION_ID="24.04"
`
	info := parseOSRelease(content)
	if info.DistroName != "Ubuntu" {
		t.Errorf("name = %q", info.DistroName)
	}
	if info.DistroVersion != "24.04" {
		t.Errorf("version = %q", info.DistroVersion)
	}
	if got := info.Label(); got != "Ubuntu 24.04" {
		t.Errorf("label = %q", got)
	}
}

func TestParseOSReleaseUnquoted(t *testing.T) {
	info := parseOSRelease("NAME=Arch Linux\n")
	if info.DistroName != "Arch Linux" {
		t.Errorf("name = %q", info.DistroName)
	}
	if got := info.Label(); got != "Arch Linux" {
		t.Errorf("label = %q", got)
	}
}

func TestLabelFallback(t *testing.T) {
	if got := (SystemInfo{}).Label(); got != "a Linux system" {
		t.Errorf("fallback label = %q", got)
	}
}
