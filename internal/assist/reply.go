// Package assist turns a natural-language query into a shell command
// via a chat-completion API, shows it with an explanation, and runs it
// only after explicit confirmation.
package assist

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// MaxLineWidth is the wrap width for console output.
const MaxLineWidth = 80

var ErrBadReply = errors.New("assist: malformed model reply")

// Reply is the structured answer the model must produce. Key names are
// part of the prompt contract.
type Reply struct {
	Explanation string `json:"Explanation" jsonschema_description:"Explanation of the command and any relevant switches or options."`
	Command     string `json:"Command" jsonschema_description:"The shell command or script to execute."`
	Notes       string `json:"Notes" jsonschema_description:"Any additional info."`
}

// ParseReply decodes and shape-checks a model reply. A reply without
// both an explanation and a command is rejected.
func ParseReply(data []byte) (*Reply, error) {
	var r Reply
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadReply, err)
	}
	if strings.TrimSpace(r.Explanation) == "" || strings.TrimSpace(r.Command) == "" {
		return nil, fmt.Errorf("%w: missing explanation or command", ErrBadReply)
	}
	return &r, nil
}

// WrapText breaks s into lines at most width wide, splitting on spaces
// where possible. Paragraph breaks are preserved.
func WrapText(s string, width int) []string {
	var lines []string
	for _, paragraph := range strings.Split(s, "\n") {
		for len(paragraph) > width {
			pos := strings.LastIndex(paragraph[:width+1], " ")
			if pos <= 0 {
				pos = width
				lines = append(lines, paragraph[:pos])
				paragraph = paragraph[pos:]
				continue
			}
			lines = append(lines, paragraph[:pos])
			paragraph = paragraph[pos+1:]
		}
		lines = append(lines, paragraph)
	}
	return lines
}
