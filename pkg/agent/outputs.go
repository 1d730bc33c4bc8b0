package agent

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Output is a named work product a persona embedded in its response.
type Output struct {
	ID          string
	Type        string
	Title       string
	Content     string
	PersonaName string
}

var workfileRe = regexp.MustCompile(`\[WORKFILE:\s*(.+?)\]\s*([\s\S]*?)\s*\[/WORKFILE\]`)

// ExtractOutputs pulls every [WORKFILE: title]...[/WORKFILE] block out of
// a response. Malformed or unclosed tags are ignored.
func ExtractOutputs(text, personaName string) []Output {
	matches := workfileRe.FindAllStringSubmatch(text, -1)
	outputs := make([]Output, 0, len(matches))
	for _, m := range matches {
		outputs = append(outputs, Output{
			ID:          "out-" + uuid.NewString(),
			Type:        "document",
			Title:       strings.TrimSpace(m[1]),
			Content:     strings.TrimSpace(m[2]),
			PersonaName: personaName,
		})
	}
	return outputs
}
