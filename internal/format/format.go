// Package format renders assistant replies for display. The guide is
// instructed to mark bullet points with '*' ("Text: * item * item"); this
// expands that convention into separate lines.
package format

import "strings"

// Render splits a reply into display lines: the lead text first, then one
// "• " line per starred item. Replies without stars come back as a single
// line.
func Render(reply string) []string {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil
	}

	parts := strings.Split(reply, "*")
	var lines []string
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if i == 0 {
			lines = append(lines, part)
		} else {
			lines = append(lines, "• "+part)
		}
	}
	return lines
}
