package atlas

import (
	"strings"
)

// FormatResponse renders the mandatory three-block reply: the single next
// task, a blank line, the why-it-matters paragraph, a blank line, then the
// checklist as "[x] text" / "[ ] text" lines in insertion order.
func FormatResponse(task, why string, checklist []ChecklistItem) string {
	var b strings.Builder
	b.WriteString(task)
	b.WriteString("\n\n")
	b.WriteString(why)
	b.WriteString("\n\n")
	for i, item := range checklist {
		if i > 0 {
			b.WriteString("\n")
		}
		if item.Completed {
			b.WriteString("[x] ")
		} else {
			b.WriteString("[ ] ")
		}
		b.WriteString(item.Text)
	}
	return b.String()
}

// ParseResponse recovers the task, why paragraph, and checklist from a
// formatted reply. Inverse of FormatResponse for well-formed input.
func ParseResponse(s string) (task, why string, checklist []ChecklistItem) {
	blocks := strings.SplitN(s, "\n\n", 3)
	if len(blocks) > 0 {
		task = blocks[0]
	}
	if len(blocks) > 1 {
		why = blocks[1]
	}
	if len(blocks) < 3 {
		return task, why, nil
	}
	for _, line := range strings.Split(blocks[2], "\n") {
		switch {
		case strings.HasPrefix(line, "[x] "):
			checklist = append(checklist, ChecklistItem{Text: line[4:], Completed: true})
		case strings.HasPrefix(line, "[ ] "):
			checklist = append(checklist, ChecklistItem{Text: line[4:], Completed: false})
		}
	}
	return task, why, checklist
}
