package atlas

import "testing"

func TestFormatResponse(t *testing.T) {
	got := FormatResponse("task line", "why paragraph", []ChecklistItem{
		{Text: "first", Completed: true},
		{Text: "second", Completed: false},
	})
	want := "task line\n\nwhy paragraph\n\n[x] first\n[ ] second"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	checklist := []ChecklistItem{
		{Text: "Review current status related to: Launch Q1", Completed: false},
		{Text: "Identify the single biggest blocker", Completed: true},
		{Text: "Confirm tomorrow's first action", Completed: false},
	}

	task, why, parsed := ParseResponse(FormatResponse("today's task", "because it matters", checklist))

	if task != "today's task" {
		t.Errorf("task: got %q", task)
	}
	if why != "because it matters" {
		t.Errorf("why: got %q", why)
	}
	if len(parsed) != len(checklist) {
		t.Fatalf("got %d items, want %d", len(parsed), len(checklist))
	}
	for i := range checklist {
		if parsed[i].Text != checklist[i].Text {
			t.Errorf("item %d text: got %q, want %q", i, parsed[i].Text, checklist[i].Text)
		}
		if parsed[i].Completed != checklist[i].Completed {
			t.Errorf("item %d completed: got %v, want %v", i, parsed[i].Completed, checklist[i].Completed)
		}
	}
}

func TestParseResponseTruncatedInput(t *testing.T) {
	task, why, checklist := ParseResponse("only a task")
	if task != "only a task" || why != "" || checklist != nil {
		t.Errorf("got task=%q why=%q checklist=%v", task, why, checklist)
	}
}
