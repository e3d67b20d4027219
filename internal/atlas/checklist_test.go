package atlas

import (
	"strings"
	"testing"
	"time"
)

func TestGeneratePlanCategories(t *testing.T) {
	tests := []struct {
		name       string
		priority   string
		wantTask   string
		wantInItem string
	}{
		{
			name:       "analytics",
			priority:   "Dig into the streaming metrics",
			wantTask:   "Pull and review the analytics for: Dig into the streaming metrics",
			wantInItem: "analytics snapshot",
		},
		{
			name:       "launch",
			priority:   "Launch Q1 campaign",
			wantTask:   "Lock the next concrete launch step for: Launch Q1 campaign",
			wantInItem: "launch checklist",
		},
		{
			name:       "content",
			priority:   "Finish the new track",
			wantTask:   "Finish the next piece of content for: Finish the new track",
			wantInItem: "publishing slot",
		},
		{
			name:       "licensing",
			priority:   "Sort the sample clearance mess",
			wantTask:   "Clear the licensing status for: Sort the sample clearance mess",
			wantInItem: "license terms",
		},
		{
			name:       "default",
			priority:   "Grow the fanbase",
			wantTask:   "Complete one concrete step toward: Grow the fanbase",
			wantInItem: "three smaller steps",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := GeneratePlan(tt.priority)
			if plan.TodayTask != tt.wantTask {
				t.Errorf("task mismatch: got %q, want %q", plan.TodayTask, tt.wantTask)
			}
			if plan.WhyItMatters == "" {
				t.Error("why-it-matters must not be empty")
			}
			found := false
			for _, item := range plan.Items {
				if strings.Contains(item, tt.wantInItem) {
					found = true
				}
			}
			if !found {
				t.Errorf("no item contains %q, items: %v", tt.wantInItem, plan.Items)
			}
		})
	}
}

func TestGeneratePlanIsDeterministic(t *testing.T) {
	a := GeneratePlan("Launch Q1 campaign")
	b := GeneratePlan("Launch Q1 campaign")

	if a.TodayTask != b.TodayTask || a.WhyItMatters != b.WhyItMatters {
		t.Error("task or why differs between identical calls")
	}
	if len(a.Items) != len(b.Items) {
		t.Fatalf("item count differs: %d vs %d", len(a.Items), len(b.Items))
	}
	for i := range a.Items {
		if a.Items[i] != b.Items[i] {
			t.Errorf("item %d differs: %q vs %q", i, a.Items[i], b.Items[i])
		}
	}
}

func TestGeneratePlanItemBounds(t *testing.T) {
	for _, priority := range []string{"Launch Q1 campaign", "Grow the fanbase", "metrics review"} {
		plan := GeneratePlan(priority)
		if len(plan.Items) < 5 || len(plan.Items) > 10 {
			t.Errorf("priority %q: got %d items, want 5-10", priority, len(plan.Items))
		}
	}
}

func TestGeneratePlanTruncatesLongPriority(t *testing.T) {
	long := strings.Repeat("launch strategy ", 10)
	plan := GeneratePlan(long)
	if len(plan.TodayTask) > len("Lock the next concrete launch step for: ")+40 {
		t.Errorf("task not truncated: %q", plan.TodayTask)
	}
}

func TestNewChecklist(t *testing.T) {
	now := time.Now()
	items := []string{"first", "second"}
	checklist := NewChecklist(items, now)

	if len(checklist) != 2 {
		t.Fatalf("got %d items, want 2", len(checklist))
	}
	seen := map[string]bool{}
	for i, item := range checklist {
		if item.Text != items[i] {
			t.Errorf("item %d text: got %q, want %q", i, item.Text, items[i])
		}
		if item.Completed {
			t.Errorf("item %d must start incomplete", i)
		}
		if item.ID == "" || seen[item.ID] {
			t.Errorf("item %d has empty or duplicate id %q", i, item.ID)
		}
		seen[item.ID] = true
		if !item.CreatedAt.Equal(now) {
			t.Errorf("item %d created_at: got %v, want %v", i, item.CreatedAt, now)
		}
	}
}
