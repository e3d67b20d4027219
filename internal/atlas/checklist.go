package atlas

import (
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Plan is one generated daily plan: the single next task, the reason it
// matters, and a 5-10 item checklist.
type Plan struct {
	TodayTask    string
	WhyItMatters string
	Items        []string
}

type planCategory struct {
	match func(priority string) bool
	task  func(p string) string
	why   string
	items []string
}

// Categories are checked in order; the first match wins. The item texts are
// fixed per category so the generator stays deterministic for a given
// priority.
var planCategories = []planCategory{
	{
		match: containsAny("analytics", "metrics", "numbers"),
		task:  func(p string) string { return "Pull and review the analytics for: " + truncate(p, 40) },
		why:   "You can't improve what you don't measure. One honest look at the numbers tells you whether this priority is working.",
		items: []string{
			"Pull the latest analytics snapshot",
			"List the top 3 metrics that moved",
			"Pick one metric to improve this week",
		},
	},
	{
		match: containsAny("launch", "release", "ship"),
		task:  func(p string) string { return "Lock the next concrete launch step for: " + truncate(p, 40) },
		why:   "Launches slip one small delay at a time. Locking today's step keeps the date real.",
		items: []string{
			"Lock the launch date and announce it internally",
			"Draft the launch checklist",
			"Verify all assets are cleared for use",
		},
	},
	{
		match: containsAny("content", "video", "post", "song", "track"),
		task:  func(p string) string { return "Finish the next piece of content for: " + truncate(p, 40) },
		why:   "Finished content compounds. One completed piece beats five half-done drafts.",
		items: []string{
			"Outline the next piece of content",
			"Gather reference material",
			"Schedule the publishing slot",
		},
	},
	{
		match: containsAny("licens", "rights", "clearance", "compliance"),
		task:  func(p string) string { return "Clear the licensing status for: " + truncate(p, 40) },
		why:   "One uncleared asset can block the whole release. Clearing rights early is cheap; clearing them late is not.",
		items: []string{
			"List every third-party asset in use",
			"Check each asset's license terms",
			"Flag anything without a clear license",
		},
	},
}

var defaultCategory = planCategory{
	task: func(p string) string { return "Complete one concrete step toward: " + truncate(p, 40) },
	why:  "Progress on the active priority beats starting anything new. One finished step today keeps the momentum.",
	items: []string{
		"Break the priority into three smaller steps",
	},
}

// baseItems open every checklist regardless of category.
var baseItems = []string{
	"Review current status related to: ",
	"Identify the single biggest blocker",
	"Complete one concrete step toward: ",
	"Write down what done looks like today",
	"Confirm tomorrow's first action",
}

// GeneratePlan derives a plan from the priority text by keyword category.
// Item text is deterministic per priority; callers mint ids and timestamps.
func GeneratePlan(priority string) Plan {
	cat := defaultCategory
	for _, c := range planCategories {
		if c.match(priority) {
			cat = c
			break
		}
	}

	short := truncate(priority, 40)
	items := make([]string, 0, len(baseItems)+len(cat.items))
	for _, text := range baseItems {
		if strings.HasSuffix(text, ": ") {
			text += short
		}
		items = append(items, text)
	}
	items = append(items, cat.items...)

	return Plan{
		TodayTask:    cat.task(priority),
		WhyItMatters: cat.why,
		Items:        items,
	}
}

// NewChecklist materializes plan items into checklist entries with fresh
// ids and timestamps.
func NewChecklist(items []string, now time.Time) []ChecklistItem {
	checklist := make([]ChecklistItem, 0, len(items))
	for _, text := range items {
		checklist = append(checklist, ChecklistItem{
			ID:        ulid.Make().String(),
			Text:      text,
			Completed: false,
			CreatedAt: now,
		})
	}
	return checklist
}

func containsAny(keywords ...string) func(string) bool {
	return func(priority string) bool {
		lower := strings.ToLower(priority)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
		return false
	}
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n])
}
