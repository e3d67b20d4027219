package atlas

import "time"

// ChecklistItem is one actionable to-do line in the PM's daily plan.
// Items are never deleted, only marked completed.
type ChecklistItem struct {
	ID        string    `yaml:"id"`
	Text      string    `yaml:"text"`
	Completed bool      `yaml:"completed"`
	CreatedAt time.Time `yaml:"created_at"`
}

// ManagerState is the per-user PM record. At most one active priority at a
// time; the backlog collects deferred scope creep. Version backs the
// repository's compare-and-swap.
type ManagerState struct {
	UserID            string          `yaml:"user_id"`
	ActivePriority    string          `yaml:"active_priority"`
	TodayTask         string          `yaml:"today_task"`
	WhyItMatters      string          `yaml:"why_it_matters"`
	Checklist         []ChecklistItem `yaml:"checklist"`
	Backlog           []string        `yaml:"backlog"`
	LastCompletedTask string          `yaml:"last_completed_task,omitempty"`
	LastCompletedAt   *time.Time      `yaml:"last_completed_at,omitempty"`
	NextReviewTime    *time.Time      `yaml:"next_review_time,omitempty"`
	Version           int64           `yaml:"version"`
}

// AllCompleted reports whether every checklist item is done. An empty
// checklist counts as completed so the plan gets regenerated.
func (s *ManagerState) AllCompleted() bool {
	for _, item := range s.Checklist {
		if !item.Completed {
			return false
		}
	}
	return true
}
