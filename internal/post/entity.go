package post

import "time"

// Status of a scheduled post in the publishing queue.
type Status string

const (
	// StatusDraft is a dry-run plan entry that was never enqueued.
	StatusDraft Status = "draft"
	// StatusQueued means the post is waiting for its scheduled slot.
	StatusQueued Status = "queued"
	// StatusPublished is set by the publisher once the post went out.
	StatusPublished Status = "published"
)

// Post is one entry in the distribution schedule.
type Post struct {
	ID          string    `yaml:"id"`
	ProjectID   string    `yaml:"project_id"`
	Platform    string    `yaml:"platform"`
	Caption     string    `yaml:"caption"`
	ScheduledAt time.Time `yaml:"scheduled_at"`
	Status      Status    `yaml:"status"`
	CreatedAt   time.Time `yaml:"created_at"`
}
