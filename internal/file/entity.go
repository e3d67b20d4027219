package file

import "time"

// File is a project media file tracked for licensing. License is the
// declared license tag; Flagged marks files whose source could not be
// cleared.
type File struct {
	ID        string    `yaml:"id"`
	ProjectID string    `yaml:"project_id"`
	Name      string    `yaml:"name"`
	Source    string    `yaml:"source"`
	License   string    `yaml:"license"`
	Flagged   bool      `yaml:"flagged"`
	CreatedAt time.Time `yaml:"created_at"`
}
