package asset

import "time"

// Kind distinguishes generated assets from catalog entries saved by hand.
type Kind string

const (
	KindGenerated Kind = "generated"
	KindCatalog   Kind = "catalog"
)

// Asset is a row in the project asset library.
type Asset struct {
	ID        string    `yaml:"id"`
	ProjectID string    `yaml:"project_id"`
	Kind      Kind      `yaml:"kind"`
	Title     string    `yaml:"title"`
	Prompt    string    `yaml:"prompt,omitempty"`
	URL       string    `yaml:"url,omitempty"`
	Provider  string    `yaml:"provider,omitempty"`
	Tags      []string  `yaml:"tags,omitempty"`
	CreatedAt time.Time `yaml:"created_at"`
}
