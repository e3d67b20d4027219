package marcus

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// defaultProject is the fallback when the metadata names no project.
const defaultProject = "SkySky"

// category is one keyword route. Categories match independently; a single
// prompt can fire several. The slice order below is the fixed merge order
// for delegation results, regardless of where each keyword appears in the
// prompt.
type category struct {
	name      string // notes key
	label     string // user-facing label in output lines
	agentName string
	pattern   *regexp.Regexp
	// build derives the category payload from the prompt and metadata bag.
	// An error means required fields are missing and the category is
	// skipped with an explanatory line, not failed.
	build func(prompt string, meta []byte) (payload json.RawMessage, task string, err error)
}

var urlPattern = regexp.MustCompile(`https?://[^\s<>"']+`)

var categories = []category{
	{
		name:      "licensing",
		label:     "Licensing",
		agentName: "licensing",
		pattern:   regexp.MustCompile(`(?i)\b(licens\w*|rights|clearance|compliance|copyright)\b`),
		build: func(prompt string, meta []byte) (json.RawMessage, string, error) {
			projectID := firstString(meta, "projectId", "project")
			files := gjson.GetBytes(meta, "files").Array()
			if projectID == "" || len(files) == 0 {
				return nil, "", fmt.Errorf("projectId and a non-empty files list are required")
			}
			names := make([]string, 0, len(files))
			for _, f := range files {
				names = append(names, f.String())
			}
			payload, err := json.Marshal(map[string]any{
				"projectId": projectID,
				"files":     names,
			})
			if err != nil {
				return nil, "", err
			}
			return payload, fmt.Sprintf("Audit licensing for %d files in %s", len(names), projectID), nil
		},
	},
	{
		name:      "creative",
		label:     "Creative",
		agentName: "creative",
		pattern:   regexp.MustCompile(`(?i)\b(generate|creative|artwork|image|visual|sora|storyboard|design)\b`),
		build: func(prompt string, meta []byte) (json.RawMessage, string, error) {
			project := firstString(meta, "project", "projectId")
			if project == "" {
				project = defaultProject
			}
			idea := firstString(meta, "idea", "input")
			if idea == "" {
				idea = strings.TrimSpace(prompt)
			}
			payload, err := json.Marshal(map[string]any{
				"project": project,
				"idea":    idea,
				"style":   gjson.GetBytes(meta, "style").String(),
			})
			if err != nil {
				return nil, "", err
			}
			return payload, fmt.Sprintf("Generate creative asset for %s", project), nil
		},
	},
	{
		name:      "distribution",
		label:     "Distribution",
		agentName: "jamal",
		pattern:   regexp.MustCompile(`(?i)\b(distribut\w*|publish\w*|schedul\w*|post to|rollout)\b`),
		build: func(prompt string, meta []byte) (json.RawMessage, string, error) {
			project := firstString(meta, "project", "projectId")
			if project == "" {
				project = defaultProject
			}
			var platforms []string
			for _, p := range gjson.GetBytes(meta, "platforms").Array() {
				platforms = append(platforms, p.String())
			}
			payload, err := json.Marshal(map[string]any{
				"project":   project,
				"platforms": platforms,
				"caption":   gjson.GetBytes(meta, "caption").String(),
			})
			if err != nil {
				return nil, "", err
			}
			return payload, fmt.Sprintf("Plan distribution for %s", project), nil
		},
	},
	{
		name:      "catalog",
		label:     "Catalog",
		agentName: "catalog",
		pattern:   regexp.MustCompile(`(?i)\b(catalog\w*|library|archive)\b|save (this|it)`),
		build: func(prompt string, meta []byte) (json.RawMessage, string, error) {
			project := firstString(meta, "project", "projectId")
			if project == "" {
				project = defaultProject
			}
			title := firstString(meta, "title", "name")
			if title == "" {
				title = clip(strings.TrimSpace(prompt), 60)
			}
			var tags []string
			for _, t := range gjson.GetBytes(meta, "tags").Array() {
				tags = append(tags, t.String())
			}
			payload, err := json.Marshal(map[string]any{
				"project": project,
				"title":   title,
				"tags":    tags,
				"url":     gjson.GetBytes(meta, "url").String(),
			})
			if err != nil {
				return nil, "", err
			}
			return payload, fmt.Sprintf("Catalog %q in %s", title, project), nil
		},
	},
	{
		name:      "workflow",
		label:     "Workflow",
		agentName: "workflow",
		pattern:   regexp.MustCompile(`(?i)(create|new|start|set up)\s+(a\s+)?workflow|workflow template`),
		build: func(prompt string, meta []byte) (json.RawMessage, string, error) {
			project := firstString(meta, "project", "projectId")
			if project == "" {
				project = defaultProject
			}
			template := gjson.GetBytes(meta, "template").String()
			payload, err := json.Marshal(map[string]any{
				"project":  project,
				"template": template,
			})
			if err != nil {
				return nil, "", err
			}
			return payload, fmt.Sprintf("Create workflow for %s", project), nil
		},
	},
	{
		name:      "link",
		label:     "Link",
		agentName: "linkfetch",
		pattern:   urlPattern,
		build: func(prompt string, meta []byte) (json.RawMessage, string, error) {
			url := urlPattern.FindString(prompt)
			if url == "" {
				return nil, "", fmt.Errorf("no URL found in prompt")
			}
			payload, err := json.Marshal(map[string]string{"url": url})
			if err != nil {
				return nil, "", err
			}
			return payload, fmt.Sprintf("Fetch %s", url), nil
		},
	},
}

// matchCategories returns the categories whose pattern fires, in the fixed
// category order. Matching is independent per category: a prompt like
// "license this Sora idea" fires both licensing and creative.
func matchCategories(prompt string) []category {
	var matched []category
	for _, c := range categories {
		if c.pattern.MatchString(prompt) {
			matched = append(matched, c)
		}
	}
	return matched
}

// firstString reads meta keys in order and returns the first non-empty.
func firstString(meta []byte, keys ...string) string {
	for _, key := range keys {
		if v := gjson.GetBytes(meta, key).String(); v != "" {
			return v
		}
	}
	return ""
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n])
}
