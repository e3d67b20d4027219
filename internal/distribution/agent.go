// Package distribution plans publishing schedules. Jamal runs in two modes:
// dry-run planning by default, real enqueueing when the publish flag is on.
package distribution

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/tidwall/gjson"

	"github.com/skyras/skyras/internal/agent"
	"github.com/skyras/skyras/internal/eventbus"
	"github.com/skyras/skyras/internal/post"
)

const AgentName = "jamal"

// defaultPlatforms apply when the payload names none.
var defaultPlatforms = []string{"tiktok", "instagram", "youtube"}

// slotInterval staggers one post per platform per day.
const slotInterval = 24 * time.Hour

type Agent struct {
	posts          post.Repository
	bus            *eventbus.Bus
	publishEnabled bool
	now            func() time.Time
}

func New(posts post.Repository, bus *eventbus.Bus, publishEnabled bool) *Agent {
	return &Agent{
		posts:          posts,
		bus:            bus,
		publishEnabled: publishEnabled,
		now:            time.Now,
	}
}

func (a *Agent) Name() string {
	return AgentName
}

// Run builds the schedule. Required payload field: project. With publishing
// disabled the plan is persisted as drafts only.
func (a *Agent) Run(ctx context.Context, input *agent.RunInput) (*agent.RunResult, error) {
	project := gjson.GetBytes(input.Metadata, "project").String()
	if project == "" {
		return nil, errors.New("distribution planning requires a project")
	}

	platforms := defaultPlatforms
	if arr := gjson.GetBytes(input.Metadata, "platforms").Array(); len(arr) > 0 {
		platforms = make([]string, 0, len(arr))
		for _, p := range arr {
			platforms = append(platforms, p.String())
		}
	}

	caption := gjson.GetBytes(input.Metadata, "caption").String()
	if caption == "" {
		caption = fmt.Sprintf("New drop from %s", project)
	}

	start := a.now().Add(slotInterval)
	status := post.StatusDraft
	if a.publishEnabled {
		status = post.StatusQueued
	}

	posts := make([]*post.Post, 0, len(platforms))
	for i, platform := range platforms {
		posts = append(posts, &post.Post{
			ID:          ulid.Make().String(),
			ProjectID:   project,
			Platform:    platform,
			Caption:     caption,
			ScheduledAt: start.Add(time.Duration(i) * slotInterval),
			Status:      status,
			CreatedAt:   a.now(),
		})
	}
	if err := a.posts.CreateMany(ctx, posts); err != nil {
		return nil, fmt.Errorf("failed to save distribution plan: %w", err)
	}

	if a.publishEnabled && a.bus != nil {
		for _, p := range posts {
			a.bus.PublishNew(eventbus.EventTypePostEnqueued, p.ID, p.Platform, map[string]string{
				"project_id": p.ProjectID,
			})
		}
	}

	mode := "Dry run: plan saved as drafts; enable publishing to queue them."
	if a.publishEnabled {
		mode = "Posts queued for publishing."
	}
	return &agent.RunResult{
		Output: fmt.Sprintf("Distribution plan for %s: %d posts across %s starting %s. %s",
			project, len(posts), strings.Join(platforms, ", "), start.Format("Jan 2"), mode),
		Notes: map[string]any{
			"project":   project,
			"platforms": platforms,
			"queued":    a.publishEnabled,
			"postIds":   postIDs(posts),
		},
	}, nil
}

func postIDs(posts []*post.Post) []string {
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}
