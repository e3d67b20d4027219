package atlas

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyras/skyras/internal/agent"
	"github.com/skyras/skyras/internal/eventbus"
	"github.com/skyras/skyras/pkg/cerr"
)

// memoryRepository is an in-memory Repository with the same version
// compare-and-swap contract as the YAML implementation.
type memoryRepository struct {
	states map[string]*ManagerState
	// saveErrs are returned (and consumed) before the CAS check, to force
	// retry paths.
	saveErrs []error
	saves    int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{states: map[string]*ManagerState{}}
}

func (r *memoryRepository) Get(ctx context.Context, userID string) (*ManagerState, error) {
	state, ok := r.states[userID]
	if !ok {
		return nil, cerr.NewError(cerr.NotFound, "pm state is not found", nil)
	}
	clone := *state
	return &clone, nil
}

func (r *memoryRepository) Save(ctx context.Context, state *ManagerState) error {
	r.saves++
	if len(r.saveErrs) > 0 {
		err := r.saveErrs[0]
		r.saveErrs = r.saveErrs[1:]
		if err != nil {
			return err
		}
	}
	if stored, ok := r.states[state.UserID]; ok && stored.Version != state.Version {
		return cerr.NewError(cerr.Aborted, "pm state was modified concurrently", nil)
	}
	clone := *state
	clone.Version = state.Version + 1
	r.states[state.UserID] = &clone
	state.Version = clone.Version
	return nil
}

func run(t *testing.T, a *Agent, userID, prompt string) *agent.RunResult {
	t.Helper()
	meta, err := json.Marshal(map[string]string{"userId": userID})
	require.NoError(t, err)
	result, err := a.Run(context.Background(), &agent.RunInput{Prompt: prompt, Metadata: meta})
	require.NoError(t, err)
	return result
}

func TestRunSeedsPriority(t *testing.T) {
	repo := newMemoryRepository()
	a := New(repo, nil)

	result := run(t, a, "u1", "Launch Q1 campaign")

	state := repo.states["u1"]
	require.NotNil(t, state)
	assert.Equal(t, "Launch Q1 campaign", state.ActivePriority)
	assert.Equal(t, "Lock the next concrete launch step for: Launch Q1 campaign", state.TodayTask)
	assert.NotEmpty(t, state.WhyItMatters)
	assert.NotEmpty(t, state.Checklist)
	assert.NotNil(t, state.NextReviewTime)

	assert.True(t, strings.HasPrefix(result.Output, state.TodayTask))
	assert.Contains(t, result.Output, "[ ] ")
}

func TestRunScopeCreepGoesToBacklog(t *testing.T) {
	repo := newMemoryRepository()
	a := New(repo, nil)

	run(t, a, "u1", "Launch Q1 campaign")
	before := repo.states["u1"]
	task := before.TodayTask
	why := before.WhyItMatters

	result := run(t, a, "u1", "What about adding music too? Also another idea: a sequel.")

	state := repo.states["u1"]
	require.Len(t, state.Backlog, 1)
	assert.Equal(t, "adding music too? Also another idea: a sequel.", state.Backlog[0])

	// The current plan is returned unchanged.
	assert.Equal(t, task, state.TodayTask)
	assert.Equal(t, why, state.WhyItMatters)
	assert.True(t, strings.HasPrefix(result.Output, task))
}

func TestRunCompletionFlipsExactlyOneItem(t *testing.T) {
	repo := newMemoryRepository()
	bus := eventbus.New()
	_, events := bus.Subscribe(10)
	a := New(repo, bus)

	run(t, a, "u1", "Launch Q1 campaign")
	state := repo.states["u1"]
	target := state.Checklist[1] // "Identify the single biggest blocker"

	run(t, a, "u1", "done: identify the single biggest blocker")

	state = repo.states["u1"]
	completed := 0
	for _, item := range state.Checklist {
		if item.Completed {
			completed++
			assert.Equal(t, target.Text, item.Text)
		}
	}
	assert.Equal(t, 1, completed)
	assert.Equal(t, target.Text, state.LastCompletedTask)
	require.NotNil(t, state.LastCompletedAt)

	select {
	case ev := <-events:
		assert.Equal(t, eventbus.EventTypeChecklistCompleted, ev.Type)
		assert.Equal(t, "false", ev.Metadata["all_completed"])
	case <-time.After(time.Second):
		t.Fatal("expected a checklist.completed event")
	}
}

func TestRunCompletionRequiresVerbatimPrefix(t *testing.T) {
	repo := newMemoryRepository()
	a := New(repo, nil)

	run(t, a, "u1", "Launch Q1 campaign")

	// "done" matches but no item's first 20 characters appear in the
	// message, so nothing is marked complete. The matcher is a literal
	// substring check, not a semantic one.
	run(t, a, "u1", "done with checklist item 1")

	state := repo.states["u1"]
	for _, item := range state.Checklist {
		assert.False(t, item.Completed, "item %q should not be completed", item.Text)
	}
	assert.Empty(t, state.LastCompletedTask)
}

func TestRunAllCompletedRegeneratesPlan(t *testing.T) {
	repo := newMemoryRepository()
	a := New(repo, nil)

	run(t, a, "u1", "Launch Q1 campaign")
	state := repo.states["u1"]
	for i := range state.Checklist {
		state.Checklist[i].Completed = true
	}
	state.Checklist[0].Completed = false
	firstReview := state.NextReviewTime

	// Completing the last open item triggers a fresh plan.
	run(t, a, "u1", "done: "+state.Checklist[0].Text)

	state = repo.states["u1"]
	for _, item := range state.Checklist {
		assert.False(t, item.Completed)
	}
	require.NotNil(t, state.NextReviewTime)
	assert.False(t, state.NextReviewTime.Before(*firstReview))
	assert.Equal(t, "Launch Q1 campaign", state.ActivePriority)
}

func TestRunRetriesOnVersionConflict(t *testing.T) {
	repo := newMemoryRepository()
	repo.saveErrs = []error{
		cerr.NewError(cerr.Aborted, "pm state was modified concurrently", nil),
	}
	a := New(repo, nil)

	run(t, a, "u1", "Launch Q1 campaign")

	assert.Equal(t, 2, repo.saves)
	require.NotNil(t, repo.states["u1"])
}

func TestRunGivesUpAfterRepeatedConflicts(t *testing.T) {
	conflict := cerr.NewError(cerr.Aborted, "pm state was modified concurrently", nil)
	repo := newMemoryRepository()
	repo.saveErrs = []error{conflict, conflict, conflict}
	a := New(repo, nil)

	_, err := a.Run(context.Background(), &agent.RunInput{Prompt: "Launch Q1 campaign"})
	require.Error(t, err)
	assert.True(t, cerr.IsCode(err, cerr.Aborted))
}

func TestRunDefaultsUserID(t *testing.T) {
	repo := newMemoryRepository()
	a := New(repo, nil)

	_, err := a.Run(context.Background(), &agent.RunInput{Prompt: "ship the new track"})
	require.NoError(t, err)
	assert.NotNil(t, repo.states["default"])
}

func TestStripScopeCreepTrigger(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"What about adding a remix?", "adding a remix?"},
		{"what if we went vertical", "went vertical"},
		{"could we also do a teaser", "do a teaser"},
		{"Another idea: ship merch", "ship merch"},
		{"new idea: collab video", "collab video"},
		{"plain message stays intact", "plain message stays intact"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripScopeCreepTrigger(tt.in), "input %q", tt.in)
	}
}
