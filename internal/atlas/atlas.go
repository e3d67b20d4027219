// Package atlas implements the PM persona: one active priority per user,
// one task per day, scope creep deferred to a backlog.
package atlas

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/skyras/skyras/internal/agent"
	"github.com/skyras/skyras/internal/eventbus"
	"github.com/skyras/skyras/pkg/cerr"
)

const AgentName = "atlas"

// saveRetries bounds the compare-and-swap retry loop.
const saveRetries = 3

const defaultUserID = "default"

var scopeCreepPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)what about`),
	regexp.MustCompile(`(?i)also (want|add|need|do)`),
	regexp.MustCompile(`(?i)another (thing|idea)`),
	regexp.MustCompile(`(?i)what if we`),
	regexp.MustCompile(`(?i)could we also`),
	regexp.MustCompile(`(?i)new idea`),
}

// scopeCreepTrigger strips a single leading trigger phrase before the
// message lands in the backlog.
var scopeCreepTrigger = regexp.MustCompile(`(?i)^(what about|what if we|could we also|also|another (thing|idea):?|new idea:?)\s*`)

var completionPattern = regexp.MustCompile(`(?i)\b(done|finished|completed?|checked off)\b`)

// completionPrefixLen is how many leading characters of an item's text must
// appear verbatim in the message for the item to count as completed. Crude:
// generic items can over-match and items whose distinguishing content sits
// past this prefix never match. Kept for compatibility with the documented
// behavior.
const completionPrefixLen = 20

// Agent is the Atlas PM. It never delegates; it only mutates the per-user
// ManagerState and renders the three-block reply.
type Agent struct {
	repo Repository
	bus  *eventbus.Bus
	now  func() time.Time
}

func New(repo Repository, bus *eventbus.Bus) *Agent {
	return &Agent{
		repo: repo,
		bus:  bus,
		now:  time.Now,
	}
}

func (a *Agent) Name() string {
	return AgentName
}

// Run applies exactly one transition to the user's state and returns the
// formatted plan. The read-modify-write retries on version conflict.
func (a *Agent) Run(ctx context.Context, input *agent.RunInput) (*agent.RunResult, error) {
	userID := gjson.GetBytes(input.Metadata, "userId").String()
	if userID == "" {
		userID = gjson.GetBytes(input.Metadata, "user").String()
	}
	if userID == "" {
		userID = defaultUserID
	}

	var state *ManagerState
	var err error
	for attempt := 0; attempt < saveRetries; attempt++ {
		state, err = a.loadOrInit(ctx, userID)
		if err != nil {
			return nil, err
		}
		a.applyTransition(state, input.Prompt)
		err = a.repo.Save(ctx, state)
		if err == nil {
			break
		}
		if !cerr.IsCode(err, cerr.Aborted) {
			return nil, err
		}
		slog.DebugContext(ctx, "atlas: state version conflict, retrying", "user_id", userID, "attempt", attempt+1)
	}
	if err != nil {
		return nil, err
	}

	return &agent.RunResult{
		Output: FormatResponse(state.TodayTask, state.WhyItMatters, state.Checklist),
		Notes: map[string]any{
			"active_priority": state.ActivePriority,
			"backlog_size":    len(state.Backlog),
			"last_completed":  state.LastCompletedTask,
		},
	}, nil
}

func (a *Agent) loadOrInit(ctx context.Context, userID string) (*ManagerState, error) {
	state, err := a.repo.Get(ctx, userID)
	if err == nil {
		return state, nil
	}
	if cerr.IsCode(err, cerr.NotFound) {
		return &ManagerState{UserID: userID}, nil
	}
	return nil, err
}

// applyTransition mutates state in place according to the message. Exactly
// one of: seed priority, defer scope creep, mark completion, or regenerate
// a stale plan.
func (a *Agent) applyTransition(state *ManagerState, message string) {
	now := a.now()

	if state.ActivePriority == "" {
		state.ActivePriority = strings.TrimSpace(message)
		a.regeneratePlan(state, now)
		return
	}

	if isScopeCreep(message) {
		state.Backlog = append(state.Backlog, StripScopeCreepTrigger(message))
		// The current plan is returned unchanged.
		return
	}

	if completionPattern.MatchString(message) {
		if item := matchIncompleteItem(state.Checklist, message); item != nil {
			item.Completed = true
			state.LastCompletedTask = item.Text
			state.LastCompletedAt = &now
			if a.bus != nil {
				a.bus.PublishNew(eventbus.EventTypeChecklistCompleted, state.UserID, item.Text, map[string]string{
					"all_completed": boolString(state.AllCompleted()),
				})
			}
		}
	}

	if state.TodayTask == "" || state.AllCompleted() {
		a.regeneratePlan(state, now)
	}
}

func (a *Agent) regeneratePlan(state *ManagerState, now time.Time) {
	plan := GeneratePlan(state.ActivePriority)
	state.TodayTask = plan.TodayTask
	state.WhyItMatters = plan.WhyItMatters
	state.Checklist = NewChecklist(plan.Items, now)
	next := now.Add(24 * time.Hour)
	state.NextReviewTime = &next
}

func isScopeCreep(message string) bool {
	for _, p := range scopeCreepPatterns {
		if p.MatchString(message) {
			return true
		}
	}
	return false
}

// StripScopeCreepTrigger removes one leading trigger phrase from a deferred
// message so the backlog entry reads as the idea itself.
func StripScopeCreepTrigger(message string) string {
	return strings.TrimSpace(scopeCreepTrigger.ReplaceAllString(strings.TrimSpace(message), ""))
}

// matchIncompleteItem finds the first incomplete item whose leading
// completionPrefixLen characters appear, case-insensitively, in the message.
func matchIncompleteItem(checklist []ChecklistItem, message string) *ChecklistItem {
	lowerMsg := strings.ToLower(message)
	for i := range checklist {
		if checklist[i].Completed {
			continue
		}
		prefix := strings.ToLower(checklist[i].Text)
		if len(prefix) > completionPrefixLen {
			prefix = prefix[:completionPrefixLen]
		}
		if prefix != "" && strings.Contains(lowerMsg, prefix) {
			return &checklist[i]
		}
	}
	return nil
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
