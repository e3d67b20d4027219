// Package chat exposes the PM agents over a JSON HTTP surface. One POST is
// one synchronous agent turn; there is no session held server side beyond
// the Atlas checklist state.
package chat

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/skyras/skyras/internal/agent"
	"github.com/skyras/skyras/internal/agentrun"
	"github.com/skyras/skyras/internal/atlas"
	"github.com/skyras/skyras/internal/eventbus"
	"github.com/skyras/skyras/internal/goldenpath"
	"github.com/skyras/skyras/internal/marcus"
	"github.com/skyras/skyras/pkg/cerr"
	"github.com/skyras/skyras/pkg/clog"
)

// Handler routes chat turns to the PM agents and persists a run record for
// each turn.
type Handler struct {
	registry         *agent.Registry
	goldenPathRunner *goldenpath.Runner
	runRepo          agentrun.Repository
	bus              *eventbus.Bus
}

func NewHandler(registry *agent.Registry, runner *goldenpath.Runner, runRepo agentrun.Repository, bus *eventbus.Bus) *Handler {
	return &Handler{
		registry:         registry,
		goldenPathRunner: runner,
		runRepo:          runRepo,
		bus:              bus,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.postChat)
	r.Get("/chat/runs", h.listRuns)
	r.Post("/goldenpath/{scenario}", h.postGoldenPath)
}

type chatRequest struct {
	Prompt   string          `json:"prompt"`
	Message  string          `json:"message"`
	UserID   string          `json:"userId"`
	Agent    string          `json:"agent"`
	Metadata json.RawMessage `json:"metadata"`
}

type chatResponse struct {
	Output      string             `json:"output"`
	Delegations []agent.Delegation `json:"delegations"`
	Notes       map[string]any     `json:"notes,omitempty"`
}

func (h *Handler) postChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "invalid JSON body", err)
		return
	}
	prompt := req.Prompt
	if prompt == "" {
		prompt = req.Message
	}
	if prompt == "" {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "prompt is required", nil)
		return
	}

	agentName := req.Agent
	if agentName == "" {
		agentName = marcus.AgentName
	}
	if agentName != marcus.AgentName && agentName != atlas.AgentName {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "unknown agent: "+agentName, nil)
		return
	}
	target, err := h.registry.Resolve(agentName)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}

	metadata := req.Metadata
	if len(metadata) == 0 {
		metadata = json.RawMessage("{}")
	}
	userID := req.UserID
	if userID == "" {
		userID = gjson.GetBytes(metadata, "userId").String()
	}
	if req.UserID != "" {
		if patched, err := sjson.SetBytes(metadata, "userId", req.UserID); err == nil {
			metadata = patched
		}
	}

	clog.AddAttributes(ctx, map[string]any{"agent": agentName, "user_id": userID})
	start := time.Now()
	result, err := target.Run(ctx, &agent.RunInput{Prompt: prompt, Metadata: metadata})
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	duration := time.Since(start)

	h.recordRun(ctx, userID, prompt, metadata, result, duration)

	cerr.SetJSONResponse(ctx, &chatResponse{
		Output:      result.Output,
		Delegations: result.Delegations,
		Notes:       result.Notes,
	})
}

// recordRun persists the turn and publishes run.completed. Persistence is
// best effort: a storage failure must not fail the chat response.
func (h *Handler) recordRun(ctx context.Context, userID, prompt string, metadata json.RawMessage, result *agent.RunResult, duration time.Duration) {
	run := &agentrun.AgentRun{
		ID:          ulid.Make().String(),
		UserID:      userID,
		Prompt:      prompt,
		Output:      result.Output,
		Delegations: result.Delegations,
		Notes:       result.Notes,
		Metadata:    agentrun.RedactMetadata(metadata),
		Duration:    duration,
		CreatedAt:   time.Now(),
	}
	if err := h.runRepo.Create(ctx, run); err != nil {
		slog.WarnContext(ctx, "failed to persist agent run", "error", err, "run_id", run.ID)
		return
	}
	h.bus.PublishNew(eventbus.EventTypeRunCompleted, run.ID, result.Output, map[string]string{
		"user_id":     userID,
		"delegations": strconv.Itoa(len(result.Delegations)),
	})
}

func (h *Handler) listRuns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "userId query parameter is required", nil)
		return
	}
	runs, err := h.runRepo.ListByUser(ctx, userID, 50)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, runs)
}

type goldenPathResponse struct {
	Scenario string                   `json:"scenario"`
	Proof    []goldenpath.ProofMarker `json:"proof"`
	Result   *chatResponse            `json:"result"`
}

func (h *Handler) postGoldenPath(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "scenario")

	proof, result, err := h.goldenPathRunner.Run(ctx, name)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, &goldenPathResponse{
		Scenario: name,
		Proof:    proof,
		Result: &chatResponse{
			Output:      result.Output,
			Delegations: result.Delegations,
			Notes:       result.Notes,
		},
	})
}
