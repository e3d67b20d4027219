// Package marcus implements the coordinating PM dispatcher. It routes a
// free-text prompt to specialist agents by keyword category, runs matched
// categories concurrently, and merges their outputs into one reply.
package marcus

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sourcegraph/conc"
	"github.com/tidwall/gjson"

	"github.com/skyras/skyras/internal/agent"
	"github.com/skyras/skyras/internal/eventbus"
	"github.com/skyras/skyras/internal/linkfetch"
	"github.com/skyras/skyras/pkg/llm"
)

const AgentName = "marcus"

const systemPrompt = `You are Marcus, the PM for a creator's project workspace.
Be direct: one clear answer, no lists of options, no fluff.
When delegation results are provided, explain briefly why they matter and end with exactly one next step.`

// keywordModeMessage is returned on the general path when no LLM credential
// is configured.
const keywordModeMessage = "Running in keyword-based mode. I can help with licensing audits, creative generation, distribution planning, cataloging, workflows, or fetching a link you share."

// Dispatcher routes prompts to specialists. A nil llm.Client disables the
// free-text and synthesis paths but never the keyword routing.
type Dispatcher struct {
	registry *agent.Registry
	llm      llm.Client
	fetcher  *linkfetch.Fetcher
	bus      *eventbus.Bus
}

func New(registry *agent.Registry, llmClient llm.Client, fetcher *linkfetch.Fetcher, bus *eventbus.Bus) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		llm:      llmClient,
		fetcher:  fetcher,
		bus:      bus,
	}
}

func (d *Dispatcher) Name() string {
	return AgentName
}

// outcome is one category's contribution to the merged reply.
type outcome struct {
	line       string
	delegation *agent.Delegation
	notes      any
}

// Run dispatches the prompt. Matched categories execute concurrently but
// their results merge in the fixed category order, and one category's
// failure never aborts the others. The returned result is always non-nil.
func (d *Dispatcher) Run(ctx context.Context, input *agent.RunInput) (*agent.RunResult, error) {
	matched := matchCategories(input.Prompt)
	if len(matched) == 0 {
		return d.generalReply(ctx, input)
	}

	outcomes := make([]outcome, len(matched))
	var wg conc.WaitGroup
	for i, cat := range matched {
		wg.Go(func() {
			outcomes[i] = d.runCategory(ctx, cat, input)
		})
	}
	wg.Wait()

	result := &agent.RunResult{
		Notes: make(map[string]any, len(matched)),
	}
	var lines []string
	for i, cat := range matched {
		o := outcomes[i]
		lines = append(lines, o.line)
		if o.delegation != nil {
			result.Delegations = append(result.Delegations, *o.delegation)
		}
		if o.notes != nil {
			result.Notes[cat.name] = o.notes
		}
	}
	raw := strings.Join(lines, "\n")
	result.Output = raw

	if d.llm != nil {
		if synthesized, err := d.synthesize(ctx, input.Prompt, raw); err != nil {
			slog.WarnContext(ctx, "marcus: synthesis failed, returning raw output", "error", err)
		} else if synthesized != "" {
			result.Output = synthesized
			result.Notes["raw_output"] = raw
		}
	}
	return result, nil
}

func (d *Dispatcher) runCategory(ctx context.Context, cat category, input *agent.RunInput) outcome {
	payload, task, err := cat.build(input.Prompt, input.Metadata)
	if err != nil {
		return outcome{
			line:  fmt.Sprintf("%s delegation skipped: %s.", cat.label, err.Error()),
			notes: map[string]any{"skipped": true, "reason": err.Error()},
		}
	}

	delegation := &agent.Delegation{
		Agent:  cat.agentName,
		Task:   task,
		Status: agent.StatusPending,
	}

	var result *agent.RunResult
	if cat.name == "link" {
		result, err = d.runLinkFetch(ctx, payload)
	} else {
		var target agent.Agent
		target, err = d.registry.Resolve(cat.agentName)
		if err == nil {
			result, err = target.Run(ctx, &agent.RunInput{Prompt: task, Metadata: payload})
		}
	}
	if err != nil {
		delegation.Status = agent.StatusFailed
		if d.bus != nil {
			d.bus.PublishNew(eventbus.EventTypeDelegationFailed, cat.agentName, err.Error(), map[string]string{
				"category": cat.name,
				"task":     task,
			})
		}
		slog.WarnContext(ctx, "marcus: delegation failed", "category", cat.name, "agent", cat.agentName, "error", err)
		return outcome{
			line:       fmt.Sprintf("%s delegation failed: %s", cat.label, err.Error()),
			delegation: delegation,
			notes:      map[string]any{"error": err.Error()},
		}
	}

	delegation.Status = agent.StatusCompleted
	return outcome{
		line:       result.Output,
		delegation: delegation,
		notes: map[string]any{
			"output": result.Output,
			"notes":  result.Notes,
		},
	}
}

func (d *Dispatcher) runLinkFetch(ctx context.Context, payload []byte) (*agent.RunResult, error) {
	url := gjson.GetBytes(payload, "url").String()
	summary, err := d.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return &agent.RunResult{
		Output: summary.Line(),
		Notes: map[string]any{
			"status":      summary.Status,
			"contentType": summary.ContentType,
			"title":       summary.Title,
			"ok":          summary.OK,
		},
	}, nil
}

// generalReply handles prompts with no keyword match: a free-text LLM
// answer when configured, a fixed keyword-mode message otherwise.
func (d *Dispatcher) generalReply(ctx context.Context, input *agent.RunInput) (*agent.RunResult, error) {
	if d.llm == nil {
		return &agent.RunResult{
			Output: keywordModeMessage,
			Notes:  map[string]any{"mode": "keyword"},
		}, nil
	}

	messages := historyFromMetadata(input.Metadata)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: input.Prompt})
	reply, err := d.llm.Complete(ctx, &llm.Request{
		System:   systemPrompt,
		Messages: messages,
	})
	if err != nil {
		slog.WarnContext(ctx, "marcus: free-text completion failed", "error", err)
		return &agent.RunResult{
			Output: keywordModeMessage,
			Notes:  map[string]any{"mode": "keyword", "llm_error": err.Error()},
		}, nil
	}
	return &agent.RunResult{
		Output: reply,
		Notes:  map[string]any{"mode": "general"},
	}, nil
}

func (d *Dispatcher) synthesize(ctx context.Context, prompt, raw string) (string, error) {
	return d.llm.Complete(ctx, &llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{
				Role: llm.RoleUser,
				Content: fmt.Sprintf("User asked: %s\n\nDelegation results:\n%s\n\nSummarize what was done, why it matters, and give one next step.",
					prompt, raw),
			},
		},
	})
}

func historyFromMetadata(meta []byte) []llm.Message {
	var messages []llm.Message
	for _, entry := range gjson.GetBytes(meta, "history").Array() {
		role := llm.RoleUser
		if entry.Get("role").String() == "assistant" {
			role = llm.RoleAssistant
		}
		content := entry.Get("content").String()
		if content == "" {
			continue
		}
		messages = append(messages, llm.Message{Role: role, Content: content})
	}
	return messages
}
