package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

const (
	runwayURL        = "https://api.dev.runwayml.com/v1/text_to_image"
	runwayAPIVersion = "2024-11-06"
	runwayTimeout    = 60 * time.Second
)

// Runway generates images through the Runway text_to_image API.
type Runway struct {
	key    string
	client *http.Client
	url    string
}

func NewRunway(key string) *Runway {
	return &Runway{
		key:    key,
		client: &http.Client{Timeout: runwayTimeout},
		url:    runwayURL,
	}
}

func (r *Runway) Name() string {
	return "runway"
}

func (r *Runway) Configured() bool {
	return r.key != ""
}

func (r *Runway) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"promptText": prompt,
		"model":      "gen4_image",
		"ratio":      "1024:1024",
	})
	if err != nil {
		return "", fmt.Errorf("marshal runway request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build runway request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.key)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Runway-Version", runwayAPIVersion)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("runway request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read runway response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("runway returned status %d: %s", resp.StatusCode, gjson.GetBytes(body, "error").String())
	}

	if url := gjson.GetBytes(body, "output.0").String(); url != "" {
		return url, nil
	}
	// Task accepted but output not inline; surface the task id so the
	// caller's error names something actionable.
	return "", fmt.Errorf("runway task %s returned no inline output", gjson.GetBytes(body, "id").String())
}
