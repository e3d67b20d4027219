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
	replicateURL = "https://api.replicate.com/v1/models/black-forest-labs/flux-schnell/predictions"

	// replicateTimeout covers the synchronous "Prefer: wait" call.
	replicateTimeout = 60 * time.Second
)

// Replicate generates images through the Replicate predictions API in
// synchronous mode.
type Replicate struct {
	token  string
	client *http.Client
	url    string
}

func NewReplicate(token string) *Replicate {
	return &Replicate{
		token:  token,
		client: &http.Client{Timeout: replicateTimeout},
		url:    replicateURL,
	}
}

func (r *Replicate) Name() string {
	return "replicate"
}

func (r *Replicate) Configured() bool {
	return r.token != ""
}

func (r *Replicate) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"input": map[string]any{"prompt": prompt},
	})
	if err != nil {
		return "", fmt.Errorf("marshal replicate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build replicate request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "wait")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("replicate request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read replicate response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("replicate returned status %d: %s", resp.StatusCode, gjson.GetBytes(body, "detail").String())
	}

	// Output is either a single URL or an array of URLs.
	output := gjson.GetBytes(body, "output")
	if output.IsArray() {
		arr := output.Array()
		if len(arr) > 0 {
			return arr[0].String(), nil
		}
	} else if output.String() != "" {
		return output.String(), nil
	}
	return "", fmt.Errorf("replicate prediction %s produced no output", gjson.GetBytes(body, "id").String())
}
