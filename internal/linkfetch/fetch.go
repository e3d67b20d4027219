// Package linkfetch retrieves a URL shared in chat and summarizes it for
// the dispatcher's reply.
package linkfetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	// Timeout bounds the whole fetch including body read.
	Timeout = 10 * time.Second

	userAgent = "SkyRasBot/1.0 (+https://skyras.app)"

	htmlPreviewLimit = 1000
	textPreviewLimit = 2000

	// maxBodyBytes caps how much of a response body is read.
	maxBodyBytes = 1 << 20
)

var (
	titleRe = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	descRe  = regexp.MustCompile(`(?is)<meta[^>]+name=["']description["'][^>]+content=["']([^"']*)["']`)
)

// Summary is the normalized result of fetching one URL. OK is false for
// non-2xx responses; those are summaries, not errors.
type Summary struct {
	URL         string `json:"url"`
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	OK          bool   `json:"ok"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Preview     string `json:"preview,omitempty"`
	JSON        any    `json:"json,omitempty"`
}

// Fetcher performs the HTTP retrieval. The zero-value-like default client
// from New applies the package timeout.
type Fetcher struct {
	client *http.Client
}

func New() *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: Timeout},
	}
}

// Fetch retrieves url and branches on content type: JSON bodies are parsed,
// HTML gets title/description extraction plus a preview, anything else is
// returned as a capped text preview. Network errors are returned as errors;
// HTTP error statuses are not.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	summary := &Summary{
		URL:         url,
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		OK:          resp.StatusCode >= 200 && resp.StatusCode < 300,
	}
	if !summary.OK {
		return summary, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", url, err)
	}

	switch {
	case strings.Contains(summary.ContentType, "application/json"):
		var parsed any
		if err := json.Unmarshal(body, &parsed); err != nil {
			// Declared JSON but not parseable; fall back to a text preview.
			summary.Preview = clip(string(body), textPreviewLimit)
		} else {
			summary.JSON = parsed
		}
	case strings.Contains(summary.ContentType, "text/html"):
		text := string(body)
		if m := titleRe.FindStringSubmatch(text); m != nil {
			summary.Title = strings.TrimSpace(m[1])
		}
		if m := descRe.FindStringSubmatch(text); m != nil {
			summary.Description = strings.TrimSpace(m[1])
		}
		summary.Preview = clip(text, htmlPreviewLimit)
	default:
		summary.Preview = clip(string(body), textPreviewLimit)
	}
	return summary, nil
}

// Line renders the summary as one chat output line.
func (s *Summary) Line() string {
	if !s.OK {
		return fmt.Sprintf("Fetched %s: request failed with status %d.", s.URL, s.Status)
	}
	switch {
	case s.JSON != nil:
		return fmt.Sprintf("Fetched %s: JSON document retrieved.", s.URL)
	case s.Title != "":
		return fmt.Sprintf("Fetched %s: %q.", s.URL, s.Title)
	default:
		return fmt.Sprintf("Fetched %s (%d bytes of preview).", s.URL, len(s.Preview))
	}
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
