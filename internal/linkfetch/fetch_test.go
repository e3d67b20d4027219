package linkfetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func serve(t *testing.T, contentType string, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != userAgent {
			t.Errorf("user agent: got %q, want %q", got, userAgent)
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchJSON(t *testing.T) {
	srv := serve(t, "application/json", http.StatusOK, `{"name":"skyras","count":2}`)

	summary, err := New().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !summary.OK {
		t.Error("expected OK summary")
	}
	doc, ok := summary.JSON.(map[string]any)
	if !ok {
		t.Fatalf("expected parsed JSON object, got %T", summary.JSON)
	}
	if doc["name"] != "skyras" {
		t.Errorf("json name: got %v", doc["name"])
	}
	if !strings.Contains(summary.Line(), "JSON document") {
		t.Errorf("line: got %q", summary.Line())
	}
}

func TestFetchHTML(t *testing.T) {
	body := `<html><head>
		<title> Release Notes </title>
		<meta name="description" content="What shipped this week">
	</head><body>hello</body></html>`
	srv := serve(t, "text/html; charset=utf-8", http.StatusOK, body)

	summary, err := New().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if summary.Title != "Release Notes" {
		t.Errorf("title: got %q", summary.Title)
	}
	if summary.Description != "What shipped this week" {
		t.Errorf("description: got %q", summary.Description)
	}
	if summary.Preview == "" {
		t.Error("expected a preview")
	}
	if !strings.Contains(summary.Line(), "Release Notes") {
		t.Errorf("line: got %q", summary.Line())
	}
}

func TestFetchPlainText(t *testing.T) {
	long := strings.Repeat("x", textPreviewLimit+500)
	srv := serve(t, "text/plain", http.StatusOK, long)

	summary, err := New().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(summary.Preview) != textPreviewLimit {
		t.Errorf("preview length: got %d, want %d", len(summary.Preview), textPreviewLimit)
	}
}

func TestFetchNon2xxIsNotAnError(t *testing.T) {
	srv := serve(t, "text/html", http.StatusNotFound, "not here")

	summary, err := New().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch returned error for HTTP 404: %v", err)
	}
	if summary.OK {
		t.Error("expected OK=false for 404")
	}
	if summary.Status != http.StatusNotFound {
		t.Errorf("status: got %d", summary.Status)
	}
	if !strings.Contains(summary.Line(), "404") {
		t.Errorf("line: got %q", summary.Line())
	}
}

func TestFetchMalformedJSONFallsBackToPreview(t *testing.T) {
	srv := serve(t, "application/json", http.StatusOK, "{not json")

	summary, err := New().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if summary.JSON != nil {
		t.Errorf("expected no parsed JSON, got %v", summary.JSON)
	}
	if summary.Preview != "{not json" {
		t.Errorf("preview: got %q", summary.Preview)
	}
}

func TestFetchNetworkErrorIsAnError(t *testing.T) {
	srv := serve(t, "text/plain", http.StatusOK, "x")
	url := srv.URL
	srv.Close()

	if _, err := New().Fetch(context.Background(), url); err == nil {
		t.Error("expected an error for a refused connection")
	}
}
