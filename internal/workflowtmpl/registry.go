// Package workflowtmpl loads workflow templates from a YAML directory and
// keeps them fresh with a filesystem watcher.
package workflowtmpl

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Template describes a reusable workflow: an ordered list of task titles.
type Template struct {
	ID    string   `yaml:"id"`
	Name  string   `yaml:"name"`
	Tasks []string `yaml:"tasks"`
}

// builtins cover fresh installs with no template directory content.
var builtins = []*Template{
	{
		ID:   "release",
		Name: "Release",
		Tasks: []string{
			"Confirm final asset list",
			"Run licensing audit",
			"Schedule distribution posts",
			"Publish and verify links",
			"Catalog released assets",
		},
	},
	{
		ID:   "content-drop",
		Name: "Content Drop",
		Tasks: []string{
			"Draft the content brief",
			"Generate creative assets",
			"Review storyboard",
			"Schedule the drop",
		},
	},
}

// Registry holds the loaded templates. Reads are lock-protected because the
// watcher goroutine replaces the map on file changes.
type Registry struct {
	dir       string
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewRegistry loads dir immediately. A missing directory is not an error;
// the built-in templates still apply.
func NewRegistry(dir string) (*Registry, error) {
	r := &Registry{dir: dir}
	if err := r.reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Watch reloads the registry whenever a template file changes. Blocks until
// ctx is cancelled.
func (r *Registry) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create template watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(r.dir); err != nil {
		// Directory may not exist yet; built-ins keep working.
		slog.Warn("template directory not watchable", "dir", r.dir, "error", err)
		<-ctx.Done()
		return nil
	}

	slog.Info("workflow template watcher started", "dir", r.dir)
	for {
		select {
		case <-ctx.Done():
			slog.Info("workflow template watcher stopped")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if err := r.reload(); err != nil {
				slog.Error("failed to reload workflow templates", "error", err)
			} else {
				slog.Info("workflow templates reloaded", "count", len(r.IDs()))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("template watcher error", "error", err)
		}
	}
}

func (r *Registry) reload() error {
	templates := make(map[string]*Template, len(builtins))
	for _, t := range builtins {
		templates[t.ID] = t
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to read template dir %s: %w", r.dir, err)
		}
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(r.dir, name))
		if err != nil {
			slog.Warn("failed to read template file", "file", name, "error", err)
			continue
		}
		var t Template
		if err := yaml.Unmarshal(data, &t); err != nil {
			slog.Warn("failed to parse template file", "file", name, "error", err)
			continue
		}
		if t.ID == "" || len(t.Tasks) == 0 {
			slog.Warn("template missing id or tasks, skipping", "file", name)
			continue
		}
		templates[t.ID] = &t
	}

	r.mu.Lock()
	r.templates = templates
	r.mu.Unlock()
	return nil
}

func (r *Registry) Get(id string) (*Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[id]
	return t, ok
}

func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.templates))
	for id := range r.templates {
		ids = append(ids, id)
	}
	return ids
}
