// Package render parses and executes the HTML page templates. Templates are
// parsed once at startup; in dev mode a file watcher re-parses them on
// change.
package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ravindu/helpdesk-web/internal/model"
)

// Renderer executes named page templates against a shared base layout.
type Renderer struct {
	dir    string
	logger *slog.Logger

	mu   sync.RWMutex
	tmpl *template.Template
}

// funcs are the helpers available to every template.
func funcs() template.FuncMap {
	return template.FuncMap{
		"categoryName": func(c model.Category) string { return c.String() },
		"postedAgo": func(t time.Time) string {
			return model.PostedAgo(t, time.Now())
		},
		"shortDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
	}
}

// New parses every *.html file under dir.
func New(dir string, logger *slog.Logger) (*Renderer, error) {
	r := &Renderer{dir: dir, logger: logger}
	if err := r.reload(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Renderer) reload() error {
	tmpl, err := template.New("base").Funcs(funcs()).ParseGlob(filepath.Join(r.dir, "*.html"))
	if err != nil {
		return fmt.Errorf("render: parsing templates: %w", err)
	}
	r.mu.Lock()
	r.tmpl = tmpl
	r.mu.Unlock()
	return nil
}

// Page executes the named template and writes the full response. Rendering
// goes through a buffer so a template error becomes a 500 instead of a
// half-written page.
func (r *Renderer) Page(w http.ResponseWriter, status int, name string, data any) {
	r.mu.RLock()
	tmpl := r.tmpl
	r.mu.RUnlock()

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		r.logger.Error("template execution failed",
			slog.String("template", name),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Watch re-parses the templates whenever a file under the template directory
// changes. It blocks until ctx is cancelled; intended for dev mode only.
func (r *Renderer) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("render: creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(r.dir); err != nil {
		return fmt.Errorf("render: watching %s: %w", r.dir, err)
	}
	r.logger.Info("template reload enabled", slog.String("dir", r.dir))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ".html") {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := r.reload(); err != nil {
				// Keep serving the last good set.
				r.logger.Error("template reload failed", slog.String("error", err.Error()))
				continue
			}
			r.logger.Debug("templates reloaded", slog.String("file", event.Name))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("template watcher error", slog.String("error", err.Error()))
		}
	}
}
