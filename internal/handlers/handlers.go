// Package handlers implements the HTTP surface: the upload form, the upload
// pipeline, and serving of stored images. Every route sits behind the
// HostGuard middleware.
package handlers

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"imagenet-web/internal/classify"
	"imagenet-web/internal/storage"
)

//go:embed templates/*.html
var templateFS embed.FS

type Handler struct {
	store           *storage.Store
	classifier      classify.Classifier
	topN            int
	classifyTimeout time.Duration
	templates       *template.Template
}

func New(store *storage.Store, classifier classify.Classifier, topN int) *Handler {
	return &Handler{
		store:           store,
		classifier:      classifier,
		topN:            topN,
		classifyTimeout: 2 * time.Minute,
		templates:       template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

// HandleIndex renders the upload form.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	// The root pattern matches everything the mux has no better route for.
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.render(w, "upload_form.html", nil)
}

// HandleHealthcheck reports liveness.
func (h *Handler) HandleHealthcheck(w http.ResponseWriter, r *http.Request) {
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Unable to write healthcheck", "err", err)
	}
}

func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("Unable to render template", "template", name, "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}
