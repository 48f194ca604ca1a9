package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gaurav-prasanna/shameladocx/core"
	"github.com/gaurav-prasanna/shameladocx/core/output"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

var contentTypes = map[string]string{
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".pdf":  "application/pdf",
	".epub": "application/epub+zip",
	".md":   "text/markdown; charset=utf-8",
	".json": "application/json",
}

// page is the data rendered by the index template.
type page struct {
	StartURL string
	Error    string
	Token    string
	Filename string
	Ref      core.BookRef
	Skipped  int
}

type handlers struct {
	conv   Converter
	store  *Store
	opts   Options
	logger *slog.Logger
}

func newHandlers(conv Converter, store *Store, opts Options) *handlers {
	if opts.DownloadName == "" {
		opts.DownloadName = output.DefaultName
	}
	return &handlers{conv: conv, store: store, opts: opts, logger: opts.Logger}
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, page{})
}

func (h *handlers) submit(w http.ResponseWriter, r *http.Request) {
	startURL := strings.TrimSpace(r.FormValue("start_url"))
	if startURL == "" {
		h.render(w, http.StatusBadRequest, page{Error: "Please enter a book URL."})
		return
	}

	ctx := r.Context()
	if h.opts.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opts.RunTimeout)
		defer cancel()
	}

	token := uuid.NewString()
	res, err := h.conv.Run(ctx, startURL, "book-"+token)
	if err != nil {
		status := statusFor(err)
		requestLogger(r.Context(), h.logger).Warn("conversion failed",
			slog.String("url", startURL),
			slog.Int("status", status),
			slog.String("error", err.Error()),
		)
		h.render(w, status, page{StartURL: startURL, Error: err.Error()})
		return
	}

	filename := h.opts.DownloadName + filepath.Ext(res.Path)
	h.store.Put(token, Download{Path: res.Path, Filename: filename, Ref: res.Ref})

	h.render(w, http.StatusOK, page{
		StartURL: startURL,
		Token:    token,
		Filename: filename,
		Ref:      res.Ref,
		Skipped:  len(res.Skipped),
	})
}

func (h *handlers) download(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if _, err := uuid.Parse(token); err != nil {
		http.NotFound(w, r)
		return
	}
	d, ok := h.store.Get(token)
	if !ok {
		http.NotFound(w, r)
		return
	}

	f, err := os.Open(d.Path)
	if err != nil {
		requestLogger(r.Context(), h.logger).Error("opening download", slog.String("path", d.Path), slog.String("error", err.Error()))
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, "download unavailable", http.StatusInternalServerError)
		return
	}

	if ct, ok := contentTypes[filepath.Ext(d.Filename)]; ok {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": d.Filename}))
	http.ServeContent(w, r, d.Filename, info.ModTime(), f)
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (h *handlers) render(w http.ResponseWriter, status int, data page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := indexTemplate.Execute(w, data); err != nil {
		h.logger.Error("rendering page", slog.String("error", err.Error()))
	}
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrPaginationNotFound), errors.Is(err, core.ErrNetwork):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
