// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package httpapi

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/klauspost/compress/gzhttp"

	"github.com/GermanBionicSystems/epaper/preview"
	"github.com/GermanBionicSystems/epaper/screen"
)

// maxFormSize bounds draw_text request bodies.
const maxFormSize = 4 << 10

// Display is the set of operations served. screen.Display implements it.
type Display interface {
	Toggle() error
	Clear() error
	Dummy() error
	Text(text string, x, y int) error
}

// Handler routes requests to a Display.
type Handler struct {
	display Display
	preview *preview.Sink
	logger  *slog.Logger
	mux     *http.ServeMux
}

// New returns a Handler for d. Preview routes are registered only when p is
// not nil. A nil logger discards output.
func New(d Display, p *preview.Sink, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	h := &Handler{
		display: d,
		preview: p,
		logger:  logger,
		mux:     http.NewServeMux(),
	}

	api := http.NewServeMux()
	api.HandleFunc("GET /{$}", h.index)
	for path, op := range map[string]func() error{
		"/toggle_screen_color": d.Toggle,
		"/clear_screen":        d.Clear,
		"/dummy_screen":        d.Dummy,
	} {
		fn := h.operation(path, op)
		api.HandleFunc("GET "+path, fn)
		api.HandleFunc("POST "+path, fn)
	}
	api.HandleFunc("POST /draw_text", h.drawText)
	h.mux.Handle("/", gzhttp.GzipHandler(api))

	// PNG is already compressed and the stream must not be buffered.
	if p != nil {
		h.mux.HandleFunc("/preview.png", p.Image)
		h.mux.Handle("/stream", p)
	}
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexPage.Execute(w, indexData{Preview: h.preview != nil}); err != nil {
		h.logger.Error("rendering index failed", "err", err)
	}
}

func (h *Handler) operation(path string, op func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// GET patterns also match HEAD, which must not change the panel.
		if r.Method == http.MethodHead {
			w.Header().Set("Allow", "GET, POST")
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if err := op(); err != nil {
			h.logger.Error("display operation failed", "path", path, "err", err)
			http.Error(w, "display error", http.StatusInternalServerError)
			return
		}
		h.logger.Info("display operation", "path", path, "remote", r.RemoteAddr)
		ok(w)
	}
}

func (h *Handler) drawText(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form: "+err.Error(), http.StatusBadRequest)
		return
	}
	text := r.Form.Get("text")
	x, err := screen.ParseCoordinate("x", r.Form.Get("x"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	y, err := screen.ParseCoordinate("y", r.Form.Get("y"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.display.Text(text, x, y); err != nil {
		var verr *screen.ValidationError
		if errors.As(err, &verr) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("drawing text failed", "err", err)
		http.Error(w, "display error", http.StatusInternalServerError)
		return
	}
	h.logger.Info("text drawn", "x", x, "y", y, "len", len(text), "remote", r.RemoteAddr)
	ok(w)
}

func ok(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "OK")
}
