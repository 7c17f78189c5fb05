// Package server exposes the scene store over an HTTP JSON API.
//
// The API is a thin persistence layer for editor frontends: scenes are
// stored and fetched as whole documents, matching the editor's
// full-snapshot model. Rendering endpoints return SVG or DOT produced
// from the stored document.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/nodecanvas/pkg/errors"
	"github.com/matzehuels/nodecanvas/pkg/render"
	"github.com/matzehuels/nodecanvas/pkg/scene"
	"github.com/matzehuels/nodecanvas/pkg/store"
)

// Server handles HTTP requests against a scene store.
type Server struct {
	store  store.Store
	logger *log.Logger
}

// New creates a server over the given store.
func New(st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{store: st, logger: logger}
}

// Router builds the chi router with all routes registered.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/scenes", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Put("/", s.handleUpdate)
			r.Delete("/", s.handleDelete)
			r.Get("/render.svg", s.handleRenderSVG)
			r.Get("/render.dot", s.handleRenderDOT)
		})
	})

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listEntry is the List response shape: metadata plus graph size, without
// the full scene payload.
type listEntry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Nodes     int       `json:"nodes"`
	Edges     int       `json:"edges"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	docs, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	entries := make([]listEntry, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, listEntry{
			ID:        doc.ID,
			Name:      doc.Name,
			CreatedAt: doc.CreatedAt,
			UpdatedAt: doc.UpdatedAt,
			Nodes:     len(doc.Scene.Nodes),
			Edges:     len(doc.Scene.Edges),
		})
	}
	writeJSON(w, http.StatusOK, entries)
}

// sceneRequest is the Create/Update request body.
type sceneRequest struct {
	Name  string         `json:"name"`
	Scene scene.SceneDoc `json:"scene"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req sceneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	doc := &store.Document{Name: req.Name, Scene: req.Scene}
	if err := s.store.Put(r.Context(), doc); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req sceneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	existing.Name = req.Name
	existing.Scene = req.Scene
	if err := s.store.Put(r.Context(), existing); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, existing)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRenderSVG(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	svg, err := render.RenderSVG(render.ToDOT(doc.Scene, render.Options{}))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render scene %s", doc.ID))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg)
}

func (s *Server) handleRenderDOT(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	w.Write([]byte(render.ToDOT(doc.Scene, render.Options{})))
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps structured error codes onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidName, errors.ErrCodeInvalidFile, errors.ErrCodeEdgeRejected:
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorBody{Code: string(code), Message: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
