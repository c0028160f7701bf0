// Package http exposes the controller and program store over a small REST
// surface: upload programs, start and stop runs, read status, and scrape
// metrics. It is the network face of `armature serve`.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/armature/pkg/controller"
	"github.com/aretw0/armature/pkg/domain"
	"github.com/aretw0/armature/pkg/ports"
	"github.com/aretw0/armature/pkg/schema"
)

// Server wires the controller and the program store into HTTP handlers.
type Server struct {
	Controller *controller.Controller
	Store      ports.ProgramStore
}

// NewHandler builds the router.
func NewHandler(ctrl *controller.Controller, store ports.ProgramStore) http.Handler {
	s := &Server{Controller: ctrl, Store: store}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/programs", func(r chi.Router) {
		r.Get("/", s.listPrograms)
		r.Post("/", s.saveProgram)
		r.Get("/{id}", s.getProgram)
		r.Delete("/{id}", s.deleteProgram)
		r.Post("/{id}/run", s.runProgram)
	})

	r.Route("/run", func(r chi.Router) {
		r.Get("/status", s.status)
		r.Post("/stop", s.stop)
	})

	return r
}

func (s *Server) listPrograms(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"programs": ids})
}

// saveProgram accepts a JSON program document. The body is decoded through
// the shared schema decoder so HTTP uploads and YAML files accept exactly
// the same shape.
func (s *Server) saveProgram(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	program, err := schema.DecodeProgram(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.Store.Save(r.Context(), program); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": program.ID, "blocks": len(program.Blocks)})
}

func (s *Server) getProgram(w http.ResponseWriter, r *http.Request) {
	program, err := s.Store.Load(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrProgramNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, program)
}

func (s *Server) deleteProgram(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) runProgram(w http.ResponseWriter, r *http.Request) {
	program, err := s.Store.Load(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrProgramNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	runID, _, err := s.Controller.Start(program)
	switch {
	case errors.Is(err, controller.ErrNotConnected):
		writeError(w, http.StatusConflict, err)
		return
	case errors.Is(err, controller.ErrNoBlocks), errors.Is(err, controller.ErrNoEffector):
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{"run_id": runID})
}

func (s *Server) status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Controller.Status())
}

func (s *Server) stop(w http.ResponseWriter, _ *http.Request) {
	s.Controller.Stop()
	writeJSON(w, http.StatusOK, s.Controller.Status())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
