package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/jrsteele09/go-erp-gateway/projects"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

func pageParams(r *http.Request) (skip, top int) {
	skip, _ = strconv.Atoi(r.URL.Query().Get("skip"))
	if skip < 0 {
		skip = 0
	}
	top, _ = strconv.Atoi(r.URL.Query().Get("top"))
	if top <= 0 {
		top = defaultPageSize
	}
	if top > maxPageSize {
		top = maxPageSize
	}
	return skip, top
}

// ProjectsListHandler returns one page of projects with total-count metadata.
func (s *Server) ProjectsListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skip, top := pageParams(r)
		list, total, err := s.projects.List(r.Context(), requestSession(r), skip, top, r.URL.Query().Get("name"))
		if err != nil {
			writeBackendError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"projects": list,
			"total":    total,
			"skip":     skip,
			"top":      top,
		})
	}
}

func (s *Server) ProjectGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := s.projects.Get(r.Context(), r.PathValue("code"), requestSession(r))
		if err != nil {
			writeBackendError(w, err)
			return
		}
		if project == nil {
			writeNotFound(w)
			return
		}
		writeJSON(w, http.StatusOK, project)
	}
}

func (s *Server) ProjectCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var project projects.Project
		if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
			writeBadRequest(w, "invalid project payload")
			return
		}

		created, err := s.projects.Create(r.Context(), project, requestSession(r))
		switch {
		case err == nil:
			writeJSON(w, http.StatusCreated, created)
		case errors.Is(err, projects.MissingCodeErr):
			writeBadRequest(w, err.Error())
		default:
			writeBackendError(w, err)
		}
	}
}

func (s *Server) ProjectUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var project projects.Project
		if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
			writeBadRequest(w, "invalid project payload")
			return
		}

		updated, err := s.projects.Update(r.Context(), r.PathValue("code"), project, requestSession(r))
		if err != nil {
			writeBackendError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func (s *Server) ProjectDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.projects.Delete(r.Context(), r.PathValue("code"), requestSession(r)); err != nil {
			writeBackendError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
