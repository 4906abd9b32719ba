package server

import "net/http"

func (s *Server) DepartmentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := s.lookups.Departments(r.Context(), requestSession(r))
		if err != nil {
			writeBackendError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"departments": items})
	}
}

func (s *Server) ActivityTypesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := s.lookups.ActivityTypes(r.Context(), requestSession(r))
		if err != nil {
			writeBackendError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"activity_types": items})
	}
}
