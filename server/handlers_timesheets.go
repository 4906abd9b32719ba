package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jrsteele09/go-erp-gateway/timesheets"
)

const dateLayout = "2006-01-02"

// TimesheetsListHandler lists a user's entries within an optional date
// range: ?user=CODE&from=2026-01-01&to=2026-01-31.
func (s *Server) TimesheetsListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userCode := r.URL.Query().Get("user")
		if userCode == "" {
			writeBadRequest(w, "user query parameter is required")
			return
		}

		var from, to time.Time
		if raw := r.URL.Query().Get("from"); raw != "" {
			parsed, err := time.Parse(dateLayout, raw)
			if err != nil {
				writeBadRequest(w, "from must be formatted YYYY-MM-DD")
				return
			}
			from = parsed
		}
		if raw := r.URL.Query().Get("to"); raw != "" {
			parsed, err := time.Parse(dateLayout, raw)
			if err != nil {
				writeBadRequest(w, "to must be formatted YYYY-MM-DD")
				return
			}
			to = parsed
		}

		list, err := s.timesheets.ListForUser(r.Context(), userCode, from, to, requestSession(r))
		if err != nil {
			writeBackendError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"timesheets": list})
	}
}

func (s *Server) TimesheetGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entry, err := s.timesheets.Get(r.Context(), r.PathValue("code"), requestSession(r))
		if err != nil {
			writeBackendError(w, err)
			return
		}
		if entry == nil {
			writeNotFound(w)
			return
		}
		writeJSON(w, http.StatusOK, entry)
	}
}

func (s *Server) TimesheetCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var entry timesheets.Entry
		if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
			writeBadRequest(w, "invalid timesheet payload")
			return
		}

		created, err := s.timesheets.Create(r.Context(), entry, requestSession(r))
		switch {
		case err == nil:
			writeJSON(w, http.StatusCreated, created)
		case errors.Is(err, timesheets.InvalidStatusErr),
			errors.Is(err, timesheets.MissingCodeErr),
			errors.Is(err, timesheets.MissingUserCodeErr):
			writeBadRequest(w, err.Error())
		default:
			writeBackendError(w, err)
		}
	}
}

func (s *Server) TimesheetUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var entry timesheets.Entry
		if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
			writeBadRequest(w, "invalid timesheet payload")
			return
		}

		updated, err := s.timesheets.Update(r.Context(), r.PathValue("code"), entry, requestSession(r))
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, updated)
		case errors.Is(err, timesheets.InvalidStatusErr):
			writeBadRequest(w, err.Error())
		default:
			writeBackendError(w, err)
		}
	}
}

func (s *Server) TimesheetDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.timesheets.Delete(r.Context(), r.PathValue("code"), requestSession(r)); err != nil {
			writeBackendError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
