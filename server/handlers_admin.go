package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jrsteele09/go-erp-gateway/users"
)

// ProvisionHandler runs one schema reconciliation pass and returns its step
// log and warnings verbatim.
func (s *Server) ProvisionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		outcome := s.provisioner.Run(r.Context(), requestSession(r))
		writeJSON(w, http.StatusOK, outcome)
	}
}

// UsersListHandler lists the application users.
func (s *Server) UsersListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.users.List(r.Context(), requestSession(r))
		if err != nil {
			writeBackendError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"users": list})
	}
}

type createUserRequest struct {
	users.User
	Password string `json:"password"`
}

// UserCreateHandler creates an application user.
func (s *Server) UserCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "invalid user payload")
			return
		}

		created, err := s.users.Create(r.Context(), req.User, req.Password, requestSession(r))
		switch {
		case err == nil:
			writeJSON(w, http.StatusCreated, created)
		case errors.Is(err, users.UserExistsErr):
			writeJSON(w, http.StatusConflict, errorResponse{Error: "user_exists"})
		case errors.Is(err, users.WeakPasswordErr),
			errors.Is(err, users.MissingEmailErr),
			errors.Is(err, users.MissingUserCodeErr):
			writeBadRequest(w, err.Error())
		default:
			writeBackendError(w, err)
		}
	}
}
