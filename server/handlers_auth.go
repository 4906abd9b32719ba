package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

type loginRequest struct {
	CompanyID string `json:"company_id"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

type loginResponse struct {
	Token          string `json:"token"`
	ExpiresAt      int64  `json:"expires_at"`
	SessionTimeout int    `json:"session_timeout"`
	Version        string `json:"version,omitempty"`
}

// LoginHandler performs the backend login handshake and answers with an
// application bearer token wrapping the new backend session.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "invalid login payload")
			return
		}
		if req.CompanyID == "" || req.Username == "" {
			writeBadRequest(w, "company_id and username are required")
			return
		}

		session, err := s.backend.Login(r.Context(), req.CompanyID, req.Username, req.Password)
		if err != nil {
			writeBackendError(w, err)
			return
		}

		signed, expiresAt, err := s.tokens.Generate(session.Token, session.CompanyID, req.Username)
		if err != nil {
			log.Error().Err(err).Msg("failed to generate bearer token")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal_error"})
			return
		}

		writeJSON(w, http.StatusOK, loginResponse{
			Token:          signed,
			ExpiresAt:      expiresAt.Unix(),
			SessionTimeout: session.TimeoutMinutes,
			Version:        session.Version,
		})
	}
}

// LogoutHandler invalidates the caller's backend session.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.backend.Logout(r.Context(), requestSession(r)); err != nil {
			writeBackendError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// HealthHandler reports process liveness. It deliberately does not call the
// backend - a dead backend should not restart the gateway.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
