package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jrsteele09/go-erp-gateway/backend"
)

const contentTypeJSON = "application/json; charset=utf-8"

type errorResponse struct {
	Error         string `json:"error"`
	Description   string `json:"error_description,omitempty"`
	BackendStatus int    `json:"backend_status,omitempty"`
	BackendBody   string `json:"backend_body,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized", Description: description})
}

func writeBadRequest(w http.ResponseWriter, description string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Description: description})
}

func writeNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found"})
}

// writeBackendError maps the client's failure taxonomy onto HTTP statuses.
// Auth failures stay distinguishable (401) from backend rejections (502) and
// transport failures (503) so callers can react appropriately.
func writeBackendError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, backend.AuthenticationFailedErr):
		resp := errorResponse{Error: "authentication_failed", Description: "backend rejected the credentials"}
		var statusErr *backend.StatusError
		if errors.As(err, &statusErr) {
			resp.BackendStatus = statusErr.StatusCode
		}
		writeJSON(w, http.StatusUnauthorized, resp)
	case errors.Is(err, backend.BackendRejectedErr):
		resp := errorResponse{Error: "backend_rejected", Description: err.Error()}
		var statusErr *backend.StatusError
		if errors.As(err, &statusErr) {
			resp.BackendStatus = statusErr.StatusCode
			resp.BackendBody = statusErr.Body
		}
		writeJSON(w, http.StatusBadGateway, resp)
	case errors.Is(err, backend.BackendUnavailableErr):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "backend_unavailable", Description: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal_error", Description: err.Error()})
	}
}
