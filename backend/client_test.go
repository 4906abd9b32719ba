package backend_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-erp-gateway/backend"
)

const (
	testCompanyID = "SBO_COMPANY"
	testUsername  = "admin"
	testPassword  = "pw"
)

func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func TestLoginReturnsSessionAndCapturesAffinity(t *testing.T) {
	var recordCookies struct {
		session  string
		affinity string
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/":
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodPost && r.URL.Path == "/Login":
			http.SetCookie(w, &http.Cookie{Name: "ROUTEID", Value: ".node2", Path: "/"})
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"SessionId":"abc123","Version":"10.0","SessionTimeout":30}`))
		case r.Method == http.MethodGet && r.URL.Path == "/AX_ADT_USERS":
			recordCookies.session = cookieValue(r, "B1SESSION")
			recordCookies.affinity = cookieValue(r, "ROUTEID")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"value":[]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := backend.New(srv.URL)
	session, err := client.Login(context.Background(), testCompanyID, testUsername, testPassword)
	require.NoError(t, err)
	require.Equal(t, "abc123", session.Token)
	require.Equal(t, testCompanyID, session.CompanyID)
	require.Equal(t, "10.0", session.Version)
	require.Equal(t, 30, session.TimeoutMinutes)

	// Every later call from the same client instance must replay both the
	// session cookie and the observed affinity cookie.
	_, err = backend.GetRecords[map[string]any](context.Background(), client, "AX_ADT_USERS", "", session.Token)
	require.NoError(t, err)
	require.Equal(t, "abc123", recordCookies.session)
	require.Equal(t, ".node2", recordCookies.affinity)
}

func TestLoginFailureCarriesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/Login" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"invalid credentials"}}`))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := backend.New(srv.URL)
	_, err := client.Login(context.Background(), testCompanyID, testUsername, "wrong")
	require.Error(t, err)
	require.ErrorIs(t, err, backend.AuthenticationFailedErr)

	var statusErr *backend.StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	require.Contains(t, statusErr.Body, "invalid credentials")
}

func TestPreflightAssignsAffinityAndFailureIsSwallowed(t *testing.T) {
	var loginAffinity string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/":
			// The balancer assigns affinity on the preflight only.
			http.SetCookie(w, &http.Cookie{Name: "ROUTEID", Value: ".node1", Path: "/"})
			w.WriteHeader(http.StatusServiceUnavailable)
		case r.Method == http.MethodPost && r.URL.Path == "/Login":
			loginAffinity = cookieValue(r, "ROUTEID")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"SessionId":"s1","Version":"10.0","SessionTimeout":30}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := backend.New(srv.URL)
	session, err := client.Login(context.Background(), testCompanyID, testUsername, testPassword)
	require.NoError(t, err)
	require.Equal(t, "s1", session.Token)
	require.Equal(t, ".node1", loginAffinity)
}

func TestAffinityLastObservedWins(t *testing.T) {
	affinities := []string{".node1", ".node2"}
	var sent []string
	var calls int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/AX_ADT_PROJECTS" {
			sent = append(sent, cookieValue(r, "ROUTEID"))
			if calls < len(affinities) {
				http.SetCookie(w, &http.Cookie{Name: "ROUTEID", Value: affinities[calls], Path: "/"})
			}
			calls++
			_, _ = w.Write([]byte(`{"value":[]}`))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := backend.New(srv.URL)
	for i := 0; i < 3; i++ {
		_, err := backend.GetRecords[map[string]any](context.Background(), client, "AX_ADT_PROJECTS", "", "tok")
		require.NoError(t, err)
	}

	// Never sent before observed; thereafter always the newest value.
	require.Equal(t, []string{"", ".node1", ".node2"}, sent)
}

func TestTransportFailureIsBackendUnavailable(t *testing.T) {
	client := backend.New("http://127.0.0.1:1", backend.WithTimeout(250*time.Millisecond))

	_, err := client.Login(context.Background(), testCompanyID, testUsername, testPassword)
	require.Error(t, err)
	require.ErrorIs(t, err, backend.BackendUnavailableErr)

	err = client.Logout(context.Background(), "tok")
	require.ErrorIs(t, err, backend.BackendUnavailableErr)
}

func TestLogout(t *testing.T) {
	var gotSession string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/Logout", r.URL.Path)
		gotSession = cookieValue(r, "B1SESSION")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := backend.New(srv.URL)
	require.NoError(t, client.Logout(context.Background(), "abc123"))
	require.Equal(t, "abc123", gotSession)
}
