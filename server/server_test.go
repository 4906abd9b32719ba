package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-erp-gateway/internal/config"
	"github.com/jrsteele09/go-erp-gateway/server"
)

// stubConfig satisfies config.Config for tests without touching viper.
type stubConfig struct {
	backendURL string
	origins    config.AllowedOrigins
}

func (c stubConfig) GetEnv() string                    { return "TEST" }
func (c stubConfig) GetPort() string                   { return "0" }
func (c stubConfig) GetAppName() string                { return "erp-gateway" }
func (c stubConfig) GetBackendBaseURL() string         { return c.backendURL }
func (c stubConfig) GetBackendTimeout() time.Duration  { return 5 * time.Second }
func (c stubConfig) GetCompanyID() string              { return "SBO_COMPANY" }
func (c stubConfig) GetServiceUsername() string        { return "svc" }
func (c stubConfig) GetServicePassword() string        { return "svc-pw" }
func (c stubConfig) GetTokenSecret() string            { return "test-secret" }
func (c stubConfig) GetTokenTTL() time.Duration        { return 30 * time.Minute }
func (c stubConfig) GetTokenIssuer() string            { return "erp-gateway" }
func (c stubConfig) GetAllowedOrigins() config.AllowedOrigins {
	if c.origins != nil {
		return c.origins
	}
	return config.AllowedOrigins{}
}
func (c stubConfig) GetAllowedMethods() string { return "GET, POST, PATCH, DELETE, OPTIONS" }
func (c stubConfig) GetAllowedHeaders() string { return "Authorization, Content-Type" }
func (c stubConfig) GetProvisionOnBoot() bool  { return false }

// fakeERP answers the backend calls the gateway makes during tests. Every
// record GET checks that the backend session cookie was replayed.
func fakeERP(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/":
			w.WriteHeader(http.StatusOK)

		case r.Method == http.MethodPost && r.URL.Path == "/Login":
			var body struct {
				CompanyDB string `json:"CompanyDB"`
				UserName  string `json:"UserName"`
				Password  string `json:"Password"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body.Password != "good-pw" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":{"message":"invalid credentials"}}`))
				return
			}
			_, _ = w.Write([]byte(`{"SessionId":"b1-session","Version":"10.0","SessionTimeout":30}`))

		case r.Method == http.MethodGet && r.URL.Path == "/AX_ADT_DEPARTMENTS":
			cookie, err := r.Cookie("B1SESSION")
			require.NoError(t, err)
			require.Equal(t, "b1-session", cookie.Value)
			_, _ = w.Write([]byte(`{"value":[{"Code":"D1","U_Name":"Engineering"}]}`))

		case r.Method == http.MethodGet && r.URL.Path == "/AX_ADT_USERS":
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("no access"))

		// Schema metadata: everything reads as absent, every create works.
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/UserTablesMD("):
			http.NotFound(w, r)
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/UserObjectsMD("):
			http.NotFound(w, r)
		case r.Method == http.MethodGet && (r.URL.Path == "/UserFieldsMD"):
			_, _ = w.Write([]byte(`{"value":[]}`))
		case r.Method == http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{}`))

		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T, origins config.AllowedOrigins) *httptest.Server {
	t.Helper()
	erp := fakeERP(t)

	gateway, err := server.New(stubConfig{backendURL: erp.URL, origins: origins})
	require.NoError(t, err)

	srv := httptest.NewServer(gateway)
	t.Cleanup(srv.Close)
	return srv
}

func login(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/v1/auth/login", "application/json",
		strings.NewReader(`{"company_id":"SBO_COMPANY","username":"admin","password":"good-pw"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Token          string `json:"token"`
		ExpiresAt      int64  `json:"expires_at"`
		SessionTimeout int    `json:"session_timeout"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Token)
	require.Equal(t, 30, body.SessionTimeout)
	require.Greater(t, body.ExpiresAt, time.Now().Unix())
	return body.Token
}

func doAuthed(t *testing.T, srv *httptest.Server, method, path, bearer string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, nil)
	require.NoError(t, err)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLoginIssuesTokenUsableOnProtectedRoutes(t *testing.T) {
	srv := newTestServer(t, nil)
	bearer := login(t, srv)

	resp := doAuthed(t, srv, http.MethodGet, "/api/v1/lookups/departments", bearer)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Departments []struct {
			Code string `json:"code"`
			Name string `json:"name"`
		} `json:"departments"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Departments, 1)
	require.Equal(t, "Engineering", body.Departments[0].Name)
}

func TestLoginBadCredentials(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Post(srv.URL+"/api/v1/auth/login", "application/json",
		strings.NewReader(`{"company_id":"SBO_COMPANY","username":"admin","password":"bad-pw"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body struct {
		Error         string `json:"error"`
		BackendStatus int    `json:"backend_status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "authentication_failed", body.Error)
	require.Equal(t, http.StatusUnauthorized, body.BackendStatus)
}

func TestLoginValidation(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Post(srv.URL+"/api/v1/auth/login", "application/json",
		strings.NewReader(`{"username":"admin"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProtectedRouteRequiresBearer(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := doAuthed(t, srv, http.MethodGet, "/api/v1/lookups/departments", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doAuthed(t, srv, http.MethodGet, "/api/v1/lookups/departments", "garbage")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestBackendRejectionMapsToBadGateway(t *testing.T) {
	srv := newTestServer(t, nil)
	bearer := login(t, srv)

	resp := doAuthed(t, srv, http.MethodGet, "/api/v1/admin/users", bearer)
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var body struct {
		Error         string `json:"error"`
		BackendStatus int    `json:"backend_status"`
		BackendBody   string `json:"backend_body"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "backend_rejected", body.Error)
	require.Equal(t, http.StatusForbidden, body.BackendStatus)
	require.Equal(t, "no access", body.BackendBody)
}

func TestProvisionEndpointReportsSteps(t *testing.T) {
	srv := newTestServer(t, nil)
	bearer := login(t, srv)

	resp := doAuthed(t, srv, http.MethodPost, "/api/v1/admin/provision", bearer)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var outcome struct {
		Steps    []string `json:"steps"`
		Warnings []string `json:"warnings"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&outcome))
	require.Empty(t, outcome.Warnings)
	require.NotEmpty(t, outcome.Steps)
	for _, step := range outcome.Steps {
		require.Contains(t, step, "created")
	}
}

func TestCorsHeadersForAllowedOrigin(t *testing.T) {
	srv := newTestServer(t, config.AllowedOrigins{"https://app.example.com": {}})
	bearer := login(t, srv)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/lookups/departments", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Origin", "https://app.example.com")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, "https://app.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
	require.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestCorsPreflight(t *testing.T) {
	srv := newTestServer(t, config.AllowedOrigins{"https://app.example.com": {}})

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/v1/auth/login", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example.com")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, "https://app.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
	require.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")
}
