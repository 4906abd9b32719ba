package server

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-erp-gateway/backend"
	"github.com/jrsteele09/go-erp-gateway/internal/config"
	"github.com/jrsteele09/go-erp-gateway/lookups"
	"github.com/jrsteele09/go-erp-gateway/projects"
	"github.com/jrsteele09/go-erp-gateway/provision"
	"github.com/jrsteele09/go-erp-gateway/timesheets"
	"github.com/jrsteele09/go-erp-gateway/token"
	"github.com/jrsteele09/go-erp-gateway/users"
)

// Server is the gateway's HTTP surface. It owns one backend client instance
// (and therefore one affinity scope) for its whole lifetime.
type Server struct {
	env    string // Environment (e.g., "development", "production")
	mux    *http.ServeMux
	routes []string
	config config.Config

	backend     *backend.Client
	tokens      *token.Manager
	provisioner *provision.Provisioner
	users       *users.Service
	projects    *projects.Service
	timesheets  *timesheets.Service
	lookups     *lookups.Service
}

func New(cfg config.Config) (*Server, error) {
	client := backend.New(cfg.GetBackendBaseURL(), backend.WithTimeout(cfg.GetBackendTimeout()))

	tokenManager, err := token.New(cfg.GetTokenSecret(), cfg.GetTokenTTL(), cfg.GetTokenIssuer())
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create token manager: %w", err)
	}

	s := &Server{
		mux:         http.NewServeMux(),
		config:      cfg,
		backend:     client,
		tokens:      tokenManager,
		provisioner: provision.New(client, provision.DefaultTarget()),
		users:       users.NewService(client),
		projects:    projects.NewService(client),
		timesheets:  timesheets.NewService(client),
		lookups:     lookups.NewService(client),
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

// Backend exposes the server's client instance for process wiring (boot-time
// provisioning shares the same affinity scope as request traffic).
func (s *Server) Backend() *backend.Client {
	return s.backend
}

// Provisioner exposes the server's provisioner for process wiring.
func (s *Server) Provisioner() *provision.Provisioner {
	return s.provisioner
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		log.Debug().Str("route", route).Msg("registered")
	}
}
