package server

import "net/http"

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())

	// Preflight requests never match the method-prefixed routes, so the CORS
	// middleware answers them through a catch-all.
	s.RegisterRouteHandler("OPTIONS /api/v1/", ChainMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, s.APIMiddleware()...))

	// AUTH
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.AuthedAPIMiddleware()...))

	// ADMIN
	s.RegisterRouteHandler("POST "+RouteAdminProvision, ChainMiddleware(s.ProvisionHandler(), s.AuthedAPIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAdminUsers, ChainMiddleware(s.UsersListHandler(), s.AuthedAPIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAdminUsers, ChainMiddleware(s.UserCreateHandler(), s.AuthedAPIMiddleware()...))

	// PROJECTS
	s.RegisterRouteHandler("GET "+RouteProjects, ChainMiddleware(s.ProjectsListHandler(), s.AuthedAPIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteProjects, ChainMiddleware(s.ProjectCreateHandler(), s.AuthedAPIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteProject, ChainMiddleware(s.ProjectGetHandler(), s.AuthedAPIMiddleware()...))
	s.RegisterRouteHandler("PATCH "+RouteProject, ChainMiddleware(s.ProjectUpdateHandler(), s.AuthedAPIMiddleware()...))
	s.RegisterRouteHandler("DELETE "+RouteProject, ChainMiddleware(s.ProjectDeleteHandler(), s.AuthedAPIMiddleware()...))

	// TIMESHEETS
	s.RegisterRouteHandler("GET "+RouteTimesheets, ChainMiddleware(s.TimesheetsListHandler(), s.AuthedAPIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteTimesheets, ChainMiddleware(s.TimesheetCreateHandler(), s.AuthedAPIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteTimesheet, ChainMiddleware(s.TimesheetGetHandler(), s.AuthedAPIMiddleware()...))
	s.RegisterRouteHandler("PATCH "+RouteTimesheet, ChainMiddleware(s.TimesheetUpdateHandler(), s.AuthedAPIMiddleware()...))
	s.RegisterRouteHandler("DELETE "+RouteTimesheet, ChainMiddleware(s.TimesheetDeleteHandler(), s.AuthedAPIMiddleware()...))

	// LOOKUPS
	s.RegisterRouteHandler("GET "+RouteLookupDepartments, ChainMiddleware(s.DepartmentsHandler(), s.AuthedAPIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteLookupActivities, ChainMiddleware(s.ActivityTypesHandler(), s.AuthedAPIMiddleware()...))
}
