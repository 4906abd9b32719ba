package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes
	RouteAuthLogin  = "/api/v1/auth/login"
	RouteAuthLogout = "/api/v1/auth/logout"

	// Admin Routes
	RouteAdminProvision = "/api/v1/admin/provision"
	RouteAdminUsers     = "/api/v1/admin/users"

	// Entity Routes
	RouteProjects   = "/api/v1/projects"
	RouteProject    = "/api/v1/projects/{code}"
	RouteTimesheets = "/api/v1/timesheets"
	RouteTimesheet  = "/api/v1/timesheets/{code}"

	// Lookup Routes
	RouteLookupDepartments = "/api/v1/lookups/departments"
	RouteLookupActivities  = "/api/v1/lookups/activity-types"

	// Health
	RouteHealth = "/healthz"
)
