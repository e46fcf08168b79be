package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	RouteAuthRegister = "/api/auth/register/"
	RouteAuthLogin    = "/api/auth/login/"
	RouteAuthGoogle   = "/api/auth/google/"
	RouteAuthRefresh  = "/api/auth/refresh/"
	RouteAuthMe       = "/api/auth/me/"
	RouteAuthLogout   = "/api/auth/logout/"

	RouteSessions          = "/api/sessions/"
	RouteSession           = "/api/sessions/{id}/"
	RouteSessionRSVP       = "/api/sessions/{id}/rsvp/"
	RouteSessionCancelRSVP = "/api/sessions/{id}/cancel_rsvp/"

	RouteGroups        = "/api/groups/"
	RouteGroup         = "/api/groups/{id}/"
	RouteGroupJoin     = "/api/groups/{id}/join/"
	RouteGroupLeave    = "/api/groups/{id}/leave/"
	RouteGroupSessions = "/api/groups/{id}/sessions/"

	RouteDashboard   = "/api/dashboard/"
	RouteLeaderboard = "/api/leaderboard/"

	RouteAdminGroups       = "/api/admin/groups/"
	RouteAdminGroupApprove = "/api/admin/groups/{id}/approve/"
	RouteAdminGroupReject  = "/api/admin/groups/{id}/reject/"

	RouteHealth  = "/healthz"
	RouteMetrics = "/metrics"
)

func (s *Server) initRoutes() {
	s.router.NotFound(ChainMiddleware(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, msgNotFound)
	}, s.APIMiddleware()...))
	s.router.MethodNotAllowed(ChainMiddleware(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, `Method "`+r.Method+`" not allowed.`)
	}, s.APIMiddleware()...))

	// AUTH
	s.RegisterRouteHandler("POST "+RouteAuthRegister, ChainMiddleware(s.RegisterHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthGoogle, ChainMiddleware(s.GoogleLoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthRefresh, ChainMiddleware(s.RefreshHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAuthMe, ChainMiddleware(s.CurrentUserHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("PUT "+RouteAuthMe, ChainMiddleware(s.UpdateProfileHandler(), s.APIMiddleware(s.RequireAuth())...))

	// SESSIONS
	s.RegisterRouteHandler("GET "+RouteSessions, ChainMiddleware(s.ListSessionsHandler(), s.APIMiddleware(s.OptionalAuth())...))
	s.RegisterRouteHandler("POST "+RouteSessions, ChainMiddleware(s.CreateSessionHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("GET "+RouteSession, ChainMiddleware(s.GetSessionHandler(), s.APIMiddleware(s.OptionalAuth())...))
	s.RegisterRouteHandler("PUT "+RouteSession, ChainMiddleware(s.UpdateSessionHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("DELETE "+RouteSession, ChainMiddleware(s.DeleteSessionHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("POST "+RouteSessionRSVP, ChainMiddleware(s.RSVPHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("DELETE "+RouteSessionCancelRSVP, ChainMiddleware(s.CancelRSVPHandler(), s.APIMiddleware(s.RequireAuth())...))

	// GROUPS
	s.RegisterRouteHandler("GET "+RouteGroups, ChainMiddleware(s.ListGroupsHandler(), s.APIMiddleware(s.OptionalAuth())...))
	s.RegisterRouteHandler("POST "+RouteGroups, ChainMiddleware(s.CreateGroupHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("GET "+RouteGroup, ChainMiddleware(s.GetGroupHandler(), s.APIMiddleware(s.OptionalAuth())...))
	s.RegisterRouteHandler("PUT "+RouteGroup, ChainMiddleware(s.UpdateGroupHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("DELETE "+RouteGroup, ChainMiddleware(s.DeleteGroupHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("POST "+RouteGroupJoin, ChainMiddleware(s.JoinGroupHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("DELETE "+RouteGroupLeave, ChainMiddleware(s.LeaveGroupHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("GET "+RouteGroupSessions, ChainMiddleware(s.GroupSessionsHandler(), s.APIMiddleware(s.OptionalAuth())...))

	// DASHBOARD
	s.RegisterRouteHandler("GET "+RouteDashboard, ChainMiddleware(s.DashboardHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("GET "+RouteLeaderboard, ChainMiddleware(s.LeaderboardHandler(), s.APIMiddleware()...))

	// ADMIN
	s.RegisterRouteHandler("GET "+RouteAdminGroups, ChainMiddleware(s.AdminGroupsHandler(), s.APIMiddleware(s.RequireAuth(), s.RequireStaff())...))
	s.RegisterRouteHandler("PATCH "+RouteAdminGroupApprove, ChainMiddleware(s.AdminApproveGroupHandler(), s.APIMiddleware(s.RequireAuth(), s.RequireStaff())...))
	s.RegisterRouteHandler("PATCH "+RouteAdminGroupReject, ChainMiddleware(s.AdminRejectGroupHandler(), s.APIMiddleware(s.RequireAuth(), s.RequireStaff())...))

	s.RegisterRouteHandler("GET "+RouteHealth, ChainMiddleware(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}, s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteMetrics, promhttp.Handler())
}
