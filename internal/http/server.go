package http

import (
	"net/http"

	"github.com/dest-sports/backoffice/internal/auth"
	"github.com/dest-sports/backoffice/internal/config"
	"github.com/dest-sports/backoffice/internal/metrics"
	"github.com/dest-sports/backoffice/internal/panel"
)

func NewServer(panelSvc *panel.Service, metricsSvc metrics.Metrics, metricsHandler http.Handler, metricsStore metrics.MetricsStore, cfg config.Config, authSvc auth.Authenticator) *Server {
	server := &Server{
		Panel:          panelSvc,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		MetricsStore:   metricsStore,
		Cfg:            cfg,
		Auth:           authSvc,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// Read and mutation endpoints additionally require a valid session.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/metrics/lifetime", Chain(s.LifetimeMetricsHandler(), paramsMiddleware))
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/auth/login", Chain(s.LoginHandler(), paramsMiddleware))
	s.Router.Handle("/auth/verify", Chain(s.VerifyLoginHandler(), paramsMiddleware))
	s.Router.Handle("/auth/logout", Chain(s.LogoutHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("/overview", Chain(s.OverviewHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("/partners", Chain(s.ListPartnersHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("/partners/table", Chain(s.PartnersTableHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("/partners/detail", Chain(s.PartnerDetailHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("/partners/approve", Chain(s.ApprovePartnerHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("/partners/disable", Chain(s.DisablePartnerHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("/customers", Chain(s.ListCustomersHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("/customers/history", Chain(s.CustomerHistoryHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("/accounts/delete", Chain(s.DeleteAccountHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("/orders", Chain(s.ListOrdersHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("/enrollments/create", Chain(s.CreateEnrollmentHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("/support", Chain(s.SupportQueueHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("/support/resolve", Chain(s.ResolveSupportHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("/support/solution", Chain(s.SaveSolutionHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("/audit", Chain(s.AuditLogHandler(), paramsMiddleware, s.authMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
