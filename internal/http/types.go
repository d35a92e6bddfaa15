package http

import (
	"net/http"

	"github.com/dest-sports/backoffice/internal/auth"
	"github.com/dest-sports/backoffice/internal/config"
	"github.com/dest-sports/backoffice/internal/metrics"
	"github.com/dest-sports/backoffice/internal/panel"
)

type Server struct {
	Panel          *panel.Service
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	MetricsStore   metrics.MetricsStore
	Cfg            config.Config
	Auth           auth.Authenticator
	Router         *http.ServeMux
}
