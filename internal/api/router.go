package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nlim89/countrycat/internal/app"
	"github.com/nlim89/countrycat/internal/handlers"
	"github.com/nlim89/countrycat/internal/middleware"
	"github.com/nlim89/countrycat/internal/services"
)

// NewRouter builds the Gin engine, wires middleware and registers all routes
// under the /api prefix.
func NewRouter(svc *services.CountryService, cfg *app.Config, rateStore middleware.RateStore) (*gin.Engine, error) {
	if svc == nil {
		return nil, fmt.Errorf("country service must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(rateStore, cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	api := r.Group("/api")

	if cfg.Monitoring.Health.Enabled {
		// Mounted bare as well so load balancer probes skip the API prefix.
		r.GET("/health", handlers.Health())
		api.GET("/health", handlers.Health())
	}

	registerCountryRoutes(api, svc)
	registerDiagnosticsRoutes(api, svc)

	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := cfg.Monitoring.Prometheus.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
