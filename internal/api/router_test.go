package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/nlim89/countrycat/internal/app"
	"github.com/nlim89/countrycat/internal/cache"
	"github.com/nlim89/countrycat/internal/database/testutil"
	"github.com/nlim89/countrycat/internal/services"
	"github.com/nlim89/countrycat/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestService(t *testing.T) *services.CountryService {
	t.Helper()

	db := testutil.MustOpenTestDB(t)
	countryStore, err := store.NewCountryStore(db)
	require.NoError(t, err)

	svc, err := services.NewCountryService(countryStore, cache.NewMemoryStore(), time.Hour)
	require.NoError(t, err)
	return svc
}

func testConfig() *app.Config {
	cfg := &app.Config{}
	cfg.Monitoring.Health.Enabled = true
	cfg.Monitoring.Prometheus.Enabled = true
	cfg.Monitoring.Prometheus.Endpoint = "/metrics"
	return cfg
}

func TestNewRouterRequiresService(t *testing.T) {
	_, err := NewRouter(nil, testConfig(), nil)
	require.Error(t, err)
}

func TestNewRouterRequiresConfig(t *testing.T) {
	_, err := NewRouter(newTestService(t), nil, nil)
	require.Error(t, err)
}

func TestRouterMountsRoutes(t *testing.T) {
	router, err := NewRouter(newTestService(t), testConfig(), nil)
	require.NoError(t, err)

	paths := []string{
		"/health",
		"/api/health",
		"/api/test_connection",
		"/api/hana_version",
		"/api/countries",
		"/metrics",
	}
	for _, path := range paths {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "GET %s", path)
	}
}

func TestRouterSetsSecurityHeaders(t *testing.T) {
	router, err := NewRouter(newTestService(t), testConfig(), nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	require.NotEmpty(t, rec.Header().Get("X-Frame-Options"))
}

func TestRouterNotFoundEnvelope(t *testing.T) {
	router, err := NewRouter(newTestService(t), testConfig(), nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"error"`)
}

func TestRouterHealthDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Monitoring.Health.Enabled = false

	router, err := NewRouter(newTestService(t), cfg, nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
