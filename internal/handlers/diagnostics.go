package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nlim89/countrycat/internal/services"
	"github.com/nlim89/countrycat/pkg/response"
)

// DiagnosticsHandler serves the connection probe endpoints. The hana_version
// route and field names predate the pluggable backend and are kept so
// existing consumers keep working.
type DiagnosticsHandler struct {
	svc *services.CountryService
}

// NewDiagnosticsHandler constructs the handler.
func NewDiagnosticsHandler(svc *services.CountryService) *DiagnosticsHandler {
	return &DiagnosticsHandler{svc: svc}
}

// TestConnection handles GET /test_connection. Probe failures are part of
// the payload, not transport errors.
func (h *DiagnosticsHandler) TestConnection(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.TestConnection(requestContext(c)))
}

// Version handles GET /hana_version.
func (h *DiagnosticsHandler) Version(c *gin.Context) {
	version, err := h.svc.DatabaseVersion(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"hana_version": version})
}
