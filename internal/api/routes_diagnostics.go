package api

import (
	"github.com/gin-gonic/gin"

	"github.com/nlim89/countrycat/internal/handlers"
	"github.com/nlim89/countrycat/internal/services"
)

func registerDiagnosticsRoutes(api gin.IRouter, svc *services.CountryService) {
	handler := handlers.NewDiagnosticsHandler(svc)

	api.GET("/test_connection", handler.TestConnection)
	api.GET("/hana_version", handler.Version)
}
