package api

import (
	"github.com/gin-gonic/gin"

	"github.com/nlim89/countrycat/internal/handlers"
	"github.com/nlim89/countrycat/internal/services"
)

// registerCountryRoutes mounts the CRUD surface. The verb-in-path routes
// (/add, /update, /delete) are the legacy shape of this API and are kept for
// compatibility.
func registerCountryRoutes(api gin.IRouter, svc *services.CountryService) {
	handler := handlers.NewCountryHandler(svc)

	api.GET("/countries", handler.List)
	api.POST("/add/country", handler.Create)
	api.PUT("/update/country/:code", handler.Update)
	api.DELETE("/delete/country/:code", handler.Delete)
}
