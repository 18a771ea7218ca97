package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nlim89/countrycat/pkg/logger"
	"github.com/nlim89/countrycat/pkg/response"
)

// Recovery converts panics into a 500 response and logs the error.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithModule("http").Error("panic",
					zap.String("path", c.Request.URL.Path),
					zap.Any("error", r),
				)
				// Avoid leaking internals to clients
				c.AbortWithStatusJSON(http.StatusInternalServerError, response.Envelope{
					Status:  response.StatusError,
					Message: "Internal server error",
					Code:    "INTERNAL_SERVER_ERROR",
				})
			}
		}()
		c.Next()
	}
}

// NotFoundHandler returns a JSON 404 response for unknown routes.
func NotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, response.Envelope{
		Status:  response.StatusError,
		Message: "route " + c.Request.URL.Path + " not found",
		Code:    "NOT_FOUND",
	})
}
