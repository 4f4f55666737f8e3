package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/giroscopio/internal/infrastructure/logging"
)

// StreamHandler serves the live statistics stream.
type StreamHandler interface {
	HandleConnection(c *gin.Context)
}

// Register mounts the API routes on r. stream may be nil.
func (h *Handlers) Register(r gin.IRoutes, stream StreamHandler) {
	r.GET("/health", h.Health)
	r.GET("/stats", h.Stats)

	r.POST("/actions/office", h.OpenOffice)
	r.POST("/actions/web", h.OpenWeb)
	r.POST("/actions/media", h.OpenMedia)
	r.POST("/actions/custom", h.OpenCustom)
	r.POST("/actions/command", h.RunCommand)
	r.POST("/actions/execute", h.Execute)

	if stream != nil {
		r.GET("/stream", stream.HandleConnection)
	}
}

// NotFound answers unmatched routes
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, errorResponse{
		Message: "Endpoint not found",
		Error:   fmt.Sprintf("404 Not Found: %s %s", c.Request.Method, c.Request.URL.Path),
	})
}

// MethodNotAllowed answers known routes called with the wrong method
func MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, errorResponse{
		Message: "Method not allowed",
		Error:   fmt.Sprintf("405 Method Not Allowed: %s %s", c.Request.Method, c.Request.URL.Path),
	})
}

// Recovery turns a panic into a JSON 500 response
func Recovery(logger *logging.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.ForRequest(c).Error("Panic while handling request",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{
			Message: "Internal server error",
			Error:   "500 Internal Server Error",
		})
	})
}
