package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings/:id/services")
	group.Use(authMiddleware)
	{
		group.POST("", h.Attach)
		group.GET("", h.ListUsage)
		group.DELETE("/:usageID", h.Detach)
	}
}
