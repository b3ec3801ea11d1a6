package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, staffMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")
	group.Use(authMiddleware)
	{
		group.POST("", h.Create)
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.PATCH("/:id", h.Update)
		group.POST("/:id/cancel", h.Cancel)
	}

	staff := group.Group("")
	staff.Use(staffMiddleware)
	{
		staff.POST("/:id/approve", h.Approve)
		staff.POST("/:id/check-in", h.CheckIn)
		staff.POST("/:id/check-out", h.CheckOut)
	}
}
