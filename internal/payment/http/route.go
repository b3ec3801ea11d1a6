package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings/:id/payments")
	group.Use(authMiddleware)
	{
		group.POST("", h.Record)
		group.GET("", h.ListByBooking)
	}

	// Gateway callbacks authenticate by transaction id, not by user token.
	gateway := g.Group("/payments/gateway")
	{
		gateway.Any("/success", h.GatewaySuccess)
		gateway.Any("/fail", h.GatewayFail)
		gateway.Any("/cancel", h.GatewayCancel)
	}
}
