package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, staffMiddleware gin.HandlerFunc) {
	rooms := g.Group("/rooms/:id/photos")
	rooms.Use(authMiddleware)
	{
		rooms.GET("", h.ListByRoom)
	}

	roomsStaff := rooms.Group("")
	roomsStaff.Use(staffMiddleware)
	{
		roomsStaff.POST("", h.Upload)
	}

	photos := g.Group("/photos")
	photos.Use(authMiddleware)
	{
		photos.GET("/:id", h.Download)
		photos.GET("/:id/thumbnail", h.DownloadThumbnail)
	}

	photosStaff := photos.Group("")
	photosStaff.Use(staffMiddleware)
	{
		photosStaff.DELETE("/:id", h.Delete)
	}
}
