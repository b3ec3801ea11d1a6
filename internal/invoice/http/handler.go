package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pinewood/hotel-booking-backend/internal/auth"
	"github.com/pinewood/hotel-booking-backend/internal/invoice"
	"github.com/pinewood/hotel-booking-backend/internal/pkg/response"
	"github.com/pinewood/hotel-booking-backend/internal/user"
)

type Handler struct {
	service invoice.Service
}

func NewHandler(service invoice.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Get(c *gin.Context) {
	bookingID := c.Param("id")
	if _, err := uuid.Parse(bookingID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	actorID := auth.GetUserID(c)
	privileged := user.Role(auth.GetUserRole(c)).Privileged()

	inv, err := h.service.ForBooking(c.Request.Context(), bookingID, actorID, privileged)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewInvoiceResponse(inv))
}
