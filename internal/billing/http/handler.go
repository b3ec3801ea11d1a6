package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pinewood/hotel-booking-backend/internal/auth"
	"github.com/pinewood/hotel-booking-backend/internal/billing"
	"github.com/pinewood/hotel-booking-backend/internal/pkg/response"
	"github.com/pinewood/hotel-booking-backend/internal/user"
)

type Handler struct {
	service billing.Service
}

func NewHandler(service billing.Service) *Handler {
	return &Handler{service: service}
}

func actor(c *gin.Context) (id string, privileged bool) {
	return auth.GetUserID(c), user.Role(auth.GetUserRole(c)).Privileged()
}

func (h *Handler) Attach(c *gin.Context) {
	bookingID := c.Param("id")
	if _, err := uuid.Parse(bookingID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body AttachServiceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	actorID, privileged := actor(c)

	line, err := h.service.Attach(c.Request.Context(), bookingID, billing.AttachRequest{
		AmenityID: body.AmenityID,
		Quantity:  body.Quantity,
	}, actorID, privileged)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewUsageLineResponse(line))
}

func (h *Handler) Detach(c *gin.Context) {
	bookingID := c.Param("id")
	usageID := c.Param("usageID")
	if _, err := uuid.Parse(bookingID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}
	if _, err := uuid.Parse(usageID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	actorID, privileged := actor(c)

	if err := h.service.Detach(c.Request.Context(), bookingID, usageID, actorID, privileged); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ListUsage(c *gin.Context) {
	bookingID := c.Param("id")
	if _, err := uuid.Parse(bookingID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	actorID, privileged := actor(c)

	lines, err := h.service.ListUsage(c.Request.Context(), bookingID, actorID, privileged)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]UsageLineResponse, len(lines))
	for i, line := range lines {
		items[i] = NewUsageLineResponse(line)
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}
