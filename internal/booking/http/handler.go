package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pinewood/hotel-booking-backend/internal/auth"
	"github.com/pinewood/hotel-booking-backend/internal/booking"
	"github.com/pinewood/hotel-booking-backend/internal/pkg/response"
	"github.com/pinewood/hotel-booking-backend/internal/user"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

func actor(c *gin.Context) (id string, privileged bool) {
	return auth.GetUserID(c), user.Role(auth.GetUserRole(c)).Privileged()
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	actorID, privileged := actor(c)

	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		UserID:     actorID,
		RoomID:     body.RoomID,
		CheckIn:    body.CheckIn,
		CheckOut:   body.CheckOut,
		Guests:     body.Guests,
		Privileged: privileged,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	actorID, privileged := actor(c)
	if !privileged && b.UserID != actorID {
		response.Error(c, booking.ErrPermissionDenied)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) List(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query", "details": err.Error()})
		return
	}

	actorID, privileged := actor(c)

	filter := booking.Filter{
		UserID:   req.UserID,
		RoomID:   req.RoomID,
		Status:   req.Status,
		From:     req.From,
		To:       req.To,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if !privileged {
		filter.UserID = actorID
	}

	bookings, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, filter.Page, filter.PageSize, total))
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdateBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	actorID, privileged := actor(c)

	b, err := h.service.Update(c.Request.Context(), id, booking.UpdateRequest{
		RoomID:   body.RoomID,
		CheckIn:  body.CheckIn,
		CheckOut: body.CheckOut,
	}, actorID, privileged)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) transition(c *gin.Context, fn func(ctx *gin.Context, id, actorID string, privileged bool) (*booking.Booking, error)) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	actorID, privileged := actor(c)

	b, err := fn(c, id, actorID, privileged)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Approve(c *gin.Context) {
	h.transition(c, func(c *gin.Context, id, actorID string, privileged bool) (*booking.Booking, error) {
		return h.service.Approve(c.Request.Context(), id, actorID, privileged)
	})
}

func (h *Handler) CheckIn(c *gin.Context) {
	h.transition(c, func(c *gin.Context, id, actorID string, privileged bool) (*booking.Booking, error) {
		return h.service.CheckIn(c.Request.Context(), id, actorID, privileged)
	})
}

func (h *Handler) CheckOut(c *gin.Context) {
	h.transition(c, func(c *gin.Context, id, actorID string, privileged bool) (*booking.Booking, error) {
		return h.service.CheckOut(c.Request.Context(), id, actorID, privileged)
	})
}

func (h *Handler) Cancel(c *gin.Context) {
	h.transition(c, func(c *gin.Context, id, actorID string, privileged bool) (*booking.Booking, error) {
		return h.service.Cancel(c.Request.Context(), id, actorID, privileged)
	})
}
