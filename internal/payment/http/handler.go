package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pinewood/hotel-booking-backend/internal/auth"
	"github.com/pinewood/hotel-booking-backend/internal/payment"
	"github.com/pinewood/hotel-booking-backend/internal/pkg/response"
	"github.com/pinewood/hotel-booking-backend/internal/user"
)

type Handler struct {
	service payment.Service
}

func NewHandler(service payment.Service) *Handler {
	return &Handler{service: service}
}

func actor(c *gin.Context) (id string, privileged bool) {
	return auth.GetUserID(c), user.Role(auth.GetUserRole(c)).Privileged()
}

func (h *Handler) Record(c *gin.Context) {
	bookingID := c.Param("id")
	if _, err := uuid.Parse(bookingID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body RecordPaymentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	actorID, privileged := actor(c)

	result, err := h.service.Record(c.Request.Context(), bookingID, payment.RecordRequest{
		Method:      payment.Method(body.Method),
		AmountCents: body.AmountCents,
	}, actorID, privileged)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := NewPaymentResponse(result.Payment)
	resp.RedirectURL = result.RedirectURL
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) ListByBooking(c *gin.Context) {
	bookingID := c.Param("id")
	if _, err := uuid.Parse(bookingID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	actorID, privileged := actor(c)

	payments, err := h.service.ListByBooking(c.Request.Context(), bookingID, actorID, privileged)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		items[i] = NewPaymentResponse(p)
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// callback handles one gateway outcome. The provider may both redirect the
// payer here and post a server-to-server notification; replays are safe.
func (h *Handler) callback(c *gin.Context, outcome payment.GatewayOutcome) {
	var req GatewayCallbackRequest
	if err := c.ShouldBind(&req); err != nil {
		if err := c.ShouldBindQuery(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing txn_id"})
			return
		}
	}

	p, err := h.service.ApplyGatewayCallback(c.Request.Context(), req.TxnID, outcome)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewPaymentResponse(p))
}

func (h *Handler) GatewaySuccess(c *gin.Context) { h.callback(c, payment.OutcomeSuccess) }
func (h *Handler) GatewayFail(c *gin.Context)    { h.callback(c, payment.OutcomeFail) }
func (h *Handler) GatewayCancel(c *gin.Context)  { h.callback(c, payment.OutcomeCancel) }
