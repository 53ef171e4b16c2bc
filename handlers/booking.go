package handlers

import (
	"net/http"

	"studiobook/models"
	"studiobook/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves the booking wizard's write endpoints.
type BookingHandler struct {
	Service booking.SubmissionService
	Logger  *zap.Logger
}

func NewBookingHandler(svc booking.SubmissionService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Logger: logger}
}

// SubmitBooking accepts the wizard's final payload. Follow-up work runs
// detached, so the response never depends on Calendly, ClickUp or the LLM.
func (h *BookingHandler) SubmitBooking(c *gin.Context) {
	var payload models.SubmissionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		getLogger(c, h.Logger).Warn("invalid submit-booking body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if _, err := h.Service.Submit(c.Request.Context(), payload); err != nil {
		writeError(c, getLogger(c, h.Logger), err, "Failed to submit booking")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// CreateBooking books a Calendly invitee and relays Calendly's response.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	resp, err := h.Service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		writeError(c, getLogger(c, h.Logger), err, "Failed to create booking")
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", resp)
}

// CreateTask creates a ClickUp task and relays ClickUp's response.
func (h *BookingHandler) CreateTask(c *gin.Context) {
	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	resp, err := h.Service.CreateTask(c.Request.Context(), req)
	if err != nil {
		writeError(c, getLogger(c, h.Logger), err, "Failed to create task")
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", resp)
}
