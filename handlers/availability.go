package handlers

import (
	"errors"
	"net/http"

	"studiobook/services/availability"
	"studiobook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AvailabilityHandler struct {
	Service availability.AvailabilityService
	Logger  *zap.Logger
}

func NewAvailabilityHandler(svc availability.AvailabilityService, logger *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{Service: svc, Logger: logger}
}

// GetAvailableTimes lists bookable slots. Calendly errors are relayed with
// their original status and body.
func (h *AvailabilityHandler) GetAvailableTimes(c *gin.Context) {
	result, err := h.Service.AvailableTimes(c.Request.Context(), c.Query("start_time"), c.Query("end_time"))
	if err != nil {
		var upstreamErr *utils.UpstreamError
		if errors.As(err, &upstreamErr) {
			getLogger(c, h.Logger).Warn("calendly availability error", zap.Int("status", upstreamErr.StatusCode))
			c.Data(utils.StatusFor(err), "application/json; charset=utf-8", upstreamErr.Body)
			return
		}
		writeError(c, getLogger(c, h.Logger), err, "Failed to fetch available times")
		return
	}
	c.JSON(http.StatusOK, result)
}
