// File: handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Booking endpoints
	SubmitBooking gin.HandlerFunc
	CreateBooking gin.HandlerFunc
	CreateTask    gin.HandlerFunc

	// Availability endpoints
	GetAvailableTimes gin.HandlerFunc

	// Health endpoint
	Health gin.HandlerFunc
}
