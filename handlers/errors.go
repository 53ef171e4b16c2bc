package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"studiobook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeError maps the error taxonomy onto a JSON response:
//
//	ValidationError    400 {error, missing, invalid?}
//	UpstreamError      upstream status {error, details}
//	ConfigurationError 500 {error}
//	anything else      500 {error}
func writeError(c *gin.Context, logger *zap.Logger, err error, message string) {
	var (
		validErr    *utils.ValidationError
		upstreamErr *utils.UpstreamError
		cfgErr      *utils.ConfigurationError
	)
	status := utils.StatusFor(err)

	switch {
	case errors.As(err, &validErr):
		body := gin.H{"error": validErr.Message, "missing": nonNil(validErr.Missing)}
		if len(validErr.Invalid) > 0 {
			body["invalid"] = validErr.Invalid
		}
		c.JSON(status, body)
	case errors.As(err, &upstreamErr):
		logger.Warn(message, zap.String("provider", upstreamErr.Provider), zap.Int("status", upstreamErr.StatusCode))
		c.JSON(status, gin.H{"error": message, "details": rawOrString(upstreamErr.Body)})
	case errors.As(err, &cfgErr):
		logger.Error(message, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": cfgErr.Error()})
	default:
		utils.JSONError(c, logger, status, message, err.Error())
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// rawOrString embeds a JSON body as-is and anything else as a string.
func rawOrString(body []byte) any {
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	return string(body)
}
