package handlers

import (
	"errors"
	"net/http"

	"binhoard-api/internal/assistant"
	"binhoard-api/internal/common"
	"binhoard-api/internal/inventory"
	"binhoard-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// respondError maps a pipeline error onto the HTTP boundary. Each gateway
// error kind gets its own status code; everything unclassified collapses to
// a generic 500 so internal detail never leaks.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	var validationErr common.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": validationErr.Error(),
			"code":  "VALIDATION_ERROR",
		})
		return
	}

	var notFoundErr common.NotFoundError
	if errors.As(err, &notFoundErr) || inventory.IsNotFoundError(err) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
			"code":  "NOT_FOUND",
		})
		return
	}

	var noPending assistant.ErrNoPendingCommand
	if errors.As(err, &noPending) {
		c.JSON(http.StatusConflict, gin.H{
			"error": noPending.Error(),
			"code":  "NO_PENDING_COMMAND",
		})
		return
	}

	var notConfigured assistant.ErrProviderNotConfigured
	if errors.As(err, &notConfigured) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": notConfigured.Error(),
			"code":  "PROVIDER_NOT_CONFIGURED",
		})
		return
	}

	var gatewayErr assistant.GatewayError
	if errors.As(err, &gatewayErr) {
		c.JSON(assistant.HTTPStatusForKind(gatewayErr.Kind), gin.H{
			"error": gatewayErr.Message(),
			"code":  gatewayErr.Kind,
		})
		return
	}

	log.Error("Unclassified error at HTTP boundary", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "could not process the request",
		"code":  "INTERNAL_ERROR",
	})
}
