package handlers

import (
	"net/http"

	"binhoard-api/api/middleware"
	"binhoard-api/internal/assistant"
	"binhoard-api/internal/common"
	"binhoard-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AssistantHandler exposes the command pipeline over HTTP
type AssistantHandler struct {
	service assistant.Service
	logger  *logger.Logger
}

// NewAssistantHandler creates a new AssistantHandler instance
func NewAssistantHandler(service assistant.Service, logger *logger.Logger) *AssistantHandler {
	return &AssistantHandler{
		service: service,
		logger:  logger,
	}
}

// executeRequest selects which previewed actions to run. A nil list means
// everything the preview marked included.
type executeRequest struct {
	IncludedIndexes []int `json:"included_indexes"`
}

// userID extracts the caller identity; every assistant route requires it
func (h *AssistantHandler) userID(c *gin.Context) (common.UserID, bool) {
	id := c.GetHeader(middleware.UserIDHeader)
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "missing " + middleware.UserIDHeader + " header",
			"code":  "VALIDATION_ERROR",
		})
		return "", false
	}
	return common.UserID(id), true
}

// Command interprets a free-text command into a reviewable action list
func (h *AssistantHandler) Command(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req assistant.CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "VALIDATION_ERROR"})
		return
	}

	result, err := h.service.InterpretCommand(userID, req)
	if err != nil {
		respondError(c, h.logger.WithUserID(string(userID)), err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Execute runs the approved subset of the pending command
func (h *AssistantHandler) Execute(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req executeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "VALIDATION_ERROR"})
		return
	}

	outcome, err := h.service.ExecuteApproved(userID, req.IncludedIndexes)
	if err != nil {
		respondError(c, h.logger.WithUserID(string(userID)), err)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

// Cancel discards the pending command without touching the store
func (h *AssistantHandler) Cancel(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	if err := h.service.CancelCommand(userID); err != nil {
		respondError(c, h.logger.WithUserID(string(userID)), err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cancelled": true})
}

// Undo restores a deleted bin from its snapshot token
func (h *AssistantHandler) Undo(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing undo token", "code": "VALIDATION_ERROR"})
		return
	}

	bin, err := h.service.UndoDelete(token)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, bin)
}

// AnalyzePhoto suggests a catalog entry from one or more photos
func (h *AssistantHandler) AnalyzePhoto(c *gin.Context) {
	var req assistant.PhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "VALIDATION_ERROR"})
		return
	}

	suggestion, err := h.service.AnalyzePhoto(req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, suggestion)
}

// DictateItems splits dictated text into individual item names
func (h *AssistantHandler) DictateItems(c *gin.Context) {
	var req assistant.DictationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "VALIDATION_ERROR"})
		return
	}

	result, err := h.service.DictateItems(req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// TestConnection verifies a provider configuration end to end
func (h *AssistantHandler) TestConnection(c *gin.Context) {
	var cfg assistant.ProviderConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "VALIDATION_ERROR"})
		return
	}

	if err := h.service.TestConnection(cfg); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
