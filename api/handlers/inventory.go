package handlers

import (
	"net/http"

	"binhoard-api/internal/common"
	"binhoard-api/internal/events"
	"binhoard-api/internal/inventory"
	"binhoard-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// InventoryHandler exposes direct bin and area CRUD alongside the
// assistant pipeline
type InventoryHandler struct {
	repo     inventory.Repository
	eventBus events.EventBus
	logger   *logger.Logger
}

// NewInventoryHandler creates a new InventoryHandler instance
func NewInventoryHandler(repo inventory.Repository, eventBus events.EventBus, logger *logger.Logger) *InventoryHandler {
	return &InventoryHandler{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

// binRequest is the write payload for bins; PUT replaces all fields
type binRequest struct {
	Name   string   `json:"name"`
	AreaID *string  `json:"area_id,omitempty"`
	Items  []string `json:"items"`
	Tags   []string `json:"tags"`
	Notes  string   `json:"notes"`
	Icon   string   `json:"icon"`
	Color  string   `json:"color"`
}

type areaRequest struct {
	Name string `json:"name"`
}

// ListBins returns every bin of a location
func (h *InventoryHandler) ListBins(c *gin.Context) {
	locationID := common.LocationID(c.Param("locationID"))

	bins, err := h.repo.ListBinsByLocation(locationID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bins": bins})
}

// CreateBin creates a bin in a location
func (h *InventoryHandler) CreateBin(c *gin.Context) {
	locationID := common.LocationID(c.Param("locationID"))

	var req binRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "VALIDATION_ERROR"})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bin name is required", "code": "VALIDATION_ERROR"})
		return
	}

	bin := &inventory.Bin{
		LocationID: locationID,
		Name:       req.Name,
		Items:      inventory.StringList(req.Items),
		Tags:       inventory.StringList(req.Tags),
		Notes:      req.Notes,
		Icon:       req.Icon,
		Color:      req.Color,
	}
	if req.AreaID != nil {
		areaID := common.AreaID(*req.AreaID)
		bin.AreaID = &areaID
	}

	if err := h.repo.CreateBin(bin); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.publishChanged(locationID, bin.ID, "created")
	c.JSON(http.StatusCreated, bin)
}

// GetBin returns one bin by identifier
func (h *InventoryHandler) GetBin(c *gin.Context) {
	binID := common.BinID(c.Param("binID"))

	bin, err := h.repo.GetBinByID(binID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, bin)
}

// UpdateBin replaces a bin's editable fields
func (h *InventoryHandler) UpdateBin(c *gin.Context) {
	binID := common.BinID(c.Param("binID"))

	var req binRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "VALIDATION_ERROR"})
		return
	}

	bin, err := h.repo.GetBinByID(binID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if req.Name != "" {
		bin.Name = req.Name
	}
	bin.Items = inventory.StringList(req.Items)
	bin.Tags = inventory.StringList(req.Tags)
	bin.Notes = req.Notes
	bin.Icon = req.Icon
	bin.Color = req.Color
	if req.AreaID != nil {
		if *req.AreaID == "" {
			bin.AreaID = nil
		} else {
			areaID := common.AreaID(*req.AreaID)
			bin.AreaID = &areaID
		}
	}

	if err := h.repo.UpdateBin(bin); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.publishChanged(bin.LocationID, bin.ID, "updated")
	c.JSON(http.StatusOK, bin)
}

// DeleteBin removes a bin permanently; the assistant's delete_bin action is
// the path that captures undo snapshots, direct deletes do not
func (h *InventoryHandler) DeleteBin(c *gin.Context) {
	binID := common.BinID(c.Param("binID"))

	bin, err := h.repo.GetBinByID(binID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.repo.DeleteBin(binID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.publishChanged(bin.LocationID, binID, "deleted")
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ListAreas returns every area of a location
func (h *InventoryHandler) ListAreas(c *gin.Context) {
	locationID := common.LocationID(c.Param("locationID"))

	areas, err := h.repo.ListAreasByLocation(locationID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"areas": areas})
}

// CreateArea creates an area in a location
func (h *InventoryHandler) CreateArea(c *gin.Context) {
	locationID := common.LocationID(c.Param("locationID"))

	var req areaRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "area name is required", "code": "VALIDATION_ERROR"})
		return
	}

	area := &inventory.Area{
		LocationID: locationID,
		Name:       req.Name,
	}

	if err := h.repo.CreateArea(area); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, area)
}

func (h *InventoryHandler) publishChanged(locationID common.LocationID, binID common.BinID, change string) {
	h.eventBus.Publish(events.TopicInventoryChanged, events.InventoryChanged{
		Event:      events.NewEvent(),
		LocationID: string(locationID),
		BinID:      string(binID),
		Change:     change,
	})
}
