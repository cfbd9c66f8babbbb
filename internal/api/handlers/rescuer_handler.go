package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tolo017/eco-sawa/internal/geo"
	"github.com/tolo017/eco-sawa/internal/services"
	"github.com/tolo017/eco-sawa/internal/utils"
)

// RescuerHandler handles REST requests for rescuers.
type RescuerHandler struct {
	rescuerService services.IRescuerService
}

// NewRescuerHandler creates a new RescuerHandler.
func NewRescuerHandler(rescuerService services.IRescuerService) *RescuerHandler {
	return &RescuerHandler{rescuerService: rescuerService}
}

// registerRescuerRequest is the JSON body for POST /v1/rescuers.
type registerRescuerRequest struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Phone    string          `json:"phone"`
	Location *geo.Coordinate `json:"location"`
}

// RegisterRescuer handles POST /v1/rescuers.
func (h *RescuerHandler) RegisterRescuer(c *gin.Context) {
	var req registerRescuerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	var rescuerID *utils.SixID
	if req.ID != "" {
		id, err := utils.ParseSixID(req.ID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rescuer ID format"})
			return
		}
		rescuerID = &id
	}

	rescuer, err := h.rescuerService.RegisterRescuer(c.Request.Context(), rescuerID, req.Name, req.Phone, req.Location)
	if err != nil {
		respondServiceError(c, err, "Failed to register rescuer")
		return
	}
	c.JSON(http.StatusOK, gin.H{"rescuer": rescuer})
}

// Nearby handles GET /v1/rescuers/nearby?lat=..&lon=..&radius_km=..
func (h *RescuerHandler) Nearby(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	if latErr != nil || lonErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon query parameters are required"})
		return
	}

	radiusKm := 5.0
	if radiusStr := c.Query("radius_km"); radiusStr != "" {
		parsed, err := strconv.ParseFloat(radiusStr, 64)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid radius_km"})
			return
		}
		radiusKm = parsed
	}

	rescuers, err := h.rescuerService.FindNearby(c.Request.Context(), geo.Coordinate{Lat: lat, Lon: lon}, radiusKm)
	if err != nil {
		respondServiceError(c, err, "Failed to find nearby rescuers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"rescuers": rescuers})
}

// ClaimedListings handles GET /v1/rescuers/:id/claimed.
func (h *RescuerHandler) ClaimedListings(c *gin.Context) {
	rescuerID, err := utils.ParseSixID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rescuer ID format"})
		return
	}

	ids, err := h.rescuerService.ClaimedListingIDs(c.Request.Context(), rescuerID)
	if err != nil {
		respondServiceError(c, err, "Failed to load claimed listings")
		return
	}

	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	c.JSON(http.StatusOK, gin.H{"listing_ids": out})
}
