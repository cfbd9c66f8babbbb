package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tolo017/eco-sawa/internal/config"
	"github.com/tolo017/eco-sawa/internal/geo"
	"github.com/tolo017/eco-sawa/internal/route"
	"github.com/tolo017/eco-sawa/internal/services"
	"github.com/tolo017/eco-sawa/internal/utils"
)

// RouteHandler turns a set of listing IDs into an ordered pickup trip.
type RouteHandler struct {
	listingService services.IListingService
	cfg            *config.Config
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(listingService services.IListingService, cfg *config.Config) *RouteHandler {
	return &RouteHandler{listingService: listingService, cfg: cfg}
}

// optimizeRequest is the JSON body for POST /v1/route/optimize.
type optimizeRequest struct {
	RescuerLocation *geo.Coordinate `json:"rescuerLocation"`
	ListingIDs      []string        `json:"listingIds"`
}

// Optimize handles POST /v1/route/optimize. Unknown listing IDs are silently
// dropped; listings with invalid coordinates come back under "skipped".
func (h *RouteHandler) Optimize(c *gin.Context) {
	var req optimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if req.RescuerLocation == nil || req.ListingIDs == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rescuerLocation and listingIds are required"})
		return
	}
	if !req.RescuerLocation.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rescuerLocation coordinates out of range"})
		return
	}
	if max := h.cfg.MaxRoutePoints; max > 0 && len(req.ListingIDs) > max {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Too many listings for one trip"})
		return
	}

	ids := make([]utils.SixID, 0, len(req.ListingIDs))
	for _, raw := range req.ListingIDs {
		id, err := utils.ParseSixID(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID format: " + raw})
			return
		}
		ids = append(ids, id)
	}

	listings, err := h.listingService.FindListingsByIDs(c.Request.Context(), ids)
	if err != nil {
		respondServiceError(c, err, "Failed to load listings for route")
		return
	}

	points := make([]route.PickupPoint, 0, len(listings))
	for _, l := range listings {
		points = append(points, route.PickupPoint{
			ID:               l.ID.String(),
			Location:         l.Location,
			PerishabilityTag: l.PerishabilityTag,
			TimeWindow:       l.TimeWindow,
		})
	}

	result := route.Optimize(*req.RescuerLocation, points, route.Options{
		TimeBlendDivisor: h.cfg.RouteTimeBlendMs,
	})
	c.JSON(http.StatusOK, gin.H{"route": result})
}
