package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tolo017/eco-sawa/internal/services"
)

// ImpactHandler exposes the daily impact ledger.
type ImpactHandler struct {
	impactService services.IImpactService
}

// NewImpactHandler creates a new ImpactHandler.
func NewImpactHandler(impactService services.IImpactService) *ImpactHandler {
	return &ImpactHandler{impactService: impactService}
}

// CurrentImpact handles GET /v1/impact.
func (h *ImpactHandler) CurrentImpact(c *gin.Context) {
	impact, err := h.impactService.CurrentImpact(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to load impact")
		return
	}
	c.JSON(http.StatusOK, gin.H{"impact": impact})
}

// ImpactForDay handles GET /v1/impact/:day where day is "2006-01-02".
func (h *ImpactHandler) ImpactForDay(c *gin.Context) {
	entry, err := h.impactService.ImpactForDay(c.Request.Context(), c.Param("day"))
	if err != nil {
		respondServiceError(c, err, "Failed to load impact for day")
		return
	}
	c.JSON(http.StatusOK, gin.H{"impact": entry})
}
