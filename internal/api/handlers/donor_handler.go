package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tolo017/eco-sawa/internal/services"
	"github.com/tolo017/eco-sawa/internal/utils"
)

// DonorHandler handles REST requests for donors.
type DonorHandler struct {
	donorService services.IDonorService
}

// NewDonorHandler creates a new DonorHandler.
func NewDonorHandler(donorService services.IDonorService) *DonorHandler {
	return &DonorHandler{donorService: donorService}
}

// registerDonorRequest is the JSON body for POST /v1/donors.
type registerDonorRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// RegisterDonor handles POST /v1/donors. Registration is upsert-style: an
// existing ID refreshes name/phone without touching reputation.
func (h *DonorHandler) RegisterDonor(c *gin.Context) {
	var req registerDonorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	var donorID *utils.SixID
	if req.ID != "" {
		id, err := utils.ParseSixID(req.ID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid donor ID format"})
			return
		}
		donorID = &id
	}

	donor, err := h.donorService.RegisterDonor(c.Request.Context(), donorID, req.Name, req.Phone)
	if err != nil {
		respondServiceError(c, err, "Failed to register donor")
		return
	}
	c.JSON(http.StatusOK, gin.H{"donor": donor})
}

// GetDonorReputation handles GET /v1/donors/:id/reputation.
func (h *DonorHandler) GetDonorReputation(c *gin.Context) {
	donorID, err := utils.ParseSixID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid donor ID format"})
		return
	}

	donor, err := h.donorService.FindDonorByID(c.Request.Context(), donorID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve donor")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reputation": donor.Reputation})
}
