package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"github.com/tolo017/eco-sawa/internal/api/middleware"
	"github.com/tolo017/eco-sawa/internal/geo"
	"github.com/tolo017/eco-sawa/internal/services"
	"github.com/tolo017/eco-sawa/internal/tasks"
	"github.com/tolo017/eco-sawa/internal/utils"
)

// IAsynqClient defines the interface for the Asynq client methods used by the
// handlers. This allows easier mocking than using the concrete asynq.Client.
type IAsynqClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ListingHandler handles REST requests for the listing lifecycle.
type ListingHandler struct {
	listingService services.IListingService
	taskClient     IAsynqClient
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(listingService services.IListingService, taskClient IAsynqClient) *ListingHandler {
	return &ListingHandler{
		listingService: listingService,
		taskClient:     taskClient,
	}
}

// createListingRequest is the JSON body for POST /v1/listings.
type createListingRequest struct {
	FoodType         string          `json:"foodType"`
	QuantityKg       float64         `json:"quantityKg"`
	Category         string          `json:"category"`
	PerishabilityTag string          `json:"perishabilityTag"`
	Location         *geo.Coordinate `json:"location"`
	Address          string          `json:"address"`
	TimeWindow       string          `json:"timeWindow"`
}

// CreateListing handles POST /v1/listings. The donor is the authenticated
// account. The proof token is returned here and only here; the donor passes
// it to the rescuer at pickup.
func (h *ListingHandler) CreateListing(c *gin.Context) {
	donorID, ok := actorID(c)
	if !ok {
		return
	}

	var req createListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	listing, err := h.listingService.CreateListing(c.Request.Context(), services.CreateListingRequest{
		DonorID:          donorID,
		FoodType:         req.FoodType,
		QuantityKg:       req.QuantityKg,
		Category:         req.Category,
		PerishabilityTag: req.PerishabilityTag,
		Location:         req.Location,
		Address:          req.Address,
		TimeWindow:       req.TimeWindow,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to create listing")
		return
	}

	// Fan out to nearby rescuers in the background; the listing is created
	// either way.
	if task, taskErr := tasks.NewNotifyNearbyTask(listing.ID); taskErr == nil {
		if _, enqErr := h.taskClient.EnqueueContext(c.Request.Context(), task); enqErr != nil {
			log.Printf("Failed to enqueue notify-nearby task for listing %s: %v", listing.ID.String(), enqErr)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"listing":     listing,
		"proof_token": listing.ProofToken,
	})
}

// ListAvailable handles GET /v1/listings.
func (h *ListingHandler) ListAvailable(c *gin.Context) {
	listings, err := h.listingService.ListAvailable(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to list available listings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

// GetListingByID handles GET /v1/listings/:id.
func (h *ListingHandler) GetListingByID(c *gin.Context) {
	listingID, err := utils.ParseSixID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID format"})
		return
	}

	listing, err := h.listingService.FindListingByID(c.Request.Context(), listingID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve listing")
		return
	}
	c.JSON(http.StatusOK, listing)
}

// Claim handles POST /v1/listings/:id/claim. The claiming rescuer is the
// authenticated account.
func (h *ListingHandler) Claim(c *gin.Context) {
	listingID, err := utils.ParseSixID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID format"})
		return
	}
	rescuerID, ok := actorID(c)
	if !ok {
		return
	}

	if err := h.listingService.Claim(c.Request.Context(), listingID, rescuerID); err != nil {
		respondServiceError(c, err, "Failed to claim listing")
		return
	}
	c.JSON(http.StatusOK, gin.H{"listing_id": listingID.String(), "status": "claimed"})
}

// confirmRequest is the JSON body for POST /v1/listings/:id/confirm.
type confirmRequest struct {
	Token string `json:"token"`
}

// ConfirmCompletion handles POST /v1/listings/:id/confirm. The rescuer
// presents the proof token obtained from the donor at pickup.
func (h *ListingHandler) ConfirmCompletion(c *gin.Context) {
	listingID, err := utils.ParseSixID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID format"})
		return
	}
	rescuerID, ok := actorID(c)
	if !ok {
		return
	}

	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	reputation, err := h.listingService.ConfirmCompletion(c.Request.Context(), listingID, rescuerID, req.Token)
	if err != nil {
		respondServiceError(c, err, "Failed to confirm completion")
		return
	}
	c.JSON(http.StatusOK, gin.H{"listing_id": listingID.String(), "status": "completed", "new_reputation": reputation})
}

// actorID pulls the authenticated account's ID out of the Gin context. It
// aborts with 401 when the auth middleware did not run or the ID is mangled.
func actorID(c *gin.Context) (utils.SixID, bool) {
	raw := c.GetString(middleware.ContextKeyAccountID)
	if raw == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return utils.SixID{}, false
	}
	id, err := utils.ParseSixID(raw)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid account ID in token"})
		return utils.SixID{}, false
	}
	return id, true
}
