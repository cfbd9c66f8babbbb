package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tolo017/eco-sawa/internal/config"
	"github.com/tolo017/eco-sawa/internal/services"
	"github.com/tolo017/eco-sawa/internal/utils"
)

// BookingHandler handles REST requests for payment bookings.
type BookingHandler struct {
	bookingService services.IBookingService
	cfg            *config.Config
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService services.IBookingService, cfg *config.Config) *BookingHandler {
	return &BookingHandler{bookingService: bookingService, cfg: cfg}
}

// createBookingRequest is the JSON body for POST /v1/bookings.
type createBookingRequest struct {
	ListingID string  `json:"listingId"`
	AmountKES float64 `json:"amountKES"`
}

// CreateBooking handles POST /v1/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	listingID, err := utils.ParseSixID(req.ListingID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID format"})
		return
	}

	amount := req.AmountKES
	if amount == 0 {
		amount = h.cfg.DefaultBookingKES
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), listingID, amount)
	if err != nil {
		respondServiceError(c, err, "Failed to create booking")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

// ConfirmBooking handles POST /v1/bookings/:id/confirm.
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	booking, err := h.bookingService.ConfirmBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to confirm booking")
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// GetBookingByID handles GET /v1/bookings/:id.
func (h *BookingHandler) GetBookingByID(c *gin.Context) {
	booking, err := h.bookingService.FindBookingByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve booking")
		return
	}
	c.JSON(http.StatusOK, booking)
}
