package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tolo017/eco-sawa/internal/auth"
	"github.com/tolo017/eco-sawa/internal/config"
	"github.com/tolo017/eco-sawa/internal/geo"
	"github.com/tolo017/eco-sawa/internal/models"
	"github.com/tolo017/eco-sawa/internal/services"
)

// AuthHandler handles account registration and login.
type AuthHandler struct {
	accountService services.IAccountService
	cfg            *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accountService services.IAccountService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{accountService: accountService, cfg: cfg}
}

// registerRequest is the JSON body for POST /v1/auth/register.
type registerRequest struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     string          `json:"role"`
	Location *geo.Coordinate `json:"location"`
}

// Register handles POST /v1/auth/register. A donor or rescuer record sharing
// the account's ID is created alongside, and a JWT is issued immediately.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	account, err := h.accountService.Register(c.Request.Context(), req.Name, req.Email, req.Password, models.Role(req.Role), req.Location)
	if err != nil {
		respondServiceError(c, err, "Failed to register account")
		return
	}

	token, err := auth.GenerateJWT(account.ID, account.Role, h.cfg.JwtSecret, h.cfg.JwtTTL)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"account": account, "token": token})
}

// loginRequest is the JSON body for POST /v1/auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	account, err := h.accountService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err, "Failed to log in")
		return
	}

	token, err := auth.GenerateJWT(account.ID, account.Role, h.cfg.JwtSecret, h.cfg.JwtTTL)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account, "token": token})
}
