package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tolo017/eco-sawa/internal/api/handlers"
	"github.com/tolo017/eco-sawa/internal/api/middleware"
	"github.com/tolo017/eco-sawa/internal/config"
	"github.com/tolo017/eco-sawa/internal/models"
	"github.com/tolo017/eco-sawa/internal/notify"
	"github.com/tolo017/eco-sawa/internal/services"
)

// SetupRouter configures and returns the main Gin engine.
func SetupRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, taskClient handlers.IAsynqClient) *gin.Engine {
	// Initialize services needed by API handlers
	donorService := services.NewDonorService(db)
	rescuerService := services.NewRescuerService(db)
	impactService := services.NewImpactService(db)
	listingService := services.NewListingService(db, cfg, impactService, donorService)
	bookingService := services.NewBookingService(db, listingService)
	accountService := services.NewAccountService(db, donorService, rescuerService)

	r := gin.Default()

	// Apply global middleware first (order matters)
	rateLimiter := middleware.NewRateLimiterMiddleware(cfg)
	r.Use(middleware.CORSMiddleware())
	r.Use(rateLimiter.Limit())

	// Initialize handlers
	listingHandler := handlers.NewListingHandler(listingService, taskClient)
	donorHandler := handlers.NewDonorHandler(donorService)
	rescuerHandler := handlers.NewRescuerHandler(rescuerService)
	routeHandler := handlers.NewRouteHandler(listingService, cfg)
	impactHandler := handlers.NewImpactHandler(impactService)
	bookingHandler := handlers.NewBookingHandler(bookingService, cfg)
	authHandler := handlers.NewAuthHandler(accountService, cfg)

	v1 := r.Group("/v1")
	{
		// Public routes (rate limiting already applied globally)
		v1.POST("/auth/register", authHandler.Register)
		v1.POST("/auth/login", authHandler.Login)

		v1.GET("/listings", listingHandler.ListAvailable)
		v1.GET("/listings/:id", listingHandler.GetListingByID)

		v1.POST("/donors", donorHandler.RegisterDonor)
		v1.GET("/donors/:id/reputation", donorHandler.GetDonorReputation)

		v1.POST("/rescuers", rescuerHandler.RegisterRescuer)
		v1.GET("/rescuers/nearby", rescuerHandler.Nearby)
		v1.GET("/rescuers/:id/claimed", rescuerHandler.ClaimedListings)

		v1.GET("/impact", impactHandler.CurrentImpact)
		v1.GET("/impact/:day", impactHandler.ImpactForDay)

		v1.POST("/bookings", bookingHandler.CreateBooking)
		v1.POST("/bookings/:id/confirm", bookingHandler.ConfirmBooking)
		v1.GET("/bookings/:id", bookingHandler.GetBookingByID)

		v1.POST("/route/optimize", routeHandler.Optimize)

		v1.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})

		// Lifecycle transitions require an authenticated actor; the JWT
		// subject doubles as the donor/rescuer ID.
		donorRequired := v1.Group("/", middleware.AuthMiddleware(cfg.JwtSecret), middleware.RequireRole(models.RoleDonor))
		{
			donorRequired.POST("/listings", listingHandler.CreateListing)
		}

		rescuerRequired := v1.Group("/", middleware.AuthMiddleware(cfg.JwtSecret), middleware.RequireRole(models.RoleRescuer))
		{
			rescuerRequired.POST("/listings/:id/claim", listingHandler.Claim)
			rescuerRequired.POST("/listings/:id/confirm", listingHandler.ConfirmCompletion)
		}
	}

	return r
}

// SetupServiceRouter configures and returns the internal service Gin engine.
// It exposes shutdown and, with MOCK_SERVICES, retrieval of mock pushes.
func SetupServiceRouter(cfg *config.Config, rdb *redis.Client, shutdownChan chan<- struct{}) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.POST("/api", func(c *gin.Context) {
		var req struct {
			Method    string          `json:"method"`
			Arguments json.RawMessage `json:"arguments"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request format"})
			return
		}

		switch req.Method {
		case "shutdown":
			log.Println("Received shutdown command via Service API")
			c.JSON(http.StatusOK, gin.H{"success": true, "result": "Shutdown initiated"})
			select {
			case shutdownChan <- struct{}{}:
				log.Println("Shutdown signal sent successfully.")
			default:
				log.Println("Shutdown channel already signaled or blocked.")
			}
		case "getTestPush":
			if !cfg.MockServicesEnabled {
				c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Mock services disabled"})
				return
			}
			var args []string // Expect ["rescuer_id"]
			if err := json.Unmarshal(req.Arguments, &args); err != nil || len(args) != 1 {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid arguments: expected JSON array [rescuerId]"})
				return
			}
			redisKey := notify.MockPushKey(args[0])

			// Poll Redis briefly: the fan-out runs on the bg worker, so the
			// push may land slightly after the listing creation returns.
			var pushJSON string
			var getErr error
			found := false
			ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
			defer cancel()
			for i := 0; i < 10; i++ {
				pushJSON, getErr = rdb.Get(ctx, redisKey).Result()
				if getErr == nil {
					found = true
					rdb.Del(ctx, redisKey) // Delete after fetching
					break
				}
				if getErr != redis.Nil {
					log.Printf("Service API: Error getting key %s from Redis: %v", redisKey, getErr)
					c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Redis error"})
					return
				}
				time.Sleep(200 * time.Millisecond)
			}

			if !found {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": fmt.Sprintf("Test push not found in Redis for key %s", redisKey)})
				return
			}

			var pushData map[string]interface{}
			if err := json.Unmarshal([]byte(pushJSON), &pushData); err != nil {
				log.Printf("Service API: Error unmarshalling push data from key %s: %v", redisKey, err)
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to parse stored push data"})
				return
			}

			c.JSON(http.StatusOK, gin.H{"success": true, "data": pushData})

		default:
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": fmt.Sprintf("Unknown service method: %s", req.Method)})
		}
	})
	return r
}
