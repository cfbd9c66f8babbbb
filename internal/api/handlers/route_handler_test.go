package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tolo017/eco-sawa/internal/api/handlers"
	"github.com/tolo017/eco-sawa/internal/config"
	"github.com/tolo017/eco-sawa/internal/geo"
	"github.com/tolo017/eco-sawa/internal/models"
	"github.com/tolo017/eco-sawa/internal/utils"
)

func setupRouteRouter(mockListingSvc *MockListingService, cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := handlers.NewRouteHandler(mockListingSvc, cfg)
	r := gin.New()
	r.POST("/v1/route/optimize", handler.Optimize)
	return r
}

func TestRouteHandler_Optimize_OrdersByDistance(t *testing.T) {
	mockListingSvc := new(MockListingService)
	r := setupRouteRouter(mockListingSvc, &config.Config{MaxRoutePoints: 25})

	nearID := utils.NewSixID()
	farID := utils.NewSixID()
	// far first in the request; both untagged so distance decides
	listings := []models.Listing{
		{ID: farID, Location: geo.Coordinate{Lat: -1.5, Lon: 37.0}},
		{ID: nearID, Location: geo.Coordinate{Lat: -1.29, Lon: 36.83}},
	}
	mockListingSvc.On("FindListingsByIDs", mock.Anything, []utils.SixID{farID, nearID}).Return(listings, nil)

	w := postJSON(r, "/v1/route/optimize", gin.H{
		"rescuerLocation": gin.H{"lat": -1.2864, "lon": 36.8172}, // Nairobi CBD
		"listingIds":      []string{farID.String(), nearID.String()},
	})

	require.Equal(t, http.StatusOK, w.Code)
	var respBody struct {
		Route struct {
			Order []struct {
				ID string `json:"id"`
			} `json:"order"`
			TotalDistanceKm float64 `json:"total_distance_km"`
		} `json:"route"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	require.Len(t, respBody.Route.Order, 2)
	assert.Equal(t, nearID.String(), respBody.Route.Order[0].ID)
	assert.Equal(t, farID.String(), respBody.Route.Order[1].ID)
	assert.Greater(t, respBody.Route.TotalDistanceKm, 0.0)
	mockListingSvc.AssertExpectations(t)
}

func TestRouteHandler_Optimize_BadPayload(t *testing.T) {
	r := setupRouteRouter(new(MockListingService), &config.Config{})

	w := postJSON(r, "/v1/route/optimize", gin.H{"listingIds": []string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(r, "/v1/route/optimize", gin.H{"rescuerLocation": gin.H{"lat": 0, "lon": 0}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouteHandler_Optimize_RejectsOutOfRangeStart(t *testing.T) {
	r := setupRouteRouter(new(MockListingService), &config.Config{})

	w := postJSON(r, "/v1/route/optimize", gin.H{
		"rescuerLocation": gin.H{"lat": 97.0, "lon": 36.8},
		"listingIds":      []string{utils.NewSixID().String()},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouteHandler_Optimize_TooManyPoints(t *testing.T) {
	r := setupRouteRouter(new(MockListingService), &config.Config{MaxRoutePoints: 2})

	ids := []string{utils.NewSixID().String(), utils.NewSixID().String(), utils.NewSixID().String()}
	w := postJSON(r, "/v1/route/optimize", gin.H{
		"rescuerLocation": gin.H{"lat": -1.28, "lon": 36.82},
		"listingIds":      ids,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouteHandler_Optimize_SkipsInvalidCoordinates(t *testing.T) {
	mockListingSvc := new(MockListingService)
	r := setupRouteRouter(mockListingSvc, &config.Config{MaxRoutePoints: 25})

	okID := utils.NewSixID()
	badID := utils.NewSixID()
	listings := []models.Listing{
		{ID: okID, Location: geo.Coordinate{Lat: -1.3, Lon: 36.8}},
		{ID: badID, Location: geo.Coordinate{Lat: 212.0, Lon: 36.8}},
	}
	mockListingSvc.On("FindListingsByIDs", mock.Anything, mock.Anything).Return(listings, nil)

	w := postJSON(r, "/v1/route/optimize", gin.H{
		"rescuerLocation": gin.H{"lat": -1.2864, "lon": 36.8172},
		"listingIds":      []string{okID.String(), badID.String()},
	})

	require.Equal(t, http.StatusOK, w.Code)
	var respBody struct {
		Route struct {
			Order   []map[string]interface{} `json:"order"`
			Skipped []map[string]interface{} `json:"skipped"`
		} `json:"route"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Len(t, respBody.Route.Order, 1)
	assert.Len(t, respBody.Route.Skipped, 1)
}
