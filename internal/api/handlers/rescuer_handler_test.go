package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tolo017/eco-sawa/internal/api/handlers"
	"github.com/tolo017/eco-sawa/internal/geo"
	"github.com/tolo017/eco-sawa/internal/models"
	"github.com/tolo017/eco-sawa/internal/utils"
)

func TestRescuerHandler_RegisterRescuer_WithLocation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRescuerSvc := new(MockRescuerService)
	handler := handlers.NewRescuerHandler(mockRescuerSvc)

	r := gin.New()
	r.POST("/v1/rescuers", handler.RegisterRescuer)

	loc := &geo.Coordinate{Lat: -1.3, Lon: 36.8}
	rescuer := &models.Rescuer{ID: utils.NewSixID(), Name: "Kibera Riders", Location: loc}
	mockRescuerSvc.On("RegisterRescuer", mock.Anything, (*utils.SixID)(nil), "Kibera Riders", "", loc).Return(rescuer, nil)

	w := postJSON(r, "/v1/rescuers", gin.H{
		"name":     "Kibera Riders",
		"location": gin.H{"lat": -1.3, "lon": 36.8},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), rescuer.ID.String())
	mockRescuerSvc.AssertExpectations(t)
}

func TestRescuerHandler_Nearby(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRescuerSvc := new(MockRescuerService)
	handler := handlers.NewRescuerHandler(mockRescuerSvc)

	r := gin.New()
	r.GET("/v1/rescuers/nearby", handler.Nearby)

	expected := []models.Rescuer{{ID: utils.NewSixID(), Name: "Close By"}}
	mockRescuerSvc.On("FindNearby", mock.Anything, geo.Coordinate{Lat: -1.28, Lon: 36.82}, 3.0).Return(expected, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/rescuers/nearby?lat=-1.28&lon=36.82&radius_km=3", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var respBody map[string][]models.Rescuer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Len(t, respBody["rescuers"], 1)
	mockRescuerSvc.AssertExpectations(t)
}

func TestRescuerHandler_Nearby_DefaultRadius(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRescuerSvc := new(MockRescuerService)
	handler := handlers.NewRescuerHandler(mockRescuerSvc)

	r := gin.New()
	r.GET("/v1/rescuers/nearby", handler.Nearby)

	mockRescuerSvc.On("FindNearby", mock.Anything, geo.Coordinate{Lat: -1.28, Lon: 36.82}, 5.0).Return([]models.Rescuer{}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/rescuers/nearby?lat=-1.28&lon=36.82", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockRescuerSvc.AssertExpectations(t)
}

func TestRescuerHandler_Nearby_MissingCoordinates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := handlers.NewRescuerHandler(new(MockRescuerService))

	r := gin.New()
	r.GET("/v1/rescuers/nearby", handler.Nearby)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/rescuers/nearby?lat=-1.28", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRescuerHandler_ClaimedListings(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRescuerSvc := new(MockRescuerService)
	handler := handlers.NewRescuerHandler(mockRescuerSvc)

	r := gin.New()
	r.GET("/v1/rescuers/:id/claimed", handler.ClaimedListings)

	rescuerID := utils.NewSixID()
	claimed := []utils.SixID{utils.NewSixID(), utils.NewSixID()}
	mockRescuerSvc.On("ClaimedListingIDs", mock.Anything, rescuerID).Return(claimed, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/rescuers/"+rescuerID.String()+"/claimed", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var respBody map[string][]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Equal(t, []string{claimed[0].String(), claimed[1].String()}, respBody["listing_ids"])
}
