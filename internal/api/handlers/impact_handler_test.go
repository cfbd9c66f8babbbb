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
	"github.com/tolo017/eco-sawa/internal/models"
)

func TestImpactHandler_CurrentImpact(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockImpactSvc := new(MockImpactService)
	handler := handlers.NewImpactHandler(mockImpactSvc)

	r := gin.New()
	r.GET("/v1/impact", handler.CurrentImpact)

	mockImpactSvc.On("CurrentImpact", mock.Anything).
		Return(&models.Impact{TotalKg: 12.5, PickupsToday: 3}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/impact", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var respBody map[string]models.Impact
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Equal(t, 12.5, respBody["impact"].TotalKg)
	assert.Equal(t, int64(3), respBody["impact"].PickupsToday)
}

func TestImpactHandler_ImpactForDay(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockImpactSvc := new(MockImpactService)
	handler := handlers.NewImpactHandler(mockImpactSvc)

	r := gin.New()
	r.GET("/v1/impact/:day", handler.ImpactForDay)

	mockImpactSvc.On("ImpactForDay", mock.Anything, "2026-08-30").
		Return(&models.ImpactEntry{Day: "2026-08-30", TotalKg: 8, Pickups: 2}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/impact/2026-08-30", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "2026-08-30")
}
