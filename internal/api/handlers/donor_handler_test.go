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
	"github.com/tolo017/eco-sawa/internal/services"
	"github.com/tolo017/eco-sawa/internal/utils"
)

func TestDonorHandler_RegisterDonor_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockDonorSvc := new(MockDonorService)
	handler := handlers.NewDonorHandler(mockDonorSvc)

	r := gin.New()
	r.POST("/v1/donors", handler.RegisterDonor)

	donor := &models.Donor{ID: utils.NewSixID(), Name: "Mama Njeri's Kitchen", Reputation: models.DefaultReputation}
	mockDonorSvc.On("RegisterDonor", mock.Anything, (*utils.SixID)(nil), "Mama Njeri's Kitchen", "0712345678").Return(donor, nil)

	w := postJSON(r, "/v1/donors", gin.H{"name": "Mama Njeri's Kitchen", "phone": "0712345678"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), donor.ID.String())
	mockDonorSvc.AssertExpectations(t)
}

func TestDonorHandler_RegisterDonor_WithExistingID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockDonorSvc := new(MockDonorService)
	handler := handlers.NewDonorHandler(mockDonorSvc)

	r := gin.New()
	r.POST("/v1/donors", handler.RegisterDonor)

	id := utils.NewSixID()
	donor := &models.Donor{ID: id, Name: "Renamed"}
	mockDonorSvc.On("RegisterDonor", mock.Anything, &id, "Renamed", "").Return(donor, nil)

	w := postJSON(r, "/v1/donors", gin.H{"id": id.String(), "name": "Renamed"})
	assert.Equal(t, http.StatusOK, w.Code)
	mockDonorSvc.AssertExpectations(t)
}

func TestDonorHandler_GetDonorReputation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockDonorSvc := new(MockDonorService)
	handler := handlers.NewDonorHandler(mockDonorSvc)

	r := gin.New()
	r.GET("/v1/donors/:id/reputation", handler.GetDonorReputation)

	donorID := utils.NewSixID()
	mockDonorSvc.On("FindDonorByID", mock.Anything, donorID).
		Return(&models.Donor{ID: donorID, Reputation: 2.5}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/donors/"+donorID.String()+"/reputation", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var respBody map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Equal(t, 2.5, respBody["reputation"])
}

func TestDonorHandler_GetDonorReputation_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockDonorSvc := new(MockDonorService)
	handler := handlers.NewDonorHandler(mockDonorSvc)

	r := gin.New()
	r.GET("/v1/donors/:id/reputation", handler.GetDonorReputation)

	donorID := utils.NewSixID()
	mockDonorSvc.On("FindDonorByID", mock.Anything, donorID).Return(nil, services.ErrNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/donors/"+donorID.String()+"/reputation", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
