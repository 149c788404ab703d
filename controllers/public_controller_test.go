package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/wardrobe-manager/wardrobe-manager-api/config"
	"github.com/wardrobe-manager/wardrobe-manager-api/models"
)

func setupPublicRouter() *gin.Engine {
	router := setupTestRouter()
	public := router.Group("/api/v1/public")
	{
		public.GET("/garments", ListPublicGarments)
		public.GET("/garments/:id", GetPublicGarment)
		public.GET("/garments/:id/alternatives", GetAlternatives)
		public.POST("/garments/:id/reserve", ReserveGarment)
	}
	return router
}

func TestListPublicGarments(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	createTestGarment(t, db, "g1", "Midnight coat", models.StateAvailable)
	createTestGarment(t, db, "g2", "Velvet blazer", models.StateReserved)
	createTestGarment(t, db, "g3", "Silk slip", models.StateAvailable)

	router := setupPublicRouter()
	w := doJSON(t, router, http.MethodGet, "/api/v1/public/garments", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	response := parseResponse(t, w)
	assert.Nil(t, response["nextCursor"])

	cards := response["data"].([]interface{})
	assert.Len(t, cards, 2)
	for _, raw := range cards {
		card := raw.(map[string]interface{})
		assert.Equal(t, models.StateAvailable, card["state"])
		assert.NotEmpty(t, card["primaryPhotoUrl"])
		assert.Contains(t, card, "tags")
	}
}

func TestListPublicGarments_Limit(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	for _, id := range []string{"g1", "g2", "g3"} {
		createTestGarment(t, db, id, "Garment "+id, models.StateAvailable)
	}

	router := setupPublicRouter()

	w := doJSON(t, router, http.MethodGet, "/api/v1/public/garments?limit=2", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, parseResponse(t, w)["data"].([]interface{}), 2)

	// Nonsense limits fall back to the default
	w = doJSON(t, router, http.MethodGet, "/api/v1/public/garments?limit=banana", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, parseResponse(t, w)["data"].([]interface{}), 3)

	w = doJSON(t, router, http.MethodGet, "/api/v1/public/garments?limit=0", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, parseResponse(t, w)["data"].([]interface{}), 1)
}

func TestGetPublicGarment(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	createTestGarment(t, db, "g1", "Midnight coat", models.StateAvailable)

	router := setupPublicRouter()

	w := doJSON(t, router, http.MethodGet, "/api/v1/public/garments/g1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	data := parseResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "g1", data["id"])
	assert.Equal(t, "Midnight coat", data["name"])
	attrs := data["attributes"].(map[string]interface{})
	assert.Equal(t, models.StateAvailable, attrs["state"])

	w = doJSON(t, router, http.MethodGet, "/api/v1/public/garments/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", parseResponse(t, w)["error"])
}

func TestGetPublicGarment_UntitledNameIsNull(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	createTestGarment(t, db, "g1", "", models.StateAvailable)

	router := setupPublicRouter()
	w := doJSON(t, router, http.MethodGet, "/api/v1/public/garments/g1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	data := parseResponse(t, w)["data"].(map[string]interface{})
	assert.Nil(t, data["name"])
}

func TestGetAlternatives_Endpoint(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	createTestGarment(t, db, "seed", "Midnight coat", models.StateAvailable)
	createTestGarment(t, db, "alt1", "Velvet blazer", models.StateAvailable)
	createTestGarment(t, db, "alt2", "Silk slip", models.StateReserved)

	router := setupPublicRouter()

	w := doJSON(t, router, http.MethodGet, "/api/v1/public/garments/seed/alternatives", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	cards := parseResponse(t, w)["data"].([]interface{})
	assert.Len(t, cards, 1)
	assert.Equal(t, "alt1", cards[0].(map[string]interface{})["id"])

	w = doJSON(t, router, http.MethodGet, "/api/v1/public/garments/missing/alternatives", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", parseResponse(t, w)["error"])
}

func TestReserveGarment_Endpoint(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	createTestGarment(t, db, "g1", "Midnight coat", models.StateAvailable)

	router := setupPublicRouter()

	// First reservation wins
	w := doJSON(t, router, http.MethodPost, "/api/v1/public/garments/g1/reserve",
		map[string]interface{}{"reservationToken": "tok-a"})
	assert.Equal(t, http.StatusOK, w.Code)

	data := parseResponse(t, w)["data"].(map[string]interface{})
	attrs := data["attributes"].(map[string]interface{})
	assert.Equal(t, models.StateReserved, attrs["state"])
	assert.Equal(t, "tok-a", attrs["reservedByToken"])
	assert.NotEmpty(t, attrs["reservedAt"])

	// Second reservation conflicts and reports the actual state
	w = doJSON(t, router, http.MethodPost, "/api/v1/public/garments/g1/reserve",
		map[string]interface{}{"reservationToken": "tok-b"})
	assert.Equal(t, http.StatusConflict, w.Code)

	response := parseResponse(t, w)
	assert.Equal(t, "NOT_AVAILABLE", response["error"])
	conflictData := response["data"].(map[string]interface{})
	assert.Equal(t, models.StateReserved, conflictData["state"])

	// The winning token is untouched
	var stored models.Garment
	assert.NoError(t, db.Where("id = ?", "g1").First(&stored).Error)
	assert.Equal(t, "tok-a", *stored.Attributes.ReservedByToken)
}

func TestReserveGarment_Validation(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	createTestGarment(t, db, "g1", "Midnight coat", models.StateAvailable)

	router := setupPublicRouter()

	tests := []struct {
		name        string
		garmentID   string
		requestBody map[string]interface{}
		status      int
		errorCode   string
	}{
		{
			name:        "Missing token",
			garmentID:   "g1",
			requestBody: map[string]interface{}{},
			status:      http.StatusBadRequest,
			errorCode:   "BAD_REQUEST",
		},
		{
			name:        "Blank token",
			garmentID:   "g1",
			requestBody: map[string]interface{}{"reservationToken": "   "},
			status:      http.StatusBadRequest,
			errorCode:   "BAD_REQUEST",
		},
		{
			name:        "Unknown garment",
			garmentID:   "missing",
			requestBody: map[string]interface{}{"reservationToken": "tok-a"},
			status:      http.StatusNotFound,
			errorCode:   "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/v1/public/garments/"+tt.garmentID+"/reserve", tt.requestBody)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.errorCode, parseResponse(t, w)["error"])
		})
	}
}
