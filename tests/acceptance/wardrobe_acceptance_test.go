package acceptance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/wardrobe-manager/wardrobe-manager-api/config"
	"github.com/wardrobe-manager/wardrobe-manager-api/controllers"
	"github.com/wardrobe-manager/wardrobe-manager-api/models"
	"github.com/wardrobe-manager/wardrobe-manager-api/services"
	"github.com/wardrobe-manager/wardrobe-manager-api/tests/testutil"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// WardrobeAcceptanceTestSuite drives the API through a real HTTP server,
// covering the admin intake flow and the public catalog side by side
type WardrobeAcceptanceTestSuite struct {
	suite.Suite
	server *httptest.Server
	db     *gorm.DB
}

// SetupSuite runs once before all tests
func (suite *WardrobeAcceptanceTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.NoError(err)

	sqlDB, err := db.DB()
	suite.NoError(err)
	sqlDB.SetMaxOpenConns(1)

	suite.NoError(db.AutoMigrate(&models.Garment{}, &models.CustomOption{}))
	suite.db = db
	config.SetDB(db)

	mock := services.NewMockImageService()
	mock.SetAsMockForTesting()

	suite.server = httptest.NewServer(suite.createRouter())
}

// TearDownSuite runs once after all tests
func (suite *WardrobeAcceptanceTestSuite) TearDownSuite() {
	suite.server.Close()
	if suite.db != nil {
		sqlDB, _ := suite.db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	}
}

// SetupTest runs before each test
func (suite *WardrobeAcceptanceTestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM garments")
	suite.db.Exec("DELETE FROM custom_options")
}

// createRouter wires the production routes with mock admin auth
func (suite *WardrobeAcceptanceTestSuite) createRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	requireAdmin := testutil.MockAuthMiddleware("auth0|admin", "admin@example.com")

	v1 := router.Group("/api/v1")
	{
		public := v1.Group("/public")
		{
			public.GET("/garments", controllers.ListPublicGarments)
			public.GET("/garments/:id", controllers.GetPublicGarment)
			public.GET("/garments/:id/alternatives", controllers.GetAlternatives)
			public.POST("/garments/:id/reserve", controllers.ReserveGarment)
		}

		admin := v1.Group("", requireAdmin)
		{
			admin.GET("/garments", controllers.ListGarments)
			admin.POST("/garments", controllers.CreateGarment)
			admin.GET("/garments/:id", controllers.GetGarment)
			admin.PATCH("/garments/:id", controllers.UpdateGarment)
			admin.DELETE("/garments/:id", controllers.DeleteGarment)

			admin.GET("/options", controllers.ListOptions)
			admin.POST("/options", controllers.CreateOption)

			admin.POST("/photos/upload", controllers.UploadPhotos)
			admin.POST("/photos/rename", controllers.RenamePhoto)

			admin.POST("/admin/unreserve", controllers.Unreserve)
		}
	}

	return router
}

func (suite *WardrobeAcceptanceTestSuite) request(method, path string, body any) (*http.Response, map[string]interface{}) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		suite.NoError(err)
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, suite.server.URL+path, reader)
	suite.NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	suite.NoError(err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	suite.NoError(err)

	var parsed map[string]interface{}
	suite.NoError(json.Unmarshal(raw, &parsed))
	return resp, parsed
}

func (suite *WardrobeAcceptanceTestSuite) uploadPhoto(fileName string) string {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("files", fileName)
	suite.NoError(err)
	_, err = part.Write([]byte("image-bytes"))
	suite.NoError(err)
	suite.NoError(writer.Close())

	req, err := http.NewRequest(http.MethodPost, suite.server.URL+"/api/v1/photos/upload", &buf)
	suite.NoError(err)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	suite.NoError(err)
	defer resp.Body.Close()
	suite.Equal(http.StatusOK, resp.StatusCode)

	var parsed map[string]interface{}
	suite.NoError(json.NewDecoder(resp.Body).Decode(&parsed))
	files := parsed["data"].(map[string]interface{})["files"].([]interface{})
	return files[0].(map[string]interface{})["src"].(string)
}

// TestIntakeToCompleteGarment walks a garment from empty draft to a
// complete listing visible in the public catalog
func (suite *WardrobeAcceptanceTestSuite) TestIntakeToCompleteGarment() {
	// Intake starts with a bare draft
	resp, created := suite.request(http.MethodPost, "/api/v1/garments", gin.H{
		"id": "g1",
	})
	assert.Equal(suite.T(), http.StatusCreated, resp.StatusCode)
	data := created["data"].(map[string]interface{})
	assert.Equal(suite.T(), models.StatusDraft, data["completionStatus"])

	// Photo arrives
	src := suite.uploadPhoto("coat.jpg")
	resp, patched := suite.request(http.MethodPatch, "/api/v1/garments/g1", gin.H{
		"photos": []gin.H{{"id": "p1", "src": src}},
	})
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	data = patched["data"].(map[string]interface{})
	assert.Equal(suite.T(), models.StatusDraft, data["completionStatus"], "photo alone is not enough")

	// Naming it completes it
	resp, patched = suite.request(http.MethodPatch, "/api/v1/garments/g1", gin.H{
		"name": "Midnight coat",
	})
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	data = patched["data"].(map[string]interface{})
	assert.Equal(suite.T(), models.StatusComplete, data["completionStatus"])

	// Publicly visible with the photo attached
	resp, detail := suite.request(http.MethodGet, "/api/v1/public/garments/g1", nil)
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	publicData := detail["data"].(map[string]interface{})
	assert.Equal(suite.T(), "Midnight coat", publicData["name"])
	photos := publicData["photos"].([]interface{})
	assert.Equal(suite.T(), src, photos[0].(map[string]interface{})["src"])
}

// TestReservationLifecycle reserves through the public API and releases
// through the admin API
func (suite *WardrobeAcceptanceTestSuite) TestReservationLifecycle() {
	resp, _ := suite.request(http.MethodPost, "/api/v1/garments", gin.H{
		"id":     "g1",
		"name":   "Midnight coat",
		"photos": []gin.H{{"id": "p1", "src": "/api/v1/uploads/a.jpg"}},
	})
	assert.Equal(suite.T(), http.StatusCreated, resp.StatusCode)

	resp, _ = suite.request(http.MethodPost, "/api/v1/public/garments/g1/reserve",
		gin.H{"reservationToken": "tok-a"})
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	resp, conflict := suite.request(http.MethodPost, "/api/v1/public/garments/g1/reserve",
		gin.H{"reservationToken": "tok-b"})
	assert.Equal(suite.T(), http.StatusConflict, resp.StatusCode)
	assert.Equal(suite.T(), "NOT_AVAILABLE", conflict["error"])

	resp, released := suite.request(http.MethodPost, "/api/v1/admin/unreserve",
		gin.H{"ids": []string{"g1"}})
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	assert.Equal(suite.T(), float64(1), released["data"].(map[string]interface{})["cleared"])

	resp, _ = suite.request(http.MethodPost, "/api/v1/public/garments/g1/reserve",
		gin.H{"reservationToken": "tok-b"})
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
}

// TestCustomOptionsFlow adds "Other" values and reads them back grouped
func (suite *WardrobeAcceptanceTestSuite) TestCustomOptionsFlow() {
	for _, pair := range [][2]string{
		{"vibes", "cottagecore"},
		{"vibes", "Cottagecore"},
		{"era", "Y2K"},
	} {
		resp, _ := suite.request(http.MethodPost, "/api/v1/options",
			gin.H{"category": pair[0], "value": pair[1]})
		assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	}

	resp, listing := suite.request(http.MethodGet, "/api/v1/options?category=vibes", nil)
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	data := listing["data"].(map[string]interface{})
	options := data["options"].([]interface{})
	assert.Len(suite.T(), options, 1, "duplicate casing must not duplicate the option")
	assert.Equal(suite.T(), "cottagecore", options[0])
}

// TestAdminListOrdering verifies garments come back latest first
func (suite *WardrobeAcceptanceTestSuite) TestAdminListOrdering() {
	for i, id := range []string{"g1", "g2", "g3"} {
		resp, _ := suite.request(http.MethodPost, "/api/v1/garments", gin.H{
			"id":        id,
			"name":      fmt.Sprintf("Garment %d", i+1),
			"updatedAt": fmt.Sprintf("2026-08-0%dT00:00:00.000Z", i+1),
			"createdAt": fmt.Sprintf("2026-08-0%dT00:00:00.000Z", i+1),
		})
		assert.Equal(suite.T(), http.StatusCreated, resp.StatusCode)
	}

	resp, listing := suite.request(http.MethodGet, "/api/v1/garments", nil)
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	garments := listing["data"].([]interface{})
	assert.Len(suite.T(), garments, 3)
	assert.Equal(suite.T(), "g3", garments[0].(map[string]interface{})["id"])
	assert.Equal(suite.T(), "g1", garments[2].(map[string]interface{})["id"])
}

func TestWardrobeAcceptanceTestSuite(t *testing.T) {
	suite.Run(t, new(WardrobeAcceptanceTestSuite))
}
