package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yukikurage/earn-your-wings-api/internal/dto"
	"github.com/yukikurage/earn-your-wings-api/internal/logger"
	"github.com/yukikurage/earn-your-wings-api/internal/models"
	"github.com/yukikurage/earn-your-wings-api/internal/repository"
	"github.com/yukikurage/earn-your-wings-api/internal/services"
	"github.com/yukikurage/earn-your-wings-api/internal/storage"
)

// PortfolioHandlerTestSuite defines the test suite for PortfolioHandler
type PortfolioHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *PortfolioHandler
	store   *storage.Store
	user    *models.User
}

// SetupTest runs before each test
func (suite *PortfolioHandlerTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.TaskCompletion{},
		&models.CompetencyProgress{},
		&models.PortfolioItem{},
	)
	suite.Require().NoError(err)

	log := logger.NewNop()
	taskRepo := repository.NewTaskRepository(suite.db)
	compRepo := repository.NewCompletionRepository(suite.db)
	userRepo := repository.NewUserRepository(suite.db)
	progRepo := repository.NewProgressRepository(suite.db)
	portRepo := repository.NewPortfolioRepository(suite.db)
	suite.store = storage.New(suite.T().TempDir(), log)

	progress := services.NewProgressService(taskRepo, compRepo, progRepo, log)
	portfolioService := services.NewPortfolioService(portRepo, userRepo, progress, suite.store, log)
	suite.handler = NewPortfolioHandler(portfolioService)

	suite.user = &models.User{
		ID:    uuid.NewString(),
		Email: "trainee@example.com",
		Name:  "Test User",
		Role:  models.RoleParticipant,
	}
	suite.db.Create(suite.user)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *PortfolioHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper to build a multipart POST context
func (suite *PortfolioHandlerTestSuite) createUploadContext(userID string, fields map[string]string, filename, mimeType string, fileContent []byte) (*gin.Context, *httptest.ResponseRecorder) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		suite.Require().NoError(writer.WriteField(key, value))
	}
	if fileContent != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
		header.Set("Content-Type", mimeType)
		part, err := writer.CreatePart(header)
		suite.Require().NoError(err)
		_, err = part.Write(fileContent)
		suite.Require().NoError(err)
	}
	suite.Require().NoError(writer.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/users/"+userID+"/portfolio", body)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())
	c.Params = gin.Params{{Key: "id", Value: userID}}
	return c, w
}

// Helper to build a context with id and item_id params
func (suite *PortfolioHandlerTestSuite) createItemContext(method, userID, itemID string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, "/api/users/"+userID+"/portfolio/"+itemID, nil)
	c.Params = gin.Params{
		{Key: "id", Value: userID},
		{Key: "item_id", Value: itemID},
	}
	return c, w
}

// Helper to upload one item and return its DTO
func (suite *PortfolioHandlerTestSuite) uploadItem(fields map[string]string, filename, mimeType string, content []byte) dto.PortfolioItemDTO {
	c, w := suite.createUploadContext(suite.user.ID, fields, filename, mimeType, content)
	suite.handler.CreateItem(c)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var item dto.PortfolioItemDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &item))
	return item
}

// TestCreateItem_Success tests a full upload round trip
func (suite *PortfolioHandlerTestSuite) TestCreateItem_Success() {
	content := []byte("0123456789") // 10 bytes
	item := suite.uploadItem(map[string]string{
		"title":            "Team Award",
		"description":      "Quarterly award photo",
		"competency_areas": "leadership_supervision",
		"visibility":       "managers",
		"tags":             "award,team",
	}, "award.png", "image/png", content)

	assert.Equal(suite.T(), suite.user.ID, item.UserID)
	assert.Equal(suite.T(), "Team Award", item.Title)
	assert.Equal(suite.T(), []string{"leadership_supervision"}, item.CompetencyAreas)
	assert.Equal(suite.T(), []string{"award", "team"}, item.Tags)
	assert.Equal(suite.T(), "award.png", item.OriginalFilename)
	assert.Equal(suite.T(), int64(10), item.FileSize)
	assert.Equal(suite.T(), "image/png", item.MimeType)
	assert.Equal(suite.T(), models.VisibilityManagers, item.Visibility)
	assert.Equal(suite.T(), models.PortfolioStatusActive, item.Status)

	// File lands on disk under the stored path
	var stored models.PortfolioItem
	suite.Require().NoError(suite.db.First(&stored, "id = ?", item.ID).Error)
	assert.True(suite.T(), suite.store.Exists(stored.FilePath))
}

// TestCreateItem_AttachesEvidence tests evidence linkage into progress rows
func (suite *PortfolioHandlerTestSuite) TestCreateItem_AttachesEvidence() {
	item := suite.uploadItem(map[string]string{
		"title":            "Budget Workbook",
		"competency_areas": "financial_management",
	}, "budget.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", []byte("workbook"))

	var rows []models.CompetencyProgress
	suite.Require().NoError(suite.db.Where("user_id = ? AND competency_area = ?",
		suite.user.ID, "financial_management").Find(&rows).Error)
	suite.Require().Len(rows, 4)
	for _, row := range rows {
		var evidence []string
		suite.Require().NoError(json.Unmarshal(row.EvidenceItems, &evidence))
		assert.Contains(suite.T(), evidence, item.ID)
	}

	// Untagged areas stay untouched
	var other models.CompetencyProgress
	suite.Require().NoError(suite.db.Where("user_id = ? AND competency_area = ? AND sub_competency = ?",
		suite.user.ID, "strategic_thinking", "market_analysis").First(&other).Error)
	var evidence []string
	suite.Require().NoError(json.Unmarshal(other.EvidenceItems, &evidence))
	assert.NotContains(suite.T(), evidence, item.ID)
}

// TestCreateItem_DefaultVisibility tests the private default
func (suite *PortfolioHandlerTestSuite) TestCreateItem_DefaultVisibility() {
	item := suite.uploadItem(map[string]string{
		"title": "Notes",
	}, "notes.txt", "text/plain", []byte("some notes"))

	assert.Equal(suite.T(), models.VisibilityPrivate, item.Visibility)
	assert.Equal(suite.T(), []string{}, item.CompetencyAreas)
}

// TestCreateItem_InvalidVisibility tests rejection of unknown visibility values
func (suite *PortfolioHandlerTestSuite) TestCreateItem_InvalidVisibility() {
	c, w := suite.createUploadContext(suite.user.ID, map[string]string{
		"title":      "Notes",
		"visibility": "everyone",
	}, "notes.txt", "text/plain", []byte("some notes"))

	suite.handler.CreateItem(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCreateItem_MissingFile tests that the file part is mandatory
func (suite *PortfolioHandlerTestSuite) TestCreateItem_MissingFile() {
	c, w := suite.createUploadContext(suite.user.ID, map[string]string{
		"title": "No File",
	}, "", "", nil)

	suite.handler.CreateItem(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCreateItem_RejectedExtension tests the extension whitelist
func (suite *PortfolioHandlerTestSuite) TestCreateItem_RejectedExtension() {
	c, w := suite.createUploadContext(suite.user.ID, map[string]string{
		"title": "Script",
	}, "deploy.sh", "text/plain", []byte("#!/bin/sh"))

	suite.handler.CreateItem(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var count int64
	suite.db.Model(&models.PortfolioItem{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

// TestCreateItem_UserNotFound tests uploading for an unknown user
func (suite *PortfolioHandlerTestSuite) TestCreateItem_UserNotFound() {
	c, w := suite.createUploadContext(uuid.NewString(), map[string]string{
		"title": "Orphan",
	}, "notes.txt", "text/plain", []byte("some notes"))

	suite.handler.CreateItem(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestGetItem_Success tests fetching one item
func (suite *PortfolioHandlerTestSuite) TestGetItem_Success() {
	item := suite.uploadItem(map[string]string{"title": "Notes"}, "notes.txt", "text/plain", []byte("some notes"))

	c, w := suite.createItemContext("GET", suite.user.ID, item.ID)
	suite.handler.GetItem(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var fetched dto.PortfolioItemDTO
	err := json.Unmarshal(w.Body.Bytes(), &fetched)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), item.ID, fetched.ID)
	assert.Equal(suite.T(), "Notes", fetched.Title)
}

// TestGetItem_OtherUsersItem tests that ownership is enforced as a 404
func (suite *PortfolioHandlerTestSuite) TestGetItem_OtherUsersItem() {
	item := suite.uploadItem(map[string]string{"title": "Notes"}, "notes.txt", "text/plain", []byte("some notes"))

	other := &models.User{ID: uuid.NewString(), Email: "other@example.com", Name: "Other", Role: models.RoleParticipant}
	suite.db.Create(other)

	c, w := suite.createItemContext("GET", other.ID, item.ID)
	suite.handler.GetItem(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestListItems_ExcludesDeleted tests the listing after a soft delete
func (suite *PortfolioHandlerTestSuite) TestListItems_ExcludesDeleted() {
	kept := suite.uploadItem(map[string]string{"title": "Kept"}, "kept.txt", "text/plain", []byte("kept"))
	dropped := suite.uploadItem(map[string]string{"title": "Dropped"}, "dropped.txt", "text/plain", []byte("dropped"))

	c, w := suite.createItemContext("DELETE", suite.user.ID, dropped.ID)
	suite.handler.DeleteItem(c)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/users/"+suite.user.ID+"/portfolio", nil)
	c.Params = gin.Params{{Key: "id", Value: suite.user.ID}}
	suite.handler.ListItems(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Portfolio []dto.PortfolioItemDTO `json:"portfolio"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	suite.Require().Len(response.Portfolio, 1)
	assert.Equal(suite.T(), kept.ID, response.Portfolio[0].ID)
}

// TestDeleteItem_Success tests the soft delete side effects
func (suite *PortfolioHandlerTestSuite) TestDeleteItem_Success() {
	item := suite.uploadItem(map[string]string{
		"title":            "Linked",
		"competency_areas": "operational_management",
	}, "linked.pdf", "application/pdf", []byte("%PDF-1.4"))

	var stored models.PortfolioItem
	suite.Require().NoError(suite.db.First(&stored, "id = ?", item.ID).Error)
	suite.Require().True(suite.store.Exists(stored.FilePath))

	c, w := suite.createItemContext("DELETE", suite.user.ID, item.ID)
	suite.handler.DeleteItem(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	// Row survives as deleted; the file does not
	suite.Require().NoError(suite.db.First(&stored, "id = ?", item.ID).Error)
	assert.Equal(suite.T(), models.PortfolioStatusDeleted, stored.Status)
	assert.False(suite.T(), suite.store.Exists(stored.FilePath))

	// Evidence references are removed from every tagged leaf
	var rows []models.CompetencyProgress
	suite.Require().NoError(suite.db.Where("user_id = ? AND competency_area = ?",
		suite.user.ID, "operational_management").Find(&rows).Error)
	for _, row := range rows {
		var evidence []string
		suite.Require().NoError(json.Unmarshal(row.EvidenceItems, &evidence))
		assert.NotContains(suite.T(), evidence, item.ID)
	}

	// A second delete is a 404, the item is already gone from the API's view
	c, w = suite.createItemContext("DELETE", suite.user.ID, item.ID)
	suite.handler.DeleteItem(c)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestDeleteItem_NotFound tests deleting a nonexistent item
func (suite *PortfolioHandlerTestSuite) TestDeleteItem_NotFound() {
	c, w := suite.createItemContext("DELETE", suite.user.ID, uuid.NewString())
	suite.handler.DeleteItem(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestSuite runs the test suite
func TestPortfolioHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(PortfolioHandlerTestSuite))
}
