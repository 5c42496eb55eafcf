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

	"github.com/yukikurage/earn-your-wings-api/internal/logger"
	"github.com/yukikurage/earn-your-wings-api/internal/models"
	"github.com/yukikurage/earn-your-wings-api/internal/repository"
	"github.com/yukikurage/earn-your-wings-api/internal/services"
	"github.com/yukikurage/earn-your-wings-api/internal/storage"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *TaskHandler
	store   *storage.Store
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
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
	suite.store = storage.New(suite.T().TempDir(), log)

	progress := services.NewProgressService(taskRepo, compRepo, progRepo, log)
	taskService := services.NewTaskService(taskRepo, compRepo, userRepo, progress, suite.store)
	suite.handler = NewTaskHandler(taskService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper functions to create test data
func (suite *TaskHandlerTestSuite) createTestUser(email string) *models.User {
	user := &models.User{
		ID:    uuid.NewString(),
		Email: email,
		Name:  "Test User",
		Role:  models.RoleParticipant,
	}
	suite.db.Create(user)
	return user
}

func (suite *TaskHandlerTestSuite) createTestTask(title, area, sub string, order int) *models.Task {
	task := &models.Task{
		ID:             uuid.NewString(),
		Title:          title,
		TaskType:       models.TaskTypeCourseLink,
		CompetencyArea: area,
		SubCompetency:  sub,
		Order:          order,
		Required:       true,
		Active:         true,
	}
	suite.db.Create(task)
	return task
}

// Helper to build a test context for a plain GET
func (suite *TaskHandlerTestSuite) createGetContext(url string, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", url, nil)
	c.Params = params
	return c, w
}

// Helper to build a multipart POST context. fileContent of nil means no file part.
func (suite *TaskHandlerTestSuite) createMultipartContext(url string, params gin.Params, fields map[string]string, filename, mimeType string, fileContent []byte) (*gin.Context, *httptest.ResponseRecorder) {
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
	c.Request = httptest.NewRequest("POST", url, body)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())
	c.Params = params
	return c, w
}

// TestListTasks_OrderedBySortOrder tests that tasks come back in sort order
func (suite *TaskHandlerTestSuite) TestListTasks_OrderedBySortOrder() {
	suite.createTestTask("Second", "financial_management", "budget_preparation", 2)
	suite.createTestTask("First", "financial_management", "budget_preparation", 1)

	c, w := suite.createGetContext("/api/tasks", nil)

	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Tasks []models.Task `json:"tasks"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	suite.Require().Len(response.Tasks, 2)
	assert.Equal(suite.T(), "First", response.Tasks[0].Title)
	assert.Equal(suite.T(), "Second", response.Tasks[1].Title)
}

// TestListTasks_ExcludesInactive tests that deactivated tasks are hidden
func (suite *TaskHandlerTestSuite) TestListTasks_ExcludesInactive() {
	active := suite.createTestTask("Active", "financial_management", "budget_preparation", 1)
	inactive := suite.createTestTask("Inactive", "financial_management", "budget_preparation", 2)
	suite.db.Model(inactive).Update("active", false)

	c, w := suite.createGetContext("/api/tasks", nil)

	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Tasks []models.Task `json:"tasks"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	suite.Require().Len(response.Tasks, 1)
	assert.Equal(suite.T(), active.ID, response.Tasks[0].ID)
}

// TestListTasks_FilterByArea tests the competency_area query filter
func (suite *TaskHandlerTestSuite) TestListTasks_FilterByArea() {
	suite.createTestTask("Budget", "financial_management", "budget_preparation", 1)
	suite.createTestTask("Coach", "leadership_supervision", "coaching_development", 1)

	c, w := suite.createGetContext("/api/tasks", nil)
	c.Request.URL.RawQuery = "competency_area=financial_management"

	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Tasks []models.Task `json:"tasks"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	suite.Require().Len(response.Tasks, 1)
	assert.Equal(suite.T(), "Budget", response.Tasks[0].Title)
}

// TestListTasks_InvalidTaskType tests rejection of unknown task_type values
func (suite *TaskHandlerTestSuite) TestListTasks_InvalidTaskType() {
	c, w := suite.createGetContext("/api/tasks", nil)
	c.Request.URL.RawQuery = "task_type=homework"

	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestListTasksForLeaf_Success tests listing tasks of one sub-competency
func (suite *TaskHandlerTestSuite) TestListTasksForLeaf_Success() {
	suite.createTestTask("Budget", "financial_management", "budget_preparation", 1)
	suite.createTestTask("Other", "financial_management", "financial_reporting", 1)

	c, w := suite.createGetContext("/api/tasks/financial_management/budgeting", gin.Params{
		{Key: "area", Value: "financial_management"},
		{Key: "sub", Value: "budget_preparation"},
	})

	suite.handler.ListTasksForLeaf(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "financial_management", response["competency_area"])
	assert.Equal(suite.T(), "budget_preparation", response["sub_competency"])

	tasks := response["tasks"].([]interface{})
	suite.Require().Len(tasks, 1)
	assert.Equal(suite.T(), "Budget", tasks[0].(map[string]interface{})["title"])
}

// TestCompleteTask_Success tests recording a completion without evidence
func (suite *TaskHandlerTestSuite) TestCompleteTask_Success() {
	user := suite.createTestUser("trainee@example.com")
	task := suite.createTestTask("Budget", "financial_management", "budget_preparation", 1)

	c, w := suite.createMultipartContext("/api/users/"+user.ID+"/task-completions",
		gin.Params{{Key: "id", Value: user.ID}},
		map[string]string{"task_id": task.ID, "notes": "done in week 2"},
		"", "", nil)

	suite.handler.CompleteTask(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response models.TaskCompletion
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), user.ID, response.UserID)
	assert.Equal(suite.T(), task.ID, response.TaskID)
	suite.Require().NotNil(response.Notes)
	assert.Equal(suite.T(), "done in week 2", *response.Notes)
	assert.Nil(suite.T(), response.EvidenceFilePath)

	// Completing a task refreshes the user's progress records
	var progress models.CompetencyProgress
	err = suite.db.Where("user_id = ? AND competency_area = ? AND sub_competency = ?",
		user.ID, "financial_management", "budget_preparation").First(&progress).Error
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, progress.CompletedTasks)
	assert.Equal(suite.T(), 1, progress.TotalTasks)
	assert.Equal(suite.T(), 100.0, progress.CompletionPercentage)
}

// TestCompleteTask_WithEvidenceFile tests that an uploaded file is stored
func (suite *TaskHandlerTestSuite) TestCompleteTask_WithEvidenceFile() {
	user := suite.createTestUser("trainee@example.com")
	task := suite.createTestTask("Inspection", "operational_management", "maintenance_oversight", 1)

	c, w := suite.createMultipartContext("/api/users/"+user.ID+"/task-completions",
		gin.Params{{Key: "id", Value: user.ID}},
		map[string]string{"task_id": task.ID, "evidence_description": "inspection report"},
		"report.pdf", "application/pdf", []byte("%PDF-1.4 report body"))

	suite.handler.CompleteTask(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response models.TaskCompletion
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	suite.Require().NotNil(response.EvidenceFilePath)
	assert.True(suite.T(), suite.store.Exists(*response.EvidenceFilePath))
	suite.Require().NotNil(response.EvidenceDescription)
	assert.Equal(suite.T(), "inspection report", *response.EvidenceDescription)
}

// TestCompleteTask_Duplicate tests that a second completion is rejected
func (suite *TaskHandlerTestSuite) TestCompleteTask_Duplicate() {
	user := suite.createTestUser("trainee@example.com")
	task := suite.createTestTask("Budget", "financial_management", "budget_preparation", 1)

	params := gin.Params{{Key: "id", Value: user.ID}}
	fields := map[string]string{"task_id": task.ID}

	c, w := suite.createMultipartContext("/api/users/"+user.ID+"/task-completions", params, fields, "", "", nil)
	suite.handler.CompleteTask(c)
	suite.Require().Equal(http.StatusCreated, w.Code)

	c, w = suite.createMultipartContext("/api/users/"+user.ID+"/task-completions", params, fields, "", "", nil)
	suite.handler.CompleteTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Task already completed", response["detail"])
}

// TestCompleteTask_MissingTaskID tests the required task_id field
func (suite *TaskHandlerTestSuite) TestCompleteTask_MissingTaskID() {
	user := suite.createTestUser("trainee@example.com")

	c, w := suite.createMultipartContext("/api/users/"+user.ID+"/task-completions",
		gin.Params{{Key: "id", Value: user.ID}},
		map[string]string{}, "", "", nil)

	suite.handler.CompleteTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCompleteTask_TaskNotFound tests completing a nonexistent task
func (suite *TaskHandlerTestSuite) TestCompleteTask_TaskNotFound() {
	user := suite.createTestUser("trainee@example.com")

	c, w := suite.createMultipartContext("/api/users/"+user.ID+"/task-completions",
		gin.Params{{Key: "id", Value: user.ID}},
		map[string]string{"task_id": uuid.NewString()}, "", "", nil)

	suite.handler.CompleteTask(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestCompleteTask_UserNotFound tests completing for an unknown user
func (suite *TaskHandlerTestSuite) TestCompleteTask_UserNotFound() {
	task := suite.createTestTask("Budget", "financial_management", "budget_preparation", 1)
	unknown := uuid.NewString()

	c, w := suite.createMultipartContext("/api/users/"+unknown+"/task-completions",
		gin.Params{{Key: "id", Value: unknown}},
		map[string]string{"task_id": task.ID}, "", "", nil)

	suite.handler.CompleteTask(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestCompleteTask_RejectedExtension tests that a bad evidence file blocks the completion
func (suite *TaskHandlerTestSuite) TestCompleteTask_RejectedExtension() {
	user := suite.createTestUser("trainee@example.com")
	task := suite.createTestTask("Budget", "financial_management", "budget_preparation", 1)

	c, w := suite.createMultipartContext("/api/users/"+user.ID+"/task-completions",
		gin.Params{{Key: "id", Value: user.ID}},
		map[string]string{"task_id": task.ID},
		"malware.exe", "application/octet-stream", []byte("MZ"))

	suite.handler.CompleteTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	// No completion row may exist after the rejection
	var count int64
	suite.db.Model(&models.TaskCompletion{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

// TestListCompletions_NewestFirst tests completion history ordering
func (suite *TaskHandlerTestSuite) TestListCompletions_NewestFirst() {
	user := suite.createTestUser("trainee@example.com")
	t1 := suite.createTestTask("Budget", "financial_management", "budget_preparation", 1)
	t2 := suite.createTestTask("Report", "financial_management", "financial_reporting", 1)

	for _, taskID := range []string{t1.ID, t2.ID} {
		c, w := suite.createMultipartContext("/api/users/"+user.ID+"/task-completions",
			gin.Params{{Key: "id", Value: user.ID}},
			map[string]string{"task_id": taskID}, "", "", nil)
		suite.handler.CompleteTask(c)
		suite.Require().Equal(http.StatusCreated, w.Code)
	}

	c, w := suite.createGetContext("/api/users/"+user.ID+"/task-completions",
		gin.Params{{Key: "id", Value: user.ID}})

	suite.handler.ListCompletions(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Completions []models.TaskCompletion `json:"completions"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	suite.Require().Len(response.Completions, 2)
	assert.False(suite.T(), response.Completions[0].CompletedAt.Before(response.Completions[1].CompletedAt))
}

// TestListCompletions_UserNotFound tests history for an unknown user
func (suite *TaskHandlerTestSuite) TestListCompletions_UserNotFound() {
	c, w := suite.createGetContext("/api/users/nope/task-completions",
		gin.Params{{Key: "id", Value: "nope"}})

	suite.handler.ListCompletions(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestSuite runs the test suite
func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
