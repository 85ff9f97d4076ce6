//go:build integration
// +build integration

package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	dbadapter "github.com/nemanjaninkovic-1/rust-tracker/internal/adapter/db"
	httpadapter "github.com/nemanjaninkovic-1/rust-tracker/internal/adapter/http"
	"github.com/nemanjaninkovic-1/rust-tracker/internal/adapter/http/dto"
	"github.com/nemanjaninkovic-1/rust-tracker/internal/adapter/http/handlers"
	appservice "github.com/nemanjaninkovic-1/rust-tracker/internal/app/service"
	"github.com/nemanjaninkovic-1/rust-tracker/pkg/apierrors"
)

type TasksIntegrationSuite struct {
	IntegrationSuiteBase
	router *gin.Engine
}

func TestTasksIntegrationSuite(t *testing.T) {
	suite.Run(t, new(TasksIntegrationSuite))
}

func (s *TasksIntegrationSuite) SetupTest() {
	s.ResetDatabase()

	router := gin.New()
	healthHandler := handlers.NewHealthHandler(s.DB, nil)
	taskRepository := dbadapter.NewTaskRepository(s.DB)
	taskService := appservice.NewTaskService(taskRepository)
	taskHandler := handlers.NewTaskHandler(taskService)
	httpadapter.RegisterRoutes(router, healthHandler, taskHandler)

	s.router = router
}

func (s *TasksIntegrationSuite) createTask(body string) dto.TaskItem {
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var created dto.TaskItem
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &created))
	return created
}

func (s *TasksIntegrationSuite) listTasks(query string) []dto.TaskItem {
	req := httptest.NewRequest(http.MethodGet, "/api/tasks"+query, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var got []dto.TaskItem
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	return got
}

func (s *TasksIntegrationSuite) TestGetTasks_ReturnsEmptyListOnFreshDatabase() {
	got := s.listTasks("")
	s.Require().Len(got, 0)
}

func (s *TasksIntegrationSuite) TestPostTasks_CreatesTaskWithDefaults() {
	created := s.createTask(`{"title":"Draft release notes"}`)

	s.Require().NotEmpty(created.ID)
	s.Require().Equal("Draft release notes", created.Title)
	s.Require().Equal("Todo", created.Status)
	s.Require().Equal("Medium", created.Priority)
	s.Require().Nil(created.Description)
	s.Require().Nil(created.DueDate)
	s.Require().NotEmpty(created.CreatedAt)
	s.Require().Equal(created.CreatedAt, created.UpdatedAt)

	var count int
	s.Require().NoError(s.DB.Get(&count, "SELECT COUNT(*) FROM tasks WHERE id = ?", created.ID))
	s.Require().Equal(1, count)
}

func (s *TasksIntegrationSuite) TestPostTasks_ReturnsBadRequestWhenTitleMissing() {
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusBadRequest, rec.Code)

	var got apierrors.JsonErr
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Equal(http.StatusBadRequest, got.ErrDetails.Code)
	s.Require().Equal("Invalid task payload", got.ErrDetails.Message)
}

func (s *TasksIntegrationSuite) TestPostTasks_ReturnsBadRequestWhenStatusUnknown() {
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(`{
		"title":"Task",
		"status":"Blocked"
	}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusBadRequest, rec.Code)

	var got apierrors.JsonErr
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Equal("Invalid task payload", got.ErrDetails.Message)
}

func (s *TasksIntegrationSuite) TestGetTasks_FilterFollowsStatusMove() {
	todo := s.createTask(`{"title":"Stays in todo"}`)
	moving := s.createTask(`{"title":"Gets picked up","priority":"High"}`)

	got := s.listTasks("?status=Todo")
	s.Require().Len(got, 2)

	req := httptest.NewRequest(http.MethodPut, "/api/tasks/"+moving.ID, strings.NewReader(`{"status":"InProgress"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	got = s.listTasks("?status=Todo")
	s.Require().Len(got, 1)
	s.Require().Equal(todo.ID, got[0].ID)

	got = s.listTasks("?status=InProgress")
	s.Require().Len(got, 1)
	s.Require().Equal(moving.ID, got[0].ID)
	s.Require().Equal("High", got[0].Priority)
}

func (s *TasksIntegrationSuite) TestGetTasks_CombinedFiltersAndDueBounds() {
	s.createTask(`{"title":"Low old","priority":"Low","due_date":"2026-01-10T00:00:00Z"}`)
	urgent := s.createTask(`{"title":"Urgent soon","priority":"Urgent","due_date":"2026-02-10T00:00:00Z"}`)
	s.createTask(`{"title":"No due date","priority":"Urgent"}`)

	got := s.listTasks("?priority=Urgent&due_after=2026-02-01T00:00:00Z&due_before=2026-03-01T00:00:00Z")
	s.Require().Len(got, 1)
	s.Require().Equal(urgent.ID, got[0].ID)
}

func (s *TasksIntegrationSuite) TestGetTasks_OrderedByCreationOldestFirst() {
	first := s.createTask(`{"title":"first"}`)
	second := s.createTask(`{"title":"second"}`)
	third := s.createTask(`{"title":"third"}`)

	got := s.listTasks("")
	s.Require().Len(got, 3)
	s.Require().Equal([]string{first.ID, second.ID, third.ID},
		[]string{got[0].ID, got[1].ID, got[2].ID})
}

func (s *TasksIntegrationSuite) TestGetTasks_ReturnsBadRequestOnUnknownFilterValue() {
	req := httptest.NewRequest(http.MethodGet, "/api/tasks?status=Done", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusBadRequest, rec.Code)

	var got apierrors.JsonErr
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Equal("Invalid task filter", got.ErrDetails.Message)
}

func (s *TasksIntegrationSuite) TestGetTask_ReturnsSingleTask() {
	created := s.createTask(`{"title":"Find me","description":"by id"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks/"+created.ID, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusOK, rec.Code)

	var got dto.TaskItem
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Equal(created.ID, got.ID)
	s.Require().NotNil(got.Description)
	s.Require().Equal("by id", *got.Description)
}

func (s *TasksIntegrationSuite) TestGetTask_ReturnsNotFoundForUnknownID() {
	req := httptest.NewRequest(http.MethodGet, "/api/tasks/11111111-2222-3333-4444-555555555555", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusNotFound, rec.Code)

	var got apierrors.JsonErr
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Equal("Task not found", got.ErrDetails.Message)
}

func (s *TasksIntegrationSuite) TestGetTask_ReturnsBadRequestWhenIDIsNotUUID() {
	req := httptest.NewRequest(http.MethodGet, "/api/tasks/abc", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusBadRequest, rec.Code)

	var got apierrors.JsonErr
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Equal("Invalid id", got.ErrDetails.Message)
}

func (s *TasksIntegrationSuite) TestPutTasks_PartialUpdatePreservesOtherFields() {
	created := s.createTask(`{
		"title":"Original title",
		"description":"keep me",
		"priority":"High",
		"due_date":"2026-04-01T00:00:00Z"
	}`)

	req := httptest.NewRequest(http.MethodPut, "/api/tasks/"+created.ID, strings.NewReader(`{"status":"Completed"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var got dto.TaskItem
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Equal("Completed", got.Status)
	s.Require().Equal("Original title", got.Title)
	s.Require().NotNil(got.Description)
	s.Require().Equal("keep me", *got.Description)
	s.Require().Equal("High", got.Priority)
	s.Require().NotNil(got.DueDate)

	var row struct {
		Title  string `db:"title"`
		Status string `db:"status"`
	}
	s.Require().NoError(s.DB.Get(&row, "SELECT title, status FROM tasks WHERE id = ?", created.ID))
	s.Require().Equal("Original title", row.Title)
	s.Require().Equal("Completed", row.Status)
}

func (s *TasksIntegrationSuite) TestPutTasks_NullDueDateClearsIt() {
	created := s.createTask(`{"title":"Deadline slips","due_date":"2026-04-01T00:00:00Z"}`)
	s.Require().NotNil(created.DueDate)

	req := httptest.NewRequest(http.MethodPut, "/api/tasks/"+created.ID, strings.NewReader(`{"due_date":null}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var got dto.TaskItem
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Nil(got.DueDate)
}

func (s *TasksIntegrationSuite) TestPutTasks_ReturnsBadRequestWhenPayloadIsEmpty() {
	created := s.createTask(`{"title":"Nothing to change"}`)

	req := httptest.NewRequest(http.MethodPut, "/api/tasks/"+created.ID, strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusBadRequest, rec.Code)

	var got apierrors.JsonErr
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Equal("Invalid task payload", got.ErrDetails.Message)
}

func (s *TasksIntegrationSuite) TestPutTasks_ReturnsNotFoundWhenTaskDoesNotExist() {
	req := httptest.NewRequest(http.MethodPut, "/api/tasks/11111111-2222-3333-4444-555555555555",
		strings.NewReader(`{"status":"Completed"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusNotFound, rec.Code)

	var got apierrors.JsonErr
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Equal("Task not found", got.ErrDetails.Message)
}

func (s *TasksIntegrationSuite) TestDeleteTasks_SecondDeleteReturnsNotFound() {
	created := s.createTask(`{"title":"Short lived"}`)

	del := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodDelete, "/api/tasks/"+created.ID, nil)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		return rec
	}

	first := del()
	s.Require().Equal(http.StatusNoContent, first.Code)
	s.Require().Empty(first.Body.Bytes())

	second := del()
	s.Require().Equal(http.StatusNotFound, second.Code)

	var got apierrors.JsonErr
	s.Require().NoError(json.Unmarshal(second.Body.Bytes(), &got))
	s.Require().Equal("Task not found", got.ErrDetails.Message)
}

func (s *TasksIntegrationSuite) TestErrorMessages_FollowAcceptLanguage() {
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/tasks/%s", "11111111-2222-3333-4444-555555555555"), nil)
	req.Header.Set("Accept-Language", "fr")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusNotFound, rec.Code)

	var got apierrors.JsonErr
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Equal("Tâche introuvable", got.ErrDetails.Message)
}
