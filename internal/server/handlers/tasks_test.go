package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solos-dev/solos/pkg/api"
)

func newTasksFixture(t *testing.T) (*testEnv, *TasksHandler, string) {
	t.Helper()
	env := newTestEnv(t)
	reg := env.register(t, "alice@example.com", "alice", "Str0ng-Pass!")
	return env, NewTasksHandler(env.logger, env.db), reg.UserID
}

func createTask(t *testing.T, h *TasksHandler, userID, title string) api.TaskResponse {
	t.Helper()

	body, _ := json.Marshal(api.CreateTaskRequest{Title: title})
	req := authedRequest(http.MethodPost, "/api/v1/tasks", userID, body)
	w := httptest.NewRecorder()
	h.Create(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp api.TaskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestTasksHandler_Create(t *testing.T) {
	_, h, userID := newTasksFixture(t)

	task := createTask(t, h, userID, "write weekly review")
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "pending", task.Status)
	assert.Equal(t, "medium", task.Priority)
	assert.Zero(t, task.CompletionPercentage)
}

func TestTasksHandler_CreateValidation(t *testing.T) {
	_, h, userID := newTasksFixture(t)

	tests := []struct {
		name string
		req  api.CreateTaskRequest
	}{
		{name: "missing title", req: api.CreateTaskRequest{}},
		{name: "bad priority", req: api.CreateTaskRequest{Title: "x", Priority: "urgent"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.req)
			req := authedRequest(http.MethodPost, "/api/v1/tasks", userID, body)
			w := httptest.NewRecorder()
			h.Create(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestTasksHandler_ListFilterByStatus(t *testing.T) {
	_, h, userID := newTasksFixture(t)
	createTask(t, h, userID, "first")
	done := createTask(t, h, userID, "second")

	// Переводим вторую задачу в completed
	status := "completed"
	body, _ := json.Marshal(api.UpdateTaskRequest{Status: &status})
	req := authedRequest(http.MethodPatch, "/api/v1/tasks/"+done.ID, userID, body)
	req.SetPathValue("id", done.ID)
	w := httptest.NewRecorder()
	h.Update(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = authedRequest(http.MethodGet, "/api/v1/tasks?status=completed", userID, nil)
	w = httptest.NewRecorder()
	h.List(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.TaskListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, done.ID, resp.Tasks[0].ID)
}

func TestTasksHandler_UpdateCompletedAt(t *testing.T) {
	_, h, userID := newTasksFixture(t)
	task := createTask(t, h, userID, "finish report")

	// pending -> completed фиксирует completed_at и 100%
	status := "completed"
	body, _ := json.Marshal(api.UpdateTaskRequest{Status: &status})
	req := authedRequest(http.MethodPatch, "/api/v1/tasks/"+task.ID, userID, body)
	req.SetPathValue("id", task.ID)
	w := httptest.NewRecorder()
	h.Update(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.TaskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.CompletedAt)
	assert.Equal(t, 100, resp.CompletionPercentage)

	// Обратный переход сбрасывает completed_at
	status = "in_progress"
	body, _ = json.Marshal(api.UpdateTaskRequest{Status: &status})
	req = authedRequest(http.MethodPatch, "/api/v1/tasks/"+task.ID, userID, body)
	req.SetPathValue("id", task.ID)
	w = httptest.NewRecorder()
	h.Update(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	resp = api.TaskResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.CompletedAt)
}

func TestTasksHandler_UpdateIgnoresUnknownFields(t *testing.T) {
	_, h, userID := newTasksFixture(t)
	task := createTask(t, h, userID, "original")

	// user_id и created_at не входят в allow-list PATCH полей
	raw := []byte(`{"title":"renamed","user_id":"someone-else","id":"forged"}`)
	req := authedRequest(http.MethodPatch, "/api/v1/tasks/"+task.ID, userID, raw)
	req.SetPathValue("id", task.ID)
	w := httptest.NewRecorder()
	h.Update(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.TaskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "renamed", resp.Title)
	assert.Equal(t, task.ID, resp.ID)
}

func TestTasksHandler_UserScoping(t *testing.T) {
	env, h, userID := newTasksFixture(t)
	task := createTask(t, h, userID, "private task")

	other := env.register(t, "bob@example.com", "bob", "Str0ng-Pass!")

	// Чужая задача неотличима от несуществующей
	req := authedRequest(http.MethodGet, "/api/v1/tasks/"+task.ID, other.UserID, nil)
	req.SetPathValue("id", task.ID)
	w := httptest.NewRecorder()
	h.Get(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req = authedRequest(http.MethodDelete, "/api/v1/tasks/"+task.ID, other.UserID, nil)
	req.SetPathValue("id", task.ID)
	w = httptest.NewRecorder()
	h.Delete(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTasksHandler_Delete(t *testing.T) {
	_, h, userID := newTasksFixture(t)
	task := createTask(t, h, userID, "to delete")

	req := authedRequest(http.MethodDelete, "/api/v1/tasks/"+task.ID, userID, nil)
	req.SetPathValue("id", task.ID)
	w := httptest.NewRecorder()
	h.Delete(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	req = authedRequest(http.MethodGet, "/api/v1/tasks/"+task.ID, userID, nil)
	req.SetPathValue("id", task.ID)
	w = httptest.NewRecorder()
	h.Get(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
