package handlers

import (
	"net/http"

	"github.com/yukikurage/school-management-api/internal/dto"
	"github.com/yukikurage/school-management-api/internal/models"
)

func (suite *APITestSuite) createTask(body map[string]any) dto.TaskDTO {
	w := suite.doJSON(http.MethodPost, "/tasks", body, suite.token)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var task dto.TaskDTO
	suite.decode(w, &task)
	return task
}

func (suite *APITestSuite) TestCreateTask_Defaults() {
	course := suite.createCourse("Algebra", 1)

	task := suite.createTask(map[string]any{
		"title":     "Homework 1",
		"due_date":  "2026-11-01T09:00:00Z",
		"course_id": course.ID,
	})
	suite.Equal("Homework 1", task.Title)
	suite.Equal(models.TaskStatusTodo, task.Status)
	suite.Require().NotNil(task.DueDate)
	suite.Require().NotNil(task.CourseID)
	suite.Equal(course.ID, *task.CourseID)
}

func (suite *APITestSuite) TestCreateTask_Validation() {
	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing title", map[string]any{"description": "no title"}},
		{"bad status", map[string]any{"title": "x", "status": "LATER"}},
		{"unknown course", map[string]any{"title": "x", "course_id": 42}},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.doJSON(http.MethodPost, "/tasks", tt.body, suite.token)
			suite.Equal(http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func (suite *APITestSuite) TestListTasks_Filters() {
	course := suite.createCourse("Algebra", 1)
	suite.createTask(map[string]any{"title": "in course", "course_id": course.ID})
	suite.createTask(map[string]any{"title": "done", "status": "DONE"})
	suite.createTask(map[string]any{"title": "loose"})

	var tasks []dto.TaskDTO

	w := suite.doJSON(http.MethodGet, urlf("/tasks?course_id=%d", course.ID), nil, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &tasks)
	suite.Require().Len(tasks, 1)
	suite.Equal("in course", tasks[0].Title)

	w = suite.doJSON(http.MethodGet, "/tasks?status=DONE", nil, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &tasks)
	suite.Require().Len(tasks, 1)
	suite.Equal("done", tasks[0].Title)

	w = suite.doJSON(http.MethodGet, "/tasks?status=LATER", nil, suite.token)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.doJSON(http.MethodGet, "/tasks?course_id=abc", nil, suite.token)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestUpdateTask_NullClearsFields() {
	course := suite.createCourse("Algebra", 1)
	task := suite.createTask(map[string]any{
		"title":     "Homework",
		"due_date":  "2026-11-01T09:00:00Z",
		"course_id": course.ID,
	})

	w := suite.doJSON(http.MethodPatch, urlf("/tasks/%d", task.ID), map[string]any{
		"status":    "DONE",
		"due_date":  nil,
		"course_id": nil,
	}, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var updated dto.TaskDTO
	suite.decode(w, &updated)
	suite.Equal("Homework", updated.Title)
	suite.Equal(models.TaskStatusDone, updated.Status)
	suite.Nil(updated.DueDate)
	suite.Nil(updated.CourseID)
}

func (suite *APITestSuite) TestUpdateTask_Rejects() {
	task := suite.createTask(map[string]any{"title": "Homework"})

	tests := []struct {
		name string
		body map[string]any
		code int
	}{
		{"empty title", map[string]any{"title": "  "}, http.StatusBadRequest},
		{"bad due date", map[string]any{"due_date": "tomorrow"}, http.StatusBadRequest},
		{"fractional course", map[string]any{"course_id": 1.5}, http.StatusBadRequest},
		{"missing course", map[string]any{"course_id": 77}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.doJSON(http.MethodPatch, urlf("/tasks/%d", task.ID), tt.body, suite.token)
			suite.Equal(tt.code, w.Code, w.Body.String())
		})
	}

	w := suite.doJSON(http.MethodPatch, "/tasks/999", map[string]any{"title": "x"}, suite.token)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *APITestSuite) TestDeleteTask_RemovesFiles() {
	task := suite.createTask(map[string]any{"title": "Essay"})

	w := suite.doMultipart(http.MethodPost, "/upload",
		map[string]string{"resource_type": "Task", "resource_id": urlf("%d", task.ID)},
		[]formPart{{field: "file", filename: "essay.txt", content: []byte("draft")}},
	)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = suite.doJSON(http.MethodGet, urlf("/tasks/%d", task.ID), nil, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)
	var loaded dto.TaskDTO
	suite.decode(w, &loaded)
	suite.Require().Len(loaded.Files, 1)

	w = suite.doJSON(http.MethodDelete, urlf("/tasks/%d", task.ID), nil, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.doJSON(http.MethodGet, urlf("/files/%d", loaded.Files[0].ID), nil, suite.token)
	suite.Equal(http.StatusNotFound, w.Code)
}
