package handlers

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/school-management-api/internal/dto"
	apierrors "github.com/yukikurage/school-management-api/internal/errors"
	"github.com/yukikurage/school-management-api/internal/models"
	"github.com/yukikurage/school-management-api/internal/services"
	"github.com/yukikurage/school-management-api/internal/utils"
	"go.uber.org/zap"
)

type TaskHandler struct {
	taskService *services.TaskService
	log         *zap.Logger
}

func NewTaskHandler(taskService *services.TaskService, log *zap.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		log:         log,
	}
}

// ListTasks returns tasks, optionally filtered by course_id and status
func (h *TaskHandler) ListTasks(c *gin.Context) {
	input := services.ListTasksInput{Page: utils.GetPaginationParams(c)}

	if raw := c.Query("course_id"); raw != "" {
		courseID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || courseID == 0 {
			apierrors.BadRequest(c, "Invalid course_id")
			return
		}
		input.CourseID = &courseID
	}
	if raw := c.Query("status"); raw != "" {
		status := models.TaskStatus(raw)
		input.Status = &status
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), input)
	if err != nil {
		respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// GetTask returns a specific task with its files
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := resourceID(c, "task")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), id)
	if err != nil {
		respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		Status      string     `json:"status"`
		DueDate     *time.Time `json:"due_date"`
		CourseID    *uint64    `json:"course_id"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, "Invalid request body", err)
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatus(req.Status),
		DueDate:     req.DueDate,
		CourseID:    req.CourseID,
	})
	if err != nil {
		respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies the fields present in the body.
// due_date and course_id may be sent as null to clear them.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := resourceID(c, "task")
	if !ok {
		return
	}

	// Parse raw JSON to detect which fields were sent
	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		bindFailed(c, "Invalid request body", err)
		return
	}

	input, err := parseTaskUpdate(rawReq)
	if err != nil {
		respond(c, h.log, err)
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), id, input)
	if err != nil {
		respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task and returns its last known state
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := resourceID(c, "task")
	if !ok {
		return
	}

	task, err := h.taskService.DeleteTask(c.Request.Context(), id)
	if err != nil {
		respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// ListTaskFiles returns the files attached to a task
func (h *TaskHandler) ListTaskFiles(c *gin.Context) {
	id, ok := resourceID(c, "task")
	if !ok {
		return
	}

	files, err := h.taskService.FilesFor(c.Request.Context(), id)
	if err != nil {
		respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToFileDTOs(files))
}

func parseTaskUpdate(raw map[string]any) (services.UpdateTaskInput, error) {
	var input services.UpdateTaskInput

	if v, ok := raw["title"]; ok {
		s, ok := v.(string)
		if !ok {
			return input, apierrors.Validation("title must be a string")
		}
		input.Title = &s
	}
	if v, ok := raw["description"]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return input, apierrors.Validation("description must be a string")
		}
		input.Description = &s
	}
	if v, ok := raw["status"]; ok {
		s, ok := v.(string)
		if !ok {
			return input, services.ErrInvalidStatus
		}
		status := models.TaskStatus(s)
		input.Status = &status
	}
	if v, ok := raw["due_date"]; ok {
		switch due := v.(type) {
		case nil:
			input.ClearDueDate = true
		case string:
			parsed, err := time.Parse(time.RFC3339, due)
			if err != nil {
				return input, apierrors.Validation("due_date must be an RFC3339 timestamp")
			}
			input.DueDate = &parsed
		default:
			return input, apierrors.Validation("due_date must be an RFC3339 timestamp")
		}
	}
	if v, ok := raw["course_id"]; ok {
		switch id := v.(type) {
		case nil:
			input.ClearCourse = true
		case float64:
			if id < 1 || id != math.Trunc(id) {
				return input, apierrors.Validation("course_id must be a positive integer")
			}
			courseID := uint64(id)
			input.CourseID = &courseID
		default:
			return input, apierrors.Validation("course_id must be a positive integer")
		}
	}

	return input, nil
}
