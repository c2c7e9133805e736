package services

import (
	"context"
	"errors"
	"strings"
	"time"

	apierrors "github.com/yukikurage/school-management-api/internal/errors"
	"github.com/yukikurage/school-management-api/internal/events"
	"github.com/yukikurage/school-management-api/internal/models"
	"github.com/yukikurage/school-management-api/internal/repository"
	"github.com/yukikurage/school-management-api/internal/utils"
)

var (
	ErrTitleRequired   = apierrors.Validation("Title is required")
	ErrTitleEmpty      = apierrors.Validation("Title cannot be empty")
	ErrInvalidStatus   = apierrors.Validation("Status must be TODO or DONE")
	ErrUnknownCourseID = apierrors.Validation("course_id does not reference an existing course")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo    repository.TaskRepository
	courseRepo  repository.CourseRepository
	attachments *AttachmentService
	publisher   events.Publisher
}

// NewTaskService creates a new TaskService
func NewTaskService(
	taskRepo repository.TaskRepository,
	courseRepo repository.CourseRepository,
	attachments *AttachmentService,
	publisher events.Publisher,
) *TaskService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &TaskService{
		taskRepo:    taskRepo,
		courseRepo:  courseRepo,
		attachments: attachments,
		publisher:   publisher,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	CourseID *uint64
	Status   *models.TaskStatus
	Page     *utils.PaginationParams
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	DueDate     *time.Time
	CourseID    *uint64
}

// UpdateTaskInput represents input for updating a task
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Status       *models.TaskStatus
	DueDate      *time.Time
	ClearDueDate bool
	CourseID     *uint64
	ClearCourse  bool
}

// ListTasks returns tasks matching the filters
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) ([]models.Task, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.taskRepo.List(ctx, repository.TaskFilter{
		CourseID: input.CourseID,
		Status:   input.Status,
		Page:     input.Page,
	})
}

// GetTask returns the task with its files
func (s *TaskService) GetTask(ctx context.Context, taskID uint64) (*models.Task, error) {
	return s.taskRepo.FindByID(ctx, taskID, "Files")
}

// CreateTask creates a new task
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	status := input.Status
	if status == "" {
		status = models.TaskStatusTodo
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	if err := s.checkCourse(ctx, input.CourseID); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       title,
		Description: input.Description,
		Status:      status,
		DueDate:     input.DueDate,
		CourseID:    input.CourseID,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.TaskCreated, task)
	return task, nil
}

// UpdateTask applies the provided fields and saves the task
func (s *TaskService) UpdateTask(ctx context.Context, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		task.Status = *input.Status
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.ClearCourse {
		task.CourseID = nil
	} else if input.CourseID != nil {
		if err := s.checkCourse(ctx, input.CourseID); err != nil {
			return nil, err
		}
		task.CourseID = input.CourseID
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.TaskUpdated, task)
	return task, nil
}

// DeleteTask removes the task and its files, returning the last known state
func (s *TaskService) DeleteTask(ctx context.Context, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.attachments.DetachAll(ctx, task.Owner()); err != nil {
		return nil, err
	}
	if err := s.taskRepo.Delete(ctx, task); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.TaskDeleted, task)
	return task, nil
}

// FilesFor returns the files of the task
func (s *TaskService) FilesFor(ctx context.Context, taskID uint64) ([]models.File, error) {
	return s.attachments.FilesFor(ctx, models.TaskOwner(taskID))
}

func (s *TaskService) checkCourse(ctx context.Context, courseID *uint64) error {
	if courseID == nil {
		return nil
	}
	if _, err := s.courseRepo.FindByID(ctx, *courseID); err != nil {
		if errors.Is(err, apierrors.ErrNotFound) {
			return ErrUnknownCourseID
		}
		return err
	}
	return nil
}
