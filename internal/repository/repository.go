package repository

import (
	"context"
	"errors"

	apierrors "github.com/yukikurage/school-management-api/internal/errors"
	"github.com/yukikurage/school-management-api/internal/models"
	"github.com/yukikurage/school-management-api/internal/utils"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// List returns users ordered by id
	List(ctx context.Context, page *utils.PaginationParams) ([]models.User, error)

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// Update saves every field of user
	Update(ctx context.Context, user *models.User) error

	// Delete removes a user
	Delete(ctx context.Context, user *models.User) error
}

// CourseRepository defines the interface for course data access
type CourseRepository interface {
	// List returns courses ordered by id
	List(ctx context.Context, page *utils.PaginationParams) ([]models.Course, error)

	// FindByID finds a course by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Course, error)

	// Create creates a new course
	Create(ctx context.Context, course *models.Course) error

	// Update saves every field of course
	Update(ctx context.Context, course *models.Course) error

	// Delete removes a course
	Delete(ctx context.Context, course *models.Course) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// List returns tasks matching filter
	List(ctx context.Context, filter TaskFilter) ([]models.Task, error)

	// FindByID finds a task by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error)

	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// Update saves every field of task
	Update(ctx context.Context, task *models.Task) error

	// Delete removes a task
	Delete(ctx context.Context, task *models.Task) error

	// DetachCourse clears course_id on every task of the course
	DetachCourse(ctx context.Context, courseID uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	CourseID *uint64
	Status   *models.TaskStatus
	Page     *utils.PaginationParams
}

// FileRepository defines the interface for file data access.
// Every owner-scoped query matches on both fileable_type and fileable_id.
type FileRepository interface {
	// List returns all files ordered by id
	List(ctx context.Context, page *utils.PaginationParams) ([]models.File, error)

	// FindByID finds a file by ID
	FindByID(ctx context.Context, id uint64) (*models.File, error)

	// ListByOwner returns the files of owner in insertion order
	ListByOwner(ctx context.Context, owner models.OwnerRef) ([]models.File, error)

	// Create creates a new file row
	Create(ctx context.Context, file *models.File) error

	// Delete removes a file row
	Delete(ctx context.Context, file *models.File) error

	// OwnerExists reports whether the row owner points at exists
	OwnerExists(ctx context.Context, owner models.OwnerRef) (bool, error)
}

// translate maps GORM errors onto the API error kinds.
// notFound is returned as-is for missing rows so callers keep a precise message.
func translate(op string, err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apierrors.Conflictf("%s: record already exists", op)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apierrors.Validation("%s: referenced record does not exist", op)
	default:
		return apierrors.Connection(op, err)
	}
}
