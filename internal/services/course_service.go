package services

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/yukikurage/school-management-api/internal/constants"
	apierrors "github.com/yukikurage/school-management-api/internal/errors"
	"github.com/yukikurage/school-management-api/internal/events"
	"github.com/yukikurage/school-management-api/internal/models"
	"github.com/yukikurage/school-management-api/internal/repository"
	"github.com/yukikurage/school-management-api/internal/utils"
)

var (
	ErrCourseNameRequired  = apierrors.Validation("Course name is required")
	ErrCourseLevelRequired = apierrors.Validation("Course level is required")
	ErrCourseNameTaken     = apierrors.Conflictf("Course name already exists")
)

// CourseService handles course business logic
type CourseService struct {
	courseRepo  repository.CourseRepository
	taskRepo    repository.TaskRepository
	files       *FileService
	attachments *AttachmentService
	publisher   events.Publisher
}

// NewCourseService creates a new CourseService
func NewCourseService(
	courseRepo repository.CourseRepository,
	taskRepo repository.TaskRepository,
	files *FileService,
	attachments *AttachmentService,
	publisher events.Publisher,
) *CourseService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &CourseService{
		courseRepo:  courseRepo,
		taskRepo:    taskRepo,
		files:       files,
		attachments: attachments,
		publisher:   publisher,
	}
}

// CreateCourseInput represents input for creating a course
type CreateCourseInput struct {
	Name  string
	Level *int
	Cover *multipart.FileHeader
	Files []*multipart.FileHeader
}

// UpdateCourseInput represents input for updating a course.
// A non-nil Cover replaces the course's files.
type UpdateCourseInput struct {
	Name  *string
	Level *int
	Cover *multipart.FileHeader
}

func (s *CourseService) List(ctx context.Context, page *utils.PaginationParams) ([]models.Course, error) {
	return s.courseRepo.List(ctx, page)
}

// Get returns the course with its files
func (s *CourseService) Get(ctx context.Context, id uint64) (*models.Course, error) {
	return s.courseRepo.FindByID(ctx, id, "Files")
}

// Create stores the course, then uploads the optional cover and files.
// The course row is kept if an upload fails afterwards.
func (s *CourseService) Create(ctx context.Context, input CreateCourseInput) (*models.Course, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrCourseNameRequired
	}
	if input.Level == nil {
		return nil, ErrCourseLevelRequired
	}

	course := &models.Course{
		Name:  name,
		Level: *input.Level,
	}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, courseConflict(err)
	}

	if input.Cover != nil {
		cover, err := s.files.Upload(ctx, course.Owner(), constants.CoverFormField, input.Cover)
		if err != nil {
			return nil, err
		}
		course.Cover = &cover.URL
		if err := s.courseRepo.Update(ctx, course); err != nil {
			return nil, err
		}
	}

	for _, header := range input.Files {
		if _, err := s.files.Upload(ctx, course.Owner(), constants.FilesFormField, header); err != nil {
			return nil, err
		}
	}

	created, err := s.Get(ctx, course.ID)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.CourseCreated, created)
	return created, nil
}

// Update applies the provided fields; a new cover replaces the old files.
func (s *CourseService) Update(ctx context.Context, id uint64, input UpdateCourseInput) (*models.Course, error) {
	course, err := s.courseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrCourseNameRequired
		}
		course.Name = name
	}
	if input.Level != nil {
		course.Level = *input.Level
	}

	// Fields first so a name conflict leaves the current files untouched
	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, courseConflict(err)
	}

	if input.Cover != nil {
		cover, err := s.files.Replace(ctx, course.Owner(), constants.CoverFormField, input.Cover)
		if err != nil {
			return nil, err
		}
		course.Cover = &cover.URL
		if err := s.courseRepo.Update(ctx, course); err != nil {
			return nil, err
		}
	}

	updated, err := s.Get(ctx, course.ID)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.CourseUpdated, updated)
	return updated, nil
}

// Delete removes the course and its files, returning the last known state.
// Tasks of the course are kept with their course cleared.
func (s *CourseService) Delete(ctx context.Context, id uint64) (*models.Course, error) {
	course, err := s.courseRepo.FindByID(ctx, id, "Files")
	if err != nil {
		return nil, err
	}

	if err := s.attachments.DetachAll(ctx, course.Owner()); err != nil {
		return nil, err
	}
	if err := s.taskRepo.DetachCourse(ctx, course.ID); err != nil {
		return nil, err
	}
	if err := s.courseRepo.Delete(ctx, course); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.CourseDeleted, course)
	return course, nil
}

// FilesFor returns the files of the course
func (s *CourseService) FilesFor(ctx context.Context, id uint64) ([]models.File, error) {
	return s.attachments.FilesFor(ctx, models.CourseOwner(id))
}

func courseConflict(err error) error {
	if apierrors.IsConflict(err) {
		return ErrCourseNameTaken
	}
	return err
}
