package dto

import (
	"time"

	"github.com/yukikurage/school-management-api/internal/models"
)

// CourseDTO represents a course in API responses
type CourseDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Level     int       `json:"level"`
	Cover     *string   `json:"cover"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Files     []FileDTO `json:"files,omitempty"`
}

// ToCourseDTO converts a Course model to CourseDTO, including preloaded files
func ToCourseDTO(course models.Course) CourseDTO {
	dto := CourseDTO{
		ID:        course.ID,
		Name:      course.Name,
		Level:     course.Level,
		Cover:     course.Cover,
		CreatedAt: course.CreatedAt,
		UpdatedAt: course.UpdatedAt,
	}
	if len(course.Files) > 0 {
		dto.Files = ToFileDTOs(course.Files)
	}
	return dto
}

// ToCourseDTOs converts courses, never returning nil
func ToCourseDTOs(courses []models.Course) []CourseDTO {
	out := make([]CourseDTO, len(courses))
	for i, c := range courses {
		out[i] = ToCourseDTO(c)
	}
	return out
}
