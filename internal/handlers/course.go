package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/school-management-api/internal/constants"
	"github.com/yukikurage/school-management-api/internal/dto"
	apierrors "github.com/yukikurage/school-management-api/internal/errors"
	"github.com/yukikurage/school-management-api/internal/services"
	"github.com/yukikurage/school-management-api/internal/utils"
	"go.uber.org/zap"
)

type CourseHandler struct {
	courseService *services.CourseService
	log           *zap.Logger
}

func NewCourseHandler(courseService *services.CourseService, log *zap.Logger) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
		log:           log,
	}
}

// ListCourses returns every course
func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.courseService.List(c.Request.Context(), utils.GetPaginationParams(c))
	if err != nil {
		respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCourseDTOs(courses))
}

// GetCourse returns a course with its files
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, ok := resourceID(c, "course")
	if !ok {
		return
	}

	course, err := h.courseService.Get(c.Request.Context(), id)
	if err != nil {
		respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCourseDTO(*course))
}

// CreateCourse accepts either a JSON body or a multipart form.
// The multipart form may carry a "cover" part and any number of "files" parts.
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var input services.CreateCourseInput

	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			apierrors.BadRequest(c, "Invalid multipart form")
			return
		}
		if name := formString(c, "name"); name != nil {
			input.Name = *name
		}
		if input.Level, err = formInt(c, "level"); err != nil {
			respond(c, h.log, err)
			return
		}
		if input.Cover, err = formFile(c, constants.CoverFormField); err != nil {
			respond(c, h.log, err)
			return
		}
		input.Files = form.File[constants.FilesFormField]
	} else {
		var req struct {
			Name  string `json:"name"`
			Level *int   `json:"level"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			bindFailed(c, "Invalid request body", err)
			return
		}
		input.Name = req.Name
		input.Level = req.Level
	}

	course, err := h.courseService.Create(c.Request.Context(), input)
	if err != nil {
		respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToCourseDTO(*course))
}

// UpdateCourse applies the provided fields. A new cover replaces the course's files.
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id, ok := resourceID(c, "course")
	if !ok {
		return
	}

	var input services.UpdateCourseInput

	if isMultipart(c) {
		if _, err := c.MultipartForm(); err != nil {
			apierrors.BadRequest(c, "Invalid multipart form")
			return
		}
		var err error
		input.Name = formString(c, "name")
		if input.Level, err = formInt(c, "level"); err != nil {
			respond(c, h.log, err)
			return
		}
		if input.Cover, err = formFile(c, constants.CoverFormField); err != nil {
			respond(c, h.log, err)
			return
		}
	} else {
		var req struct {
			Name  *string `json:"name"`
			Level *int    `json:"level"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			bindFailed(c, "Invalid request body", err)
			return
		}
		input.Name = req.Name
		input.Level = req.Level
	}

	course, err := h.courseService.Update(c.Request.Context(), id, input)
	if err != nil {
		respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCourseDTO(*course))
}

// DeleteCourse deletes a course and its files
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id, ok := resourceID(c, "course")
	if !ok {
		return
	}

	course, err := h.courseService.Delete(c.Request.Context(), id)
	if err != nil {
		respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCourseDTO(*course))
}

// ListCourseFiles returns the files of a course in upload order
func (h *CourseHandler) ListCourseFiles(c *gin.Context) {
	id, ok := resourceID(c, "course")
	if !ok {
		return
	}

	files, err := h.courseService.FilesFor(c.Request.Context(), id)
	if err != nil {
		respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToFileDTOs(files))
}
