package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/school-management-api/internal/constants"
	"github.com/yukikurage/school-management-api/internal/dto"
	apierrors "github.com/yukikurage/school-management-api/internal/errors"
	"github.com/yukikurage/school-management-api/internal/models"
	"github.com/yukikurage/school-management-api/internal/services"
	"github.com/yukikurage/school-management-api/internal/utils"
	"go.uber.org/zap"
)

type FileHandler struct {
	fileService *services.FileService
	log         *zap.Logger
}

func NewFileHandler(fileService *services.FileService, log *zap.Logger) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		log:         log,
	}
}

func (h *FileHandler) ListFiles(c *gin.Context) {
	files, err := h.fileService.List(c.Request.Context(), utils.GetPaginationParams(c))
	if err != nil {
		respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToFileDTOs(files))
}

func (h *FileHandler) GetFile(c *gin.Context) {
	id, ok := resourceID(c, "file")
	if !ok {
		return
	}

	file, err := h.fileService.Get(c.Request.Context(), id)
	if err != nil {
		respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToFileDTO(*file))
}

// UploadFile stores the "file" part and attaches it to the owner named by
// resource_type (default Course) and resource_id.
func (h *FileHandler) UploadFile(c *gin.Context) {
	if !isMultipart(c) {
		apierrors.BadRequest(c, "Expected multipart/form-data")
		return
	}

	header, err := formFile(c, constants.UploadFormField)
	if err != nil {
		respond(c, h.log, err)
		return
	}
	if header == nil {
		apierrors.BadRequest(c, "File is required.")
		return
	}

	ownerID, err := strconv.ParseUint(c.PostForm("resource_id"), 10, 64)
	if err != nil || ownerID == 0 {
		apierrors.BadRequest(c, "Invalid resource_id")
		return
	}
	owner, err := models.ParseOwnerRef(c.DefaultPostForm("resource_type", constants.DefaultOwnerType), ownerID)
	if err != nil {
		apierrors.BadRequest(c, "Invalid resource_type")
		return
	}

	file, err := h.fileService.Upload(c.Request.Context(), owner, constants.UploadFormField, header)
	if err != nil {
		respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToFileDTO(*file))
}

// DeleteFile removes the file row and its blob
func (h *FileHandler) DeleteFile(c *gin.Context) {
	id, ok := resourceID(c, "file")
	if !ok {
		return
	}

	file, err := h.fileService.Delete(c.Request.Context(), id)
	if err != nil {
		respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToFileDTO(*file))
}
