package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/school-management-api/internal/dto"
	"github.com/yukikurage/school-management-api/internal/models"
	"github.com/yukikurage/school-management-api/internal/services"
	"github.com/yukikurage/school-management-api/internal/utils"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService *services.UserService
	fileService *services.FileService
	log         *zap.Logger
}

func NewUserHandler(userService *services.UserService, fileService *services.FileService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		fileService: fileService,
		log:         log,
	}
}

// ListUsers returns every user
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context(), utils.GetPaginationParams(c))
	if err != nil {
		respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTOs(users))
}

// GetUser returns a specific user by ID
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := resourceID(c, "user")
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// CreateUser creates a user with a hashed password
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Username string `json:"username" binding:"max=50"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, "Email and password required", err)
		return
	}

	user, err := h.userService.Create(c.Request.Context(), services.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
	})
	if err != nil {
		respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// UpdateUser applies the provided fields. Serves both PATCH and PUT.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := resourceID(c, "user")
	if !ok {
		return
	}

	var req struct {
		Username *string `json:"username" binding:"omitempty,max=50"`
		Email    *string `json:"email" binding:"omitempty,email"`
		Password *string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, "Invalid request body", err)
		return
	}

	user, err := h.userService.Update(c.Request.Context(), id, services.UpdateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// DeleteUser deletes a user and returns its last known state
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := resourceID(c, "user")
	if !ok {
		return
	}

	user, err := h.userService.Delete(c.Request.Context(), id)
	if err != nil {
		respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// ListUserFiles returns the files owned by a user
func (h *UserHandler) ListUserFiles(c *gin.Context) {
	id, ok := resourceID(c, "user")
	if !ok {
		return
	}

	files, err := h.fileService.FilesFor(c.Request.Context(), models.UserOwner(id))
	if err != nil {
		respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToFileDTOs(files))
}
