package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/yukikurage/school-management-api/internal/errors"
	"github.com/yukikurage/school-management-api/internal/middleware"
	"go.uber.org/zap"
)

// respond writes the error response for err and logs server side failures.
// The client never sees the underlying cause of a 5xx.
func respond(c *gin.Context, log *zap.Logger, err error) {
	if !apierrors.IsClientError(err) {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
	}
	apierrors.Respond(c, err)
}

// resourceID returns the id parsed by middleware.RequireID, falling back to the path.
func resourceID(c *gin.Context, resource string) (uint64, bool) {
	if id, ok := middleware.GetResourceID(c); ok {
		return id, true
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid "+resource+" ID")
		return 0, false
	}
	return id, true
}

// bindFailed answers a body that could not be bound. Failed binding rules are
// listed per field; anything else means the body was not valid JSON.
func bindFailed(c *gin.Context, message string, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[strings.ToLower(fe.Field())] = fe.Tag()
		}
		apierrors.BadRequestWithDetails(c, message, details)
		return
	}
	apierrors.RespondWithError(c, http.StatusBadRequest, apierrors.NewAPIError(apierrors.ErrCodeInvalidFormat, message))
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// formFile returns the part for field, or nil when it was not sent.
func formFile(c *gin.Context, field string) (*multipart.FileHeader, error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apierrors.Validation("Invalid multipart field %q", field)
	}
	return header, nil
}

// formInt parses an optional integer form value.
func formInt(c *gin.Context, field string) (*int, error) {
	raw, ok := c.GetPostForm(field)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil, apierrors.Validation("%s must be an integer", field)
	}
	return &v, nil
}

// formString returns an optional form value.
func formString(c *gin.Context, field string) *string {
	raw, ok := c.GetPostForm(field)
	if !ok {
		return nil
	}
	return &raw
}
