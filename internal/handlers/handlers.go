package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apierrors "github.com/yukikurage/earn-your-wings-api/internal/errors"
	"github.com/yukikurage/earn-your-wings-api/internal/services"
	"github.com/yukikurage/earn-your-wings-api/internal/storage"
)

// respondServiceError maps service and storage errors onto the API's error
// contract. Unrecognized errors become a generic 500 so internal detail
// never leaks into responses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrPortfolioItemNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTaskAlreadyCompleted):
		apierrors.Conflict(c, "Task already completed")
	case errors.Is(err, storage.ErrFileTooLarge):
		apierrors.PayloadTooLarge(c, err.Error())
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrCompetencyRequired),
		errors.Is(err, services.ErrInvalidTaskType),
		errors.Is(err, services.ErrNegativeOrder),
		errors.Is(err, services.ErrNegativeHours),
		errors.Is(err, services.ErrEmailRequired),
		errors.Is(err, services.ErrFileRequired),
		errors.Is(err, services.ErrInvalidVisibility),
		errors.Is(err, storage.ErrMissingFilename),
		errors.Is(err, storage.ErrExtensionNotAllowed),
		errors.Is(err, storage.ErrMimeTypeNotAllowed):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}

// formFile extracts an optional multipart file as a service upload. A
// missing "file" part returns nil without error.
func formFile(c *gin.Context) (*services.FileUpload, multipart.File, error) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	return &services.FileUpload{
		Reader:   file,
		Filename: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
	}, file, nil
}

// formStringList reads a repeated form field, additionally splitting
// comma-separated values, so both encodings clients use are accepted.
func formStringList(c *gin.Context, field string) []string {
	values := c.PostFormArray(field)
	result := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				result = append(result, part)
			}
		}
	}
	return result
}

// optionalForm returns a pointer to a form value, or nil when absent.
func optionalForm(c *gin.Context, field string) *string {
	if value, ok := c.GetPostForm(field); ok {
		return &value
	}
	return nil
}
