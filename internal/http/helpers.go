package http

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tomfrance/sacha/internal/database/dberr"
	"github.com/tomfrance/sacha/internal/services"
	"github.com/tomfrance/sacha/internal/utils"
)

// DefaultMaxMediaBytes caps a single picture or audio upload.
const DefaultMaxMediaBytes int64 = 20 << 20

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found", Code: "not_found"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondError sends an error response with the given status code.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// respondServiceError maps library errors onto HTTP statuses: validation
// failures are 400, missing records 404, anything else 500.
func respondServiceError(c *gin.Context, err error, resource, context string) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   validationErr.Error(),
			Code:    "validation_error",
			Details: gin.H{"field": validationErr.Field, "message": validationErr.Message},
		})
	case errors.Is(err, dberr.ErrNotFound):
		respondNotFound(c, resource)
	default:
		respondInternalError(c, err, context)
	}
}

// --- Success Response Helpers ---

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// respondAccepted sends a 202 Accepted response (for async operations).
func respondAccepted(c *gin.Context, message string, data any) {
	c.JSON(http.StatusAccepted, SuccessResponse{Message: message, Data: data})
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates an unsigned integer ID from URL parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}

// parseOptionalQueryID reads an optional unsigned ID from the query string.
// A missing parameter yields nil; a malformed one responds 400.
func parseOptionalQueryID(c *gin.Context, paramName string) (*uint, bool) {
	idStr := c.Query(paramName)
	if idStr == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid "+paramName)
		return nil, false
	}
	value := uint(id)
	return &value, true
}

// --- Multipart Uploads ---

// uploadedFile is a small multipart file read fully into memory.
type uploadedFile struct {
	Data        []byte
	Name        string
	ContentType string
}

// readFormFile reads the named multipart file. A missing field is not an
// error: the zero value is returned and validation reports the gap.
func readFormFile(c *gin.Context, field string, maxBytes int64) (uploadedFile, error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return uploadedFile{}, nil
	}
	if err != nil {
		return uploadedFile{}, err
	}
	if header.Size > maxBytes {
		return uploadedFile{}, fmt.Errorf("%s exceeds %d bytes", field, maxBytes)
	}

	f, err := header.Open()
	if err != nil {
		return uploadedFile{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return uploadedFile{}, err
	}
	if int64(len(data)) > maxBytes {
		return uploadedFile{}, fmt.Errorf("%s exceeds %d bytes", field, maxBytes)
	}

	return uploadedFile{
		Data:        data,
		Name:        utils.UploadName(header.Filename),
		ContentType: header.Header.Get("Content-Type"),
	}, nil
}
