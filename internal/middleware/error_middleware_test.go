package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    dto.ErrorCode
		message string
	}{
		{"validation message", apperrors.NewValidationError("Username is required!"), http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Username is required!"},
		{"duplicate username", apperrors.NewCustomError(apperrors.ErrDuplicateUsername, "Username already exists!"), http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Username already exists!"},
		{"foreign key race", fmt.Errorf("insert: %w", repositories.ErrForeignKey), http.StatusConflict, dto.ErrorCodeResourceInvalid, "The referenced record no longer exists"},
		{"bad credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
		{"expired session token", fmt.Errorf("%w: %w", apperrors.ErrUnauthorized, apperrors.ErrTokenExpired), http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
		{"revoked session", fmt.Errorf("%w: %w", apperrors.ErrUnauthorized, apperrors.ErrSessionNotFound), http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required"},
		{"forbidden", apperrors.NewForbiddenError("Only instructors can perform this action."), http.StatusForbidden, dto.ErrorCodeForbidden, "Only instructors can perform this action."},
		{"missing course", apperrors.NewCustomError(apperrors.ErrCourseNotFound, "Course not found."), http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Course not found."},
		{"missing blob", apperrors.ErrBlobNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
		{"unsupported upload", apperrors.NewCustomError(apperrors.ErrUnsupportedFormat, "Unsupported video format."), http.StatusUnsupportedMediaType, dto.ErrorCodeUnsupportedMedia, "Unsupported video format."},
		{"missing upload", apperrors.NewCustomError(apperrors.ErrMissingFile, "Select a video file."), http.StatusBadRequest, dto.ErrorCodeMissingFile, "Select a video file."},
		{"bad blob name", apperrors.ErrInvalidBlobReference, http.StatusBadRequest, dto.ErrorCodeResourceInvalid, "Invalid file name"},
		{"body too large", fmt.Errorf("read: %w", &http.MaxBytesError{Limit: 10}), http.StatusRequestEntityTooLarge, dto.ErrorCodePayloadTooLarge, "Request body too large"},
		{"missing file message", apperrors.NewResourceNotFoundError("File not found."), http.StatusNotFound, dto.ErrorCodeResourceNotFound, "File not found."},
		{"storage failure", fmt.Errorf("%w: failed to open file: %w", apperrors.ErrStorage, errors.New("disk")), http.StatusInternalServerError, dto.ErrorCodeStorageError, "File storage is unavailable"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.True(t, c.IsAborted())

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, tt.message, resp.Error.Message)
		})
	}
}

func TestMaxBodySize(t *testing.T) {
	router := gin.New()
	router.Use(MaxBodySize(4))
	router.POST("/", func(c *gin.Context) {
		var body map[string]string
		if err := json.NewDecoder(c.Request.Body).Decode(&body); err != nil {
			HandleAPIError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"bcdefgh"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
