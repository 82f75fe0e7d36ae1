package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/logger"
)

// HandleAPIError maps an error to its status code and writes the standard
// error envelope. A CustomError's message replaces the generic text.
func HandleAPIError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &tooLarge):
		abortWithError(c, http.StatusRequestEntityTooLarge, dto.ErrorCodePayloadTooLarge, err, "Request body too large")
	case errors.Is(err, apperrors.ErrMissingFile):
		abortWithError(c, http.StatusBadRequest, dto.ErrorCodeMissingFile, err, "File is required")
	case errors.Is(err, apperrors.ErrUnsupportedFormat):
		abortWithError(c, http.StatusUnsupportedMediaType, dto.ErrorCodeUnsupportedMedia, err, "Unsupported file format")
	case errors.Is(err, apperrors.ErrInvalidBlobReference):
		abortWithError(c, http.StatusBadRequest, dto.ErrorCodeResourceInvalid, err, "Invalid file name")
	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrBadRequest):
		abortWithError(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, err, "Validation failed")
	case errors.Is(err, apperrors.ErrDuplicateUsername):
		abortWithError(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, err, "Username already exists")
	case apperrors.Is(err, apperrors.ErrConflict, repositories.ErrForeignKey):
		abortWithError(c, http.StatusConflict, dto.ErrorCodeResourceInvalid, err, "The referenced record no longer exists")
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		abortWithError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, err, "Invalid credentials")
	case errors.Is(err, apperrors.ErrTokenExpired):
		abortWithError(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, err, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		abortWithError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, err, "Invalid token")
	case apperrors.Is(err, apperrors.ErrUnauthorized, apperrors.ErrSessionNotFound):
		abortWithError(c, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, err, "Authentication required")
	case errors.Is(err, apperrors.ErrPermissionDenied):
		abortWithError(c, http.StatusForbidden, dto.ErrorCodeForbidden, err, "Permission denied")
	case apperrors.Is(err, apperrors.ErrCourseNotFound, apperrors.ErrUserNotFound, apperrors.ErrBlobNotFound, apperrors.ErrResourceNotFound):
		abortWithError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, err, "Resource not found")
	case errors.Is(err, apperrors.ErrStorage):
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("File storage failure")
		detail := dto.NewErrorDetail(dto.ErrorCodeStorageError, "File storage is unavailable").
			WithSeverity(dto.ErrorSeverityCritical)
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(detail))
	default:
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled API error")
		detail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").
			WithSeverity(dto.ErrorSeverityCritical)
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(detail))
	}
}

func abortWithError(c *gin.Context, status int, code dto.ErrorCode, err error, fallback string) {
	message := fallback
	if m, ok := apperrors.Message(err); ok {
		message = m
	}
	logger.Debug().Err(err).Int("status", status).Str("path", c.Request.URL.Path).Msg("Request failed")
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}
