// Package controllers handles HTTP request handling
package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/middleware"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

// identityOrAbort returns the caller set by the session middleware, writing a
// 401 when it is missing.
func identityOrAbort(ctx *gin.Context) (models.Identity, bool) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthorized)
		return models.Identity{}, false
	}
	return identity, true
}

// parseIDParam reads a positive integer path parameter, writing a 400 when
// it is malformed.
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("Invalid "+name+"."))
		return 0, false
	}
	return id, true
}

func clearSessionCookie(ctx *gin.Context, secure bool) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middleware.SessionCookieName, "", -1, "/", "", secure, true)
}

// optionalFormFile returns the named upload or nil when the field is absent.
// Body size and encoding failures are reported as errors.
func optionalFormFile(ctx *gin.Context, field string) (*multipart.FileHeader, error) {
	file, err := ctx.FormFile(field)
	switch {
	case err == nil:
		return file, nil
	case errors.Is(err, http.ErrMissingFile):
		return nil, nil
	case errors.Is(err, http.ErrNotMultipart):
		return nil, apperrors.NewBadRequestError("Request must be multipart/form-data.")
	default:
		return nil, err
	}
}
