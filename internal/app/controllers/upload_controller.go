package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/coursehub/internal/middleware"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/filestorage"
)

// UploadController serves stored blobs by name.
type UploadController struct {
	files  *filestorage.Manager
	logger zerolog.Logger
}

// NewUploadController creates a new UploadController
func NewUploadController(files *filestorage.Manager, logger zerolog.Logger) *UploadController {
	return &UploadController{files: files, logger: logger}
}

// Serve streams a stored file
// @Summary Download an uploaded file
// @Tags uploads
// @Produce octet-stream
// @Param filename path string true "Stored file name"
// @Success 200 {file} binary
// @Failure 400 {object} dto.ErrorResponse "Invalid file name"
// @Failure 404 {object} dto.ErrorResponse "File not found"
// @Router /uploads/{filename} [get]
func (c *UploadController) Serve(ctx *gin.Context) {
	blob, err := c.files.Open(ctx.Request.Context(), ctx.Param("filename"))
	if errors.Is(err, apperrors.ErrBlobNotFound) {
		middleware.HandleAPIError(ctx, apperrors.NewResourceNotFoundError("File not found."))
		return
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer blob.Body.Close()

	ctx.Header("Cache-Control", "public, max-age=86400")
	ctx.Header("X-Content-Type-Options", "nosniff")
	ctx.DataFromReader(http.StatusOK, blob.Size, blob.ContentType, blob.Body, map[string]string{
		"Content-Disposition": "inline; filename=" + strconv.Quote(blob.Name),
	})
}
