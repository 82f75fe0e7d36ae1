package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/services"
	"github.com/yigit/coursehub/internal/middleware"
)

// AccountController handles account removal.
type AccountController struct {
	accountService *services.AccountService
	cookieSecure   bool
	logger         zerolog.Logger
}

// NewAccountController creates a new AccountController
func NewAccountController(accountService *services.AccountService, cookieSecure bool, logger zerolog.Logger) *AccountController {
	return &AccountController{
		accountService: accountService,
		cookieSecure:   cookieSecure,
		logger:         logger,
	}
}

// DeleteAccount deletes the caller's account and everything it owns
// @Summary Delete own account
// @Description Instructors lose their courses with all material and enrollments. Every session of the account is revoked.
// @Tags account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse
// @Router /account [delete]
func (c *AccountController) DeleteAccount(ctx *gin.Context) {
	identity, ok := identityOrAbort(ctx)
	if !ok {
		return
	}

	if err := c.accountService.DeleteOwnAccount(ctx.Request.Context(), identity); err != nil {
		c.logger.Error().Err(err).Int64("userID", identity.UserID).Msg("Account deletion failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	clearSessionCookie(ctx, c.cookieSecure)
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(nil, "Your account has been deleted."))
}
