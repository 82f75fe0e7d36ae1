package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/services"
	"github.com/yigit/coursehub/internal/middleware"
)

// AuthController handles signup, login, logout and the caller's profile.
type AuthController struct {
	authService  *services.AuthService
	cookieSecure bool
	logger       zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, cookieSecure bool, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService:  authService,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

// Signup handles account registration
// @Summary Register a new account
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body dto.SignupRequest true "Signup form"
// @Success 201 {object} dto.StructuredResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 409 {object} dto.ErrorResponse "Username already exists"
// @Router /auth/signup [post]
func (c *AuthController) Signup(ctx *gin.Context) {
	var req dto.SignupRequest
	if err := ctx.ShouldBind(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid signup request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	user, err := c.authService.Register(ctx.Request.Context(), req.Username, req.Password, req.AccountType)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(dto.NewUserResponse(user), "Account created! You can now log in."))
}

// Login handles user login
// @Summary User login
// @Description Authenticates a user, sets the session cookie and returns the session token
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.StructuredResponse{data=dto.LoginResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBind(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid login request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	result, err := c.authService.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	maxAge := int(result.Session.ExpiresAt.Sub(result.Session.CreatedAt).Seconds())
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middleware.SessionCookieName, result.Token, maxAge, "/", "", c.cookieSecure, true)

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.LoginResponse{
		AccessToken: result.Token,
		TokenType:   "Bearer",
		ExpiresAt:   result.Session.ExpiresAt,
		User:        dto.NewUserResponse(result.User),
	}, "Login successful"))
}

// Logout revokes the current session
// @Summary Log out
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	if err := c.authService.Logout(ctx.Request.Context(), middleware.GetSessionID(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	clearSessionCookie(ctx, c.cookieSecure)
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(nil, "Logged out"))
}

// Profile returns the caller's account
// @Summary Current user profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse{data=dto.UserResponse}
// @Failure 401 {object} dto.ErrorResponse
// @Router /profile [get]
func (c *AuthController) Profile(ctx *gin.Context) {
	identity, ok := identityOrAbort(ctx)
	if !ok {
		return
	}

	user, err := c.authService.Profile(ctx.Request.Context(), identity)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.NewUserResponse(user), ""))
}
