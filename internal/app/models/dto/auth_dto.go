package dto

import (
	"time"

	"github.com/yigit/coursehub/internal/app/models"
)

// SignupRequest is the signup form. Field checks and their messages belong
// to the auth service, which applies them in a fixed order.
type SignupRequest struct {
	Username    string `json:"username" form:"username" binding:"max=64"`
	Password    string `json:"password" form:"password" binding:"max=256"`
	AccountType string `json:"accountType" form:"account_type" binding:"max=32"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID        int64     `json:"id" example:"1"`
	Username  string    `json:"username" example:"ana"`
	RoleType  string    `json:"roleType" example:"INSTRUCTOR" enums:"STUDENT,INSTRUCTOR"`
	CreatedAt time.Time `json:"createdAt"`
}

// LoginResponse carries the session token. The same token is also set as
// the session cookie.
type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType" example:"Bearer"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        UserResponse `json:"user"`
}

// NewUserResponse maps a user model for output.
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		RoleType:  string(u.RoleType),
		CreatedAt: u.CreatedAt,
	}
}
