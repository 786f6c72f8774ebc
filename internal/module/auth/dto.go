package auth

import "github.com/simp-lee/restbase/internal/domain"

// LoginRequest represents the input for user login.
type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=8"`
}

// RegisterRequest represents the input for user registration. Role is never
// client-settable; new accounts always start as regular users.
type RegisterRequest struct {
	Email          string `json:"email" form:"email" binding:"required,email"`
	Password       string `json:"password" form:"password" binding:"required,min=8,max=72"`
	FirstName      string `json:"first_name" form:"first_name" binding:"required,min=1,max=100"`
	LastName       string `json:"last_name" form:"last_name" binding:"required,min=1,max=100"`
	Phone          string `json:"phone" form:"phone" binding:"omitempty,max=32"`
	SystemLanguage string `json:"system_language" form:"system_language" binding:"omitempty,oneof=en tr de fr es it"`
}

// TokenResponse carries the signed token and the authenticated user returned
// after login or registration.
type TokenResponse struct {
	Token     string       `json:"token"`
	ExpiresAt int64        `json:"expires_at"`
	User      *domain.User `json:"user"`
}
