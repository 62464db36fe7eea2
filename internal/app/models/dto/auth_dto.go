package dto

import "github.com/yigit/thesismatch/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest creates an account. StudentID or SupervisorID link the
// account to an existing profile for the STUDENT and SUPERVISOR roles.
type RegisterRequest struct {
	Email        string      `json:"email" binding:"required,email"`
	Password     string      `json:"password" binding:"required,password"`
	FirstName    string      `json:"firstName" binding:"required"`
	LastName     string      `json:"lastName" binding:"required"`
	Role         models.Role `json:"role" binding:"required,oneof=ADMIN SUPERVISOR STUDENT"`
	StudentID    *string     `json:"studentId,omitempty"`
	SupervisorID *string     `json:"supervisorId,omitempty"`
}

// ChangePasswordRequest replaces the caller's password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,password"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn" example:"86400"`
}

// UserResponse is the public view of an account
type UserResponse struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	FirstName    string      `json:"firstName"`
	LastName     string      `json:"lastName"`
	Role         models.Role `json:"role" example:"STUDENT" enums:"ADMIN,SUPERVISOR,STUDENT"`
	StudentID    *string     `json:"studentId,omitempty"`
	SupervisorID *string     `json:"supervisorId,omitempty"`
}

// NewUserResponse strips the credentials off a user
func NewUserResponse(u models.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Role:         u.Role,
		StudentID:    u.StudentID,
		SupervisorID: u.SupervisorID,
	}
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}

// MeResponse is the current account with its linked profile, if any
type MeResponse struct {
	User       UserResponse        `json:"user"`
	Student    *models.Student     `json:"student,omitempty"`
	Supervisor *SupervisorResponse `json:"supervisor,omitempty"`
}
