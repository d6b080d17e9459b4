package dto

import (
	"time"

	"github.com/yigit/joblink/internal/app/models"
)

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Email     string          `json:"email" binding:"required,email"`
	Password  string          `json:"password" binding:"required,min=8"`
	FirstName string          `json:"firstName" binding:"required"`
	LastName  string          `json:"lastName" binding:"required"`
	RoleType  models.RoleType `json:"roleType" binding:"required" example:"STUDENT" enums:"STUDENT,RECRUITER"`
	Company   *string         `json:"company,omitempty" example:"Acme Corp"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Role       string    `json:"role"`
	Company    *string   `json:"company,omitempty"`
	ResumeText *string   `json:"resumeText,omitempty"`
	ResumeURL  *string   `json:"resumeUrl,omitempty"`
	CGPA       *float64  `json:"cgpa,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewUserResponse maps a user onto its public representation
func NewUserResponse(u *models.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Role:       string(u.RoleType),
		Company:    u.Company,
		ResumeText: u.ResumeText,
		ResumeURL:  u.ResumeURL,
		CGPA:       u.CGPA,
		CreatedAt:  u.CreatedAt,
	}
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  *UserResponse `json:"user"`
}
