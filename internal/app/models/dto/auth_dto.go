package dto

import "time"

// RegisterRequest represents a user registration request. Parents may name
// the student to link either by studentCode or by studentEmail.
type RegisterRequest struct {
	Email        string  `json:"email" binding:"required" example:"a@test.com"`
	Password     string  `json:"password" binding:"required,min=6" example:"password123"`
	Name         string  `json:"name" binding:"required" example:"Asha"`
	UserType     string  `json:"user_type" example:"student" enums:"student,parent,faculty"`
	StudentCode  string  `json:"studentCode,omitempty" example:"ACE-7K2Q9D"`
	StudentEmail string  `json:"studentEmail,omitempty" example:"a@test.com"`
	Relationship *string `json:"relationship,omitempty" example:"mother"`
}

// LoginRequest represents login credentials. When UserType is given it must
// match the stored role.
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"a@test.com"`
	Password string `json:"password" binding:"required" example:"password123"`
	UserType string `json:"user_type,omitempty" example:"student"`
}

// VerifyTokenRequest carries a token to check.
type VerifyTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	UserID       int64   `json:"user_id" example:"1"`
	Email        string  `json:"email" example:"a@test.com"`
	Name         string  `json:"name" example:"Asha"`
	UserType     string  `json:"user_type" example:"student"`
	StudentID    *int64  `json:"student_id"`
	StudentCode  *string `json:"student_code" example:"ACE-7K2Q9D"`
	Relationship *string `json:"relationship"`
	HasProfile   bool    `json:"has_profile" example:"false"`
	Token        string  `json:"token"`
}

// TokenClaimsResponse is the decoded content of a valid token.
type TokenClaimsResponse struct {
	UserID    int64     `json:"user_id" example:"1"`
	Email     string    `json:"email" example:"a@test.com"`
	UserType  string    `json:"user_type" example:"student"`
	ExpiresAt time.Time `json:"expires_at"`
}
