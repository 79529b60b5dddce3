package user

import "time"

// User is a storefront customer account.
// swagger:model
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"  example:"Ana Quispe"`
	Email        string    `json:"email" example:"ana@example.pe"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// RegisterRequest payload de registro.
// swagger:model RegisterRequest
type RegisterRequest struct {
	Name     string `json:"name"     binding:"required,max=120"    example:"Ana Quispe"`
	Email    string `json:"email"    binding:"required,email"      example:"ana@example.pe"`
	Password string `json:"password" binding:"required,min=8,max=72" example:"s3cret-pass"`
}

// LoginRequest payload de login.
// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email" example:"ana@example.pe"`
	Password string `json:"password" binding:"required"       example:"s3cret-pass"`
}

// LoginResponse carries the bearer token for subsequent calls.
// swagger:model LoginResponse
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
