package models

import "github.com/golang-jwt/jwt/v5"

// RegisterRequest holds the account creation payload.
type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	Role      string `json:"role" validate:"required"`
	Password  string `json:"password" validate:"required,min=6"`
}

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest holds the self-service profile update payload.
type UpdateProfileRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	Bio       string `json:"bio"`
}

// SessionClaims is the JWT payload carried in the session cookie. The role
// is deliberately absent: privileged routes re-read it from the store so a
// demotion takes effect on the next request.
type SessionClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// AuthResponse couples a profile with the session it was issued under.
type AuthResponse struct {
	Message string  `json:"message"`
	User    Profile `json:"user"`
}
