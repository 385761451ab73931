package models

// LoginRequest represents the request body for signing in with email and password.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignupRequest represents the request body for creating a new account.
// Firebase enforces its own minimum password length; the binding here just
// rejects obviously short input before the provider round-trip.
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// ChangePasswordRequest represents the request body for the password change
// flow. The current password is re-verified with the identity provider
// before the update is applied.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}
