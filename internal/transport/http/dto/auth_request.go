package dto

import "strings"

// -------- Core auth --------

type RegisterRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	// Optional. Admin is deliberately absent: elevation is an admin action.
	Role string `json:"role,omitempty" validate:"omitempty,oneof=user mentor"`
}

func (r *RegisterRequest) Validate() error {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.TrimSpace(r.Email)
	return validateStruct(r)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	return validateStruct(r)
}

// Refresh/Logout accept the token in the body; the HttpOnly cookie is the
// fallback, so both can legitimately be empty here.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken,omitempty"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken,omitempty"`
}

// -------- Password change / reset --------

type PasswordChangeRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

func (r *PasswordChangeRequest) Validate() error {
	return validateStruct(r)
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *PasswordResetRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	return validateStruct(r)
}

type PasswordResetConfirmRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

func (r *PasswordResetConfirmRequest) Validate() error {
	return validateStruct(r)
}

// -------- Admin --------

type SetUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user mentor admin"`
}

func (r *SetUserRoleRequest) Validate() error {
	r.Role = strings.TrimSpace(r.Role)
	return validateStruct(r)
}
