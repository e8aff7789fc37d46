package model

import "time"

const (
	RoleUser      = "user"
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
)

// DefaultAvatarURL is assigned to every new account until a profile picture
// is uploaded.
const DefaultAvatarURL = "https://i.ibb.co/DHYkxSYT/OIP-1.jpg"

// ValidRole reports whether role is one of the fixed role values.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAdmin, RoleModerator:
		return true
	}
	return false
}

// User represents an account. Telephone is stored in canonical form and acts
// as the login identifier.
type User struct {
	ID           int       `json:"id"`
	FullName     string    `json:"full_name"`
	Telephone    string    `json:"telephone"`
	Commune      string    `json:"commune"`
	ImageURL     string    `json:"image_url"`
	Role         string    `json:"role"`
	Terms        bool      `json:"terms"`
	IsActive     bool      `json:"is_active"`
	IsStaff      bool      `json:"-"`
	IsSuperuser  bool      `json:"-"`
	PasswordHash string    `json:"-"` // Never expose the hash in JSON responses
	CreatedAt    time.Time `json:"created_at"`
}

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	FullName  string `json:"full_name" binding:"required"`
	Telephone string `json:"telephone" binding:"required"`
	Commune   string `json:"commune" binding:"required"`
	Password  string `json:"password" binding:"required,min=6"`
	Terms     *bool  `json:"terms"`
}

// LoginRequest carries login credentials. Also used by the token obtain
// endpoint.
type LoginRequest struct {
	Telephone string `json:"telephone" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

// RefreshRequest carries a refresh token to exchange for a new access token.
type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// UpdatePersonalInfoRequest updates the name and/or login telephone.
type UpdatePersonalInfoRequest struct {
	FullName  *string `json:"full_name"`
	Telephone *string `json:"telephone"`
}

// ChangePasswordRequest replaces the password of the authenticated user.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// RequestPasswordResetRequest starts the reset flow for a telephone.
type RequestPasswordResetRequest struct {
	Telephone string `json:"telephone" binding:"required"`
}

// ResetPasswordRequest confirms a reset with the delivered code.
type ResetPasswordRequest struct {
	Telephone   string `json:"telephone" binding:"required"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// UpdateRoleRequest is the admin payload for changing a user's role.
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}
