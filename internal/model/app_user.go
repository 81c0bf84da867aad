package model

import "time"

// AccountStatus is the approval state of an app user.
type AccountStatus string

const (
	StatusActive   AccountStatus = "active"
	StatusInactive AccountStatus = "inactive"
)

// ParseAccountStatus accepts both the stored names and the "true"/"false"
// strings the admin dashboard sends.
func ParseAccountStatus(raw string) (AccountStatus, bool) {
	switch raw {
	case "active", "true":
		return StatusActive, true
	case "inactive", "false":
		return StatusInactive, true
	}
	return "", false
}

// AppUser is an admin-domain account. New sign-ups stay inactive until an operator approves them.
type AppUser struct {
	ID           int           `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"-"`
	Status       AccountStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// IsActive reports whether the account may log in.
func (u *AppUser) IsActive() bool {
	return u.Status == StatusActive
}

// AppUserSignupRequest is the payload for self-registration.
type AppUserSignupRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// CreateAppUserRequest is the payload an operator uses to add an account.
type CreateAppUserRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Status   string `json:"status" binding:"omitempty,account_status"`
}

// UpdateAppUserRequest edits an app user's profile fields.
type UpdateAppUserRequest struct {
	ID    int    `json:"id" binding:"required,min=1"`
	Name  string `json:"name" binding:"required,min=2,max=100"`
	Email string `json:"email" binding:"required,email,max=255"`
}

// UpdateAppUserStatusRequest toggles an app user between active and inactive.
type UpdateAppUserStatusRequest struct {
	ID     int    `json:"id" binding:"required,min=1"`
	Status string `json:"status" binding:"required,account_status"`
}
