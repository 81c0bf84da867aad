package model

// LoginRequest is the payload for both app-user and student authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=72"`
}

// AccountInfo is the public snapshot returned to clients after login.
type AccountInfo struct {
	ID     int           `json:"id"`
	Name   string        `json:"name"`
	Email  string        `json:"email"`
	Branch string        `json:"branch,omitempty"`
	Status AccountStatus `json:"status,omitempty"`
}

// LoginResponse is returned after a successful login in either domain.
type LoginResponse struct {
	Token   string      `json:"token"`
	Account AccountInfo `json:"account"`
}
