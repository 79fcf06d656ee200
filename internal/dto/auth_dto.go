package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/roles"
)

type SignupRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	DisplayName string `json:"displayName" validate:"max=120"`
}

type SignupResponse struct {
	UID     string `json:"uid"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	IDToken   string           `json:"idToken"`
	ExpiresAt time.Time        `json:"expiresAt"`
	Session   roles.Resolution `json:"session"`
}

type SetAdminRoleRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Identity  string `json:"identity"`
	Docstore  string `json:"docstore"`
	Cache     string `json:"cache"`
}
