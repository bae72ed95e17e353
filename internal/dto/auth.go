package dto

import "github.com/eventzy/eventzy-go/internal/models"

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest creates a new account. ImagePath optionally points at a
// local avatar file submitted as multipart content.
type RegisterRequest struct {
	Username  string `validate:"required"`
	Email     string `validate:"required,email"`
	Password  string `validate:"required,min=6"`
	ImagePath string
}

// ProfileUpdateRequest changes username, email and/or avatar. Empty fields
// are omitted from the multipart body.
type ProfileUpdateRequest struct {
	Username  string
	Email     string
	ImagePath string
}

// AuthData is the payload of login/register responses.
type AuthData struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}
