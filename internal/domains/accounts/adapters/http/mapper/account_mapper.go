package mapper

import (
	"time"

	accounttypes "github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/application/types"
)

// RegisterRequest is the body of POST /api/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// MessageResponse carries a human readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse returns the issued bearer token.
type LoginResponse struct {
	Token string `json:"token"`
}

// Identity is the transport shape of the caller's own account.
type Identity struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	IsStaff    bool      `json:"isStaff"`
	DateJoined time.Time `json:"dateJoined"`
}

func ToRegisterInput(req RegisterRequest) accounttypes.RegisterInput {
	return accounttypes.RegisterInput{Username: req.Username, Email: req.Email, Password: req.Password}
}

func ToLoginInput(req LoginRequest) accounttypes.LoginInput {
	return accounttypes.LoginInput{Username: req.Username, Password: req.Password}
}

func FromConfirmation(c *accounttypes.Confirmation) MessageResponse {
	if c == nil {
		return MessageResponse{}
	}
	return MessageResponse{Message: c.Message}
}

func FromIdentityView(v *accounttypes.IdentityView) Identity {
	if v == nil {
		return Identity{}
	}
	return Identity{
		ID:         v.ID,
		Username:   v.Username,
		Email:      v.Email,
		IsStaff:    v.IsStaff,
		DateJoined: v.DateJoined,
	}
}
