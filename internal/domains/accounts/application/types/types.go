package types

import "time"

// RegisterInput is the self-service registration payload.
type RegisterInput struct {
	Username string `json:"username" validate:"required,max=150,username"`
	Email    string `json:"email" validate:"required,max=254,email"`
	Password string `json:"password" validate:"required,min=8,maxbytes=72"`
}

// Confirmation acknowledges a successful registration.
type Confirmation struct {
	Message   string
	AccountID int64
}

// IdentityView is what an authenticated caller may see about themselves.
type IdentityView struct {
	ID         int64
	Username   string
	Email      string
	IsStaff    bool
	DateJoined time.Time
}

// LoginInput carries credentials for issuing a session token.
type LoginInput struct {
	Username string
	Password string
}

// Session is an issued bearer token.
type Session struct {
	Token string
}
