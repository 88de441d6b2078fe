package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyUsername     = errors.New("username is required")
	ErrEmptyEmail        = errors.New("email is required")
	ErrEmptyPasswordHash = errors.New("password hash is required")
)

// Account is a registered user of the inventory API.
type Account struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Staff        bool
	DateJoined   time.Time
}

// NewAccount builds a non-staff account from an already hashed password.
func NewAccount(username, email, passwordHash string) (*Account, error) {
	a := &Account{
		Username:     strings.TrimSpace(username),
		Email:        strings.TrimSpace(email),
		PasswordHash: passwordHash,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// PromoteToStaff grants staff privileges.
func (a *Account) PromoteToStaff() {
	a.Staff = true
}

// Validate re-applies core invariants for persistence.
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Username) == "" {
		return ErrEmptyUsername
	}
	if strings.TrimSpace(a.Email) == "" {
		return ErrEmptyEmail
	}
	if a.PasswordHash == "" {
		return ErrEmptyPasswordHash
	}
	return nil
}
