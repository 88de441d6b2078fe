package application

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/ports"
)

var (
	// ErrAuthentication wraps login and token failures.
	ErrAuthentication = errors.New("authentication failed")
	// ErrInternal hides storage failures from callers; details are logged.
	ErrInternal = errors.New("registration failed due to a database error")
)

// Messages returned for uniqueness conflicts, keyed by field.
var conflictMessages = map[string]string{
	ports.FieldUsername: "This username is already taken.",
	ports.FieldEmail:    "This email address is already registered.",
}

// ConflictError reports that a unique field is already in use.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string { return e.Message() }

// Message is the client-facing explanation of the conflict.
func (e *ConflictError) Message() string {
	if msg, ok := conflictMessages[e.Field]; ok {
		return msg
	}
	return fmt.Sprintf("This %s is already in use.", e.Field)
}

// ValidationError lists field-level problems keyed by JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid registration: " + strings.Join(parts, "; ")
}
