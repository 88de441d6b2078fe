package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	accounttypes "github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/application/types"
	"github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/domain"
	"github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/ports"
	"github.com/Apurer/go-gin-inventory-api/internal/shared/authz"
)

const registeredMessage = "User registered successfully"

// Service exposes account use cases: registration, identity lookup and sessions.
type Service struct {
	repo     ports.Repository
	hasher   ports.PasswordHasher
	sessions ports.SessionStore
	logger   *slog.Logger
	validate *validator.Validate
	newToken func() string
}

type Option func(*Service)

// WithSessionStore sets where issued tokens are kept.
func WithSessionStore(store ports.SessionStore) Option {
	return func(s *Service) {
		if store != nil {
			s.sessions = store
		}
	}
}

// WithLogger sets the logger used for failures that are hidden from callers.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(repo ports.Repository, hasher ports.PasswordHasher, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		hasher:   hasher,
		sessions: ports.NoopSessionStore,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		validate: newValidator(),
		newToken: uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Register creates a non-staff account. Uniqueness conflicts are reported per
// field; every other storage failure is logged and surfaced as ErrInternal.
func (s *Service) Register(ctx context.Context, input accounttypes.RegisterInput) (*accounttypes.Confirmation, error) {
	input, err := s.validateRegistration(input)
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "password hashing failed",
			slog.String("username", input.Username), slog.String("error", err.Error()))
		return nil, ErrInternal
	}
	account, err := domain.NewAccount(input.Username, input.Email, hash)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{fieldFor(err): "This field is required."}}
	}
	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return nil, s.translateRegistrationError(ctx, input.Username, err)
	}
	return &accounttypes.Confirmation{Message: registeredMessage, AccountID: created.ID}, nil
}

func (s *Service) translateRegistrationError(ctx context.Context, username string, err error) error {
	var unique *ports.UniqueViolation
	if errors.As(err, &unique) && unique.Field != "" {
		return &ConflictError{Field: unique.Field}
	}
	s.logger.LogAttrs(ctx, slog.LevelError, "registration failed",
		slog.String("username", username), slog.String("error", err.Error()))
	return ErrInternal
}

// Current returns the caller's own identity.
func (s *Service) Current(ctx context.Context, principal authz.Principal) (*accounttypes.IdentityView, error) {
	if !principal.IsAuthenticated() {
		return nil, authz.ErrUnauthorized
	}
	account, err := s.repo.GetByID(ctx, principal.AccountID)
	if err != nil {
		return nil, err
	}
	return toIdentityView(account), nil
}

// Login verifies credentials and issues a session token.
func (s *Service) Login(ctx context.Context, input accounttypes.LoginInput) (*accounttypes.Session, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: %w", ErrAuthentication, ports.ErrInvalidCredentials)
	}
	account, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrAuthentication, ports.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}
	if err := s.hasher.Compare(account.PasswordHash, input.Password); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthentication, ports.ErrInvalidCredentials)
	}
	token := s.newToken()
	if err := s.sessions.Save(ctx, token, account.ID); err != nil {
		return nil, err
	}
	return &accounttypes.Session{Token: token}, nil
}

// Logout revokes a session token. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// ResolvePrincipal maps a bearer token to a principal. An empty token is the
// anonymous principal; an unknown or expired token is an authentication error.
func (s *Service) ResolvePrincipal(ctx context.Context, token string) (authz.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return authz.Anonymous(), nil
	}
	accountID, err := s.sessions.Lookup(ctx, token)
	if errors.Is(err, ports.ErrSessionNotFound) {
		return authz.Anonymous(), fmt.Errorf("%w: invalid token", ErrAuthentication)
	}
	if err != nil {
		return authz.Anonymous(), err
	}
	account, err := s.repo.GetByID(ctx, accountID)
	if errors.Is(err, ports.ErrNotFound) {
		return authz.Anonymous(), fmt.Errorf("%w: account no longer exists", ErrAuthentication)
	}
	if err != nil {
		return authz.Anonymous(), err
	}
	return authz.Principal{
		AccountID:     account.ID,
		Username:      account.Username,
		Email:         account.Email,
		Staff:         account.Staff,
		Authenticated: true,
	}, nil
}

// EnsureStaff creates the account with staff rights, or promotes it when the
// username already exists. This is the only path that grants staff.
func (s *Service) EnsureStaff(ctx context.Context, input accounttypes.RegisterInput) (*accounttypes.IdentityView, error) {
	input, err := s.validateRegistration(input)
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByUsername(ctx, input.Username)
	switch {
	case err == nil:
		if existing.Staff {
			return toIdentityView(existing), nil
		}
		promoted, err := s.repo.SetStaff(ctx, existing.ID, true)
		if err != nil {
			return nil, err
		}
		return toIdentityView(promoted), nil
	case !errors.Is(err, ports.ErrNotFound):
		return nil, err
	}
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	account, err := domain.NewAccount(input.Username, input.Email, hash)
	if err != nil {
		return nil, err
	}
	account.PromoteToStaff()
	created, err := s.repo.Create(ctx, account)
	if err != nil {
		var unique *ports.UniqueViolation
		if errors.As(err, &unique) && unique.Field != "" {
			return nil, &ConflictError{Field: unique.Field}
		}
		return nil, err
	}
	return toIdentityView(created), nil
}

func toIdentityView(account *domain.Account) *accounttypes.IdentityView {
	return &accounttypes.IdentityView{
		ID:         account.ID,
		Username:   account.Username,
		Email:      account.Email,
		IsStaff:    account.Staff,
		DateJoined: account.DateJoined,
	}
}

func fieldFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyEmail):
		return "email"
	case errors.Is(err, domain.ErrEmptyPasswordHash):
		return "password"
	default:
		return "username"
	}
}

var _ ports.Service = (*Service)(nil)
