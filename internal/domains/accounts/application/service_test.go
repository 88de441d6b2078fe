package application

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	accountmemory "github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/adapters/memory"
	"github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/adapters/security"
	accounttypes "github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/application/types"
	"github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/domain"
	"github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/ports"
	"github.com/Apurer/go-gin-inventory-api/internal/shared/authz"
)

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return ports.ErrInvalidCredentials
	}
	return nil
}

type failingRepo struct {
	ports.Repository
	err error
}

func (f failingRepo) Create(context.Context, *domain.Account) (*domain.Account, error) {
	return nil, f.err
}

func validInput() accounttypes.RegisterInput {
	return accounttypes.RegisterInput{Username: "alice", Email: "alice@example.com", Password: "s3cretpass"}
}

func newService(opts ...Option) *Service {
	return NewService(accountmemory.NewRepository(), plainHasher{}, opts...)
}

func TestRegister_Succeeds(t *testing.T) {
	svc := newService()

	confirmation, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)
	require.Equal(t, "User registered successfully", confirmation.Message)
	require.NotZero(t, confirmation.AccountID)
}

func TestRegister_UsernameConflict(t *testing.T) {
	svc := newService()
	_, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	input := validInput()
	input.Email = "someone-else@example.com"
	_, err = svc.Register(context.Background(), input)

	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	require.Equal(t, ports.FieldUsername, conflict.Field)
	require.Equal(t, "This username is already taken.", conflict.Message())
}

func TestRegister_EmailConflict(t *testing.T) {
	svc := newService()
	_, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	input := validInput()
	input.Username = "bob"
	_, err = svc.Register(context.Background(), input)

	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	require.Equal(t, ports.FieldEmail, conflict.Field)
	require.Equal(t, "This email address is already registered.", conflict.Message())
}

func TestRegister_UnrelatedFailureIsInternalAndLogged(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	svc := NewService(failingRepo{err: errors.New("disk full")}, plainHasher{}, WithLogger(logger))

	_, err := svc.Register(context.Background(), validInput())
	require.ErrorIs(t, err, ErrInternal)
	var conflict *ConflictError
	require.False(t, errors.As(err, &conflict))
	require.NotContains(t, err.Error(), "disk full")
	require.Contains(t, logs.String(), "disk full")
}

func TestRegister_UnknownUniqueConstraintIsInternal(t *testing.T) {
	svc := NewService(failingRepo{err: &ports.UniqueViolation{Err: errors.New("accounts_pkey")}}, plainHasher{})

	_, err := svc.Register(context.Background(), validInput())
	require.ErrorIs(t, err, ErrInternal)
}

func TestRegister_ValidationErrors(t *testing.T) {
	svc := newService()

	_, err := svc.Register(context.Background(), accounttypes.RegisterInput{
		Username: "bad name!",
		Email:    "not-an-email",
		Password: "short",
	})
	var invalid *ValidationError
	require.True(t, errors.As(err, &invalid))
	require.Contains(t, invalid.Fields, "username")
	require.Contains(t, invalid.Fields, "email")
	require.Equal(t, "Ensure this field has at least 8 characters.", invalid.Fields["password"])

	_, err = svc.Register(context.Background(), accounttypes.RegisterInput{})
	require.True(t, errors.As(err, &invalid))
	require.Equal(t, "This field is required.", invalid.Fields["username"])
	require.Len(t, invalid.Fields, 3)

	long := validInput()
	long.Username = strings.Repeat("a", 151)
	_, err = svc.Register(context.Background(), long)
	require.True(t, errors.As(err, &invalid))
	require.Equal(t, "Ensure this field has no more than 150 characters.", invalid.Fields["username"])
}

func TestRegister_PasswordLongerThanBcryptLimit(t *testing.T) {
	svc := NewService(accountmemory.NewRepository(), security.NewBcryptHasher(4))

	input := validInput()
	input.Password = strings.Repeat("a", 100)
	_, err := svc.Register(context.Background(), input)
	var invalid *ValidationError
	require.True(t, errors.As(err, &invalid), "got %v", err)
	require.NotErrorIs(t, err, ErrInternal)
	require.Equal(t, "Ensure this field has no more than 72 bytes.", invalid.Fields["password"])

	// 25 three-byte runes are 75 bytes.
	input.Password = strings.Repeat("€", 25)
	_, err = svc.Register(context.Background(), input)
	require.True(t, errors.As(err, &invalid), "got %v", err)
	require.Contains(t, invalid.Fields, "password")

	input.Password = strings.Repeat("a", 72)
	confirmation, err := svc.Register(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, "User registered successfully", confirmation.Message)
}

func TestRegister_NeverGrantsStaff(t *testing.T) {
	svc := newService()
	confirmation, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	view, err := svc.Current(context.Background(), authz.Principal{AccountID: confirmation.AccountID, Authenticated: true})
	require.NoError(t, err)
	require.False(t, view.IsStaff)
	require.Equal(t, "alice", view.Username)
}

func TestCurrent_RequiresAuthentication(t *testing.T) {
	svc := newService()

	_, err := svc.Current(context.Background(), authz.Anonymous())
	require.ErrorIs(t, err, authz.ErrUnauthorized)
}

func TestLoginResolveLogout(t *testing.T) {
	sessions := accountmemory.NewSessionStore(0)
	svc := newService(WithSessionStore(sessions))
	ctx := context.Background()
	_, err := svc.Register(ctx, validInput())
	require.NoError(t, err)

	_, err = svc.Login(ctx, accounttypes.LoginInput{Username: "alice", Password: "wrong-password"})
	require.ErrorIs(t, err, ErrAuthentication)
	_, err = svc.Login(ctx, accounttypes.LoginInput{Username: "nobody", Password: "s3cretpass"})
	require.ErrorIs(t, err, ErrAuthentication)

	session, err := svc.Login(ctx, accounttypes.LoginInput{Username: " alice ", Password: "s3cretpass"})
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)

	principal, err := svc.ResolvePrincipal(ctx, session.Token)
	require.NoError(t, err)
	require.True(t, principal.IsAuthenticated())
	require.False(t, principal.IsStaff())
	require.Equal(t, "alice", principal.Username)

	require.NoError(t, svc.Logout(ctx, session.Token))
	principal, err = svc.ResolvePrincipal(ctx, session.Token)
	require.ErrorIs(t, err, ErrAuthentication)
	require.False(t, principal.IsAuthenticated())

	principal, err = svc.ResolvePrincipal(ctx, "")
	require.NoError(t, err)
	require.False(t, principal.IsAuthenticated())
}

func TestEnsureStaff_CreatesOrPromotes(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	view, err := svc.EnsureStaff(ctx, accounttypes.RegisterInput{Username: "admin", Email: "admin@example.com", Password: "adminpass1"})
	require.NoError(t, err)
	require.True(t, view.IsStaff)

	_, err = svc.Register(ctx, validInput())
	require.NoError(t, err)
	promoted, err := svc.EnsureStaff(ctx, validInput())
	require.NoError(t, err)
	require.True(t, promoted.IsStaff)
	require.Equal(t, "alice", promoted.Username)
}
