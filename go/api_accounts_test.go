package inventoryserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	accounthttpmapper "github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/adapters/http/mapper"
)

func TestRegister_CreatesCustomer(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/register", "", map[string]any{
		"username": "alice", "email": "alice@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Equal(t, "User registered successfully", decode[accounthttpmapper.MessageResponse](t, rec).Message)

	token := srv.login(t, "alice", "password123")
	rec = srv.do(t, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[accounthttpmapper.Identity](t, rec)
	require.Equal(t, "alice", me.Username)
	require.False(t, me.IsStaff)
}

func TestRegister_ReportsConflictingField(t *testing.T) {
	srv := newTestServer(t)
	srv.customer(t, "alice")

	rec := srv.do(t, http.MethodPost, "/api/register", "", map[string]any{
		"username": "alice", "email": "other@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	problem := decodeProblem(t, rec)
	require.Equal(t, "This username is already taken.", problem.Detail)
	require.Equal(t, "username", problem.Extensions["field"])

	rec = srv.do(t, http.MethodPost, "/api/register", "", map[string]any{
		"username": "alice2", "email": "alice@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	problem = decodeProblem(t, rec)
	require.Equal(t, "This email address is already registered.", problem.Detail)
	require.Equal(t, "email", problem.Extensions["field"])
}

func TestRegister_ValidationErrors(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/register", "", map[string]any{
		"username": "bad name", "email": "nope", "password": "short",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	fields, ok := decodeProblem(t, rec).Extensions["fields"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, fields, "username")
	require.Contains(t, fields, "email")
	require.Contains(t, fields, "password")
}

func TestLoginAndLogout(t *testing.T) {
	srv := newTestServer(t)
	srv.customer(t, "alice")

	rec := srv.do(t, http.MethodPost, "/api/login", "", map[string]any{"username": "alice", "password": "wrong"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Unable to log in with provided credentials.", decodeProblem(t, rec).Detail)

	rec = srv.do(t, http.MethodPost, "/api/login", "", map[string]any{"username": "alice", "password": "password123"})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decode[accounthttpmapper.LoginResponse](t, rec).Token
	require.NotEmpty(t, token)

	require.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/api/me", token, nil).Code)
	require.Equal(t, http.StatusOK, srv.do(t, http.MethodPost, "/api/logout", token, nil).Code)
	require.Equal(t, http.StatusUnauthorized, srv.do(t, http.MethodGet, "/api/me", token, nil).Code)
}

func TestCurrentUser_RequiresAuthentication(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	decodeProblem(t, rec)

	rec = srv.do(t, http.MethodGet, "/api/me", srv.staffToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, decode[accounthttpmapper.Identity](t, rec).IsStaff)
}
