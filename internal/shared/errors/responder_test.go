package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var errDomain = stderrors.New("domain rule broken")

func serve(t *testing.T, responder *ChainedResponder, err error) (*httptest.ResponseRecorder, ProblemDetail) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/thing", func(c *gin.Context) { responder.RespondError(c, err) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/thing", nil))

	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return rec, problem
}

func TestChainedResponder_UsesFirstMatchingMapper(t *testing.T) {
	responder := NewChainedResponder("", func(err error) (ProblemDetail, bool) {
		if stderrors.Is(err, errDomain) {
			return ErrBadRequest.WithDetail("nope"), true
		}
		return ProblemDetail{}, false
	})

	rec, problem := serve(t, responder, errDomain)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	require.Equal(t, "nope", problem.Detail)
	require.Equal(t, "/thing", problem.Instance)
}

func TestChainedResponder_UnknownErrorsAreOpaque(t *testing.T) {
	responder := NewChainedResponder("https://errors.example.com")

	rec, problem := serve(t, responder, stderrors.New("pq: password authentication failed"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "An unexpected error occurred.", problem.Detail)
	require.NotContains(t, rec.Body.String(), "password authentication")
	require.Equal(t, "https://errors.example.com"+TypeInternal, problem.Type)
}

func TestWithExtension_DoesNotMutateTemplate(t *testing.T) {
	_ = NewConflictProblem("email", "taken")
	require.Nil(t, ErrConflict.Extensions)

	problem := NewConflictProblem("username", "This username is already taken.")
	require.Equal(t, "username", problem.Extensions["field"])
	require.Equal(t, http.StatusBadRequest, problem.Status)
}
