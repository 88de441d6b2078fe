package inventoryserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	accountapp "github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/application"
	accountports "github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/ports"
	catalogapp "github.com/Apurer/go-gin-inventory-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/go-gin-inventory-api/internal/domains/catalog/ports"
	orderapp "github.com/Apurer/go-gin-inventory-api/internal/domains/orders/application"
	orderports "github.com/Apurer/go-gin-inventory-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-inventory-api/internal/shared/authz"
	apierrors "github.com/Apurer/go-gin-inventory-api/internal/shared/errors"
)

// problemResponder is the single place where service errors become HTTP problems.
// Mappers are ordered from most to least specific.
var problemResponder = apierrors.NewChainedResponder("",
	mapRestockForbidden,
	mapAuthorization,
	mapInvalidQuantity,
	mapAccountErrors,
	mapInvalidInput,
	mapIdempotencyConflict,
	mapNotFound,
)

func respondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	problemResponder.RespondError(c, err)
}

func mapRestockForbidden(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, catalogapp.ErrRestockForbidden) {
		return apierrors.ErrForbidden.WithDetail("Only staff can restock books."), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapAuthorization(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, authz.ErrUnauthorized):
		return apierrors.ErrUnauthorized, true
	case errors.Is(err, authz.ErrForbidden):
		return apierrors.ErrForbidden, true
	}
	return apierrors.ProblemDetail{}, false
}

func mapInvalidQuantity(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, catalogapp.ErrInvalidQuantity) {
		return apierrors.ErrInvalidQuantity, true
	}
	return apierrors.ProblemDetail{}, false
}

func mapAccountErrors(err error) (apierrors.ProblemDetail, bool) {
	var invalid *accountapp.ValidationError
	if errors.As(err, &invalid) {
		return apierrors.NewValidationProblem(invalid.Fields), true
	}
	var conflict *accountapp.ConflictError
	if errors.As(err, &conflict) {
		return apierrors.NewConflictProblem(conflict.Field, conflict.Message()), true
	}
	switch {
	case errors.Is(err, accountapp.ErrInternal):
		return apierrors.ErrInternal.WithDetail("Registration failed due to a database error."), true
	case errors.Is(err, accountapp.ErrAuthentication):
		return apierrors.ErrBadRequest.WithDetail("Unable to log in with provided credentials."), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapInvalidInput(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, catalogapp.ErrInvalidInput) || errors.Is(err, orderapp.ErrInvalidInput) {
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapIdempotencyConflict(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, orderports.ErrIdempotencyConflict) {
		problem := apierrors.ErrConflict.WithDetail("Idempotency-Key was already used with a different request.")
		problem.Status = http.StatusConflict
		return problem, true
	}
	return apierrors.ProblemDetail{}, false
}

func mapNotFound(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, catalogports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail("Book not found."), true
	case errors.Is(err, orderports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail("Order not found."), true
	case errors.Is(err, accountports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail("Account not found."), true
	}
	return apierrors.ProblemDetail{}, false
}
