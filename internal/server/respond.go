package server

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	catapp "github.com/pawledger/registry-api/internal/domains/catalog/application"
	catports "github.com/pawledger/registry-api/internal/domains/catalog/ports"
	custapp "github.com/pawledger/registry-api/internal/domains/customers/application"
	custports "github.com/pawledger/registry-api/internal/domains/customers/ports"
	msgapp "github.com/pawledger/registry-api/internal/domains/messages/application"
	msgports "github.com/pawledger/registry-api/internal/domains/messages/ports"
	orderapp "github.com/pawledger/registry-api/internal/domains/orders/application"
	orderdomain "github.com/pawledger/registry-api/internal/domains/orders/domain"
	orderports "github.com/pawledger/registry-api/internal/domains/orders/ports"
	regapp "github.com/pawledger/registry-api/internal/domains/registrations/application"
	regdomain "github.com/pawledger/registry-api/internal/domains/registrations/domain"
	regports "github.com/pawledger/registry-api/internal/domains/registrations/ports"
	apierrors "github.com/pawledger/registry-api/internal/shared/errors"
	"github.com/pawledger/registry-api/internal/shared/identity"
	"github.com/pawledger/registry-api/internal/shared/query"
)

// responder maps the application error taxonomy onto problem responses:
// identity errors to 401/403, invalid input to 400, rejected transitions to
// 422, missing rows to 404, lost conditional writes to 409, and everything
// else to 500.
var responder = apierrors.NewChainedResponder("",
	mapIdentityErrors,
	mapTransitionErrors,
	mapInvalidInput,
	mapNotFound,
	mapConflicts,
)

func respondError(c *gin.Context, err error) {
	responder.RespondError(c, err)
}

func mapIdentityErrors(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, identity.ErrUnauthorized):
		return apierrors.ErrUnauthorized.WithDetail(err.Error()), true
	case errors.Is(err, identity.ErrForbidden):
		return apierrors.ErrForbidden.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapTransitionErrors(err error) (apierrors.ProblemDetail, bool) {
	var orderEdge *orderdomain.InvalidTransitionError
	if errors.As(err, &orderEdge) {
		return apierrors.NewInvalidTransitionProblem(string(orderEdge.From), string(orderEdge.To)), true
	}
	var regEdge *regdomain.InvalidTransitionError
	if errors.As(err, &regEdge) {
		return apierrors.NewInvalidTransitionProblem(string(regEdge.From), string(regEdge.To)), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapInvalidInput(err error) (apierrors.ProblemDetail, bool) {
	for _, sentinel := range []error{
		orderapp.ErrInvalidInput,
		regapp.ErrInvalidInput,
		custapp.ErrInvalidInput,
		msgapp.ErrInvalidInput,
		catapp.ErrInvalidInput,
	} {
		if errors.Is(err, sentinel) {
			return apierrors.ErrValidation.WithDetail(err.Error()), true
		}
	}
	return apierrors.ProblemDetail{}, false
}

func mapNotFound(err error) (apierrors.ProblemDetail, bool) {
	for _, sentinel := range []error{
		orderports.ErrNotFound,
		regports.ErrNotFound,
		custports.ErrNotFound,
		msgports.ErrNotFound,
		catports.ErrNotFound,
	} {
		if errors.Is(err, sentinel) {
			return apierrors.ErrNotFound.WithDetail(err.Error()), true
		}
	}
	return apierrors.ProblemDetail{}, false
}

func mapConflicts(err error) (apierrors.ProblemDetail, bool) {
	for _, sentinel := range []error{
		orderports.ErrConflict,
		regports.ErrConflict,
		catports.ErrDuplicateCode,
	} {
		if errors.Is(err, sentinel) {
			return apierrors.ErrConflict.WithDetail(err.Error()), true
		}
	}
	return apierrors.ProblemDetail{}, false
}

// pageRequest binds the shared listing query parameters.
func pageRequest(c *gin.Context) query.PageRequest {
	return query.PageRequest{
		Page:      intQuery(c, "page"),
		PageSize:  intQuery(c, "pageSize"),
		Search:    c.Query("search"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
}

func intQuery(c *gin.Context, key string) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return value
}
