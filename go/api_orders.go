package inventoryserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	orderhttpmapper "github.com/Apurer/go-gin-inventory-api/internal/domains/orders/adapters/http/mapper"
	ordertypes "github.com/Apurer/go-gin-inventory-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-inventory-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/go-gin-inventory-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-inventory-api/internal/shared/authz"
	apierrors "github.com/Apurer/go-gin-inventory-api/internal/shared/errors"
)

const (
	// HeaderIdempotencyKey deduplicates order placement retries.
	HeaderIdempotencyKey = "Idempotency-Key"

	maxIdempotencyKeyLength = 255
)

// OrderAPI wires HTTP transport with the order service and placement workflows.
type OrderAPI struct {
	service   orderports.Service
	workflows orderports.WorkflowOrchestrator
}

// NewOrderAPI creates an OrderAPI. workflows may be nil, in which case orders
// are placed through the service directly.
func NewOrderAPI(service orderports.Service, workflows orderports.WorkflowOrchestrator) OrderAPI {
	return OrderAPI{service: service, workflows: workflows}
}

// ListOrdersParams are the optional query parameters of GET /api/orders.
type ListOrdersParams struct {
	Status   *string
	Ordering *[]string
	Search   *string
}

// Get /api/orders
// Lists the orders visible to the caller
func (api *OrderAPI) ListOrders(c *gin.Context) {
	params, err := bindListOrdersParams(c)
	if err != nil {
		apierrors.DefaultResponder.BadRequest(c, err.Error())
		return
	}
	query := ordertypes.ListOrdersQuery{Status: params.Status}
	if params.Ordering != nil {
		query.Ordering = *params.Ordering
	}
	if params.Search != nil {
		query.Search = *params.Search
	}
	orders, err := api.service.ListOrders(c.Request.Context(), principalFrom(c), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrders(orders))
}

func bindListOrdersParams(c *gin.Context) (ListOrdersParams, error) {
	var params ListOrdersParams
	values := c.Request.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "status", values, &params.Status); err != nil {
		return params, err
	}
	if err := runtime.BindQueryParameter("form", true, false, "ordering", values, &params.Ordering); err != nil {
		return params, err
	}
	if err := runtime.BindQueryParameter("form", true, false, "search", values, &params.Search); err != nil {
		return params, err
	}
	return params, nil
}

// Post /api/orders
// Places an order for the authenticated caller
func (api *OrderAPI) PlaceOrder(c *gin.Context) {
	var payload orderhttpmapper.PlaceOrderRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			apierrors.DefaultResponder.BadRequest(c, err.Error())
			return
		}
	}
	key := strings.TrimSpace(c.GetHeader(HeaderIdempotencyKey))
	if len(key) > maxIdempotencyKeyLength {
		apierrors.DefaultResponder.BadRequest(c, HeaderIdempotencyKey+" is too long")
		return
	}
	input := orderhttpmapper.ToPlaceOrderInput(payload, key)
	order, err := api.placeOrder(c.Request.Context(), principalFrom(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, orderhttpmapper.FromDomainOrder(order))
}

func (api *OrderAPI) placeOrder(ctx context.Context, principal authz.Principal, input ordertypes.PlaceOrderInput) (*domain.Order, error) {
	if api.workflows != nil {
		return api.workflows.PlaceOrder(ctx, principal, input)
	}
	return api.service.PlaceOrder(ctx, principal, input)
}

// Get /api/orders/:orderId
// Finds an order visible to the caller
func (api *OrderAPI) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), principalFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrder(order))
}

// Patch /api/orders/:orderId
// Updates an order's status. Staff only.
func (api *OrderAPI) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	var payload orderhttpmapper.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.DefaultResponder.BadRequest(c, err.Error())
		return
	}
	order, err := api.service.UpdateOrderStatus(c.Request.Context(), principalFrom(c), orderhttpmapper.ToUpdateOrderStatusInput(id, payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrder(order))
}
