package inventoryserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
	// Middlewares run before HandlerFunc for this route only.
	Middlewares []gin.HandlerFunc
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		chain := append(append([]gin.HandlerFunc{}, route.Middlewares...), route.HandlerFunc)
		router.Handle(route.Method, route.Pattern, chain...)
	}
	return router
}

// DefaultHandleFunc answers routes whose handler is not wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// ApiHandleFunctions groups the handlers for each API section.
type ApiHandleFunctions struct {
	// Routes for the BookAPI part of the API
	BookAPI BookAPI
	// Routes for the OrderAPI part of the API
	OrderAPI OrderAPI
	// Routes for the AccountAPI part of the API
	AccountAPI AccountAPI
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			Name:        "Healthz",
			Method:      http.MethodGet,
			Pattern:     "/healthz",
			HandlerFunc: Healthz,
		},
		{
			Name:        "ListBooks",
			Method:      http.MethodGet,
			Pattern:     "/api/books",
			HandlerFunc: handleFunctions.BookAPI.ListBooks,
		},
		{
			Name:        "AddBook",
			Method:      http.MethodPost,
			Pattern:     "/api/books",
			HandlerFunc: handleFunctions.BookAPI.AddBook,
		},
		{
			Name:        "GetBook",
			Method:      http.MethodGet,
			Pattern:     "/api/books/:bookId",
			HandlerFunc: handleFunctions.BookAPI.GetBook,
		},
		{
			Name:        "UpdateBook",
			Method:      http.MethodPut,
			Pattern:     "/api/books/:bookId",
			HandlerFunc: handleFunctions.BookAPI.UpdateBook,
		},
		{
			Name:        "DeleteBook",
			Method:      http.MethodDelete,
			Pattern:     "/api/books/:bookId",
			HandlerFunc: handleFunctions.BookAPI.DeleteBook,
		},
		{
			Name:        "RestockBook",
			Method:      http.MethodPost,
			Pattern:     "/api/books/:bookId/restock",
			HandlerFunc: handleFunctions.BookAPI.RestockBook,
		},
		{
			Name:        "ListOrders",
			Method:      http.MethodGet,
			Pattern:     "/api/orders",
			HandlerFunc: handleFunctions.OrderAPI.ListOrders,
		},
		{
			Name:        "PlaceOrder",
			Method:      http.MethodPost,
			Pattern:     "/api/orders",
			HandlerFunc: handleFunctions.OrderAPI.PlaceOrder,
		},
		{
			Name:        "GetOrder",
			Method:      http.MethodGet,
			Pattern:     "/api/orders/:orderId",
			HandlerFunc: handleFunctions.OrderAPI.GetOrder,
		},
		{
			Name:        "UpdateOrderStatus",
			Method:      http.MethodPatch,
			Pattern:     "/api/orders/:orderId",
			HandlerFunc: handleFunctions.OrderAPI.UpdateOrderStatus,
		},
		{
			Name:        "Register",
			Method:      http.MethodPost,
			Pattern:     "/api/register",
			HandlerFunc: handleFunctions.AccountAPI.Register,
		},
		{
			Name:        "Login",
			Method:      http.MethodPost,
			Pattern:     "/api/login",
			HandlerFunc: handleFunctions.AccountAPI.Login,
		},
		{
			Name:        "Logout",
			Method:      http.MethodPost,
			Pattern:     "/api/logout",
			HandlerFunc: handleFunctions.AccountAPI.Logout,
		},
		{
			Name:        "CurrentUser",
			Method:      http.MethodGet,
			Pattern:     "/api/me",
			HandlerFunc: handleFunctions.AccountAPI.CurrentUser,
			Middlewares: []gin.HandlerFunc{RequireAuthenticated()},
		},
	}
}

// Get /healthz
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
