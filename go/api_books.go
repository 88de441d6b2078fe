package inventoryserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	bookhttpmapper "github.com/Apurer/go-gin-inventory-api/internal/domains/catalog/adapters/http/mapper"
	catalogtypes "github.com/Apurer/go-gin-inventory-api/internal/domains/catalog/application/types"
	catalogports "github.com/Apurer/go-gin-inventory-api/internal/domains/catalog/ports"
	apierrors "github.com/Apurer/go-gin-inventory-api/internal/shared/errors"
)

// BookAPI wires HTTP transport with the catalog service.
type BookAPI struct {
	service catalogports.Service
}

// NewBookAPI creates a BookAPI backed by the provided service.
func NewBookAPI(service catalogports.Service) BookAPI {
	return BookAPI{service: service}
}

// Get /api/books
// Lists the catalog
func (api *BookAPI) ListBooks(c *gin.Context) {
	books, err := api.service.ListBooks(c.Request.Context(), principalFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookhttpmapper.FromProjectionList(books))
}

// Post /api/books
// Adds a book to the catalog
func (api *BookAPI) AddBook(c *gin.Context) {
	var payload bookhttpmapper.MutationBook
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.DefaultResponder.BadRequest(c, err.Error())
		return
	}
	input := catalogtypes.AddBookInput{BookMutationInput: bookhttpmapper.ToMutationInput(payload)}
	saved, err := api.service.AddBook(c.Request.Context(), principalFrom(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bookhttpmapper.FromProjection(saved))
}

// Get /api/books/:bookId
// Finds a book by ID
func (api *BookAPI) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}
	book, err := api.service.GetBook(c.Request.Context(), principalFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookhttpmapper.FromProjection(book))
}

// Put /api/books/:bookId
// Updates the supplied fields of a book
func (api *BookAPI) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}
	var payload bookhttpmapper.MutationBook
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.DefaultResponder.BadRequest(c, err.Error())
		return
	}
	input := catalogtypes.UpdateBookInput{ID: id, BookMutationInput: bookhttpmapper.ToMutationInput(payload)}
	updated, err := api.service.UpdateBook(c.Request.Context(), principalFrom(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookhttpmapper.FromProjection(updated))
}

// Delete /api/books/:bookId
// Removes a book
func (api *BookAPI) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}
	if err := api.service.DeleteBook(c.Request.Context(), principalFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Post /api/books/:bookId/restock
// Adds stock to a book. Staff only.
func (api *BookAPI) RestockBook(c *gin.Context) {
	id, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}
	// An unreadable body leaves the quantity empty; the service still checks
	// the caller before rejecting the quantity.
	var payload bookhttpmapper.RestockRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		payload = bookhttpmapper.RestockRequest{}
	}
	result, err := api.service.Restock(c.Request.Context(), principalFrom(c), bookhttpmapper.ToRestockInput(id, payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookhttpmapper.FromRestockResult(result))
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		apierrors.DefaultResponder.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}
