package inventoryserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	accounthttpmapper "github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/adapters/http/mapper"
	accountports "github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/ports"
	apierrors "github.com/Apurer/go-gin-inventory-api/internal/shared/errors"
)

// AccountAPI wires HTTP transport with the accounts service.
type AccountAPI struct {
	service accountports.Service
}

// NewAccountAPI creates an AccountAPI backed by the provided service.
func NewAccountAPI(service accountports.Service) AccountAPI {
	return AccountAPI{service: service}
}

// Post /api/register
// Registers a new customer account
func (api *AccountAPI) Register(c *gin.Context) {
	var payload accounthttpmapper.RegisterRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.DefaultResponder.BadRequest(c, err.Error())
		return
	}
	confirmation, err := api.service.Register(c.Request.Context(), accounthttpmapper.ToRegisterInput(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, accounthttpmapper.FromConfirmation(confirmation))
}

// Post /api/login
// Issues a session token
func (api *AccountAPI) Login(c *gin.Context) {
	var payload accounthttpmapper.LoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.DefaultResponder.BadRequest(c, err.Error())
		return
	}
	session, err := api.service.Login(c.Request.Context(), accounthttpmapper.ToLoginInput(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, accounthttpmapper.LoginResponse{Token: session.Token})
}

// Post /api/logout
// Revokes the presented session token
func (api *AccountAPI) Logout(c *gin.Context) {
	if err := api.service.Logout(c.Request.Context(), c.GetString(tokenContextKey)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, accounthttpmapper.MessageResponse{Message: "logout successful"})
}

// Get /api/me
// Returns the caller's own identity
func (api *AccountAPI) CurrentUser(c *gin.Context) {
	view, err := api.service.Current(c.Request.Context(), principalFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, accounthttpmapper.FromIdentityView(view))
}
