package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chainlance/marketplace-api/internal/core/domain"
	"github.com/chainlance/marketplace-api/internal/core/ports"
)

// UserHandler exposes read access to registered identities.
type UserHandler struct {
	authService ports.AuthService
}

func NewUserHandler(authService ports.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// Get handles GET /users/:wallet.
//
// @Summary      Get a registered identity
// @Tags         users
// @Produce      json
// @Param        wallet  path      string  true  "Wallet address"
// @Success      200     {object}  identityResponse
// @Failure      404     {object}  errorResponse
// @Router       /users/{wallet} [get]
func (h *UserHandler) Get(c echo.Context) error {
	identity, err := h.authService.Identity(c.Request().Context(), c.Param("wallet"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toIdentityResponse(identity))
}

// Head handles HEAD /users/:wallet — a body-less existence check used by
// clients to decide whether verify needs signup profile fields.
//
// @Summary      Check whether a wallet is registered
// @Tags         users
// @Param        wallet  path  string  true  "Wallet address"
// @Success      200
// @Failure      404
// @Router       /users/{wallet} [head]
func (h *UserHandler) Head(c echo.Context) error {
	_, err := h.authService.Identity(c.Request().Context(), c.Param("wallet"))
	if err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	return c.NoContent(http.StatusOK)
}
