package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chainlance/marketplace-api/internal/api/middleware"
)

// ctxIdentity extracts the claims injected by the Auth middleware and
// fast-fails before any service call: a non-empty wallet proves the
// middleware ran, and every protected operation needs both fields.
func ctxIdentity(c echo.Context) (wallet, role string, err error) {
	wallet, _ = c.Get(middleware.CtxWallet).(string)
	role, _ = c.Get(middleware.CtxRole).(string)
	if wallet == "" || role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return wallet, role, nil
}
