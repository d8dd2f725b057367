package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chainlance/marketplace-api/internal/api/metrics"
	"github.com/chainlance/marketplace-api/internal/core/domain"
	"github.com/chainlance/marketplace-api/internal/core/ports"
)

// AuthHandler exposes the challenge/response authentication flow.
type AuthHandler struct {
	authService ports.AuthService
	tokens      ports.TokenService
}

func NewAuthHandler(authService ports.AuthService, tokens ports.TokenService) *AuthHandler {
	return &AuthHandler{authService: authService, tokens: tokens}
}

// Challenge hands out a single-use nonce for the wallet to sign.
//
// @Summary      Request a login challenge
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      challengeRequest  true  "Wallet address"
// @Success      200   {object}  challengeResponse
// @Failure      400   {object}  errorResponse
// @Router       /auth/challenge [post]
func (h *AuthHandler) Challenge(c echo.Context) error {
	var req challengeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	nonce, err := h.authService.Challenge(c.Request().Context(), req.Wallet)
	if err != nil {
		return err
	}

	metrics.ChallengesIssuedTotal.Inc()
	return c.JSON(http.StatusOK, challengeResponse{Challenge: nonce})
}

// Verify exchanges a signed challenge for an access/refresh token pair.
// First-time wallets must supply display_name and role.
//
// @Summary      Redeem a signed challenge for tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyRequest  true  "Signed challenge"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/verify [post]
func (h *AuthHandler) Verify(c echo.Context) error {
	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	pair, identity, err := h.authService.Verify(c.Request().Context(), ports.VerifyInput{
		Wallet:      req.Wallet,
		Signature:   req.Signature,
		DisplayName: req.DisplayName,
		Role:        req.Role,
	})
	if err != nil {
		metrics.VerificationsTotal.WithLabelValues(verifyResult(err)).Inc()
		return err
	}

	metrics.VerificationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		AccessExpiresAt:  pair.AccessExpiresAt,
		RefreshExpiresAt: &pair.RefreshExpiresAt,
		Identity:         toIdentityResponse(identity),
	})
}

// Refresh mints a new access token from a valid refresh token.
//
// @Summary      Refresh the access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	access, expiresAt, err := h.tokens.Refresh(req.RefreshToken)
	if err != nil {
		return err
	}

	metrics.TokensRefreshedTotal.Inc()
	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken:     access,
		AccessExpiresAt: expiresAt,
	})
}

func verifyResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrChallengeExpired):
		return "expired"
	case errors.Is(err, domain.ErrSignatureMismatch):
		return "mismatch"
	case errors.Is(err, domain.ErrMissingProfile):
		return "missing_profile"
	default:
		return "error"
	}
}

func toIdentityResponse(identity *domain.Identity) *identityResponse {
	if identity == nil {
		return nil
	}
	return &identityResponse{
		Wallet:      identity.Wallet,
		DisplayName: identity.DisplayName,
		Role:        identity.Role,
		CreatedAt:   identity.CreatedAt,
	}
}
