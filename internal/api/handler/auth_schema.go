package handler

import "time"

type challengeRequest struct {
	Wallet string `json:"wallet" validate:"required"`
}

type challengeResponse struct {
	Challenge string `json:"challenge"`
}

type verifyRequest struct {
	Wallet      string `json:"wallet" validate:"required"`
	Signature   string `json:"signature" validate:"required"`
	DisplayName string `json:"display_name,omitempty" validate:"omitempty,max=64"`
	Role        string `json:"role,omitempty" validate:"omitempty,oneof=employer worker"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type identityResponse struct {
	Wallet      string    `json:"wallet"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

type tokenResponse struct {
	AccessToken      string            `json:"access_token"`
	RefreshToken     string            `json:"refresh_token,omitempty"`
	AccessExpiresAt  time.Time         `json:"access_expires_at"`
	RefreshExpiresAt *time.Time        `json:"refresh_expires_at,omitempty"`
	Identity         *identityResponse `json:"identity,omitempty"`
}
