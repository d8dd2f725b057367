package domain

import (
	"errors"
	"strings"
	"time"
)

const (
	RoleEmployer = "employer"
	RoleWorker   = "worker"
)

var ErrIdentityNotFound = errors.New("identity not found")
var ErrIdentityExists = errors.New("identity already exists")
var ErrMissingProfile = errors.New("display name and role required for signup")
var ErrUnauthorized = errors.New("unauthorized")

// Identity models a wallet that has completed the challenge flow at least
// once. DisplayName and Role are fixed at creation; there is no update path,
// which is what makes role checks elsewhere safe against role switching.
type Identity struct {
	Wallet      string    `json:"wallet" bson:"wallet"`
	DisplayName string    `json:"display_name" bson:"display_name"`
	Role        string    `json:"role" bson:"role"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// ValidRole reports whether role is one of the two marketplace roles.
func ValidRole(role string) bool {
	return role == RoleEmployer || role == RoleWorker
}

// NormalizeWallet lower-cases a wallet address so that the same key is used
// everywhere regardless of checksum casing in the input.
func NormalizeWallet(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}
