package domain

import "errors"

// A challenge is a single-use nonce a wallet must sign to prove possession of
// its private key. At most one live challenge exists per wallet; issuing a
// new one replaces the previous nonce immediately. The registry holds the
// bare nonce under a TTL'd per-wallet key, so no richer type is needed here.

var ErrChallengeExpired = errors.New("challenge expired or already used")
var ErrSignatureMismatch = errors.New("signature does not match wallet")
var ErrInvalidWallet = errors.New("invalid wallet address")
