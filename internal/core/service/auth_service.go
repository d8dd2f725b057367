package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"

	"github.com/chainlance/marketplace-api/internal/core/domain"
	"github.com/chainlance/marketplace-api/internal/core/ports"
)

const defaultChallengeTTL = 10 * time.Minute

// AuthService implements the challenge/response protocol: a wallet requests a
// nonce, signs it client-side, and exchanges the signature for a token pair.
// No password or private key ever crosses the wire.
type AuthService struct {
	identities   ports.IdentityRepository
	challenges   ports.ChallengeRegistry
	tokens       ports.TokenService
	challengeTTL time.Duration
	log          zerolog.Logger
}

func NewAuthService(
	identities ports.IdentityRepository,
	challenges ports.ChallengeRegistry,
	tokens ports.TokenService,
	challengeTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if challengeTTL <= 0 {
		challengeTTL = defaultChallengeTTL
	}
	return &AuthService{
		identities:   identities,
		challenges:   challenges,
		tokens:       tokens,
		challengeTTL: challengeTTL,
		log:          log,
	}
}

// Challenge issues a fresh nonce for wallet. Any previous live challenge for
// the same wallet becomes unredeemable immediately.
func (s *AuthService) Challenge(ctx context.Context, wallet string) (string, error) {
	if !common.IsHexAddress(wallet) {
		return "", domain.ErrInvalidWallet
	}
	wallet = domain.NormalizeWallet(wallet)

	nonce, err := generateNonce()
	if err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	if err := s.challenges.Put(ctx, wallet, nonce, s.challengeTTL); err != nil {
		return "", fmt.Errorf("store challenge: %w", err)
	}

	s.log.Debug().Str("wallet", wallet).Msg("challenge issued")
	return nonce, nil
}

// Verify redeems the wallet's live challenge. The signature must recover to
// the wallet address; a mismatch leaves the challenge in place so the real
// key holder can still redeem it. Consumption of the nonce is atomic: when
// two verifications race, only one wins.
func (s *AuthService) Verify(ctx context.Context, in ports.VerifyInput) (ports.TokenPair, *domain.Identity, error) {
	if !common.IsHexAddress(in.Wallet) {
		return ports.TokenPair{}, nil, domain.ErrInvalidWallet
	}
	wallet := domain.NormalizeWallet(in.Wallet)

	nonce, err := s.challenges.Get(ctx, wallet)
	if err != nil {
		return ports.TokenPair{}, nil, err
	}

	signer, err := recoverSigner(nonce, in.Signature)
	if err != nil {
		s.log.Debug().Str("wallet", wallet).Err(err).Msg("signature recovery failed")
		return ports.TokenPair{}, nil, domain.ErrSignatureMismatch
	}
	if signer != wallet {
		return ports.TokenPair{}, nil, domain.ErrSignatureMismatch
	}

	ok, err := s.challenges.CompareAndDelete(ctx, wallet, nonce)
	if err != nil {
		return ports.TokenPair{}, nil, fmt.Errorf("consume challenge: %w", err)
	}
	if !ok {
		// Lost a redemption race or the nonce was replaced mid-flight.
		return ports.TokenPair{}, nil, domain.ErrChallengeExpired
	}

	identity, err := s.lookupOrCreate(ctx, wallet, in)
	if err != nil {
		return ports.TokenPair{}, nil, err
	}

	pair, err := s.tokens.Issue(identity)
	if err != nil {
		return ports.TokenPair{}, nil, fmt.Errorf("issue tokens: %w", err)
	}

	s.log.Info().Str("wallet", wallet).Str("role", identity.Role).Msg("wallet authenticated")
	return pair, identity, nil
}

// Identity returns the stored identity for wallet.
func (s *AuthService) Identity(ctx context.Context, wallet string) (*domain.Identity, error) {
	return s.identities.FindByWallet(ctx, domain.NormalizeWallet(wallet))
}

// lookupOrCreate returns the existing identity or registers a new one from
// the profile fields. Existing identities are never modified: displayName and
// role supplied on later verifications are ignored.
func (s *AuthService) lookupOrCreate(ctx context.Context, wallet string, in ports.VerifyInput) (*domain.Identity, error) {
	identity, err := s.identities.FindByWallet(ctx, wallet)
	if err == nil {
		return identity, nil
	}
	if !errors.Is(err, domain.ErrIdentityNotFound) {
		return nil, err
	}

	if strings.TrimSpace(in.DisplayName) == "" || !domain.ValidRole(in.Role) {
		return nil, domain.ErrMissingProfile
	}

	identity = &domain.Identity{
		Wallet:      wallet,
		DisplayName: strings.TrimSpace(in.DisplayName),
		Role:        in.Role,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.identities.Create(ctx, identity); err != nil {
		if errors.Is(err, domain.ErrIdentityExists) {
			// Lost a signup race; the first writer's profile wins.
			return s.identities.FindByWallet(ctx, wallet)
		}
		return nil, err
	}

	s.log.Info().Str("wallet", wallet).Str("role", identity.Role).Msg("identity registered")
	return identity, nil
}

// generateNonce returns an unpredictable hex nonce for the wallet to sign.
func generateNonce() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "chainlance-login:" + hex.EncodeToString(b), nil
}

// recoverSigner recovers the lower-cased address that produced an EIP-191
// personal_sign signature over message.
func recoverSigner(message, signature string) (string, error) {
	sig, err := hex.DecodeString(strings.TrimPrefix(signature, "0x"))
	if err != nil {
		return "", fmt.Errorf("decode signature: %w", err)
	}
	if len(sig) != 65 {
		return "", fmt.Errorf("signature must be 65 bytes, got %d", len(sig))
	}
	// Wallets emit V as 27/28; go-ethereum expects 0/1.
	if sig[64] >= 27 {
		sig = append([]byte(nil), sig...)
		sig[64] -= 27
	}

	digest := ethcrypto.Keccak256(
		[]byte(fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(message), message)),
	)
	pub, err := ethcrypto.SigToPub(digest, sig)
	if err != nil {
		return "", fmt.Errorf("recover public key: %w", err)
	}
	return domain.NormalizeWallet(ethcrypto.PubkeyToAddress(*pub).Hex()), nil
}
