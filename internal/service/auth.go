package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/attendly/attendance-api/internal/domain"
	"github.com/attendly/attendance-api/internal/repository"
)

var (
	ErrInvalidLoginToken = errors.New("invalid login token")
	ErrUserNotFound      = repository.ErrUserNotFound
)

// VerifiedIdentity is what a DID token proves: an email address and,
// when the issuer manages a custodial wallet, its address.
type VerifiedIdentity struct {
	Email         string
	WalletAddress string
}

// TokenVerifier validates a DID token with the external identity provider.
type TokenVerifier interface {
	Verify(didToken string) (VerifiedIdentity, error)
}

type AuthUserRepository interface {
	Upsert(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type AuthService struct {
	repo     AuthUserRepository
	verifier TokenVerifier
}

func NewAuthService(repo AuthUserRepository, verifier TokenVerifier) *AuthService {
	return &AuthService{
		repo:     repo,
		verifier: verifier,
	}
}

// Login validates the DID token and provisions the user it identifies.
// Provisioning is idempotent: repeat logins only refresh the wallet address.
func (s *AuthService) Login(ctx context.Context, didToken string) (domain.User, error) {
	identity, err := s.verifier.Verify(didToken)
	if err != nil {
		return domain.User{}, ErrInvalidLoginToken
	}
	if identity.Email == "" {
		return domain.User{}, ErrInvalidLoginToken
	}

	user, err := s.ProvisionUser(ctx, identity.Email, identity.WalletAddress)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.ProvisionUser -> %w", err)
	}

	return user, nil
}

// ProvisionUser creates or updates the user record for an authenticated
// identity. Called once per authentication event, never from read paths.
func (s *AuthService) ProvisionUser(ctx context.Context, email, walletAddress string) (domain.User, error) {
	user, err := s.repo.Upsert(ctx, domain.User{
		Email:         email,
		WalletAddress: walletAddress,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Upsert -> %w", err)
	}

	return user, nil
}

func (s *AuthService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}
