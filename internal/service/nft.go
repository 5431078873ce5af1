package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/attendly/attendance-api/internal/domain"
	"github.com/attendly/attendance-api/internal/pkg/nftmeta"
	"github.com/attendly/attendance-api/internal/repository"
)

var ErrClaimNotFound = repository.ErrClaimNotFound

type NFTClaimRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Claim, error)
	FindByTokenID(ctx context.Context, tokenID string) (domain.Claim, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.Claim, error)
}

// NFTService is the read surface over recorded claims: listings for the
// owner and the wallet/marketplace-facing metadata document.
type NFTService struct {
	repo      NFTClaimRepository
	publisher ContentPublisher
	baseURL   string
}

func NewNFTService(repo NFTClaimRepository, publisher ContentPublisher, baseURL string) *NFTService {
	return &NFTService{
		repo:      repo,
		publisher: publisher,
		baseURL:   baseURL,
	}
}

func (s *NFTService) GetUserClaims(ctx context.Context, userID uint) ([]domain.Claim, error) {
	claims, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByUserID -> %w", err)
	}

	for i := range claims {
		claims[i].ImageURL = s.publisher.ResolveGatewayURL(claims[i].ImageURL)
	}

	return claims, nil
}

func (s *NFTService) GetClaim(ctx context.Context, id uint) (domain.Claim, error) {
	claim, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrClaimNotFound) {
			return domain.Claim{}, ErrClaimNotFound
		}

		return domain.Claim{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	claim.ImageURL = s.publisher.ResolveGatewayURL(claim.ImageURL)

	return claim, nil
}

// GetTokenMetadata rebuilds the badge document for a token and augments it
// with the Claimed At attribute. The attribute set and order are a
// compatibility contract with wallets and marketplaces.
func (s *NFTService) GetTokenMetadata(ctx context.Context, tokenID string) (nftmeta.Document, error) {
	claim, err := s.repo.FindByTokenID(ctx, tokenID)
	if err != nil {
		if errors.Is(err, repository.ErrClaimNotFound) {
			return nftmeta.Document{}, ErrClaimNotFound
		}

		return nftmeta.Document{}, fmt.Errorf("s.repo.FindByTokenID -> %w", err)
	}

	doc := nftmeta.Build(nftmeta.Params{
		EventName:     claim.Event.Name,
		EventDate:     claim.Event.Date,
		EventLocation: claim.Event.Location,
		AttendeeName:  claim.User.DisplayName(),
		AttendeeEmail: claim.User.Email,
		TokenID:       claim.TokenID,
		EventImageURL: claim.Event.ImageURL,
		ExternalURL:   fmt.Sprintf("%v/nft/%v", s.baseURL, claim.ID),
	})
	doc.Image = s.publisher.ResolveGatewayURL(doc.Image)

	return nftmeta.WithClaimedAt(doc, claim.ClaimedAt), nil
}

// ResolveGatewayURL exposes the publisher's URI rewriting to rendering
// collaborators.
func (s *NFTService) ResolveGatewayURL(uri string) string {
	return s.publisher.ResolveGatewayURL(uri)
}
