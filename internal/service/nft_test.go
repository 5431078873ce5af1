package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendly/attendance-api/internal/domain"
	"github.com/attendly/attendance-api/internal/repository"
	"github.com/attendly/attendance-api/internal/service"
)

type fakeNFTClaimRepo struct {
	claims []domain.Claim
}

func (f *fakeNFTClaimRepo) FindByID(_ context.Context, id uint) (domain.Claim, error) {
	for _, c := range f.claims {
		if c.ID == id {
			return c, nil
		}
	}

	return domain.Claim{}, repository.ErrClaimNotFound
}

func (f *fakeNFTClaimRepo) FindByTokenID(_ context.Context, tokenID string) (domain.Claim, error) {
	for _, c := range f.claims {
		if c.TokenID == tokenID {
			return c, nil
		}
	}

	return domain.Claim{}, repository.ErrClaimNotFound
}

func (f *fakeNFTClaimRepo) FindByUserID(_ context.Context, userID uint) ([]domain.Claim, error) {
	var out []domain.Claim
	for _, c := range f.claims {
		if c.UserID == userID {
			out = append(out, c)
		}
	}

	return out, nil
}

func storedClaim() domain.Claim {
	return domain.Claim{
		ID:          3,
		TokenID:     "CONF24-1a2b3c4d",
		MetadataURI: "ipfs://QmDocHash",
		ImageURL:    "ipfs://QmImageHash",
		UserID:      7,
		EventID:     1,
		ClaimedAt:   time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC),
		Event: domain.Event{
			ID:        1,
			Name:      "GopherCon 2024",
			Date:      time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC),
			Location:  "Chicago",
			ClaimCode: "CONF24",
			ImageURL:  "ipfs://QmImageHash",
		},
		User: domain.User{
			ID:    7,
			Email: "alice@example.com",
		},
	}
}

func newNFTService(claims ...domain.Claim) *service.NFTService {
	return service.NewNFTService(
		&fakeNFTClaimRepo{claims: claims},
		&fakePublisher{},
		"https://attendance.example.com",
	)
}

func TestGetUserClaims_ResolvesImageURLs(t *testing.T) {
	svc := newNFTService(storedClaim())

	claims, err := svc.GetUserClaims(context.Background(), 7)

	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.Equal(t, "https://gateway.example.com/ipfs/QmImageHash", claims[0].ImageURL)
}

func TestGetUserClaims_EmptyForUnknownUser(t *testing.T) {
	svc := newNFTService(storedClaim())

	claims, err := svc.GetUserClaims(context.Background(), 99)

	require.NoError(t, err)
	assert.Empty(t, claims)
}

func TestGetClaim_NotFound(t *testing.T) {
	svc := newNFTService()

	_, err := svc.GetClaim(context.Background(), 42)

	assert.ErrorIs(t, err, service.ErrClaimNotFound)
}

func TestGetTokenMetadata_RebuildsDocument(t *testing.T) {
	svc := newNFTService(storedClaim())

	doc, err := svc.GetTokenMetadata(context.Background(), "CONF24-1a2b3c4d")

	require.NoError(t, err)
	assert.Equal(t, "GopherCon 2024 - Attendance Badge", doc.Name)
	assert.Equal(t, "https://gateway.example.com/ipfs/QmImageHash", doc.Image)
	assert.Equal(t, "https://attendance.example.com/nft/3", doc.ExternalURL)
}

func TestGetTokenMetadata_ClaimedAtFollowsDate(t *testing.T) {
	svc := newNFTService(storedClaim())

	doc, err := svc.GetTokenMetadata(context.Background(), "CONF24-1a2b3c4d")

	require.NoError(t, err)
	require.Len(t, doc.Attributes, 7)
	assert.Equal(t, "Date", doc.Attributes[1].TraitType)
	assert.Equal(t, "Claimed At", doc.Attributes[2].TraitType)
	assert.Equal(t, "2024-06-15T10:30:00Z", doc.Attributes[2].Value)
}

func TestGetTokenMetadata_NotFound(t *testing.T) {
	svc := newNFTService()

	_, err := svc.GetTokenMetadata(context.Background(), "CONF24-missing")

	assert.ErrorIs(t, err, service.ErrClaimNotFound)
}
