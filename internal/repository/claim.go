package repository

import (
	"context"
	"fmt"

	"github.com/attendly/attendance-api/internal/domain"
	"github.com/attendly/attendance-api/internal/repository/dao"
)

var (
	ErrClaimExists     = dao.ErrClaimExists
	ErrSupplyExhausted = dao.ErrSupplyExhausted
	ErrClaimNotFound   = dao.ErrClaimNotFound
)

type ClaimDAO interface {
	InsertAtomic(ctx context.Context, claim dao.Claim) (dao.Claim, error)
	HasClaimed(ctx context.Context, userID, eventID uint) (bool, error)
	FindByID(ctx context.Context, id uint) (dao.Claim, error)
	FindByTokenID(ctx context.Context, tokenID string) (dao.Claim, error)
	FindByUserID(ctx context.Context, userID uint) ([]dao.Claim, error)
	FindUnminted(ctx context.Context, limit int) ([]dao.Claim, error)
	UpdateTxHash(ctx context.Context, claimID uint, txHash string) error
}

type ClaimRepository struct {
	dao ClaimDAO
}

func NewClaimRepository(dao ClaimDAO) *ClaimRepository {
	return &ClaimRepository{
		dao: dao,
	}
}

// CreateAtomic records the claim. Duplicate and supply-cap races surface as
// ErrClaimExists and ErrSupplyExhausted; both checks run atomically with the
// insert in the DAO.
func (r *ClaimRepository) CreateAtomic(ctx context.Context, claim domain.Claim) (domain.Claim, error) {
	created, err := r.dao.InsertAtomic(ctx, dao.Claim{
		TokenID:     claim.TokenID,
		MetadataURI: claim.MetadataURI,
		ImageURL:    claim.ImageURL,
		UserID:      claim.UserID,
		EventID:     claim.EventID,
		TxHash:      claim.TxHash,
		ClaimedAt:   claim.ClaimedAt,
	})
	if err != nil {
		return domain.Claim{}, fmt.Errorf("r.dao.InsertAtomic -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *ClaimRepository) HasClaimed(ctx context.Context, userID, eventID uint) (bool, error) {
	claimed, err := r.dao.HasClaimed(ctx, userID, eventID)
	if err != nil {
		return false, fmt.Errorf("r.dao.HasClaimed -> %w", err)
	}

	return claimed, nil
}

func (r *ClaimRepository) FindByID(ctx context.Context, id uint) (domain.Claim, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Claim{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *ClaimRepository) FindByTokenID(ctx context.Context, tokenID string) (domain.Claim, error) {
	found, err := r.dao.FindByTokenID(ctx, tokenID)
	if err != nil {
		return domain.Claim{}, fmt.Errorf("r.dao.FindByTokenID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *ClaimRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Claim, error) {
	found, err := r.dao.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	claims := make([]domain.Claim, 0, len(found))
	for _, c := range found {
		claims = append(claims, r.daoToDomain(c))
	}

	return claims, nil
}

func (r *ClaimRepository) FindUnminted(ctx context.Context, limit int) ([]domain.Claim, error) {
	found, err := r.dao.FindUnminted(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindUnminted -> %w", err)
	}

	claims := make([]domain.Claim, 0, len(found))
	for _, c := range found {
		claims = append(claims, r.daoToDomain(c))
	}

	return claims, nil
}

// AttachMintReference fills in the mint transaction hash on an existing
// claim. A failure here never invalidates the claim itself.
func (r *ClaimRepository) AttachMintReference(ctx context.Context, claimID uint, txHash string) error {
	if err := r.dao.UpdateTxHash(ctx, claimID, txHash); err != nil {
		return fmt.Errorf("r.dao.UpdateTxHash -> %w", err)
	}

	return nil
}

func (r *ClaimRepository) daoToDomain(c dao.Claim) domain.Claim {
	return domain.Claim{
		ID:          c.ID,
		TokenID:     c.TokenID,
		MetadataURI: c.MetadataURI,
		ImageURL:    c.ImageURL,
		UserID:      c.UserID,
		EventID:     c.EventID,
		TxHash:      c.TxHash,
		ClaimedAt:   c.ClaimedAt,
		Event: domain.Event{
			ID:          c.Event.ID,
			Name:        c.Event.Name,
			Description: c.Event.Description,
			Date:        c.Event.Date,
			Location:    c.Event.Location,
			ClaimCode:   c.Event.ClaimCode,
			IsActive:    c.Event.IsActive,
			MaxSupply:   c.Event.MaxSupply,
			ImageURL:    c.Event.ImageURL,
		},
		User: domain.User{
			ID:            c.User.ID,
			Email:         c.User.Email,
			WalletAddress: c.User.WalletAddress,
			Role:          c.User.Role,
		},
	}
}
