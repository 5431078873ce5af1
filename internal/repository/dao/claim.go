package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrClaimExists     = errors.New("claim already exists for this user and event")
	ErrSupplyExhausted = errors.New("maximum supply reached for this event")
	ErrClaimNotFound   = errors.New("claim not found")
)

type Claim struct {
	ID uint `gorm:"primaryKey"`

	TokenID     string `gorm:"unique;not null"`
	MetadataURI string `gorm:"not null"`
	ImageURL    string `gorm:"not null"`

	UserID  uint `gorm:"not null;uniqueIndex:idx_claims_user_event"`
	EventID uint `gorm:"not null;uniqueIndex:idx_claims_user_event"`
	User    User
	Event   Event

	TxHash *string

	ClaimedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type ClaimDAO struct {
	db *gorm.DB
}

func NewClaimDAO(db *gorm.DB) *ClaimDAO {
	return &ClaimDAO{
		db: db,
	}
}

// InsertAtomic creates the claim with the supply-cap check and the duplicate
// check executed as one atomic unit. The event row is locked for the span of
// the transaction so concurrent claims for the last slot serialize; the
// unique index on (user_id, event_id) backs the duplicate check, so a racer
// that loses gets ErrClaimExists rather than a second row.
func (d *ClaimDAO) InsertAtomic(ctx context.Context, claim Claim) (Claim, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&event, claim.EventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}

			return err
		}

		if event.MaxSupply != nil {
			var count int64
			if err := tx.Model(&Claim{}).Where("event_id = ?", claim.EventID).Count(&count).Error; err != nil {
				return err
			}
			if count >= int64(*event.MaxSupply) {
				return ErrSupplyExhausted
			}
		}

		if err := tx.Create(&claim).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) &&
				pgErr.Code == pgerrcode.UniqueViolation &&
				strings.Contains(pgErr.Message, "idx_claims_user_event") {
				return ErrClaimExists
			}

			return err
		}

		return nil
	})
	if err != nil {
		return Claim{}, err
	}

	return claim, nil
}

func (d *ClaimDAO) HasClaimed(ctx context.Context, userID, eventID uint) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Claim{}).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (d *ClaimDAO) FindByID(ctx context.Context, id uint) (Claim, error) {
	var claim Claim

	result := d.db.WithContext(ctx).Preload("Event").First(&claim, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Claim{}, ErrClaimNotFound
		}

		return Claim{}, result.Error
	}

	return claim, nil
}

func (d *ClaimDAO) FindByTokenID(ctx context.Context, tokenID string) (Claim, error) {
	var claim Claim

	result := d.db.WithContext(ctx).Preload("Event").Preload("User").First(&claim, "token_id = ?", tokenID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Claim{}, ErrClaimNotFound
		}

		return Claim{}, result.Error
	}

	return claim, nil
}

func (d *ClaimDAO) FindByUserID(ctx context.Context, userID uint) ([]Claim, error) {
	var claims []Claim

	result := d.db.WithContext(ctx).Preload("Event").
		Where("user_id = ?", userID).
		Order("claimed_at DESC").
		Find(&claims)
	if result.Error != nil {
		return nil, result.Error
	}

	return claims, nil
}

// FindUnminted returns claims without a mint transaction whose owner has a
// wallet address, oldest first. Used by the mint backfill worker.
func (d *ClaimDAO) FindUnminted(ctx context.Context, limit int) ([]Claim, error) {
	var claims []Claim

	result := d.db.WithContext(ctx).Preload("User").
		Joins("JOIN users ON users.id = claims.user_id").
		Where("claims.tx_hash IS NULL AND users.wallet_address <> ''").
		Order("claims.claimed_at ASC").
		Limit(limit).
		Find(&claims)
	if result.Error != nil {
		return nil, result.Error
	}

	return claims, nil
}

func (d *ClaimDAO) UpdateTxHash(ctx context.Context, claimID uint, txHash string) error {
	result := d.db.WithContext(ctx).Model(&Claim{}).
		Where("id = ?", claimID).
		Update("tx_hash", txHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrClaimNotFound
	}

	return nil
}
