package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrUserNotFound = errors.New("user not found")

type User struct {
	ID uint `gorm:"primaryKey"`

	Email         string `gorm:"unique;not null"`
	WalletAddress string
	Role          string `gorm:"not null;default:USER"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

// Upsert creates the user on first login or refreshes the wallet address on
// subsequent logins. Idempotent per email. A login without a wallet address
// never clears a previously discovered one.
func (d *UserDAO) Upsert(ctx context.Context, user User) (User, error) {
	onConflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}
	if user.WalletAddress != "" {
		onConflict = clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"wallet_address", "updated_at"}),
		}
	}

	result := d.db.WithContext(ctx).Clauses(onConflict).Create(&user)
	if result.Error != nil {
		return User{}, result.Error
	}

	return d.FindByEmail(ctx, user.Email)
}

func (d *UserDAO) FindByID(ctx context.Context, id uint) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}
