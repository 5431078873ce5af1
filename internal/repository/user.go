package repository

import (
	"context"
	"fmt"

	"github.com/attendly/attendance-api/internal/domain"
	"github.com/attendly/attendance-api/internal/repository/dao"
)

var ErrUserNotFound = dao.ErrUserNotFound

type UserDAO interface {
	Upsert(ctx context.Context, user dao.User) (dao.User, error)
	FindByID(ctx context.Context, id uint) (dao.User, error)
	FindByEmail(ctx context.Context, email string) (dao.User, error)
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

// Upsert provisions the user identified by email, refreshing the wallet
// address when one is supplied.
func (r *UserRepository) Upsert(ctx context.Context, user domain.User) (domain.User, error) {
	role := user.Role
	if role == "" {
		role = domain.RoleUser
	}

	upserted, err := r.dao.Upsert(ctx, dao.User{
		Email:         user.Email,
		WalletAddress: user.WalletAddress,
		Role:          role,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Upsert -> %w", err)
	}

	return r.daoToDomain(upserted), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	found, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) daoToDomain(u dao.User) domain.User {
	return domain.User{
		ID:            u.ID,
		Email:         u.Email,
		WalletAddress: u.WalletAddress,
		Role:          u.Role,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}
