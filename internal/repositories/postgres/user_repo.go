package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/hirehub/server/internal/models"
)

type UserRepository interface {
	// WithTx returns a copy of the repository bound to the given transaction.
	WithTx(tx *gorm.DB) UserRepository

	Create(ctx context.Context, u *models.User) error
	GetByFirebaseUID(ctx context.Context, uid string) (*models.User, error)
	SetCompany(ctx context.Context, userID, companyID uint) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) WithTx(tx *gorm.DB) UserRepository {
	return &userRepo{db: tx}
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepo) GetByFirebaseUID(ctx context.Context, uid string) (*models.User, error) {
	var row models.User
	err := r.db.WithContext(ctx).
		Preload("Company").
		Where("firebase_uid = ?", uid).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *userRepo) SetCompany(ctx context.Context, userID, companyID uint) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("company_id", companyID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
