package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/hirehub/server/internal/models"
)

type CompanyRepository interface {
	WithTx(tx *gorm.DB) CompanyRepository

	Create(ctx context.Context, c *models.Company) error
	// GetByNameFold matches the company name case-insensitively. The stored
	// row keeps the canonical casing.
	GetByNameFold(ctx context.Context, name string) (*models.Company, error)
	GetByID(ctx context.Context, id uint) (*models.Company, error)
}

type companyRepo struct {
	db *gorm.DB
}

func NewCompanyRepo(db *gorm.DB) CompanyRepository {
	return &companyRepo{db: db}
}

func (r *companyRepo) WithTx(tx *gorm.DB) CompanyRepository {
	return &companyRepo{db: tx}
}

func (r *companyRepo) Create(ctx context.Context, c *models.Company) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *companyRepo) GetByNameFold(ctx context.Context, name string) (*models.Company, error) {
	var row models.Company
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *companyRepo) GetByID(ctx context.Context, id uint) (*models.Company, error) {
	var row models.Company
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}
