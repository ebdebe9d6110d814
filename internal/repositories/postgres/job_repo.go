package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/hirehub/server/internal/models"
)

type JobRepository interface {
	Create(ctx context.Context, j *models.Job) error
	GetByID(ctx context.Context, id uint) (*models.Job, error)
	ListByRecruiter(ctx context.Context, recruiterID uint) ([]models.Job, error)
	CountByRecruiter(ctx context.Context, recruiterID uint) (int64, error)
}

type jobRepo struct {
	db *gorm.DB
}

func NewJobRepo(db *gorm.DB) JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) Create(ctx context.Context, j *models.Job) error {
	return r.db.WithContext(ctx).Create(j).Error
}

func (r *jobRepo) GetByID(ctx context.Context, id uint) (*models.Job, error) {
	var row models.Job
	err := r.db.WithContext(ctx).
		Preload("Company").
		Where("id = ?", id).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *jobRepo) ListByRecruiter(ctx context.Context, recruiterID uint) ([]models.Job, error) {
	var rows []models.Job
	err := r.db.WithContext(ctx).
		Preload("Company").
		Where("recruiter_id = ?", recruiterID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *jobRepo) CountByRecruiter(ctx context.Context, recruiterID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Job{}).
		Where("recruiter_id = ?", recruiterID).
		Count(&count).Error
	return count, err
}
