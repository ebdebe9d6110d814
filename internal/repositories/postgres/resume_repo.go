package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/hirehub/server/internal/models"
)

type ResumeRepository interface {
	Create(ctx context.Context, res *models.Resume) error
	GetByID(ctx context.Context, id uint) (*models.Resume, error)
	ListByRecruiter(ctx context.Context, recruiterID uint) ([]models.Resume, error)
	// ListByCompany returns resumes across all of a company's jobs,
	// optionally filtered by status.
	ListByCompany(ctx context.Context, companyID uint, status models.ResumeStatus) ([]models.Resume, error)
	UpdateStatus(ctx context.Context, id uint, status models.ResumeStatus) error
	CountByRecruiter(ctx context.Context, recruiterID uint) (int64, error)
	CountByRecruiterAndStatus(ctx context.Context, recruiterID uint, status models.ResumeStatus) (int64, error)
}

type resumeRepo struct {
	db *gorm.DB
}

func NewResumeRepo(db *gorm.DB) ResumeRepository {
	return &resumeRepo{db: db}
}

func (r *resumeRepo) Create(ctx context.Context, res *models.Resume) error {
	return r.db.WithContext(ctx).Create(res).Error
}

func (r *resumeRepo) GetByID(ctx context.Context, id uint) (*models.Resume, error) {
	var row models.Resume
	err := r.db.WithContext(ctx).
		Preload("Job").
		Where("id = ?", id).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *resumeRepo) ListByRecruiter(ctx context.Context, recruiterID uint) ([]models.Resume, error) {
	var rows []models.Resume
	err := r.db.WithContext(ctx).
		Where("recruiter_id = ?", recruiterID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *resumeRepo) ListByCompany(ctx context.Context, companyID uint, status models.ResumeStatus) ([]models.Resume, error) {
	q := r.db.WithContext(ctx).
		Joins("JOIN jobs ON jobs.id = resumes.job_id").
		Where("jobs.company_id = ?", companyID)
	if status != "" {
		q = q.Where("resumes.status = ?", status)
	}

	var rows []models.Resume
	err := q.Order("resumes.created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *resumeRepo) UpdateStatus(ctx context.Context, id uint, status models.ResumeStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Resume{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *resumeRepo) CountByRecruiter(ctx context.Context, recruiterID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Resume{}).
		Where("recruiter_id = ?", recruiterID).
		Count(&count).Error
	return count, err
}

func (r *resumeRepo) CountByRecruiterAndStatus(ctx context.Context, recruiterID uint, status models.ResumeStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Resume{}).
		Where("recruiter_id = ? AND status = ?", recruiterID, status).
		Count(&count).Error
	return count, err
}
