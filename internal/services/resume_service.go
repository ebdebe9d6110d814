package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hirehub/server/internal/cache"
	"github.com/hirehub/server/internal/models"
	pgrepo "github.com/hirehub/server/internal/repositories/postgres"
	"github.com/hirehub/server/internal/storage"
	"github.com/hirehub/server/internal/utils"
)

type ResumeService interface {
	// Upload stores the resume file and persists its metadata. The job must
	// belong to the uploading recruiter.
	Upload(ctx context.Context, recruiter *models.User, jobID uint, extractedText string, profile []byte, r io.Reader) (*models.Resume, error)
	ListMine(ctx context.Context, recruiter *models.User) ([]models.Resume, error)
	// ListCompany returns resumes across the HR user's company, optionally
	// filtered by pipeline status.
	ListCompany(ctx context.Context, hr *models.User, status string) ([]models.Resume, error)
	SetStatus(ctx context.Context, hr *models.User, resumeID uint, status string) (*models.Resume, error)
	// FileURL returns a short-lived signed URL for the stored file. Resume
	// objects are private; this is the only read path.
	FileURL(ctx context.Context, hr *models.User, resumeID uint) (string, error)
}

type resumeService struct {
	resumes  pgrepo.ResumeRepository
	jobs     pgrepo.JobRepository
	uploader storage.Uploader
	signer   storage.Signer
	cache    cache.Cache
}

func NewResumeService(resumes pgrepo.ResumeRepository, jobs pgrepo.JobRepository, uploader storage.Uploader, signer storage.Signer, c cache.Cache) ResumeService {
	return &resumeService{resumes: resumes, jobs: jobs, uploader: uploader, signer: signer, cache: c}
}

func (s *resumeService) Upload(ctx context.Context, recruiter *models.User, jobID uint, extractedText string, profile []byte, r io.Reader) (*models.Resume, error) {
	const op = "ResumeService.Upload"

	if strings.TrimSpace(extractedText) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "extracted_text is required", nil)
	}
	if s.uploader == nil {
		return nil, utils.E(utils.CodeInternal, op, "uploader is not configured", nil)
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.E(utils.CodeNotFound, op, "job not found", nil)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load job", err)
	}
	if job.RecruiterID != recruiter.ID {
		return nil, utils.E(utils.CodeForbidden, op, "job belongs to another recruiter", nil)
	}

	objectName := fmt.Sprintf("resumes/%d/%s.pdf", job.CompanyID, uuid.NewString())
	storedPath, err := s.uploader.Upload(ctx, objectName, "application/pdf", r)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to upload resume file", err)
	}

	row := &models.Resume{
		FilePath:      storedPath,
		ExtractedText: extractedText,
		Status:        models.ResumePending,
		JobID:         job.ID,
		RecruiterID:   recruiter.ID,
	}
	if len(profile) > 0 {
		row.Profile = datatypes.JSON(profile)
	}

	if err := s.resumes.Create(ctx, row); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist resume metadata", err)
	}

	if s.cache != nil {
		_ = s.cache.Del(ctx, summaryCacheKey(recruiter.ID))
	}
	return row, nil
}

func (s *resumeService) ListMine(ctx context.Context, recruiter *models.User) ([]models.Resume, error) {
	const op = "ResumeService.ListMine"

	rows, err := s.resumes.ListByRecruiter(ctx, recruiter.ID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list resumes", err)
	}
	return rows, nil
}

func (s *resumeService) ListCompany(ctx context.Context, hr *models.User, status string) ([]models.Resume, error) {
	const op = "ResumeService.ListCompany"

	if hr.CompanyID == nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "HR user is not associated with any company", nil)
	}

	var filter models.ResumeStatus
	if status != "" {
		st, ok := models.ValidResumeStatus(status)
		if !ok {
			return nil, utils.E(utils.CodeInvalidArgument, op, "invalid status filter", nil)
		}
		filter = st
	}

	rows, err := s.resumes.ListByCompany(ctx, *hr.CompanyID, filter)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list company resumes", err)
	}
	return rows, nil
}

func (s *resumeService) SetStatus(ctx context.Context, hr *models.User, resumeID uint, status string) (*models.Resume, error) {
	const op = "ResumeService.SetStatus"

	st, ok := models.ValidResumeStatus(status)
	if !ok {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid resume status", nil)
	}

	row, err := s.resumes.GetByID(ctx, resumeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.E(utils.CodeNotFound, op, "resume not found", nil)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load resume", err)
	}

	if hr.CompanyID == nil || row.Job == nil || row.Job.CompanyID != *hr.CompanyID {
		return nil, utils.E(utils.CodeForbidden, op, "resume belongs to another company", nil)
	}

	if err := s.resumes.UpdateStatus(ctx, resumeID, st); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update resume status", err)
	}
	row.Status = st

	if s.cache != nil {
		_ = s.cache.Del(ctx, summaryCacheKey(row.RecruiterID))
	}
	return row, nil
}

func (s *resumeService) FileURL(ctx context.Context, hr *models.User, resumeID uint) (string, error) {
	const op = "ResumeService.FileURL"

	if s.signer == nil {
		return "", utils.E(utils.CodeInternal, op, "signer is not configured", nil)
	}

	row, err := s.resumes.GetByID(ctx, resumeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", utils.E(utils.CodeNotFound, op, "resume not found", nil)
	}
	if err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to load resume", err)
	}
	if hr.CompanyID == nil || row.Job == nil || row.Job.CompanyID != *hr.CompanyID {
		return "", utils.E(utils.CodeForbidden, op, "resume belongs to another company", nil)
	}

	url, err := s.signer.SignedGetURL(ctx, row.FilePath, 15*time.Minute)
	if err != nil {
		return "", utils.E(utils.CodeUnavailable, op, "failed to sign resume url", err)
	}
	return url, nil
}
