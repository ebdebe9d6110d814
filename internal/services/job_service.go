package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hirehub/server/internal/cache"
	"github.com/hirehub/server/internal/models"
	pgrepo "github.com/hirehub/server/internal/repositories/postgres"
	"github.com/hirehub/server/internal/utils"
)

const summaryCacheTTL = 30 * time.Second

type JobView struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CompanyID   uint      `json:"company_id"`
	CompanyName string    `json:"company_name"`
	RecruiterID uint      `json:"recruiter_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type RecruiterSummary struct {
	TotalJobs        int64 `json:"total_jobs"`
	TotalResumes     int64 `json:"total_resumes"`
	TotalShortlisted int64 `json:"total_shortlisted"`
}

type JobService interface {
	Create(ctx context.Context, recruiter *models.User, title, description string) (*JobView, error)
	ListMine(ctx context.Context, recruiter *models.User) ([]JobView, error)
	Summary(ctx context.Context, recruiter *models.User) (*RecruiterSummary, error)
}

type jobService struct {
	jobs    pgrepo.JobRepository
	resumes pgrepo.ResumeRepository
	cache   cache.Cache
}

func NewJobService(jobs pgrepo.JobRepository, resumes pgrepo.ResumeRepository, c cache.Cache) JobService {
	return &jobService{jobs: jobs, resumes: resumes, cache: c}
}

func (s *jobService) Create(ctx context.Context, recruiter *models.User, title, description string) (*JobView, error) {
	const op = "JobService.Create"

	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	if title == "" || description == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Both title and description are required.", nil)
	}
	if len(title) > 255 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Title too long (max 255).", nil)
	}
	if len(description) < 10 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Description too short (min 10).", nil)
	}
	if recruiter.CompanyID == nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Recruiter is not associated with any company.", nil)
	}

	job := &models.Job{
		Title:       title,
		Description: description,
		CompanyID:   *recruiter.CompanyID,
		RecruiterID: recruiter.ID,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create job", err)
	}

	s.invalidateSummary(ctx, recruiter.ID)

	view := jobView(job)
	view.CompanyName = recruiter.CompanyName()
	return &view, nil
}

func (s *jobService) ListMine(ctx context.Context, recruiter *models.User) ([]JobView, error) {
	const op = "JobService.ListMine"

	rows, err := s.jobs.ListByRecruiter(ctx, recruiter.ID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list jobs", err)
	}

	views := make([]JobView, 0, len(rows))
	for i := range rows {
		v := jobView(&rows[i])
		if rows[i].Company != nil {
			v.CompanyName = rows[i].Company.Name
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *jobService) Summary(ctx context.Context, recruiter *models.User) (*RecruiterSummary, error) {
	const op = "JobService.Summary"

	key := summaryCacheKey(recruiter.ID)
	if s.cache != nil {
		var cached RecruiterSummary
		if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	jobs, err := s.jobs.CountByRecruiter(ctx, recruiter.ID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count jobs", err)
	}
	resumes, err := s.resumes.CountByRecruiter(ctx, recruiter.ID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count resumes", err)
	}
	shortlisted, err := s.resumes.CountByRecruiterAndStatus(ctx, recruiter.ID, models.ResumeShortlisted)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count shortlisted resumes", err)
	}

	summary := &RecruiterSummary{
		TotalJobs:        jobs,
		TotalResumes:     resumes,
		TotalShortlisted: shortlisted,
	}
	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, key, summary, summaryCacheTTL)
	}
	return summary, nil
}

func (s *jobService) invalidateSummary(ctx context.Context, recruiterID uint) {
	if s.cache != nil {
		_ = s.cache.Del(ctx, summaryCacheKey(recruiterID))
	}
}

func summaryCacheKey(recruiterID uint) string {
	return fmt.Sprintf("recruiter:%d:summary", recruiterID)
}

func jobView(j *models.Job) JobView {
	return JobView{
		ID:          j.ID,
		Title:       j.Title,
		Description: j.Description,
		CompanyID:   j.CompanyID,
		RecruiterID: j.RecruiterID,
		CreatedAt:   j.CreatedAt,
	}
}
