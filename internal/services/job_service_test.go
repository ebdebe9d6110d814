package services

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hirehub/server/internal/identity/identitytest"
	"github.com/hirehub/server/internal/logger"
	"github.com/hirehub/server/internal/models"
	pgrepo "github.com/hirehub/server/internal/repositories/postgres"
	"github.com/hirehub/server/internal/utils"
)

// memCache is a map-backed cache.Cache for tests; TTLs are ignored.
type memCache struct {
	mu   sync.Mutex
	vals map[string][]byte
}

func newMemCache() *memCache { return &memCache{vals: map[string][]byte{}} }

func (m *memCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.vals[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (m *memCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vals[key] = b
	return nil
}

func (m *memCache) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.vals, k)
	}
	return nil
}

func seedCompanyUsers(t *testing.T, db *gorm.DB) (recruiter *models.User, hr *models.User) {
	t.Helper()

	provider := identitytest.New()
	accounts := NewAccountService(db, pgrepo.NewUserRepo(db), pgrepo.NewCompanyRepo(db), provider, logger.New())

	hr, err := accounts.Register(context.Background(), ident("hr1"), "HR", "Acme")
	require.NoError(t, err)
	recruiter, err = accounts.Register(context.Background(), ident("r1"), "Recruiter", "Acme")
	require.NoError(t, err)
	return recruiter, hr
}

func TestJobCreateValidation(t *testing.T) {
	db := newTestDB(t)
	recruiter, _ := seedCompanyUsers(t, db)
	svc := NewJobService(pgrepo.NewJobRepo(db), pgrepo.NewResumeRepo(db), newMemCache())

	cases := []struct {
		name  string
		title string
		desc  string
	}{
		{"empty title", "", "a long enough description"},
		{"empty description", "Engineer", ""},
		{"title too long", strings.Repeat("x", 256), "a long enough description"},
		{"description too short", "Engineer", "short"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), recruiter, tc.title, tc.desc)
			require.Error(t, err)
			assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
		})
	}
}

func TestJobCreateRequiresCompany(t *testing.T) {
	db := newTestDB(t)
	svc := NewJobService(pgrepo.NewJobRepo(db), pgrepo.NewResumeRepo(db), newMemCache())

	orphan := &models.User{FirebaseUID: "x", Name: "X", Email: "x@example.com", Role: models.RoleRecruiter}
	require.NoError(t, db.Create(orphan).Error)

	_, err := svc.Create(context.Background(), orphan, "Engineer", "a long enough description")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestJobCreateAndListCarriesCompanyName(t *testing.T) {
	db := newTestDB(t)
	recruiter, _ := seedCompanyUsers(t, db)
	svc := NewJobService(pgrepo.NewJobRepo(db), pgrepo.NewResumeRepo(db), newMemCache())

	created, err := svc.Create(context.Background(), recruiter, "Engineer", "Builds the backend services.")
	require.NoError(t, err)
	assert.Equal(t, "Acme", created.CompanyName)
	assert.Equal(t, recruiter.ID, created.RecruiterID)

	jobs, err := svc.ListMine(context.Background(), recruiter)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Acme", jobs[0].CompanyName)
	assert.Equal(t, created.ID, jobs[0].ID)
}

func TestSummaryCountsAndCacheInvalidation(t *testing.T) {
	db := newTestDB(t)
	recruiter, _ := seedCompanyUsers(t, db)
	c := newMemCache()
	svc := NewJobService(pgrepo.NewJobRepo(db), pgrepo.NewResumeRepo(db), c)

	job, err := svc.Create(context.Background(), recruiter, "Engineer", "Builds the backend services.")
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.Resume{
		FilePath: "resumes/1/a.pdf", ExtractedText: "text",
		Status: models.ResumeShortlisted, JobID: job.ID, RecruiterID: recruiter.ID,
	}).Error)
	require.NoError(t, db.Create(&models.Resume{
		FilePath: "resumes/1/b.pdf", ExtractedText: "text",
		Status: models.ResumePending, JobID: job.ID, RecruiterID: recruiter.ID,
	}).Error)

	got, err := svc.Summary(context.Background(), recruiter)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.TotalJobs)
	assert.EqualValues(t, 2, got.TotalResumes)
	assert.EqualValues(t, 1, got.TotalShortlisted)

	// Cached now; a second call must not see uncached writes...
	require.NoError(t, db.Create(&models.Resume{
		FilePath: "resumes/1/c.pdf", ExtractedText: "text",
		Status: models.ResumePending, JobID: job.ID, RecruiterID: recruiter.ID,
	}).Error)
	cached, err := svc.Summary(context.Background(), recruiter)
	require.NoError(t, err)
	assert.EqualValues(t, 2, cached.TotalResumes)

	// ...until a job write invalidates the entry.
	_, err = svc.Create(context.Background(), recruiter, "Designer", "Designs all of the things.")
	require.NoError(t, err)
	fresh, err := svc.Summary(context.Background(), recruiter)
	require.NoError(t, err)
	assert.EqualValues(t, 2, fresh.TotalJobs)
	assert.EqualValues(t, 3, fresh.TotalResumes)
}
