package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hirehub/server/internal/identity"
	"github.com/hirehub/server/internal/identity/identitytest"
	"github.com/hirehub/server/internal/logger"
	"github.com/hirehub/server/internal/models"
	pgrepo "github.com/hirehub/server/internal/repositories/postgres"
	"github.com/hirehub/server/internal/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.Job{},
		&models.Resume{},
	))
	return db
}

type accountFixture struct {
	db       *gorm.DB
	provider *identitytest.Fake
	svc      AccountService
}

func newAccountFixture(t *testing.T) *accountFixture {
	t.Helper()

	db := newTestDB(t)
	provider := identitytest.New()
	svc := NewAccountService(db, pgrepo.NewUserRepo(db), pgrepo.NewCompanyRepo(db), provider, logger.New())
	return &accountFixture{db: db, provider: provider, svc: svc}
}

func ident(uid string) *identity.Token {
	return &identity.Token{UID: uid, Email: uid + "@example.com", Name: "User " + uid}
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestLoginNotRegistered(t *testing.T) {
	f := newAccountFixture(t)

	_, err := f.svc.Login(context.Background(), ident("u1"))
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeNotRegistered))
}

func TestLoginExistingUserCarriesCompany(t *testing.T) {
	f := newAccountFixture(t)

	_, err := f.svc.Register(context.Background(), ident("u1"), "HR", "Acme")
	require.NoError(t, err)

	u, err := f.svc.Login(context.Background(), ident("u1"))
	require.NoError(t, err)
	assert.Equal(t, models.RoleHR, u.Role)
	assert.Equal(t, "Acme", u.CompanyName())
}

func TestRegisterValidation(t *testing.T) {
	f := newAccountFixture(t)

	cases := []struct {
		name    string
		role    string
		company string
	}{
		{"missing role", "", "Acme"},
		{"missing company", "HR", ""},
		{"whitespace company", "HR", "   "},
		{"unknown role", "manager", "Acme"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Register(context.Background(), ident("u1"), tc.role, tc.company)
			require.Error(t, err)
			assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
		})
	}

	assert.EqualValues(t, 0, countRows(t, f.db, &models.User{}))
}

func TestRegisterHRCreatesLinkedPair(t *testing.T) {
	f := newAccountFixture(t)

	u, err := f.svc.Register(context.Background(), ident("hr1"), "hr", "Acme")
	require.NoError(t, err)
	require.NotNil(t, u.CompanyID)
	assert.Equal(t, models.RoleHR, u.Role)
	assert.Equal(t, "Acme", u.CompanyName())

	var company models.Company
	require.NoError(t, f.db.Take(&company, "id = ?", *u.CompanyID).Error)
	require.NotNil(t, company.HRUserID)
	assert.Equal(t, u.ID, *company.HRUserID)

	var stored models.User
	require.NoError(t, f.db.Take(&stored, "firebase_uid = ?", "hr1").Error)
	require.NotNil(t, stored.CompanyID)
	assert.Equal(t, company.ID, *stored.CompanyID)
}

func TestRegisterHRCompanyExists(t *testing.T) {
	f := newAccountFixture(t)

	_, err := f.svc.Register(context.Background(), ident("hr1"), "HR", "Acme")
	require.NoError(t, err)

	usersBefore := countRows(t, f.db, &models.User{})
	companiesBefore := countRows(t, f.db, &models.Company{})

	for _, variant := range []string{"Acme", "acme", "ACME"} {
		_, err := f.svc.Register(context.Background(), ident("hr2"), "HR", variant)
		require.Error(t, err, variant)
		assert.True(t, utils.IsCode(err, utils.CodeCompanyExists), variant)
	}

	assert.Equal(t, usersBefore, countRows(t, f.db, &models.User{}))
	assert.Equal(t, companiesBefore, countRows(t, f.db, &models.Company{}))
}

func TestRegisterRecruiterCompanyNotFound(t *testing.T) {
	f := newAccountFixture(t)

	_, err := f.svc.Register(context.Background(), ident("r1"), "Recruiter", "Nowhere Inc")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeCompanyNotFound))
	assert.EqualValues(t, 0, countRows(t, f.db, &models.User{}))
}

func TestRegisterRecruiterInheritsCanonicalCasing(t *testing.T) {
	f := newAccountFixture(t)

	hr, err := f.svc.Register(context.Background(), ident("hr1"), "HR", "Acme")
	require.NoError(t, err)

	rec, err := f.svc.Register(context.Background(), ident("r1"), "recruiter", "acme")
	require.NoError(t, err)
	require.NotNil(t, rec.CompanyID)
	assert.Equal(t, *hr.CompanyID, *rec.CompanyID)
	assert.Equal(t, "Acme", rec.CompanyName())
	assert.Equal(t, models.RoleRecruiter, rec.Role)
}

func TestRegisterAlreadyRegistered(t *testing.T) {
	f := newAccountFixture(t)

	_, err := f.svc.Register(context.Background(), ident("hr1"), "HR", "Acme")
	require.NoError(t, err)

	_, err = f.svc.Register(context.Background(), ident("hr1"), "Recruiter", "Acme")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeAlreadyRegistered))
}

func TestClaimsPropagation(t *testing.T) {
	f := newAccountFixture(t)

	_, err := f.svc.Register(context.Background(), ident("hr1"), "HR", "Acme")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"role": "HR", "company": "Acme"}, f.provider.Claims("hr1"))
}

func TestClaimsFailureDoesNotFailRegistration(t *testing.T) {
	f := newAccountFixture(t)
	f.provider.FailClaims = true

	u, err := f.svc.Register(context.Background(), ident("hr1"), "HR", "Acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme", u.CompanyName())
	assert.EqualValues(t, 1, countRows(t, f.db, &models.User{}))
}

// patchFailUserRepo simulates a write failure on the final company-patch
// step of the HR registration sequence.
type patchFailUserRepo struct {
	pgrepo.UserRepository
}

func (r *patchFailUserRepo) WithTx(tx *gorm.DB) pgrepo.UserRepository {
	return &patchFailUserRepo{r.UserRepository.WithTx(tx)}
}

func (r *patchFailUserRepo) SetCompany(ctx context.Context, userID, companyID uint) error {
	return errors.New("simulated write failure")
}

func TestRegisterHRRollbackOnPatchFailure(t *testing.T) {
	db := newTestDB(t)
	provider := identitytest.New()
	users := &patchFailUserRepo{pgrepo.NewUserRepo(db)}
	svc := NewAccountService(db, users, pgrepo.NewCompanyRepo(db), provider, logger.New())

	_, err := svc.Register(context.Background(), ident("hr1"), "HR", "Acme")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeRegistration))

	assert.EqualValues(t, 0, countRows(t, db, &models.User{}))
	assert.EqualValues(t, 0, countRows(t, db, &models.Company{}))
}

// staleUserRepo never sees existing users, forcing the insert path so the
// unique index is what stops a duplicate writer.
type staleUserRepo struct {
	pgrepo.UserRepository
}

func (r *staleUserRepo) WithTx(tx *gorm.DB) pgrepo.UserRepository {
	return &staleUserRepo{r.UserRepository.WithTx(tx)}
}

func (r *staleUserRepo) GetByFirebaseUID(ctx context.Context, uid string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func TestConcurrentDuplicateUserHitsConstraint(t *testing.T) {
	db := newTestDB(t)
	provider := identitytest.New()
	users := &staleUserRepo{pgrepo.NewUserRepo(db)}
	svc := NewAccountService(db, users, pgrepo.NewCompanyRepo(db), provider, logger.New())

	_, err := svc.Register(context.Background(), ident("hr1"), "HR", "Acme")
	require.NoError(t, err)

	// Second writer raced past the existence pre-check.
	_, err = svc.Register(context.Background(), ident("hr1"), "HR", "Other Co")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeAlreadyRegistered))
	assert.EqualValues(t, 1, countRows(t, db, &models.User{}))
	assert.EqualValues(t, 1, countRows(t, db, &models.Company{}))
}

// staleCompanyRepo never sees existing companies, forcing the insert path.
type staleCompanyRepo struct {
	pgrepo.CompanyRepository
}

func (r *staleCompanyRepo) WithTx(tx *gorm.DB) pgrepo.CompanyRepository {
	return &staleCompanyRepo{r.CompanyRepository.WithTx(tx)}
}

func (r *staleCompanyRepo) GetByNameFold(ctx context.Context, name string) (*models.Company, error) {
	return nil, gorm.ErrRecordNotFound
}

func TestConcurrentDuplicateCompanyHitsConstraint(t *testing.T) {
	db := newTestDB(t)
	provider := identitytest.New()
	companies := &staleCompanyRepo{pgrepo.NewCompanyRepo(db)}
	svc := NewAccountService(db, pgrepo.NewUserRepo(db), companies, provider, logger.New())

	_, err := svc.Register(context.Background(), ident("hr1"), "HR", "Acme")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), ident("hr2"), "HR", "Acme")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeCompanyExists))

	// The losing writer's user row must not survive the rollback.
	assert.EqualValues(t, 1, countRows(t, db, &models.User{}))
	assert.EqualValues(t, 1, countRows(t, db, &models.Company{}))
}
