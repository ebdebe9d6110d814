package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/hirehub/server/internal/identity"
	"github.com/hirehub/server/internal/models"
	pgrepo "github.com/hirehub/server/internal/repositories/postgres"
	"github.com/hirehub/server/internal/utils"
)

// AccountService decides, per request, whether a verified identity maps to a
// login, a registration, or a rejection.
type AccountService interface {
	// Login resolves a verified identity to an existing user.
	Login(ctx context.Context, ident *identity.Token) (*models.User, error)

	// Register creates the user (and, for HR, the company) for a verified
	// identity that has no account yet.
	Register(ctx context.Context, ident *identity.Token, role, companyName string) (*models.User, error)

	// CurrentUser loads the account behind a session-cookie uid.
	CurrentUser(ctx context.Context, uid string) (*models.User, error)
}

type accountService struct {
	db        *gorm.DB
	users     pgrepo.UserRepository
	companies pgrepo.CompanyRepository
	provider  identity.Provider
	log       *logrus.Logger
}

func NewAccountService(
	db *gorm.DB,
	users pgrepo.UserRepository,
	companies pgrepo.CompanyRepository,
	provider identity.Provider,
	log *logrus.Logger,
) AccountService {
	return &accountService{
		db:        db,
		users:     users,
		companies: companies,
		provider:  provider,
		log:       log,
	}
}

func (s *accountService) Login(ctx context.Context, ident *identity.Token) (*models.User, error) {
	const op = "AccountService.Login"

	u, err := s.users.GetByFirebaseUID(ctx, ident.UID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.E(utils.CodeNotRegistered, op, "User is not registered", nil)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to look up user", err)
	}
	return u, nil
}

func (s *accountService) Register(ctx context.Context, ident *identity.Token, role, companyName string) (*models.User, error) {
	const op = "AccountService.Register"

	parsedRole, roleOK := models.ParseRole(strings.TrimSpace(role))
	company := strings.TrimSpace(companyName)
	if company == "" || strings.TrimSpace(role) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "role and company_name are required for registration", nil)
	}
	if !roleOK {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Invalid role. Must be 'HR' or 'Recruiter'.", nil)
	}

	_, err := s.users.GetByFirebaseUID(ctx, ident.UID)
	if err == nil {
		return nil, utils.E(utils.CodeAlreadyRegistered, op, "User already registered. Please login instead.", nil)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to look up user", err)
	}

	existing, err := s.companies.GetByNameFold(ctx, company)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to look up company", err)
	}
	companyExists := err == nil

	var created *models.User
	switch parsedRole {
	case models.RoleHR:
		if companyExists {
			return nil, utils.E(utils.CodeCompanyExists, op, "Company already exists. Cannot create HR for this company.", nil)
		}
		created, err = s.registerHR(ctx, ident, company)
	case models.RoleRecruiter:
		if !companyExists {
			return nil, utils.E(utils.CodeCompanyNotFound, op, "Company does not exist. Please contact HR.", nil)
		}
		created, err = s.registerRecruiter(ctx, ident, existing)
	}
	if err != nil {
		return nil, err
	}

	// Best effort: mirror role/company into the provider's custom claims.
	// The database row is the source of truth; a claims failure must not
	// undo the registration.
	claims := map[string]any{"role": string(created.Role), "company": created.CompanyName()}
	if err := s.provider.SetUserClaims(ctx, ident.UID, claims); err != nil {
		s.log.WithError(err).WithField("uid", ident.UID).Warn("failed to set custom user claims")
	}

	return created, nil
}

// registerHR performs the three-phase write: insert the user without a
// company, insert the company pointing at the user, then patch the user's
// company reference. The rows reference each other, so no single insert can
// satisfy both foreign keys; the transaction guarantees that no partial pair
// survives.
func (s *accountService) registerHR(ctx context.Context, ident *identity.Token, company string) (*models.User, error) {
	const op = "AccountService.Register"

	var created *models.User
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)
		companies := s.companies.WithTx(tx)

		u := &models.User{
			FirebaseUID: ident.UID,
			Name:        ident.Name,
			Email:       ident.Email,
			Role:        models.RoleHR,
		}
		if err := users.Create(ctx, u); err != nil {
			return dupAs(err, utils.CodeAlreadyRegistered, op, "User already registered. Please login instead.")
		}

		c := &models.Company{Name: company, HRUserID: &u.ID}
		if err := companies.Create(ctx, c); err != nil {
			return dupAs(err, utils.CodeCompanyExists, op, "Company already exists. Cannot create HR for this company.")
		}

		if err := users.SetCompany(ctx, u.ID, c.ID); err != nil {
			return err
		}

		u.CompanyID = &c.ID
		u.Company = c
		created = u
		return nil
	})
	if txErr != nil {
		var ae *utils.AppError
		if errors.As(txErr, &ae) {
			return nil, txErr
		}
		return nil, utils.E(utils.CodeRegistration, op, "failed to register HR user", txErr)
	}
	return created, nil
}

func (s *accountService) registerRecruiter(ctx context.Context, ident *identity.Token, company *models.Company) (*models.User, error) {
	const op = "AccountService.Register"

	u := &models.User{
		FirebaseUID: ident.UID,
		Name:        ident.Name,
		Email:       ident.Email,
		Role:        models.RoleRecruiter,
		CompanyID:   &company.ID,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if mapped := dupAs(err, utils.CodeAlreadyRegistered, op, "User already registered. Please login instead."); mapped != err {
			return nil, mapped
		}
		return nil, utils.E(utils.CodeRegistration, op, "failed to register recruiter", err)
	}
	u.Company = company
	return u, nil
}

func (s *accountService) CurrentUser(ctx context.Context, uid string) (*models.User, error) {
	const op = "AccountService.CurrentUser"

	u, err := s.users.GetByFirebaseUID(ctx, uid)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.E(utils.CodeUnauthorized, op, "User not found.", nil)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to look up user", err)
	}
	return u, nil
}

// dupAs rewrites a storage-layer unique violation into the matching business
// error, so a concurrent duplicate writer gets a 400 instead of a 500.
func dupAs(err error, code utils.Code, op, msg string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return utils.E(code, op, msg, err)
	}
	return err
}
