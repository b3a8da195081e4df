package user

import (
	"context"
	"errors"
	"fmt"

	"sinergia_backend/internal/common"
	"sinergia_backend/internal/config"
	"sinergia_backend/internal/platform/crypto"
	"sinergia_backend/internal/shared"

	"go.uber.org/zap"
)

// TemporaryPasswordNote accompanies every generated professional password.
const TemporaryPasswordNote = "Share this temporary password with the professional through a secure channel. It will not be shown again."

// Service defines the account operations exposed to HTTP handlers and the CLI.
type Service interface {
	shared.Service
	Register(ctx context.Context, req RegisterRequest) (*shared.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	CreateProfessional(ctx context.Context, req CreateProfessionalRequest) (*CreatedProfessional, error)
	ListProfessionals(ctx context.Context) ([]*shared.User, error)
	GetProfessional(ctx context.Context, id uint) (*shared.User, error)
	DeleteProfessional(ctx context.Context, id uint) error
	ListPatients(ctx context.Context) ([]*shared.User, error)
	DeletePatient(ctx context.Context, id uint) error
	Statistics(ctx context.Context) (*Statistics, error)
	EnsureAdmin(ctx context.Context, email, password, name string) (usr *shared.User, created bool, err error)
}

// ServiceImplementation implements Service.
type ServiceImplementation struct {
	repo         Repository
	tokenService shared.TokenService
	cfg          *config.Config
	logger       *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new user service.
func NewService(
	repo Repository,
	tokenService shared.TokenService,
	cfg *config.Config,
	logger *zap.Logger,
) *ServiceImplementation {
	return &ServiceImplementation{
		repo:         repo,
		tokenService: tokenService,
		cfg:          cfg,
		logger:       logger.Named("user"),
	}
}

// Register creates a self-registered account. The role defaults to patient and
// must be allowed by the registration policy.
func (s *ServiceImplementation) Register(ctx context.Context, req RegisterRequest) (*shared.User, error) {
	role := common.RolePatient
	if req.Role != "" {
		parsed, err := common.ParseRole(req.Role)
		if err != nil {
			return nil, common.NewValidationAPIError(map[string]string{"Role": err.Error()})
		}
		role = parsed
	}
	if !s.registrationAllows(role) {
		s.logger.Warn("Registration with disallowed role", zap.String("role", role.String()))
		return nil, common.ErrForbidden.WithDetails(fmt.Sprintf("Self-registration with role %q is not allowed.", role))
	}

	if err := s.ensureEmailAvailable(ctx, req.Email); err != nil {
		return nil, err
	}

	hashedPassword, err := crypto.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("Failed to hash password during registration", zap.Error(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	dbUser := &User{
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Name:         req.Name,
		Role:         role,
	}
	if err := s.repo.Create(ctx, dbUser); err != nil {
		s.logger.Warn("Failed to create user in repository", zap.Error(err), zap.String("email", req.Email))
		return nil, err
	}

	s.logger.Info("User registered successfully", zap.Uint("userID", dbUser.ID), zap.String("role", role.String()))
	return DBToShared(dbUser), nil
}

// Login verifies credentials and issues an access token. Unknown email and
// wrong password fail with the same error.
func (s *ServiceImplementation) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	dbUser, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info("User not found during login", zap.String("email", email))
			return nil, common.ErrInvalidCredentials
		}
		s.logger.Error("Error finding user by email during login", zap.Error(err), zap.String("email", email))
		return nil, err
	}

	if !crypto.CheckPasswordHash(password, dbUser.PasswordHash) {
		s.logger.Warn("Invalid password attempt", zap.Uint("userID", dbUser.ID))
		return nil, common.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokenService.IssueToken(dbUser.ID, dbUser.Role)
	if err != nil {
		s.logger.Error("Failed to issue access token on login", zap.Error(err), zap.Uint("userID", dbUser.ID))
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: DBToShared(dbUser)}, nil
}

// CreateProfessional creates a therapist account with a generated temporary
// password. Only the hash is persisted.
func (s *ServiceImplementation) CreateProfessional(ctx context.Context, req CreateProfessionalRequest) (*CreatedProfessional, error) {
	if err := s.ensureEmailAvailable(ctx, req.Email); err != nil {
		return nil, err
	}

	tempPassword, err := crypto.GenerateTemporaryPassword(crypto.TemporaryPasswordLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate temporary password: %w", err)
	}
	hashedPassword, err := crypto.HashPassword(tempPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	dbUser := &User{
		Email:          req.Email,
		PasswordHash:   hashedPassword,
		Name:           req.Name,
		Role:           common.RoleTherapist,
		Specialization: optionalString(req.Specialization),
		LicenseNumber:  optionalString(req.LicenseValue()),
	}
	if err := s.repo.Create(ctx, dbUser); err != nil {
		return nil, err
	}

	s.logger.Info("Professional created", zap.Uint("userID", dbUser.ID))
	return &CreatedProfessional{User: DBToShared(dbUser), TemporaryPassword: tempPassword}, nil
}

func (s *ServiceImplementation) ListProfessionals(ctx context.Context) ([]*shared.User, error) {
	return s.listByRole(ctx, common.RoleTherapist)
}

// GetProfessional returns a therapist. Users holding any other role are
// reported as not found.
func (s *ServiceImplementation) GetProfessional(ctx context.Context, id uint) (*shared.User, error) {
	dbUser, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dbUser.Role != common.RoleTherapist {
		return nil, common.ErrNotFound.WithDetails("Professional not found.")
	}
	return DBToShared(dbUser), nil
}

func (s *ServiceImplementation) DeleteProfessional(ctx context.Context, id uint) error {
	return s.deleteWithRole(ctx, id, common.RoleTherapist)
}

func (s *ServiceImplementation) ListPatients(ctx context.Context) ([]*shared.User, error) {
	return s.listByRole(ctx, common.RolePatient)
}

func (s *ServiceImplementation) DeletePatient(ctx context.Context, id uint) error {
	return s.deleteWithRole(ctx, id, common.RolePatient)
}

// Statistics counts accounts in total and per role.
func (s *ServiceImplementation) Statistics(ctx context.Context) (*Statistics, error) {
	var stats Statistics
	var err error
	if stats.TotalUsers, err = s.repo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalTherapists, err = s.repo.CountByRole(ctx, common.RoleTherapist); err != nil {
		return nil, err
	}
	if stats.TotalPatients, err = s.repo.CountByRole(ctx, common.RolePatient); err != nil {
		return nil, err
	}
	if stats.TotalAdmins, err = s.repo.CountByRole(ctx, common.RoleAdmin); err != nil {
		return nil, err
	}
	return &stats, nil
}

// EnsureAdmin makes sure an admin account exists for email. An existing admin
// is returned unchanged; an existing non-admin account is a role mismatch.
func (s *ServiceImplementation) EnsureAdmin(ctx context.Context, email, password, name string) (*shared.User, bool, error) {
	if NormalizeEmail(email) == "" || password == "" {
		return nil, false, common.ErrBadRequest.WithDetails("Admin email and password are required.")
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		if existing.Role != common.RoleAdmin {
			return nil, false, common.ErrRoleMismatch.WithDetails("An account with this email exists and is not an admin.")
		}
		return DBToShared(existing), false, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, false, err
	}

	hashedPassword, err := crypto.HashPassword(password)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash password: %w", err)
	}
	if name == "" {
		name = "Administrator"
	}
	dbUser := &User{Email: email, PasswordHash: hashedPassword, Name: name, Role: common.RoleAdmin}
	if err := s.repo.Create(ctx, dbUser); err != nil {
		return nil, false, err
	}

	s.logger.Info("Admin account created", zap.Uint("userID", dbUser.ID), zap.String("email", dbUser.Email))
	return DBToShared(dbUser), true, nil
}

// GetUserByID retrieves a user by ID.
func (s *ServiceImplementation) GetUserByID(ctx context.Context, id uint) (*shared.User, error) {
	dbUser, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return DBToShared(dbUser), nil
}

func (s *ServiceImplementation) ensureEmailAvailable(ctx context.Context, email string) error {
	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return common.ErrDuplicateEmail
	}
	if !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("failed to check existing user by email: %w", err)
	}
	return nil
}

func (s *ServiceImplementation) registrationAllows(role common.Role) bool {
	for _, allowed := range s.cfg.RegistrationRoles() {
		if allowed == role.String() {
			return true
		}
	}
	return false
}

func (s *ServiceImplementation) listByRole(ctx context.Context, role common.Role) ([]*shared.User, error) {
	users, err := s.repo.ListByRole(ctx, role)
	if err != nil {
		return nil, err
	}
	return DBListToShared(users), nil
}

// deleteWithRole removes the user only if it holds role; otherwise the record
// is left intact and a role mismatch is reported.
func (s *ServiceImplementation) deleteWithRole(ctx context.Context, id uint, role common.Role) error {
	dbUser, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if dbUser.Role != role {
		return common.ErrRoleMismatch.WithDetails(fmt.Sprintf("User %d is not a %s.", id, role))
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("User deleted", zap.Uint("userID", id), zap.String("role", role.String()))
	return nil
}
