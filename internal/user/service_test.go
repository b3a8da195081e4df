package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"sinergia_backend/internal/common"
	"sinergia_backend/internal/config"
	"sinergia_backend/internal/platform/crypto"
	"sinergia_backend/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockRepository is a mock implementation of the user.Repository interface.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id uint) (*User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) ListByRole(ctx context.Context, role common.Role) ([]User, error) {
	args := m.Called(ctx, role)
	if u := args.Get(0); u != nil {
		return u.([]User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) CountByRole(ctx context.Context, role common.Role) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

// MockTokenService is a mock implementation of shared.TokenService.
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) IssueToken(userID uint, role common.Role) (string, time.Time, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockTokenService) DecodeToken(tokenString string) (*shared.Claims, error) {
	args := m.Called(tokenString)
	if c := args.Get(0); c != nil {
		return c.(*shared.Claims), args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestService(roles string) (*ServiceImplementation, *MockRepository, *MockTokenService) {
	repo := &MockRepository{}
	tokens := &MockTokenService{}
	cfg := &config.Config{RegistrationAllowedRoles: roles}
	return NewService(repo, tokens, cfg, zap.NewNop()), repo, tokens
}

func withID(id uint) func(args mock.Arguments) {
	return func(args mock.Arguments) {
		args.Get(1).(*User).ID = id
	}
}

func TestRegister_DefaultsToPatient(t *testing.T) {
	svc, repo, _ := newTestService("patient,therapist,admin")
	ctx := context.Background()

	repo.On("FindByEmail", ctx, "ana@example.com").Return(nil, common.ErrNotFound)
	repo.On("Create", ctx, mock.MatchedBy(func(u *User) bool {
		return u.Role == common.RolePatient && u.PasswordHash != "secret" && crypto.CheckPasswordHash("secret", u.PasswordHash)
	})).Run(withID(1)).Return(nil)

	usr, err := svc.Register(ctx, RegisterRequest{Email: "ana@example.com", Password: "secret", Name: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, uint(1), usr.ID)
	assert.Equal(t, common.RolePatient, usr.Role)
	assert.Equal(t, "Ana", usr.Name)
	repo.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, repo, _ := newTestService("patient,therapist,admin")
	ctx := context.Background()

	repo.On("FindByEmail", ctx, "ana@example.com").Return(&User{Email: "ana@example.com"}, nil)

	_, err := svc.Register(ctx, RegisterRequest{Email: "ana@example.com", Password: "secret", Name: "Ana"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrDuplicateEmail))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_DuplicateEmailRace(t *testing.T) {
	svc, repo, _ := newTestService("patient,therapist,admin")
	ctx := context.Background()

	repo.On("FindByEmail", ctx, "ana@example.com").Return(nil, common.ErrNotFound)
	repo.On("Create", ctx, mock.Anything).Return(common.ErrDuplicateEmail)

	_, err := svc.Register(ctx, RegisterRequest{Email: "ana@example.com", Password: "secret", Name: "Ana"})
	assert.True(t, errors.Is(err, common.ErrDuplicateEmail))
}

func TestRegister_RolePolicy(t *testing.T) {
	svc, repo, _ := newTestService("patient")
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Email: "boss@example.com", Password: "secret", Name: "Boss", Role: "admin"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrForbidden))

	_, err = svc.Register(ctx, RegisterRequest{Email: "x@example.com", Password: "secret", Name: "X", Role: "superuser"})
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)

	repo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	svc, repo, tokens := newTestService("patient")
	ctx := context.Background()

	hash, err := crypto.HashPassword("right")
	require.NoError(t, err)
	repo.On("FindByEmail", ctx, "nobody@example.com").Return(nil, common.ErrNotFound)
	repo.On("FindByEmail", ctx, "ana@example.com").Return(&User{
		BaseModel: common.BaseModel{ID: 7}, Email: "ana@example.com", PasswordHash: hash, Role: common.RolePatient,
	}, nil)

	_, errUnknown := svc.Login(ctx, "nobody@example.com", "right")
	_, errWrong := svc.Login(ctx, "ana@example.com", "wrong")

	require.Error(t, errUnknown)
	require.Error(t, errWrong)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
	a, _ := common.IsAPIError(errUnknown)
	b, _ := common.IsAPIError(errWrong)
	assert.Equal(t, a, b)
	assert.Equal(t, 401, a.StatusCode)
	tokens.AssertNotCalled(t, "IssueToken", mock.Anything, mock.Anything)
}

func TestLogin_Success(t *testing.T) {
	svc, repo, tokens := newTestService("patient")
	ctx := context.Background()

	hash, err := crypto.HashPassword("right")
	require.NoError(t, err)
	expires := time.Now().Add(time.Hour)
	repo.On("FindByEmail", ctx, "bia@example.com").Return(&User{
		BaseModel: common.BaseModel{ID: 3}, Email: "bia@example.com", Name: "Bia", PasswordHash: hash, Role: common.RoleTherapist,
	}, nil)
	tokens.On("IssueToken", uint(3), common.RoleTherapist).Return("signed-token", expires, nil)

	res, err := svc.Login(ctx, "bia@example.com", "right")
	require.NoError(t, err)
	assert.Equal(t, "signed-token", res.Token)
	assert.Equal(t, expires, res.ExpiresAt)
	assert.Equal(t, "Bia", res.User.Name)
	tokens.AssertExpectations(t)
}

func TestCreateProfessional_StoresOnlyHash(t *testing.T) {
	svc, repo, _ := newTestService("patient")
	ctx := context.Background()

	var stored *User
	repo.On("FindByEmail", ctx, "dr@example.com").Return(nil, common.ErrNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*user.User")).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*User)
		stored.ID = 10
	}).Return(nil)

	res, err := svc.CreateProfessional(ctx, CreateProfessionalRequest{
		Email: "dr@example.com", Name: "Dr. Lima", Specialization: "Psicologia",
	})
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.Len(t, res.TemporaryPassword, crypto.TemporaryPasswordLength)
	assert.NotEqual(t, res.TemporaryPassword, stored.PasswordHash)
	assert.True(t, crypto.CheckPasswordHash(res.TemporaryPassword, stored.PasswordHash))
	assert.Equal(t, common.RoleTherapist, stored.Role)
	require.NotNil(t, stored.Specialization)
	assert.Equal(t, "Psicologia", *stored.Specialization)
	assert.Nil(t, stored.LicenseNumber)
	assert.Equal(t, uint(10), res.User.ID)
}

func TestCreateProfessionalRequest_LicenseValue(t *testing.T) {
	assert.Equal(t, "CRP-1", CreateProfessionalRequest{License: "CRP-1", LicenseNumber: "CRP-2"}.LicenseValue())
	assert.Equal(t, "CRP-2", CreateProfessionalRequest{LicenseNumber: "CRP-2"}.LicenseValue())
	assert.Empty(t, CreateProfessionalRequest{}.LicenseValue())
}

func TestCreateProfessional_DuplicateEmail(t *testing.T) {
	svc, repo, _ := newTestService("patient")
	ctx := context.Background()

	repo.On("FindByEmail", ctx, "dr@example.com").Return(&User{}, nil)

	_, err := svc.CreateProfessional(ctx, CreateProfessionalRequest{Email: "dr@example.com", Name: "Dr"})
	assert.True(t, errors.Is(err, common.ErrDuplicateEmail))
}

func TestDeleteProfessional_RoleMismatchLeavesRecord(t *testing.T) {
	svc, repo, _ := newTestService("patient")
	ctx := context.Background()

	repo.On("FindByID", ctx, uint(5)).Return(&User{BaseModel: common.BaseModel{ID: 5}, Role: common.RolePatient}, nil)

	err := svc.DeleteProfessional(ctx, 5)
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "ROLE_MISMATCH", apiErr.Code)
	assert.Equal(t, 400, apiErr.StatusCode)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeletePatient(t *testing.T) {
	svc, repo, _ := newTestService("patient")
	ctx := context.Background()

	repo.On("FindByID", ctx, uint(8)).Return(&User{BaseModel: common.BaseModel{ID: 8}, Role: common.RolePatient}, nil)
	repo.On("Delete", ctx, uint(8)).Return(nil)
	repo.On("FindByID", ctx, uint(9)).Return(nil, common.ErrNotFound)

	require.NoError(t, svc.DeletePatient(ctx, 8))
	assert.True(t, errors.Is(svc.DeletePatient(ctx, 9), common.ErrNotFound))
	repo.AssertExpectations(t)
}

func TestGetProfessional_NonTherapistIsNotFound(t *testing.T) {
	svc, repo, _ := newTestService("patient")
	ctx := context.Background()

	repo.On("FindByID", ctx, uint(2)).Return(&User{BaseModel: common.BaseModel{ID: 2}, Role: common.RoleAdmin}, nil)
	repo.On("FindByID", ctx, uint(3)).Return(&User{BaseModel: common.BaseModel{ID: 3}, Role: common.RoleTherapist, Name: "Dr"}, nil)

	_, err := svc.GetProfessional(ctx, 2)
	assert.True(t, errors.Is(err, common.ErrNotFound))

	usr, err := svc.GetProfessional(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Dr", usr.Name)
}

func TestStatistics(t *testing.T) {
	svc, repo, _ := newTestService("patient")
	ctx := context.Background()

	repo.On("Count", ctx).Return(int64(6), nil)
	repo.On("CountByRole", ctx, common.RoleTherapist).Return(int64(2), nil)
	repo.On("CountByRole", ctx, common.RolePatient).Return(int64(3), nil)
	repo.On("CountByRole", ctx, common.RoleAdmin).Return(int64(1), nil)

	stats, err := svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), stats.TotalUsers)
	assert.Equal(t, stats.TotalUsers, stats.TotalTherapists+stats.TotalPatients+stats.TotalAdmins)
}

func TestEnsureAdmin(t *testing.T) {
	svc, repo, _ := newTestService("patient")
	ctx := context.Background()

	repo.On("FindByEmail", ctx, "root@example.com").Return(nil, common.ErrNotFound).Once()
	repo.On("Create", ctx, mock.MatchedBy(func(u *User) bool { return u.Role == common.RoleAdmin })).Run(withID(1)).Return(nil).Once()

	usr, created, err := svc.EnsureAdmin(ctx, "root@example.com", "pw", "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Administrator", usr.Name)

	repo.On("FindByEmail", ctx, "root@example.com").Return(&User{BaseModel: common.BaseModel{ID: 1}, Role: common.RoleAdmin}, nil).Once()
	_, created, err = svc.EnsureAdmin(ctx, "root@example.com", "pw", "")
	require.NoError(t, err)
	assert.False(t, created)

	repo.On("FindByEmail", ctx, "pat@example.com").Return(&User{Role: common.RolePatient}, nil)
	_, _, err = svc.EnsureAdmin(ctx, "pat@example.com", "pw", "")
	assert.True(t, errors.Is(err, common.ErrRoleMismatch))
}
