package testutil

import (
	"context"
	"time"

	"github.com/dimitrije/hackteam-api/internal/models"
	"github.com/dimitrije/hackteam-api/internal/oauth"
	"github.com/dimitrije/hackteam-api/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserService mocks the UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) FindOrCreateFromGoogle(ctx context.Context, id *oauth.Identity) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, id uuid.UUID, in services.UpdateProfileInput) (*models.User, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Search(ctx context.Context, callerID uuid.UUID, query string, category models.ParticipationCategory) ([]models.User, error) {
	args := m.Called(ctx, callerID, query, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

// MockProfileService mocks the ProfileService
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) CreateCollegeStudent(ctx context.Context, p *models.CollegeStudent) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProfileService) CreateSchoolStudent(ctx context.Context, p *models.SchoolStudent) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProfileService) CreateResearcher(ctx context.Context, p *models.Researcher) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProfileService) CreateStartup(ctx context.Context, p *models.Startup) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProfileService) GetDetails(ctx context.Context, user *models.User) (*models.ProfileDetails, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProfileDetails), args.Error(1)
}

// MockTeamService mocks the TeamService
type MockTeamService struct {
	mock.Mock
}

func (m *MockTeamService) Create(ctx context.Context, leader models.Principal, in services.CreateTeamInput) (*services.CreateTeamResult, error) {
	args := m.Called(ctx, leader, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CreateTeamResult), args.Error(1)
}

func (m *MockTeamService) GetTeamForUser(ctx context.Context, userID uuid.UUID) (*models.TeamDetails, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TeamDetails), args.Error(1)
}

func (m *MockTeamService) GetByID(ctx context.Context, teamID, userID uuid.UUID) (*models.TeamDetails, error) {
	args := m.Called(ctx, teamID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TeamDetails), args.Error(1)
}

// MockRequestService mocks the RequestService
type MockRequestService struct {
	mock.Mock
}

func (m *MockRequestService) Respond(ctx context.Context, requestID, userID uuid.UUID, decision models.Decision) (*models.TeamRequest, error) {
	args := m.Called(ctx, requestID, userID, decision)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TeamRequest), args.Error(1)
}

func (m *MockRequestService) Cancel(ctx context.Context, requestID, userID uuid.UUID) error {
	return m.Called(ctx, requestID, userID).Error(0)
}

func (m *MockRequestService) ListPending(ctx context.Context, userID uuid.UUID) ([]models.TeamRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TeamRequest), args.Error(1)
}

func (m *MockRequestService) ListSent(ctx context.Context, userID uuid.UUID) ([]models.TeamRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TeamRequest), args.Error(1)
}

// MockCatalogService mocks the CatalogService
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCatalogService) ListProblemStatements(ctx context.Context, categoryID uuid.UUID) ([]models.ProblemStatement, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProblemStatement), args.Error(1)
}

// MockTokenService mocks the TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	return m.Called(ctx, userID, tokenHash, expiresAt).Error(0)
}

func (m *MockTokenService) RotateRefreshToken(ctx context.Context, userID uuid.UUID, oldHash, newHash string, expiresAt time.Time) error {
	return m.Called(ctx, userID, oldHash, newHash, expiresAt).Error(0)
}

func (m *MockTokenService) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	return m.Called(ctx, tokenHash).Error(0)
}

func (m *MockTokenService) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

// MockJWTService mocks the JWTService
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateTokenPair(userID uuid.UUID, email string) (*services.TokenPair, error) {
	args := m.Called(userID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenPair), args.Error(1)
}

func (m *MockJWTService) ValidateRefreshToken(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockJWTService) RefreshExpiry() time.Duration {
	return m.Called().Get(0).(time.Duration)
}

// MockGoogleSignIn mocks oauth.Google
type MockGoogleSignIn struct {
	mock.Mock
}

func (m *MockGoogleSignIn) AuthCodeURL(state string) string {
	return m.Called(state).String(0)
}

func (m *MockGoogleSignIn) Identify(ctx context.Context, code string) (*oauth.Identity, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth.Identity), args.Error(1)
}
