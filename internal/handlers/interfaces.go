package handlers

import (
	"context"
	"time"

	"github.com/dimitrije/hackteam-api/internal/models"
	"github.com/dimitrije/hackteam-api/internal/oauth"
	"github.com/dimitrije/hackteam-api/internal/services"
	"github.com/google/uuid"
)

// GoogleSignInInterface defines the methods used by handlers from oauth.Google
type GoogleSignInInterface interface {
	AuthCodeURL(state string) string
	Identify(ctx context.Context, code string) (*oauth.Identity, error)
}

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	FindOrCreateFromGoogle(ctx context.Context, id *oauth.Identity) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, in services.UpdateProfileInput) (*models.User, error)
	Search(ctx context.Context, callerID uuid.UUID, query string, category models.ParticipationCategory) ([]models.User, error)
}

// ProfileServiceInterface defines the methods used by handlers from ProfileService
type ProfileServiceInterface interface {
	CreateCollegeStudent(ctx context.Context, p *models.CollegeStudent) error
	CreateSchoolStudent(ctx context.Context, p *models.SchoolStudent) error
	CreateResearcher(ctx context.Context, p *models.Researcher) error
	CreateStartup(ctx context.Context, p *models.Startup) error
	GetDetails(ctx context.Context, user *models.User) (*models.ProfileDetails, error)
}

// TeamServiceInterface defines the methods used by handlers from TeamService
type TeamServiceInterface interface {
	Create(ctx context.Context, leader models.Principal, in services.CreateTeamInput) (*services.CreateTeamResult, error)
	GetTeamForUser(ctx context.Context, userID uuid.UUID) (*models.TeamDetails, error)
	GetByID(ctx context.Context, teamID, userID uuid.UUID) (*models.TeamDetails, error)
}

// RequestServiceInterface defines the methods used by handlers from RequestService
type RequestServiceInterface interface {
	Respond(ctx context.Context, requestID, userID uuid.UUID, decision models.Decision) (*models.TeamRequest, error)
	Cancel(ctx context.Context, requestID, userID uuid.UUID) error
	ListPending(ctx context.Context, userID uuid.UUID) ([]models.TeamRequest, error)
	ListSent(ctx context.Context, userID uuid.UUID) ([]models.TeamRequest, error)
}

// CatalogServiceInterface defines the methods used by handlers from CatalogService
type CatalogServiceInterface interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListProblemStatements(ctx context.Context, categoryID uuid.UUID) ([]models.ProblemStatement, error)
}

// TokenServiceInterface defines the methods used by handlers from TokenService
type TokenServiceInterface interface {
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	RotateRefreshToken(ctx context.Context, userID uuid.UUID, oldHash, newHash string, expiresAt time.Time) error
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
}

// JWTServiceInterface defines the methods used by handlers from JWTService
type JWTServiceInterface interface {
	GenerateTokenPair(userID uuid.UUID, email string) (*services.TokenPair, error)
	ValidateRefreshToken(token string) (uuid.UUID, error)
	RefreshExpiry() time.Duration
}
