package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dimitrije/hackteam-api/internal/database"
	"github.com/dimitrije/hackteam-api/internal/models"
	"github.com/dimitrije/hackteam-api/internal/oauth"
	"github.com/google/uuid"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser creates a test user with a completed basic profile
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	phone := fmt.Sprintf("98%08d", f.counter)
	user := &models.User{
		UserCode:    fmt.Sprintf("INO%06d", 100000+f.counter),
		Email:       fmt.Sprintf("user%d@example.com", f.counter),
		Name:        fmt.Sprintf("Test User %d", f.counter),
		PhoneNumber: &phone,
		Category:    models.CategoryCollege,
		Provider:    "google",
		ProviderID:  fmt.Sprintf("provider-%d", f.counter),
	}

	for _, opt := range opts {
		opt(user)
	}

	var category *string
	if user.Category != "" {
		c := string(user.Category)
		category = &c
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO users (user_code, email, name, avatar_url, phone_number, participation_category,
			is_kietian, provider, provider_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, user.UserCode, user.Email, user.Name, user.AvatarURL, user.PhoneNumber, category,
		user.IsKietian, user.Provider, user.ProviderID,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

// WithEmail sets the user's email
func WithEmail(email string) UserOption {
	return func(u *models.User) {
		u.Email = email
	}
}

// WithName sets the user's name
func WithName(name string) UserOption {
	return func(u *models.User) {
		u.Name = name
	}
}

// WithCategory sets the user's participation category
func WithCategory(category models.ParticipationCategory) UserOption {
	return func(u *models.User) {
		u.Category = category
	}
}

// WithKietian marks the user as a KIET participant
func WithKietian() UserOption {
	return func(u *models.User) {
		u.IsKietian = true
	}
}

// WithoutProfile leaves the basic profile unfinished
func WithoutProfile() UserOption {
	return func(u *models.User) {
		u.Category = ""
		u.PhoneNumber = nil
	}
}

// CreateCategory creates a catalog category with one problem statement
func (f *Fixtures) CreateCategory(t *testing.T) (*models.Category, *models.ProblemStatement) {
	t.Helper()
	f.counter++
	ctx := context.Background()

	cat := &models.Category{
		Name:        fmt.Sprintf("Category %d", f.counter),
		Description: "test category",
	}
	if err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO categories (name, description) VALUES ($1, $2) RETURNING id
	`, cat.Name, cat.Description).Scan(&cat.ID); err != nil {
		t.Fatalf("failed to create category: %v", err)
	}

	ps := &models.ProblemStatement{
		CategoryID:  cat.ID,
		Title:       fmt.Sprintf("Problem %d", f.counter),
		Description: "test problem",
	}
	if err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO problem_statements (category_id, title, description) VALUES ($1, $2, $3) RETURNING id
	`, ps.CategoryID, ps.Title, ps.Description).Scan(&ps.ID); err != nil {
		t.Fatalf("failed to create problem statement: %v", err)
	}

	cat.ProblemStatements = []models.ProblemStatement{*ps}
	return cat, ps
}

// CreateStartup creates a startup profile owned by owner
func (f *Fixtures) CreateStartup(t *testing.T, owner *models.User) *models.Startup {
	t.Helper()
	f.counter++

	size := 3
	founderUID := fmt.Sprintf("%012d", f.counter)
	startup := &models.Startup{
		UserID:            owner.ID,
		StartupName:       fmt.Sprintf("Startup %d", f.counter),
		Website:           "https://startup.example",
		StartupSector:     "Energy",
		Stage:             "MVP",
		City:              "Ghaziabad",
		TeamSize:          &size,
		FounderName:       owner.Name,
		FounderEmail:      owner.Email,
		FounderUID:        &founderUID,
		FounderPhone:      "9999999999",
		Description:       "Microgrids for campuses",
		ProblemSolving:    "Outages",
		UVP:               "Cheap and local",
		PitchDeckLink:     "https://deck.example",
		EventExpectations: "Mentorship",
	}

	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO startups (user_id, startup_name, website, startup_sector, stage, city, team_size,
			founder_name, founder_email, founder_uid, founder_phone, description, problem_solving,
			uvp, pitch_deck_link, is_funded, event_expectations)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at, updated_at
	`, startup.UserID, startup.StartupName, startup.Website, startup.StartupSector, startup.Stage,
		startup.City, startup.TeamSize, startup.FounderName, startup.FounderEmail, startup.FounderUID,
		startup.FounderPhone, startup.Description, startup.ProblemSolving, startup.UVP,
		startup.PitchDeckLink, startup.IsFunded, startup.EventExpectations,
	).Scan(&startup.ID, &startup.CreatedAt, &startup.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create startup: %v", err)
	}

	return startup
}

// CreateRefreshToken creates a test refresh token
func (f *Fixtures) CreateRefreshToken(t *testing.T, userID uuid.UUID, tokenHash string, expiresAt time.Time) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, userID, tokenHash, expiresAt)
	if err != nil {
		t.Fatalf("failed to create refresh token: %v", err)
	}
}

// GoogleIdentity builds a verified Google identity for sign-in tests.
func GoogleIdentity(email, name, subject string) *oauth.Identity {
	return &oauth.Identity{
		Subject: subject,
		Email:   email,
		Name:    name,
		Picture: "https://example.com/avatar.png",
	}
}
