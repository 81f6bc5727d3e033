package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dimitrije/hackteam-api/internal/database"
	"github.com/dimitrije/hackteam-api/internal/models"
	"github.com/dimitrije/hackteam-api/internal/oauth"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	userCodeAttempts = 5
	searchLimit      = 20
	minSearchLength  = 2
)

const userColumns = `id, user_code, email, name, avatar_url, phone_number,
		COALESCE(participation_category, ''), is_kietian, provider, provider_id, created_at, updated_at`

type UserService struct {
	db *database.DB
}

func NewUserService(db *database.DB) *UserService {
	return &UserService{db: db}
}

// UpdateProfileInput holds the basic profile fields a user may change. Nil means unchanged.
type UpdateProfileInput struct {
	Name        *string
	PhoneNumber *string
	Category    *models.ParticipationCategory
	IsKietian   *bool
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	var category string
	err := row.Scan(
		&user.ID, &user.UserCode, &user.Email, &user.Name, &user.AvatarURL, &user.PhoneNumber,
		&category, &user.IsKietian, &user.Provider, &user.ProviderID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Category = models.ParticipationCategory(category)
	return &user, nil
}

// FindOrCreateFromGoogle resolves a verified Google identity to a user. An
// account registered under the same email is linked to the Google subject.
func (s *UserService) FindOrCreateFromGoogle(ctx context.Context, id *oauth.Identity) (*models.User, error) {
	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE provider = $1 AND provider_id = $2
	`, oauth.Provider, id.Subject))
	if err == nil {
		if user.Name != id.Name || (user.AvatarURL == nil && id.Picture != "") {
			_, _ = s.db.Pool.Exec(ctx, `
				UPDATE users SET name = $1, avatar_url = COALESCE($2, avatar_url), updated_at = NOW()
				WHERE id = $3
			`, id.Name, nullableString(id.Picture), user.ID)
			user.Name = id.Name
			if id.Picture != "" {
				user.AvatarURL = &id.Picture
			}
		}
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	user, err = scanUser(s.db.Pool.QueryRow(ctx, `
		UPDATE users SET provider = $1, provider_id = $2, avatar_url = COALESCE($3, avatar_url), updated_at = NOW()
		WHERE email = $4
		RETURNING `+userColumns,
		oauth.Provider, id.Subject, nullableString(id.Picture), id.Email))
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to link user: %w", err)
	}

	for attempt := 0; attempt < userCodeAttempts; attempt++ {
		code, err := models.NewUserCode()
		if err != nil {
			return nil, err
		}

		user, err = scanUser(s.db.Pool.QueryRow(ctx, `
			INSERT INTO users (user_code, email, name, avatar_url, provider, provider_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+userColumns,
			code, id.Email, id.Name, nullableString(id.Picture), oauth.Provider, id.Subject))
		if err == nil {
			return user, nil
		}
		if !database.IsUniqueViolation(err, "users_user_code_key") {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	}

	return nil, fmt.Errorf("failed to create user: no free user code after %d attempts", userCodeAttempts)
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := scanUser(s.db.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*models.User, error) {
	var category *string
	if in.Category != nil {
		if !in.Category.Valid() {
			return nil, models.NewValidationError("participation_category",
				"participation category must be one of school, college, researcher, startup")
		}
		c := string(*in.Category)
		category = &c
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, models.NewValidationError("name", "name cannot be empty")
	}

	if in.PhoneNumber != nil {
		var taken bool
		err := s.db.Pool.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM users WHERE phone_number = $1 AND id <> $2)
		`, *in.PhoneNumber, id).Scan(&taken)
		if err != nil {
			return nil, fmt.Errorf("failed to check phone number: %w", err)
		}
		if taken {
			return nil, models.NewValidationError("phone_number", "phone number is already registered")
		}
	}

	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		UPDATE users SET
			name = COALESCE($1, name),
			phone_number = COALESCE($2, phone_number),
			participation_category = COALESCE($3, participation_category),
			is_kietian = COALESCE($4, is_kietian),
			updated_at = NOW()
		WHERE id = $5
		RETURNING `+userColumns,
		in.Name, in.PhoneNumber, category, in.IsKietian, id))
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, ErrUserNotFound
	case database.IsUniqueViolation(err, "users_phone_number_key"):
		return nil, models.NewValidationError("phone_number", "phone number is already registered")
	case err != nil:
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// Search finds users the caller could invite: matching email or user code,
// not the caller, and not seated in any team.
func (s *UserService) Search(ctx context.Context, callerID uuid.UUID, query string, category models.ParticipationCategory) ([]models.User, error) {
	query = strings.TrimSpace(query)
	if len(query) < minSearchLength {
		return nil, models.NewValidationError("query", "search query must be at least 2 characters")
	}
	if category != "" && !category.Valid() {
		return nil, models.NewValidationError("participation_category", "unknown participation category")
	}

	pattern := "%" + escapeLike(query) + "%"
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users u
		WHERE u.id <> $1
		  AND (u.email ILIKE $2 OR u.user_code ILIKE $2)
		  AND ($3::text = '' OR u.participation_category = $3::text)
		  AND NOT EXISTS (SELECT 1 FROM team_seats s WHERE s.user_id = u.id)
		ORDER BY u.name
		LIMIT $4
	`, callerID, pattern, string(category), searchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func usersByID(ctx context.Context, q database.Querier, ids []uuid.UUID) (map[uuid.UUID]models.User, error) {
	byID := make(map[uuid.UUID]models.User, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}

	rows, err := q.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		byID[user.ID] = *user
	}
	return byID, rows.Err()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
