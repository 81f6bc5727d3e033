package services

import (
	"testing"
	"time"

	"github.com/dimitrije/hackteam-api/internal/database"
	"github.com/dimitrije/hackteam-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

var (
	userCols = []string{
		"id", "user_code", "email", "name", "avatar_url", "phone_number",
		"participation_category", "is_kietian", "provider", "provider_id", "created_at", "updated_at",
	}
	teamCols = []string{
		"id", "team_name", "team_code", "leader_user_id", "participation_category", "is_kietian",
		"department", "team_size", "is_completed", "requests_count",
		"category_id", "problem_statement_id", "startup_id", "school_student_id",
		"inovation_idea_name", "inovation_idea_desc", "created_at", "updated_at",
	}
	startupCols = []string{
		"id", "user_id", "startup_name", "website", "startup_sector", "stage", "city", "team_size",
		"founder_name", "founder_email", "founder_uid", "founder_phone", "description", "problem_solving", "uvp",
		"pitch_deck_link", "is_funded", "funded_by", "event_expectations", "additional_info", "cloned_from_id",
		"created_at", "updated_at",
	}
	serializable = pgx.TxOptions{IsoLevel: pgx.Serializable}
)

func newMockDB(t *testing.T) (*database.DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })
	return &database.DB{Pool: mock}, mock
}

func newTestLogger() (logrus.FieldLogger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	return logger, hook
}

func existsRows(v bool) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"exists"}).AddRow(v)
}

func userRows(users ...*models.User) *pgxmock.Rows {
	rows := pgxmock.NewRows(userCols)
	for _, u := range users {
		rows.AddRow(u.ID, u.UserCode, u.Email, u.Name, u.AvatarURL, u.PhoneNumber,
			string(u.Category), u.IsKietian, u.Provider, u.ProviderID, u.CreatedAt, u.UpdatedAt)
	}
	return rows
}

func teamRows(t *models.Team) *pgxmock.Rows {
	var cols models.ProjectColumns
	if t.Project != nil {
		cols = t.Project.Columns()
	}
	return pgxmock.NewRows(teamCols).AddRow(
		t.ID, t.Name, t.Code, t.LeaderID, string(t.Category), t.IsKietian,
		t.Department, t.Size, t.IsCompleted, t.RequestsCount,
		cols.CategoryID, cols.ProblemStatementID, cols.StartupID, cols.SchoolStudentID,
		cols.IdeaName, cols.IdeaDesc, t.CreatedAt, t.UpdatedAt,
	)
}

func seatRows(seats map[int]uuid.UUID) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"user_id", "slot"})
	for slot := 1; slot <= models.MaxMembers; slot++ {
		if id, ok := seats[slot]; ok {
			rows.AddRow(id, slot)
		}
	}
	return rows
}

func startupRows(s *models.Startup) *pgxmock.Rows {
	return pgxmock.NewRows(startupCols).AddRow(
		s.ID, s.UserID, s.StartupName, s.Website, s.StartupSector, s.Stage, s.City, s.TeamSize,
		s.FounderName, s.FounderEmail, s.FounderUID, s.FounderPhone, s.Description, s.ProblemSolving, s.UVP,
		s.PitchDeckLink, s.IsFunded, s.FundedBy, s.EventExpectations, s.AdditionalInfo, s.ClonedFromID,
		s.CreatedAt, s.UpdatedAt,
	)
}

func testUser(category models.ParticipationCategory) *models.User {
	now := time.Now()
	phone := "9876543210"
	return &models.User{
		ID:          uuid.New(),
		UserCode:    "INO123456",
		Email:       uuid.NewString()[:8] + "@example.com",
		Name:        "Test User",
		PhoneNumber: &phone,
		Category:    category,
		Provider:    "google",
		ProviderID:  uuid.NewString(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func stringRef(s string) *string {
	return &s
}

func intRef(n int) *int {
	return &n
}
