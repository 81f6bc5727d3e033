package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dimitrije/hackteam-api/internal/database"
	"github.com/dimitrije/hackteam-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

const startupColumns = `id, user_id, startup_name, website, startup_sector, stage, city, team_size,
		founder_name, founder_email, founder_uid, founder_phone, description, problem_solving, uvp,
		pitch_deck_link, is_funded, funded_by, event_expectations, additional_info, cloned_from_id,
		created_at, updated_at`

type ProfileService struct {
	db  *database.DB
	log logrus.FieldLogger
}

func NewProfileService(db *database.DB, log logrus.FieldLogger) *ProfileService {
	return &ProfileService{db: db, log: log}
}

func (s *ProfileService) CreateCollegeStudent(ctx context.Context, p *models.CollegeStudent) error {
	if p.Year < 1 || p.Year > 4 {
		return models.NewValidationError("year", "year must be between 1 and 4")
	}
	if strings.TrimSpace(p.UID) == "" {
		return models.NewValidationError("uid", "uid is required")
	}

	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO college_students (user_id, college, course, year, branch, uid)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, p.UserID, p.College, p.Course, p.Year, p.Branch, p.UID).Scan(&p.ID, &p.CreatedAt)
	return profileInsertError(err, "college_students", "uid")
}

func (s *ProfileService) CreateSchoolStudent(ctx context.Context, p *models.SchoolStudent) error {
	if err := checkUID("uid", p.UID); err != nil {
		return err
	}

	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO school_students (user_id, school, standard, board, uid)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, p.UserID, p.School, p.Standard, p.Board, p.UID).Scan(&p.ID, &p.CreatedAt)
	return profileInsertError(err, "school_students", "uid")
}

func (s *ProfileService) CreateResearcher(ctx context.Context, p *models.Researcher) error {
	if err := checkUID("uid", p.UID); err != nil {
		return err
	}

	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO researchers (user_id, uid, university_name, pursuing_degree)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, p.UserID, p.UID, p.UniversityName, p.PursuingDegree).Scan(&p.ID, &p.CreatedAt)
	return profileInsertError(err, "researchers", "uid")
}

func (s *ProfileService) CreateStartup(ctx context.Context, p *models.Startup) error {
	if p.FounderUID == nil {
		return models.NewValidationError("founder_uid", "founder uid is required")
	}
	if err := checkUID("founder_uid", *p.FounderUID); err != nil {
		return err
	}
	if p.TeamSize != nil && *p.TeamSize < 1 {
		return models.NewValidationError("team_size", "team size must be positive")
	}
	p.ClonedFromID = nil

	return insertStartup(ctx, s.db.Pool, p)
}

// GetDetails loads the role-specific profile matching the user's category.
// A user without one gets details with only Type set.
func (s *ProfileService) GetDetails(ctx context.Context, user *models.User) (*models.ProfileDetails, error) {
	details := &models.ProfileDetails{Type: string(user.Category)}

	var err error
	switch user.Category {
	case models.CategoryCollege:
		var p models.CollegeStudent
		err = s.db.Pool.QueryRow(ctx, `
			SELECT id, user_id, college, course, year, branch, uid, created_at
			FROM college_students WHERE user_id = $1
		`, user.ID).Scan(&p.ID, &p.UserID, &p.College, &p.Course, &p.Year, &p.Branch, &p.UID, &p.CreatedAt)
		if err == nil {
			details.CollegeStudent = &p
		}
	case models.CategorySchool:
		var p models.SchoolStudent
		err = s.db.Pool.QueryRow(ctx, `
			SELECT id, user_id, school, standard, board, uid, created_at
			FROM school_students WHERE user_id = $1
		`, user.ID).Scan(&p.ID, &p.UserID, &p.School, &p.Standard, &p.Board, &p.UID, &p.CreatedAt)
		if err == nil {
			details.SchoolStudent = &p
		}
	case models.CategoryResearcher:
		var p models.Researcher
		err = s.db.Pool.QueryRow(ctx, `
			SELECT id, user_id, uid, university_name, pursuing_degree, created_at
			FROM researchers WHERE user_id = $1
		`, user.ID).Scan(&p.ID, &p.UserID, &p.UID, &p.UniversityName, &p.PursuingDegree, &p.CreatedAt)
		if err == nil {
			details.Researcher = &p
		}
	case models.CategoryStartup:
		var p *models.Startup
		p, err = scanStartup(s.db.Pool.QueryRow(ctx, `SELECT `+startupColumns+` FROM startups WHERE user_id = $1`, user.ID))
		if err == nil {
			details.Startup = p
		}
	default:
		return details, nil
	}

	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to load %s profile: %w", user.Category, err)
	}
	return details, nil
}

// replicateStartupProfile gives a user joining a startup team a copy of the
// team's startup profile. Users who already own a startup profile keep theirs.
func (s *ProfileService) replicateStartupProfile(ctx context.Context, q database.Querier, team *models.Team, userID uuid.UUID) error {
	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM startups WHERE user_id = $1)`, userID).Scan(&exists)
	if err != nil {
		return storeError(err, "check startup profile")
	}
	if exists {
		return nil
	}

	project, ok := team.Project.(models.StartupProject)
	if !ok || project.StartupID == uuid.Nil {
		s.log.WithField("team_id", team.ID).Warn("startup team has no startup reference, skipping profile replication")
		return nil
	}

	src, err := scanStartup(q.QueryRow(ctx, `SELECT `+startupColumns+` FROM startups WHERE id = $1`, project.StartupID))
	if errors.Is(err, pgx.ErrNoRows) {
		s.log.WithFields(logrus.Fields{
			"team_id":    team.ID,
			"startup_id": project.StartupID,
		}).Error("startup profile referenced by team is missing")
		return ErrProfileNotFound
	}
	if err != nil {
		return storeError(err, "load startup profile")
	}

	clone := models.CloneStartup(src, userID)
	if err := insertStartup(ctx, q, clone); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"team_id":    team.ID,
		"user_id":    userID,
		"source_id":  src.ID,
		"startup_id": clone.ID,
	}).Info("startup profile replicated")
	return nil
}

func scanStartup(row pgx.Row) (*models.Startup, error) {
	var p models.Startup
	err := row.Scan(
		&p.ID, &p.UserID, &p.StartupName, &p.Website, &p.StartupSector, &p.Stage, &p.City, &p.TeamSize,
		&p.FounderName, &p.FounderEmail, &p.FounderUID, &p.FounderPhone, &p.Description, &p.ProblemSolving, &p.UVP,
		&p.PitchDeckLink, &p.IsFunded, &p.FundedBy, &p.EventExpectations, &p.AdditionalInfo, &p.ClonedFromID,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func insertStartup(ctx context.Context, q database.Querier, p *models.Startup) error {
	err := q.QueryRow(ctx, `
		INSERT INTO startups (user_id, startup_name, website, startup_sector, stage, city, team_size,
			founder_name, founder_email, founder_uid, founder_phone, description, problem_solving, uvp,
			pitch_deck_link, is_funded, funded_by, event_expectations, additional_info, cloned_from_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id, created_at, updated_at
	`, p.UserID, p.StartupName, p.Website, p.StartupSector, p.Stage, p.City, p.TeamSize,
		p.FounderName, p.FounderEmail, p.FounderUID, p.FounderPhone, p.Description, p.ProblemSolving, p.UVP,
		p.PitchDeckLink, p.IsFunded, p.FundedBy, p.EventExpectations, p.AdditionalInfo, p.ClonedFromID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return profileInsertError(err, "startups", "founder_uid")
}

func checkUID(field, uid string) error {
	if len(strings.TrimSpace(uid)) != models.UIDLength {
		return models.NewValidationError(field, "UID/Aadhar must be 12 characters long")
	}
	return nil
}

func profileInsertError(err error, table, uidField string) error {
	switch {
	case err == nil:
		return nil
	case database.IsUniqueViolation(err, table+"_user_key"):
		return ErrProfileExists
	case database.IsUniqueViolation(err, table+"_uid_key"),
		database.IsUniqueViolation(err, table+"_founder_uid_key"):
		return models.NewValidationError(uidField, "UID/Aadhar must be unique. This UID/Aadhar is already registered.")
	default:
		return storeError(err, "create profile")
	}
}
