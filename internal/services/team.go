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

const teamColumns = `id, team_name, team_code, leader_user_id, participation_category, is_kietian,
		department, team_size, is_completed, requests_count,
		category_id, problem_statement_id, startup_id, school_student_id,
		inovation_idea_name, inovation_idea_desc, created_at, updated_at`

type TeamService struct {
	db           *database.DB
	seats        *MembershipIndex
	log          logrus.FieldLogger
	codeAttempts int
}

func NewTeamService(db *database.DB, log logrus.FieldLogger, codeAttempts int) *TeamService {
	if codeAttempts < 1 {
		codeAttempts = 1
	}
	return &TeamService{db: db, seats: NewMembershipIndex(db), log: log, codeAttempts: codeAttempts}
}

type CreateTeamInput struct {
	Name       string
	Department string
	// Size is optional; when set it must equal len(MemberIDs)+1.
	Size      int
	MemberIDs []uuid.UUID
	Project   models.ProjectInput
}

type CreateTeamResult struct {
	Team     *models.Team
	Requests []models.TeamRequest
}

func scanTeam(row pgx.Row) (*models.Team, error) {
	var team models.Team
	var category string
	var cols models.ProjectColumns
	err := row.Scan(
		&team.ID, &team.Name, &team.Code, &team.LeaderID, &category, &team.IsKietian,
		&team.Department, &team.Size, &team.IsCompleted, &team.RequestsCount,
		&cols.CategoryID, &cols.ProblemStatementID, &cols.StartupID, &cols.SchoolStudentID,
		&cols.IdeaName, &cols.IdeaDesc, &team.CreatedAt, &team.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	team.Category = models.ParticipationCategory(category)
	team.Project = models.ProjectFromColumns(team.Category, cols)
	return &team, nil
}

// Create forms a team led by the caller and sends one pending request per
// invited user. Either everything is written or nothing is.
func (s *TeamService) Create(ctx context.Context, leader models.Principal, in CreateTeamInput) (*CreateTeamResult, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, models.NewValidationError("teamName", "team name is required")
	}

	department := strings.TrimSpace(in.Department)
	if department == "" {
		return nil, models.NewValidationError("department", "department is required")
	}

	members, err := normalizeMembers(leader.ID, in.MemberIDs)
	if err != nil {
		return nil, err
	}

	size := len(members) + 1
	if in.Size != 0 && in.Size != size {
		return nil, models.NewValidationError("teamSize", "team size must equal the number of invited members plus the leader")
	}

	project, err := models.NewProjectBinding(leader.Category, in.Project)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Serializable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	seated, err := isSeated(ctx, tx, leader.ID)
	if err != nil {
		return nil, err
	}
	if seated {
		return nil, ErrLeaderSeated
	}

	var found int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE id = ANY($1)`, members).Scan(&found); err != nil {
		return nil, storeError(err, "look up invited users")
	}
	if found != len(members) {
		return nil, models.NewValidationError("memberUserIds", "one or more invited users do not exist")
	}

	taken, err := seatedUserIDs(ctx, tx, members)
	if err != nil {
		return nil, err
	}
	if len(taken) > 0 {
		return nil, ErrMembersSeated
	}

	if err := checkProjectReferences(ctx, tx, leader.ID, project); err != nil {
		return nil, err
	}

	code, err := s.allocateTeamCode(ctx, tx, leader.Category)
	if err != nil {
		return nil, err
	}

	team := &models.Team{
		Name:          name,
		Code:          code,
		LeaderID:      leader.ID,
		Category:      leader.Category,
		IsKietian:     leader.IsKietian,
		Department:    department,
		Size:          size,
		RequestsCount: len(members),
		Project:       project,
	}
	cols := project.Columns()

	err = tx.QueryRow(ctx, `
		INSERT INTO teams (team_name, team_code, leader_user_id, participation_category, is_kietian,
			department, team_size, requests_count,
			category_id, problem_statement_id, startup_id, school_student_id,
			inovation_idea_name, inovation_idea_desc)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at
	`, team.Name, team.Code, team.LeaderID, string(team.Category), team.IsKietian,
		team.Department, team.Size, team.RequestsCount,
		cols.CategoryID, cols.ProblemStatementID, cols.StartupID, cols.SchoolStudentID,
		cols.IdeaName, cols.IdeaDesc,
	).Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt)
	if database.IsUniqueViolation(err, "teams_team_code_key") {
		return nil, ErrConcurrentUpdate
	}
	if err != nil {
		return nil, storeError(err, "create team")
	}

	if err := seatUser(ctx, tx, team.ID, leader.ID, 0); err != nil {
		if errors.Is(err, ErrAlreadySeated) {
			return nil, ErrLeaderSeated
		}
		return nil, err
	}

	requests := make([]models.TeamRequest, 0, len(members))
	for _, memberID := range members {
		req := models.TeamRequest{
			TeamID:        team.ID,
			RequestedByID: leader.ID,
			RequestedToID: memberID,
			Status:        models.RequestPending,
		}
		err := tx.QueryRow(ctx, `
			INSERT INTO team_requests (team_id, requested_by_id, requested_to_id)
			VALUES ($1, $2, $3)
			RETURNING id, seq, created_at, updated_at
		`, team.ID, leader.ID, memberID).Scan(&req.ID, &req.Seq, &req.CreatedAt, &req.UpdatedAt)
		if err != nil {
			return nil, storeError(err, "create request")
		}
		requests = append(requests, req)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storeError(err, "commit transaction")
	}

	s.log.WithFields(logrus.Fields{
		"team_id":   team.ID,
		"team_code": team.Code,
		"leader_id": leader.ID,
		"requests":  len(requests),
	}).Info("team created")

	return &CreateTeamResult{Team: team, Requests: requests}, nil
}

func normalizeMembers(leaderID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	members := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			return nil, models.NewValidationError("memberUserIds", "member ids must be valid user ids")
		}
		if id == leaderID {
			return nil, models.NewValidationError("memberUserIds", "you cannot invite yourself")
		}
		if _, dup := seen[id]; dup {
			return nil, models.NewValidationError("memberUserIds", "each member can be invited only once")
		}
		seen[id] = struct{}{}
		members = append(members, id)
	}

	if len(members) < models.MinTeamSize-1 || len(members) > models.MaxMembers {
		return nil, models.NewValidationError("memberUserIds", "a team needs between 1 and 4 invited members")
	}
	return members, nil
}

// checkProjectReferences verifies that the records a project points at exist
// and belong where they should.
func checkProjectReferences(ctx context.Context, q database.Querier, leaderID uuid.UUID, project models.ProjectBinding) error {
	var (
		ok    bool
		err   error
		field string
		msg   string
	)

	switch p := project.(type) {
	case models.CollegeProject:
		field, msg = "problemStatementId", "problem statement does not belong to the selected category"
		err = q.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM problem_statements WHERE id = $1 AND category_id = $2)
		`, p.ProblemStatementID, p.CategoryID).Scan(&ok)
	case models.StartupProject:
		field, msg = "startupId", "startup profile not found"
		err = q.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM startups WHERE id = $1 AND user_id = $2)
		`, p.StartupID, leaderID).Scan(&ok)
	case models.SchoolProject:
		field, msg = "schoolStudentId", "school student profile not found"
		err = q.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM school_students WHERE id = $1 AND user_id = $2)
		`, p.SchoolStudentID, leaderID).Scan(&ok)
	default:
		return nil
	}

	if err != nil {
		return storeError(err, "check project references")
	}
	if !ok {
		return models.NewValidationError(field, msg)
	}
	return nil
}

func (s *TeamService) allocateTeamCode(ctx context.Context, q database.Querier, category models.ParticipationCategory) (string, error) {
	for attempt := 0; attempt < s.codeAttempts; attempt++ {
		code, err := models.NewTeamCode(category)
		if err != nil {
			return "", err
		}

		var exists bool
		err = q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM teams WHERE team_code = $1)`, code).Scan(&exists)
		if err != nil {
			return "", storeError(err, "check team code")
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrTeamCodeExhausted
}

// GetTeamForUser returns the team the user is seated in.
func (s *TeamService) GetTeamForUser(ctx context.Context, userID uuid.UUID) (*models.TeamDetails, error) {
	teamID, err := s.seats.TeamIDFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, teamID)
}

// GetByID returns a team to one of its members. Non-members get ErrTeamNotFound.
func (s *TeamService) GetByID(ctx context.Context, teamID, userID uuid.UUID) (*models.TeamDetails, error) {
	var member bool
	err := s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM team_seats WHERE team_id = $1 AND user_id = $2)
	`, teamID, userID).Scan(&member)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !member {
		return nil, ErrTeamNotFound
	}
	return s.details(ctx, teamID)
}

func (s *TeamService) details(ctx context.Context, teamID uuid.UUID) (*models.TeamDetails, error) {
	team, err := loadTeam(ctx, s.db.Pool, teamID, false)
	if err != nil {
		return nil, err
	}

	ids := append([]uuid.UUID{team.LeaderID}, team.MemberIDs()...)
	users, err := usersByID(ctx, s.db.Pool, ids)
	if err != nil {
		return nil, err
	}

	details := &models.TeamDetails{Team: team, Members: []models.User{}}
	if leader, ok := users[team.LeaderID]; ok {
		details.Leader = &leader
	}
	for _, id := range team.MemberIDs() {
		if u, ok := users[id]; ok {
			details.Members = append(details.Members, u)
		}
	}

	details.Requests, err = listRequests(ctx, s.db.Pool, `r.team_id = $1`, partyRecipient, teamID)
	if err != nil {
		return nil, err
	}
	return details, nil
}

// loadTeam reads a team and its member slots, optionally locking the team row.
func loadTeam(ctx context.Context, q database.Querier, teamID uuid.UUID, forUpdate bool) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	team, err := scanTeam(q.QueryRow(ctx, query, teamID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, storeError(err, "load team")
	}

	rows, err := q.Query(ctx, `
		SELECT user_id, slot FROM team_seats
		WHERE team_id = $1 AND slot > 0
		ORDER BY slot
	`, teamID)
	if err != nil {
		return nil, storeError(err, "load seats")
	}
	defer rows.Close()

	for rows.Next() {
		var userID uuid.UUID
		var slot int
		if err := rows.Scan(&userID, &slot); err != nil {
			return nil, err
		}
		if err := team.SetSlot(slot, userID); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return team, nil
}

// fillNextSlot seats userID in the team's first free slot. A missing slot here
// means the team filled up underneath the caller; it is logged and reported
// as a conflict.
func (s *TeamService) fillNextSlot(ctx context.Context, q database.Querier, team *models.Team, userID uuid.UUID) error {
	slot, err := team.FillNextSlot(userID)
	if errors.Is(err, models.ErrNoFreeSlot) {
		s.log.WithFields(logrus.Fields{
			"team_id": team.ID,
			"user_id": userID,
			"size":    team.Size,
			"filled":  team.FilledCount(),
		}).WithError(ErrSlotInvariant).Error("no free slot on accept")
		return ErrTeamFull
	}
	if err != nil {
		return err
	}
	return seatUser(ctx, q, team.ID, userID, slot)
}

// recomputeCompletion persists the completion flag the first time the team fills.
func recomputeCompletion(ctx context.Context, q database.Querier, team *models.Team) error {
	if !team.RecomputeCompletion() {
		return nil
	}
	_, err := q.Exec(ctx, `
		UPDATE teams SET is_completed = TRUE, updated_at = NOW()
		WHERE id = $1
	`, team.ID)
	if err != nil {
		return storeError(err, "mark team complete")
	}
	return nil
}
