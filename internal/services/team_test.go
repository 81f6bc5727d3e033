package services

import (
	"context"
	"testing"
	"time"

	"github.com/dimitrije/hackteam-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTeamService(t *testing.T, codeAttempts int) (*TeamService, pgxmock.PgxPoolIface) {
	t.Helper()
	db, mock := newMockDB(t)
	log, _ := newTestLogger()
	return NewTeamService(db, log, codeAttempts), mock
}

func collegeInput(members []uuid.UUID, catID, psID uuid.UUID) CreateTeamInput {
	return CreateTeamInput{
		Name:       "Byte Me",
		Department: "CSE",
		MemberIDs:  members,
		Project: models.ProjectInput{
			CategoryID:         &catID,
			ProblemStatementID: &psID,
			IdeaName:           "Smart Bins",
			IdeaDesc:           "Waste sorting",
		},
	}
}

func expectCreatePrelude(mock pgxmock.PgxPoolIface, leaderID uuid.UUID, members []uuid.UUID) {
	mock.ExpectBeginTx(serializable)
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM team_seats WHERE user_id`).
		WithArgs(leaderID).
		WillReturnRows(existsRows(false))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WithArgs(members).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(len(members)))
	mock.ExpectQuery(`SELECT user_id FROM team_seats WHERE user_id = ANY`).
		WithArgs(members).
		WillReturnRows(pgxmock.NewRows([]string{"user_id"}))
}

func TestTeamService_Create_College(t *testing.T) {
	svc, mock := setupTeamService(t, 3)
	ctx := context.Background()
	leader := models.Principal{ID: uuid.New(), Category: models.CategoryCollege, IsKietian: true}
	m1, m2 := uuid.New(), uuid.New()
	members := []uuid.UUID{m1, m2}
	catID, psID := uuid.New(), uuid.New()
	teamID := uuid.New()
	now := time.Now()

	expectCreatePrelude(mock, leader.ID, members)
	mock.ExpectQuery(`FROM problem_statements WHERE id`).
		WithArgs(psID, catID).
		WillReturnRows(existsRows(true))
	mock.ExpectQuery(`FROM teams WHERE team_code`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(existsRows(false))
	mock.ExpectQuery(`INSERT INTO teams`).
		WithArgs("Byte Me", pgxmock.AnyArg(), leader.ID, "college", true, "CSE", 3, 2,
			&catID, &psID, (*uuid.UUID)(nil), (*uuid.UUID)(nil), stringRef("Smart Bins"), stringRef("Waste sorting")).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(teamID, now, now))
	mock.ExpectExec(`INSERT INTO team_seats`).
		WithArgs(leader.ID, teamID, 0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	for i, m := range members {
		mock.ExpectQuery(`INSERT INTO team_requests`).
			WithArgs(teamID, leader.ID, m).
			WillReturnRows(pgxmock.NewRows([]string{"id", "seq", "created_at", "updated_at"}).
				AddRow(uuid.New(), int64(i+1), now, now))
	}
	mock.ExpectCommit()

	result, err := svc.Create(ctx, leader, collegeInput(members, catID, psID))

	require.NoError(t, err)
	assert.Equal(t, teamID, result.Team.ID)
	assert.Equal(t, 3, result.Team.Size)
	assert.Equal(t, 2, result.Team.RequestsCount)
	assert.False(t, result.Team.IsCompleted)
	assert.True(t, result.Team.IsKietian)
	assert.Regexp(t, `^CL-[1-9][0-9]{3}$`, result.Team.Code)
	require.Len(t, result.Requests, 2)
	for i, req := range result.Requests {
		assert.Equal(t, members[i], req.RequestedToID)
		assert.Equal(t, leader.ID, req.RequestedByID)
		assert.Equal(t, models.RequestPending, req.Status)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_Create_RetriesTeamCode(t *testing.T) {
	svc, mock := setupTeamService(t, 3)
	ctx := context.Background()
	leader := models.Principal{ID: uuid.New(), Category: models.CategoryResearcher}
	member := uuid.New()
	members := []uuid.UUID{member}
	teamID := uuid.New()
	now := time.Now()

	expectCreatePrelude(mock, leader.ID, members)
	mock.ExpectQuery(`FROM teams WHERE team_code`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(existsRows(true))
	mock.ExpectQuery(`FROM teams WHERE team_code`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(existsRows(false))
	mock.ExpectQuery(`INSERT INTO teams`).
		WithArgs("Lab Rats", pgxmock.AnyArg(), leader.ID, "researcher", false, "Biotech", 2, 1,
			(*uuid.UUID)(nil), (*uuid.UUID)(nil), (*uuid.UUID)(nil), (*uuid.UUID)(nil),
			stringRef("Protein folding"), stringRef("Faster folding")).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(teamID, now, now))
	mock.ExpectExec(`INSERT INTO team_seats`).
		WithArgs(leader.ID, teamID, 0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(`INSERT INTO team_requests`).
		WithArgs(teamID, leader.ID, member).
		WillReturnRows(pgxmock.NewRows([]string{"id", "seq", "created_at", "updated_at"}).AddRow(uuid.New(), int64(1), now, now))
	mock.ExpectCommit()

	result, err := svc.Create(ctx, leader, CreateTeamInput{
		Name:       "Lab Rats",
		Department: "Biotech",
		Size:       2,
		MemberIDs:  members,
		Project:    models.ProjectInput{IdeaName: "Protein folding", IdeaDesc: "Faster folding"},
	})

	require.NoError(t, err)
	assert.Regexp(t, `^Rh-[1-9][0-9]{3}$`, result.Team.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_Create_TeamCodeExhausted(t *testing.T) {
	svc, mock := setupTeamService(t, 2)
	ctx := context.Background()
	leader := models.Principal{ID: uuid.New(), Category: models.CategoryResearcher}
	members := []uuid.UUID{uuid.New()}

	expectCreatePrelude(mock, leader.ID, members)
	mock.ExpectQuery(`FROM teams WHERE team_code`).WithArgs(pgxmock.AnyArg()).WillReturnRows(existsRows(true))
	mock.ExpectQuery(`FROM teams WHERE team_code`).WithArgs(pgxmock.AnyArg()).WillReturnRows(existsRows(true))
	mock.ExpectRollback()

	_, err := svc.Create(ctx, leader, CreateTeamInput{
		Name:       "Lab Rats",
		Department: "Biotech",
		MemberIDs:  members,
		Project:    models.ProjectInput{IdeaName: "a", IdeaDesc: "b"},
	})

	assert.ErrorIs(t, err, ErrTeamCodeExhausted)
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_Create_LeaderSeated(t *testing.T) {
	svc, mock := setupTeamService(t, 3)
	ctx := context.Background()
	leader := models.Principal{ID: uuid.New(), Category: models.CategoryCollege}
	catID, psID := uuid.New(), uuid.New()

	mock.ExpectBeginTx(serializable)
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM team_seats WHERE user_id`).
		WithArgs(leader.ID).
		WillReturnRows(existsRows(true))
	mock.ExpectRollback()

	_, err := svc.Create(ctx, leader, collegeInput([]uuid.UUID{uuid.New()}, catID, psID))

	assert.ErrorIs(t, err, ErrLeaderSeated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_Create_MemberSeated(t *testing.T) {
	svc, mock := setupTeamService(t, 3)
	ctx := context.Background()
	leader := models.Principal{ID: uuid.New(), Category: models.CategoryCollege}
	m1, m2 := uuid.New(), uuid.New()
	members := []uuid.UUID{m1, m2}
	catID, psID := uuid.New(), uuid.New()

	mock.ExpectBeginTx(serializable)
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM team_seats WHERE user_id`).
		WithArgs(leader.ID).
		WillReturnRows(existsRows(false))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WithArgs(members).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT user_id FROM team_seats WHERE user_id = ANY`).
		WithArgs(members).
		WillReturnRows(pgxmock.NewRows([]string{"user_id"}).AddRow(m2))
	mock.ExpectRollback()

	_, err := svc.Create(ctx, leader, collegeInput(members, catID, psID))

	assert.ErrorIs(t, err, ErrMembersSeated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_Create_UnknownMember(t *testing.T) {
	svc, mock := setupTeamService(t, 3)
	ctx := context.Background()
	leader := models.Principal{ID: uuid.New(), Category: models.CategoryCollege}
	members := []uuid.UUID{uuid.New(), uuid.New()}
	catID, psID := uuid.New(), uuid.New()

	mock.ExpectBeginTx(serializable)
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM team_seats WHERE user_id`).
		WithArgs(leader.ID).
		WillReturnRows(existsRows(false))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WithArgs(members).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	_, err := svc.Create(ctx, leader, collegeInput(members, catID, psID))

	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "memberUserIds", ve.Field)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_Create_StartupNotOwnedByLeader(t *testing.T) {
	svc, mock := setupTeamService(t, 3)
	ctx := context.Background()
	leader := models.Principal{ID: uuid.New(), Category: models.CategoryStartup}
	members := []uuid.UUID{uuid.New()}
	startupID := uuid.New()

	expectCreatePrelude(mock, leader.ID, members)
	mock.ExpectQuery(`FROM startups WHERE id`).
		WithArgs(startupID, leader.ID).
		WillReturnRows(existsRows(false))
	mock.ExpectRollback()

	_, err := svc.Create(ctx, leader, CreateTeamInput{
		Name:       "GreenGrid",
		Department: "Biotech",
		MemberIDs:  members,
		Project:    models.ProjectInput{StartupID: &startupID},
	})

	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "startupId", ve.Field)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_Create_LeaderSeatRace(t *testing.T) {
	svc, mock := setupTeamService(t, 3)
	ctx := context.Background()
	leader := models.Principal{ID: uuid.New(), Category: models.CategoryResearcher}
	members := []uuid.UUID{uuid.New()}
	teamID := uuid.New()
	now := time.Now()

	expectCreatePrelude(mock, leader.ID, members)
	mock.ExpectQuery(`FROM teams WHERE team_code`).WithArgs(pgxmock.AnyArg()).WillReturnRows(existsRows(false))
	mock.ExpectQuery(`INSERT INTO teams`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(teamID, now, now))
	mock.ExpectExec(`INSERT INTO team_seats`).
		WithArgs(leader.ID, teamID, 0).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "team_seats_pkey"})
	mock.ExpectRollback()

	_, err := svc.Create(ctx, leader, CreateTeamInput{
		Name:       "Lab Rats",
		Department: "Biotech",
		MemberIDs:  members,
		Project:    models.ProjectInput{IdeaName: "a", IdeaDesc: "b"},
	})

	assert.ErrorIs(t, err, ErrLeaderSeated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_Create_InvalidInput(t *testing.T) {
	leaderID := uuid.New()
	member := uuid.New()
	catID, psID := uuid.New(), uuid.New()

	tests := []struct {
		name     string
		category models.ParticipationCategory
		in       CreateTeamInput
		field    string
	}{
		{"blank name", models.CategoryCollege, CreateTeamInput{Name: "  ", MemberIDs: []uuid.UUID{member}}, "teamName"},
		{"blank department", models.CategoryCollege, CreateTeamInput{Name: "x", Department: " ", MemberIDs: []uuid.UUID{member}}, "department"},
		{"no members", models.CategoryCollege, CreateTeamInput{Name: "x", Department: "d"}, "memberUserIds"},
		{"too many members", models.CategoryResearcher, CreateTeamInput{Name: "x", Department: "d", MemberIDs: []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New()}}, "memberUserIds"},
		{"self invite", models.CategoryResearcher, CreateTeamInput{Name: "x", Department: "d", MemberIDs: []uuid.UUID{leaderID}}, "memberUserIds"},
		{"duplicate member", models.CategoryResearcher, CreateTeamInput{Name: "x", Department: "d", MemberIDs: []uuid.UUID{member, member}}, "memberUserIds"},
		{"size mismatch", models.CategoryResearcher, CreateTeamInput{Name: "x", Department: "d", Size: 4, MemberIDs: []uuid.UUID{member}}, "teamSize"},
		{"college without idea", models.CategoryCollege, CreateTeamInput{Name: "x", Department: "d", MemberIDs: []uuid.UUID{member}, Project: models.ProjectInput{CategoryID: &catID, ProblemStatementID: &psID}}, "inovationIdeaName"},
		{"startup without startup", models.CategoryStartup, CreateTeamInput{Name: "x", Department: "d", MemberIDs: []uuid.UUID{member}}, "startupId"},
		{"no category", "", CreateTeamInput{Name: "x", Department: "d", MemberIDs: []uuid.UUID{member}}, "participationCategory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mock := setupTeamService(t, 3)
			leader := models.Principal{ID: leaderID, Category: tt.category}

			_, err := svc.Create(context.Background(), leader, tt.in)

			var ve *models.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTeamService_GetByID_NonMember(t *testing.T) {
	svc, mock := setupTeamService(t, 3)
	ctx := context.Background()
	teamID, userID := uuid.New(), uuid.New()

	mock.ExpectQuery(`FROM team_seats WHERE team_id = \$1 AND user_id = \$2`).
		WithArgs(teamID, userID).
		WillReturnRows(existsRows(false))

	_, err := svc.GetByID(ctx, teamID, userID)

	assert.ErrorIs(t, err, ErrTeamNotFound)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_GetTeamForUser_NotSeated(t *testing.T) {
	svc, mock := setupTeamService(t, 3)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT team_id FROM team_seats WHERE user_id`).
		WithArgs(userID).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetTeamForUser(context.Background(), userID)

	assert.ErrorIs(t, err, ErrTeamNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_GetTeamForUser(t *testing.T) {
	svc, mock := setupTeamService(t, 3)
	ctx := context.Background()
	leader := testUser(models.CategoryResearcher)
	member := testUser(models.CategoryResearcher)
	now := time.Now()
	team := &models.Team{
		ID:            uuid.New(),
		Name:          "Lab Rats",
		Code:          "Rh-1234",
		LeaderID:      leader.ID,
		Category:      models.CategoryResearcher,
		Size:          3,
		RequestsCount: 2,
		Project:       models.ResearcherProject{IdeaName: "n", IdeaDesc: "d"},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	pendingTo := uuid.New()

	mock.ExpectQuery(`SELECT team_id FROM team_seats WHERE user_id`).
		WithArgs(member.ID).
		WillReturnRows(pgxmock.NewRows([]string{"team_id"}).AddRow(team.ID))
	mock.ExpectQuery(`FROM teams WHERE id = \$1$`).
		WithArgs(team.ID).
		WillReturnRows(teamRows(team))
	mock.ExpectQuery(`SELECT user_id, slot FROM team_seats`).
		WithArgs(team.ID).
		WillReturnRows(seatRows(map[int]uuid.UUID{1: member.ID}))
	mock.ExpectQuery(`FROM users WHERE id = ANY`).
		WithArgs([]uuid.UUID{leader.ID, member.ID}).
		WillReturnRows(userRows(leader, member))
	mock.ExpectQuery(`FROM team_requests r`).
		WithArgs(team.ID).
		WillReturnRows(requestListRows().
			AddRow(uuid.New(), int64(2), team.ID, leader.ID, pendingTo, "pending", now, now,
				team.Name, team.Code, "researcher", 3, "Pending Person", "p@example.com", "INO222222").
			AddRow(uuid.New(), int64(1), team.ID, leader.ID, member.ID, "accepted", now, now,
				team.Name, team.Code, "researcher", 3, member.Name, member.Email, member.UserCode))

	details, err := svc.GetTeamForUser(ctx, member.ID)

	require.NoError(t, err)
	assert.Equal(t, team.ID, details.Team.ID)
	assert.Equal(t, member.ID, details.Team.Slot(1))
	assert.False(t, details.Team.IsCompleted)
	require.NotNil(t, details.Leader)
	assert.Equal(t, leader.ID, details.Leader.ID)
	require.Len(t, details.Members, 1)
	assert.Equal(t, member.ID, details.Members[0].ID)
	require.Len(t, details.Requests, 2)
	assert.Equal(t, pendingTo, details.Requests[0].RequestedTo.ID)
	assert.Equal(t, models.RequestAccepted, details.Requests[1].Status)
	assert.Equal(t, models.ResearcherProject{IdeaName: "n", IdeaDesc: "d"}, details.Team.Project)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func requestListRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "seq", "team_id", "requested_by_id", "requested_to_id", "status", "created_at", "updated_at",
		"team_name", "team_code", "participation_category", "team_size",
		"name", "email", "user_code",
	})
}
